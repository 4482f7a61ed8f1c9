package types

import "strings"

// TravelStyle is the budget tier a traveller picked for the trip. It biases
// both the directory queries and the tone of generated descriptions.
type TravelStyle string

const (
	StyleAny      TravelStyle = "Any"
	StyleBudget   TravelStyle = "Budget"
	StyleMidRange TravelStyle = "Mid-range"
	StyleLuxury   TravelStyle = "Luxury"
)

// ParseTravelStyle normalises free-form client input. Unknown values fall
// back to StyleAny rather than failing the request.
func ParseTravelStyle(s string) TravelStyle {
	switch TravelStyle(s) {
	case StyleBudget, StyleMidRange, StyleLuxury:
		return TravelStyle(s)
	default:
		return StyleAny
	}
}

// PriceLevels returns the directory price levels allowed for the style,
// or nil for StyleAny (no filtering).
func (s TravelStyle) PriceLevels() []int {
	switch s {
	case StyleBudget:
		return []int{0, 1}
	case StyleMidRange:
		return []int{1, 2}
	case StyleLuxury:
		return []int{2, 3, 4}
	default:
		return nil
	}
}

// QueryPrefix is prepended to directory queries, e.g. "budget restaurant in Lisbon".
func (s TravelStyle) QueryPrefix() string {
	if s == StyleAny {
		return ""
	}
	return strings.ToLower(string(s)) + " "
}

// Highlight is the style-specific phrase appended to templated highlights.
func (s TravelStyle) Highlight() string {
	switch s {
	case StyleBudget:
		return "Good value for money"
	case StyleMidRange:
		return "Great balance of quality and price"
	case StyleLuxury:
		return "Premium experience"
	default:
		return ""
	}
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RawPlace is one record returned by the places directory. PriceLevel is a
// pointer because the directory omits it for many places and the travel-style
// filter must distinguish "free" from "unknown".
type RawPlace struct {
	PlaceID          string
	Name             string
	Rating           float64
	UserRatingsTotal int
	Vicinity         string
	FormattedAddress string
	Location         Coordinates
	PriceLevel       *int
	Types            []string
	OpenNow          *bool
	WeekdayText      []string
	PhotoRefs        []string
	MapURL           string
	Website          string
	Phone            string

	// SearchType tags the sub-query that discovered this place, e.g.
	// "restaurant" or "dining search".
	SearchType string
}

// RankedPlace annotates a deduplicated RawPlace with its popularity score
// (rating x rating count / 100).
type RankedPlace struct {
	RawPlace
	Score float64
}

// EnrichedPlace is the display-ready recommendation: a projected place record
// plus a generated (or templated) description and highlight list.
type EnrichedPlace struct {
	Name         string      `json:"name"`
	Rating       float64     `json:"rating"`
	TotalRatings int         `json:"total_ratings"`
	Address      string      `json:"address"`
	PlaceID      string      `json:"place_id"`
	Types        []string    `json:"types"`
	Location     Coordinates `json:"location"`
	PriceLevel   *int        `json:"price_level"`
	OpeningHours []string    `json:"opening_hours"`
	Photos       []string    `json:"photos"`
	URL          string      `json:"url"`
	Website      string      `json:"website"`
	OpenNow      *bool       `json:"open_now"`
	Description  string      `json:"description"`
	Highlights   []string    `json:"highlights"`
}
