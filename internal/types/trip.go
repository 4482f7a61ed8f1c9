package types

import (
	"time"

	"github.com/google/uuid"
)

const TripDateLayout = "2006-01-02"

// Trip is one planning session: a geocoded destination plus dates and style.
// Trips live only in the in-memory session cache.
type Trip struct {
	ID          uuid.UUID   `json:"id"`
	Destination string      `json:"destination"`
	Coordinates Coordinates `json:"coordinates"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	TravelStyle TravelStyle `json:"travel_style"`
	CreatedAt   time.Time   `json:"created_at"`
}

// DurationDays counts both endpoints, matching "From" and "To" being the same
// day meaning a one-day trip.
func (t *Trip) DurationDays() int {
	days := int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

type CreateTripRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	TravelStyle string `json:"travel_style"`
}

type TripResponse struct {
	Trip         Trip `json:"trip"`
	DurationDays int  `json:"duration_days"`
}

// RecommendationsResponse is what the UI renders as cards and map markers for
// one category tab.
type RecommendationsResponse struct {
	Category    string          `json:"category"`
	Destination string          `json:"destination"`
	TravelStyle TravelStyle     `json:"travel_style"`
	Places      []EnrichedPlace `json:"places"`
	Warnings    []string        `json:"warnings,omitempty"`
	Message     string          `json:"message,omitempty"`
}
