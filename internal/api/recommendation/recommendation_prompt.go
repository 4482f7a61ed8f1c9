package recommendation

import (
	"encoding/json"
	"fmt"

	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

// promptPlaceLimit caps how many places are sent to the model, and
// promptTypeLimit how many type tags per place, so the request payload stays
// bounded regardless of how many places the resolver returned.
const (
	promptPlaceLimit = 10
	promptTypeLimit  = 3
)

// promptPlace is the reduced place shape embedded in the enrichment prompt.
type promptPlace struct {
	PlaceID      string   `json:"place_id"`
	Name         string   `json:"name"`
	Rating       float64  `json:"rating"`
	TotalRatings int      `json:"total_ratings"`
	Address      string   `json:"address"`
	Types        []string `json:"types"`
	PriceLevel   *int     `json:"price_level"`
}

func buildRecommendationPrompt(category, locationName string, style types.TravelStyle, places []types.EnrichedPlace) string {
	simplified := make([]promptPlace, 0, promptPlaceLimit)
	for _, p := range places {
		if len(simplified) == promptPlaceLimit {
			break
		}
		placeTypes := p.Types
		if len(placeTypes) > promptTypeLimit {
			placeTypes = placeTypes[:promptTypeLimit]
		}
		simplified = append(simplified, promptPlace{
			PlaceID:      p.PlaceID,
			Name:         p.Name,
			Rating:       p.Rating,
			TotalRatings: p.TotalRatings,
			Address:      p.Address,
			Types:        placeTypes,
			PriceLevel:   p.PriceLevel,
		})
	}
	placesData, _ := json.Marshal(simplified)

	return fmt.Sprintf(`
        You are a travel expert specializing in %s recommendations.
        Based on the following places in %s, provide brief recommendations
        aligned with a %s travel style.

        For each place, write one concise sentence describing what makes it special.
        Keep descriptions short but informative.

        Places data: %s

        FORMAT YOUR RESPONSE AS A VALID JSON OBJECT with this structure:
        {
            "recommendations": [
                {
                    "place_id": "the place_id",
                    "name": "Place Name",
                    "description": "Brief description",
                    "highlights": ["Highlight 1", "Highlight 2"]
                }
            ]
        }

        Limit to 2-3 highlights per place. Be very concise.`,
		category, locationName, style, string(placesData))
}
