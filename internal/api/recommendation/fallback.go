package recommendation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

var priceTerms = []string{"Budget-friendly", "Moderately priced", "Upscale", "Luxury"}

// ApplyTemplatedDescriptions fills description and highlights for every place
// from the available place data alone. Deterministic, no external calls; used
// when LLM enrichment produced no usable descriptions at all.
func ApplyTemplatedDescriptions(places []types.EnrichedPlace, category, locationName string, style types.TravelStyle) []types.EnrichedPlace {
	for i := range places {
		place := &places[i]

		ratingText := ""
		if place.Rating >= 4.5 {
			ratingText = "highly-rated"
		} else if place.Rating >= 4.0 {
			ratingText = "well-rated"
		}

		typeText := ""
		if len(place.Types) > 0 {
			placeTypes := place.Types
			if len(placeTypes) > 2 {
				placeTypes = placeTypes[:2]
			}
			readable := make([]string, len(placeTypes))
			for j, t := range placeTypes {
				readable[j] = strings.ReplaceAll(t, "_", " ")
			}
			typeText = strings.Join(readable, ", ")
		}

		styleText := ""
		if style != types.StyleAny {
			styleText = fmt.Sprintf("for %s travelers ", style)
		}

		switch {
		case ratingText != "" && typeText != "":
			place.Description = fmt.Sprintf("A %s %s in %s. Great choice %sfor %s enthusiasts.",
				ratingText, typeText, locationName, styleText, category)
		case ratingText != "":
			place.Description = fmt.Sprintf("A %s establishment in %s. Worth checking out %sduring your visit.",
				ratingText, locationName, styleText)
		default:
			place.Description = fmt.Sprintf("An interesting %s option in %s %s.", category, locationName, styleText)
		}

		var highlights []string
		if place.Rating >= 4.0 {
			highlights = append(highlights, fmt.Sprintf("Rated %s/5 by %d visitors",
				strconv.FormatFloat(place.Rating, 'g', -1, 64), place.TotalRatings))
		}
		if place.PriceLevel != nil && *place.PriceLevel >= 0 && *place.PriceLevel < len(priceTerms) {
			highlights = append(highlights, priceTerms[*place.PriceLevel])
		}
		if place.OpenNow != nil && *place.OpenNow {
			highlights = append(highlights, "Currently open for visitors")
		}
		if phrase := style.Highlight(); phrase != "" {
			highlights = append(highlights, phrase)
		}
		highlights = append(highlights, fmt.Sprintf("Located in %s", locationName))

		place.Highlights = highlights
	}
	return places
}
