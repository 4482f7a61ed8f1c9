package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

func TestApplyTemplatedDescriptions_RatingAndTypeText(t *testing.T) {
	places := []types.EnrichedPlace{
		{Name: "Top", Rating: 4.7, TotalRatings: 880, Types: []string{"tourist_attraction", "museum", "point_of_interest"}},
		{Name: "Good", Rating: 4.2, TotalRatings: 120, Types: []string{"art_gallery"}},
		{Name: "Plain", Rating: 3.5},
	}

	out := ApplyTemplatedDescriptions(places, "attractions", "Rome", types.StyleAny)

	require.Len(t, out, 3)
	assert.Equal(t, "A highly-rated tourist attraction, museum in Rome. Great choice for attractions enthusiasts.", out[0].Description)
	assert.Equal(t, "A well-rated art gallery in Rome. Great choice for attractions enthusiasts.", out[1].Description)
	assert.Equal(t, "An interesting attractions option in Rome .", out[2].Description)
}

func TestApplyTemplatedDescriptions_RatedWithoutTypes(t *testing.T) {
	places := []types.EnrichedPlace{{Name: "Spot", Rating: 4.6, TotalRatings: 40}}

	out := ApplyTemplatedDescriptions(places, "food", "Lisbon", types.StyleLuxury)

	assert.Equal(t, "A highly-rated establishment in Lisbon. Worth checking out for Luxury travelers during your visit.", out[0].Description)
}

func TestApplyTemplatedDescriptions_HighlightOrder(t *testing.T) {
	open := true
	price := 1
	places := []types.EnrichedPlace{{
		Name:         "Mercado",
		Rating:       4.5,
		TotalRatings: 230,
		PriceLevel:   &price,
		OpenNow:      &open,
	}}

	out := ApplyTemplatedDescriptions(places, "food", "Lisbon", types.StyleBudget)

	require.Len(t, out, 1)
	assert.Equal(t, []string{
		"Rated 4.5/5 by 230 visitors",
		"Moderately priced",
		"Currently open for visitors",
		"Good value for money",
		"Located in Lisbon",
	}, out[0].Highlights)
}

func TestApplyTemplatedDescriptions_MinimalPlaceStillGetsLocation(t *testing.T) {
	places := []types.EnrichedPlace{{Name: "Mystery"}}

	out := ApplyTemplatedDescriptions(places, "nature", "Oslo", types.StyleAny)

	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].Description)
	assert.Equal(t, []string{"Located in Oslo"}, out[0].Highlights)
}

func TestApplyTemplatedDescriptions_StyleHighlights(t *testing.T) {
	tests := []struct {
		style  types.TravelStyle
		phrase string
	}{
		{types.StyleBudget, "Good value for money"},
		{types.StyleMidRange, "Great balance of quality and price"},
		{types.StyleLuxury, "Premium experience"},
	}
	for _, tc := range tests {
		t.Run(string(tc.style), func(t *testing.T) {
			out := ApplyTemplatedDescriptions([]types.EnrichedPlace{{Name: "X"}}, "food", "Lyon", tc.style)
			require.Len(t, out[0].Highlights, 2)
			assert.Equal(t, tc.phrase, out[0].Highlights[0])
			assert.Equal(t, "Located in Lyon", out[0].Highlights[1])
		})
	}
}

func TestApplyTemplatedDescriptions_PriceLevelOutOfRange(t *testing.T) {
	price := 4
	out := ApplyTemplatedDescriptions([]types.EnrichedPlace{{Name: "X", PriceLevel: &price}}, "food", "Nice", types.StyleAny)
	assert.Equal(t, []string{"Located in Nice"}, out[0].Highlights, "price level 4 has no label")
}
