package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTravelStyle(t *testing.T) {
	assert.Equal(t, StyleBudget, ParseTravelStyle("Budget"))
	assert.Equal(t, StyleMidRange, ParseTravelStyle("Mid-range"))
	assert.Equal(t, StyleLuxury, ParseTravelStyle("Luxury"))
	assert.Equal(t, StyleAny, ParseTravelStyle("Any"))
	assert.Equal(t, StyleAny, ParseTravelStyle("extravagant"), "unknown input degrades to Any")
	assert.Equal(t, StyleAny, ParseTravelStyle(""))
}

func TestTravelStyleQueryPrefix(t *testing.T) {
	// The prefix goes into directory queries lowercased: "budget restaurant
	// in Lisbon", never "Budget restaurant in Lisbon".
	assert.Equal(t, "budget ", StyleBudget.QueryPrefix())
	assert.Equal(t, "mid-range ", StyleMidRange.QueryPrefix())
	assert.Equal(t, "luxury ", StyleLuxury.QueryPrefix())
	assert.Equal(t, "", StyleAny.QueryPrefix())
}

func TestTravelStylePriceLevels(t *testing.T) {
	assert.Equal(t, []int{0, 1}, StyleBudget.PriceLevels())
	assert.Equal(t, []int{1, 2}, StyleMidRange.PriceLevels())
	assert.Equal(t, []int{2, 3, 4}, StyleLuxury.PriceLevels())
	assert.Nil(t, StyleAny.PriceLevels())
}
