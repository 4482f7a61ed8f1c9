package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCategory_KnownLabels(t *testing.T) {
	info := LookupCategory("food")
	assert.Equal(t, "Food", info.Label)
	assert.Contains(t, info.Types, "restaurant")
	assert.Contains(t, info.Keywords, "dining")
}

func TestLookupCategory_CaseInsensitive(t *testing.T) {
	assert.Equal(t, LookupCategory("nightlife"), LookupCategory("NightLife"))
	assert.Equal(t, LookupCategory("nature"), LookupCategory("  Nature "))
}

func TestLookupCategory_UnknownDegradesToRawLabel(t *testing.T) {
	info := LookupCategory("Vineyards")
	assert.Equal(t, "Vineyards", info.Label)
	assert.Equal(t, []string{"vineyards"}, info.Types)
	assert.Equal(t, []string{"vineyards"}, info.Keywords)
}

func TestCategories_DisplayOrder(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 6)

	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = c.Label
	}
	assert.Equal(t, []string{"Food", "Attractions", "Activities", "Shopping", "Nightlife", "Nature"}, labels)

	for _, c := range cats {
		assert.NotEmpty(t, c.Icon)
		assert.NotEmpty(t, c.Types)
		assert.NotEmpty(t, c.Keywords)
	}
}
