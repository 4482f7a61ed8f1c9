package recommendation

import "strings"

// CategoryInfo maps a user-facing category label to the directory type tags
// searched for it and the free-text keywords used to top results up. Icon is
// what the UI renders on the category button.
type CategoryInfo struct {
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Types    []string `json:"types"`
	Keywords []string `json:"keywords"`
}

var categoryOrder = []string{"food", "attractions", "activities", "shopping", "nightlife", "nature"}

var categoryMapping = map[string]CategoryInfo{
	"food": {
		Label:    "Food",
		Icon:     "🍽️",
		Types:    []string{"restaurant", "cafe", "bakery", "bar", "meal_takeaway", "meal_delivery"},
		Keywords: []string{"food", "dining", "restaurants", "eat", "cuisine"},
	},
	"attractions": {
		Label:    "Attractions",
		Icon:     "🏛️",
		Types:    []string{"tourist_attraction", "museum", "art_gallery", "aquarium", "zoo", "landmark"},
		Keywords: []string{"sightseeing", "landmark", "tourist", "attractions", "visit"},
	},
	"activities": {
		Label: "Activities",
		Icon:  "🎯",
		Types: []string{"amusement_park", "movie_theater", "bowling_alley", "stadium", "park", "spa",
			"gym", "shopping_mall", "night_club", "casino"},
		Keywords: []string{"activity", "fun", "entertainment", "experience", "adventure"},
	},
	"shopping": {
		Label:    "Shopping",
		Icon:     "🛍️",
		Types:    []string{"shopping_mall", "department_store", "clothing_store", "electronics_store", "jewelry_store"},
		Keywords: []string{"shopping", "store", "mall", "buy", "shop"},
	},
	"nightlife": {
		Label:    "Nightlife",
		Icon:     "🌃",
		Types:    []string{"night_club", "bar", "movie_theater", "casino"},
		Keywords: []string{"nightlife", "night", "club", "entertainment", "evening"},
	},
	"nature": {
		Label:    "Nature",
		Icon:     "🌳",
		Types:    []string{"park", "campground", "natural_feature", "beach"},
		Keywords: []string{"nature", "outdoor", "park", "hiking", "beach"},
	},
}

// LookupCategory resolves a label case-insensitively. Unknown labels degrade
// to a single-type, single-keyword search using the raw label.
func LookupCategory(label string) CategoryInfo {
	key := strings.ToLower(strings.TrimSpace(label))
	if info, ok := categoryMapping[key]; ok {
		return info
	}
	return CategoryInfo{
		Label:    label,
		Types:    []string{key},
		Keywords: []string{key},
	}
}

// Categories returns the static category table in UI display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(categoryOrder))
	for _, key := range categoryOrder {
		out = append(out, categoryMapping[key])
	}
	return out
}
