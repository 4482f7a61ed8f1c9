package recommendation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

type llmRecommendation struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

type llmRecommendationList struct {
	Recommendations []llmRecommendation `json:"recommendations"`
}

// parseRecommendations turns raw model text into a place_id-keyed map. Policy:
// strict parse first; if the result is not the expected shape, one brace-scan
// recovery pass over the raw text; anything beyond that is ErrParseFailed,
// with no further guessing.
func parseRecommendations(raw string) (map[string]llmRecommendation, error) {
	var parsed llmRecommendationList
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed.Recommendations == nil {
		clean := cleanJSONResponse(raw)
		if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrParseFailed, err)
		}
	}
	if parsed.Recommendations == nil {
		return nil, fmt.Errorf("%w: response has no recommendations list", types.ErrParseFailed)
	}

	byID := make(map[string]llmRecommendation, len(parsed.Recommendations))
	for _, rec := range parsed.Recommendations {
		if rec.PlaceID == "" {
			continue
		}
		byID[rec.PlaceID] = rec
	}
	return byID, nil
}

// cleanJSONResponse strips markdown fences and extracts the first-{ to last-}
// span from model output that wraps JSON in explanatory text.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace == -1 || lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}
