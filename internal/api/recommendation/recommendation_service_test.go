package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/intellitravel/go-travel-recommendations/app/observability/metrics"
	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

func TestMain(m *testing.M) {
	// Instruments bind to the global (noop) meter provider in tests.
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

// MockPlacesClient is a mock implementation of PlacesClient
type MockPlacesClient struct {
	mock.Mock
}

func (m *MockPlacesClient) TextSearch(ctx context.Context, query string, location types.Coordinates, radius uint, placeType string) ([]types.RawPlace, error) {
	args := m.Called(ctx, query, location, radius, placeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RawPlace), args.Error(1)
}

func (m *MockPlacesClient) PlaceDetails(ctx context.Context, placeID string) (*types.RawPlace, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RawPlace), args.Error(1)
}

// MockAIClient is a mock implementation of AIClient
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestDedupePlaces(t *testing.T) {
	results := []types.RawPlace{
		{PlaceID: "A", Name: "First A", SearchType: "restaurant"},
		{PlaceID: "B", Name: "B"},
		{PlaceID: "A", Name: "Second A", SearchType: "cafe"},
		{PlaceID: "C", Name: "C"},
		{PlaceID: "B", Name: "Second B"},
	}

	unique := dedupePlaces(results)

	require.Len(t, unique, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{unique[0].PlaceID, unique[1].PlaceID, unique[2].PlaceID})
	// First-seen wins.
	assert.Equal(t, "First A", unique[0].Name)
	assert.Equal(t, "restaurant", unique[0].SearchType)
}

func TestFilterByStyle(t *testing.T) {
	priced := func(id string, level int) types.RawPlace {
		return types.RawPlace{PlaceID: id, PriceLevel: intPtr(level)}
	}
	unpriced := func(id string) types.RawPlace {
		return types.RawPlace{PlaceID: id}
	}

	t.Run("Any style skips filtering", func(t *testing.T) {
		input := []types.RawPlace{priced("A", 4), unpriced("B")}
		assert.Equal(t, input, filterByStyle(input, types.StyleAny))
	})

	t.Run("Matching prices win over unpriced places", func(t *testing.T) {
		input := []types.RawPlace{priced("A", 1), unpriced("B"), priced("C", 4)}
		out := filterByStyle(input, types.StyleBudget)
		require.Len(t, out, 1)
		assert.Equal(t, "A", out[0].PlaceID)
	})

	t.Run("No matches falls back to the full set", func(t *testing.T) {
		input := []types.RawPlace{priced("A", 4), unpriced("B")}
		out := filterByStyle(input, types.StyleBudget)
		assert.Equal(t, input, out, "filtering must never empty the result set")
	})

	t.Run("Luxury allows levels 2 to 4", func(t *testing.T) {
		input := []types.RawPlace{priced("A", 0), priced("B", 2), priced("C", 4)}
		out := filterByStyle(input, types.StyleLuxury)
		require.Len(t, out, 2)
		assert.Equal(t, "B", out[0].PlaceID)
		assert.Equal(t, "C", out[1].PlaceID)
	})
}

func TestRankByPopularity(t *testing.T) {
	p1 := types.RawPlace{PlaceID: "P1", Rating: 4.8, UserRatingsTotal: 500}
	p2 := types.RawPlace{PlaceID: "P2", Rating: 4.0, UserRatingsTotal: 100}
	unrated := types.RawPlace{PlaceID: "P3"}

	ranked := rankByPopularity([]types.RawPlace{unrated, p2, p1})

	require.Len(t, ranked, 3)
	assert.Equal(t, "P1", ranked[0].PlaceID)
	assert.InDelta(t, 24.0, ranked[0].Score, 1e-9)
	assert.Equal(t, "P2", ranked[1].PlaceID)
	assert.InDelta(t, 4.0, ranked[1].Score, 1e-9)
	assert.Equal(t, "P3", ranked[2].PlaceID)
	assert.Zero(t, ranked[2].Score)
}

func TestRankByPopularity_StableTies(t *testing.T) {
	a := types.RawPlace{PlaceID: "A", Rating: 4.0, UserRatingsTotal: 100}
	b := types.RawPlace{PlaceID: "B", Rating: 4.0, UserRatingsTotal: 100}
	c := types.RawPlace{PlaceID: "C", Rating: 4.0, UserRatingsTotal: 100}

	ranked := rankByPopularity([]types.RawPlace{a, b, c})

	assert.Equal(t, []string{"A", "B", "C"},
		[]string{ranked[0].PlaceID, ranked[1].PlaceID, ranked[2].PlaceID},
		"ties must preserve discovery order")
}

func TestOverlayDetail(t *testing.T) {
	summary := types.RawPlace{
		PlaceID:  "A",
		Name:     "Summary Name",
		Rating:   4.2,
		Vicinity: "Near the square",
	}
	detail := &types.RawPlace{
		Name:             "Detailed Name",
		FormattedAddress: "1 Main St, Lisbon",
		Website:          "https://example.com",
		PriceLevel:       intPtr(2),
		OpenNow:          boolPtr(true),
	}

	overlayDetail(&summary, detail)

	assert.Equal(t, "Detailed Name", summary.Name)
	assert.Equal(t, "1 Main St, Lisbon", summary.FormattedAddress)
	assert.Equal(t, "https://example.com", summary.Website)
	assert.Equal(t, 2, *summary.PriceLevel)
	assert.True(t, *summary.OpenNow)
	// Fields the detail record did not carry stay untouched.
	assert.Equal(t, 4.2, summary.Rating)
	assert.Equal(t, "Near the square", summary.Vicinity)
}

func TestGetRecommendations_BudgetScenario(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlacesClient)
	mockAI := new(MockAIClient)

	placeA := types.RawPlace{PlaceID: "A", Name: "Tasca do Chico", Rating: 4.6, UserRatingsTotal: 200, PriceLevel: intPtr(1), Types: []string{"restaurant"}}
	placeB := types.RawPlace{PlaceID: "B", Name: "Cafe B", Rating: 3.9, UserRatingsTotal: 50, Types: []string{"cafe"}}
	placeC := placeA // duplicate identifier from another sub-query

	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]types.RawPlace{placeA, placeB, placeC}, nil)
	mockPlaces.On("PlaceDetails", mock.Anything, "A").
		Return(nil, types.ErrProviderUnavailable)
	mockAI.On("GenerateContent", mock.Anything, mock.Anything).
		Return(`{"recommendations":[{"place_id":"A","name":"Tasca do Chico","description":"A beloved fado tavern.","highlights":["Live fado","Petiscos"]}]}`, nil)

	service := NewServiceImpl(mockPlaces, mockAI, 5000, 15, testLogger())
	places, warnings, err := service.GetRecommendations(ctx, "food", "Lisbon", types.Coordinates{Lat: 38.72, Lng: -9.14}, types.StyleBudget)

	require.NoError(t, err)
	// Dedupe leaves {A, B}; the Budget price filter keeps only A.
	require.Len(t, places, 1)
	assert.Equal(t, "A", places[0].PlaceID)
	assert.Equal(t, "A beloved fado tavern.", places[0].Description)
	assert.Equal(t, []string{"Live fado", "Petiscos"}, places[0].Highlights)
	// Detail fetch failed but the place survived on its summary record.
	assert.NotEmpty(t, warnings)
	mockAI.AssertNumberOfCalls(t, "GenerateContent", 1)
}

func TestGetRecommendations_LLMFailureFallsBackToTemplates(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlacesClient)
	mockAI := new(MockAIClient)

	placeA := types.RawPlace{PlaceID: "A", Name: "Museu A", Rating: 4.7, UserRatingsTotal: 900, Types: []string{"museum", "tourist_attraction"}}
	placeB := types.RawPlace{PlaceID: "B", Name: "Galeria B", Rating: 4.1, UserRatingsTotal: 120, Types: []string{"art_gallery"}}

	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]types.RawPlace{placeA, placeB}, nil)
	mockPlaces.On("PlaceDetails", mock.Anything, mock.Anything).
		Return(nil, types.ErrProviderUnavailable)
	mockAI.On("GenerateContent", mock.Anything, mock.Anything).
		Return("", errors.New("model overloaded"))

	service := NewServiceImpl(mockPlaces, mockAI, 5000, 15, testLogger())
	places, _, err := service.GetRecommendations(ctx, "attractions", "Porto", types.Coordinates{}, types.StyleAny)

	require.NoError(t, err)
	require.Len(t, places, 2)
	for _, p := range places {
		assert.NotEmpty(t, p.Description, "every place gets a templated description")
		require.NotEmpty(t, p.Highlights)
		assert.Equal(t, "Located in Porto", p.Highlights[len(p.Highlights)-1])
	}
	assert.Equal(t, "A", places[0].PlaceID, "fallback keeps ranking order")
}

func TestGetRecommendations_PartialLLMCoverageIsKept(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlacesClient)
	mockAI := new(MockAIClient)

	placeA := types.RawPlace{PlaceID: "A", Name: "Bar A", Rating: 4.5, UserRatingsTotal: 300, Types: []string{"bar"}}
	placeB := types.RawPlace{PlaceID: "B", Name: "Club B", Rating: 4.2, UserRatingsTotal: 150, Types: []string{"night_club"}}

	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]types.RawPlace{placeA, placeB}, nil)
	mockPlaces.On("PlaceDetails", mock.Anything, mock.Anything).
		Return(nil, types.ErrProviderUnavailable)
	mockAI.On("GenerateContent", mock.Anything, mock.Anything).
		Return(`{"recommendations":[{"place_id":"A","name":"Bar A","description":"Classic cocktail bar.","highlights":["Cocktails"]}]}`, nil)

	service := NewServiceImpl(mockPlaces, mockAI, 5000, 15, testLogger())
	places, _, err := service.GetRecommendations(ctx, "nightlife", "Berlin", types.Coordinates{}, types.StyleAny)

	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Classic cocktail bar.", places[0].Description)
	// Uncovered place gets empty description; the full fallback is not triggered.
	assert.Empty(t, places[1].Description)
	assert.Empty(t, places[1].Highlights)
}

func TestGetRecommendations_KeywordTopUpAfterThinType(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlacesClient)
	mockAI := new(MockAIClient)

	rated := func(ids ...string) []types.RawPlace {
		out := make([]types.RawPlace, len(ids))
		for i, id := range ids {
			out[i] = types.RawPlace{PlaceID: id, Name: id, Rating: 4.0, UserRatingsTotal: 100}
		}
		return out
	}

	// Nature searches four types. The first comes back thin (2 < 5) even
	// though later types push the total well past the threshold, so the
	// keyword searches must still run.
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "park").
		Return(rated("P1", "P2"), nil)
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "campground").
		Return(rated("C1", "C2"), nil)
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "natural_feature").
		Return(rated("N1", "N2"), nil)
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "beach").
		Return(rated("B1"), nil)
	// Keyword searches are untyped; every keyword finds the same place.
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").
		Return(rated("K1"), nil)
	mockPlaces.On("PlaceDetails", mock.Anything, mock.Anything).
		Return(nil, types.ErrProviderUnavailable)
	mockAI.On("GenerateContent", mock.Anything, mock.Anything).
		Return("", errors.New("unavailable"))

	service := NewServiceImpl(mockPlaces, mockAI, 5000, 15, testLogger())
	places, _, err := service.GetRecommendations(ctx, "nature", "Oslo", types.Coordinates{}, types.StyleBudget)

	require.NoError(t, err)
	// Keyword results splice in right after the thin type; scores tie, so the
	// stable ranking preserves that discovery order.
	require.Len(t, places, 8)
	got := make([]string, len(places))
	for i, p := range places {
		got[i] = p.PlaceID
	}
	assert.Equal(t, []string{"P1", "P2", "K1", "C1", "C2", "N1", "N2", "B1"}, got)
	// Queries carry the lowercased style prefix.
	mockPlaces.AssertCalled(t, "TextSearch", mock.Anything, "budget park in Oslo", mock.Anything, mock.Anything, "park")
	mockPlaces.AssertCalled(t, "TextSearch", mock.Anything, "budget hiking in Oslo", mock.Anything, mock.Anything, "")
}

func TestGetRecommendations_NoKeywordTopUpWhenFirstTypeRich(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlacesClient)
	mockAI := new(MockAIClient)

	var first []types.RawPlace
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		first = append(first, types.RawPlace{PlaceID: id, Name: id, Rating: 4.0, UserRatingsTotal: 100})
	}
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "night_club").
		Return(first, nil)
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "bar").
		Return([]types.RawPlace{}, nil)
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "movie_theater").
		Return([]types.RawPlace{}, nil)
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "casino").
		Return([]types.RawPlace{}, nil)
	mockPlaces.On("PlaceDetails", mock.Anything, mock.Anything).
		Return(nil, types.ErrProviderUnavailable)
	mockAI.On("GenerateContent", mock.Anything, mock.Anything).
		Return("", errors.New("unavailable"))

	service := NewServiceImpl(mockPlaces, mockAI, 5000, 15, testLogger())
	places, _, err := service.GetRecommendations(ctx, "nightlife", "Berlin", types.Coordinates{}, types.StyleAny)

	require.NoError(t, err)
	assert.Len(t, places, 5)
	mockPlaces.AssertNotCalled(t, "TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "")
}

func TestGetRecommendations_AllSubQueriesFail(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlacesClient)
	mockAI := new(MockAIClient)

	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, types.ErrProviderUnavailable)

	service := NewServiceImpl(mockPlaces, mockAI, 5000, 15, testLogger())
	places, warnings, err := service.GetRecommendations(ctx, "nature", "Nowhere", types.Coordinates{}, types.StyleAny)

	require.NoError(t, err, "provider errors degrade, they never abort the pipeline")
	assert.Empty(t, places)
	assert.NotEmpty(t, warnings)
	mockAI.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything)
}

func TestGetRecommendations_PreservesLengthAndOrder(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlacesClient)
	mockAI := new(MockAIClient)

	input := []types.RawPlace{
		{PlaceID: "A", Name: "A", Rating: 4.9, UserRatingsTotal: 1000},
		{PlaceID: "B", Name: "B", Rating: 4.5, UserRatingsTotal: 400},
		{PlaceID: "C", Name: "C", Rating: 4.0, UserRatingsTotal: 100},
	}
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(input, nil)
	mockPlaces.On("PlaceDetails", mock.Anything, mock.Anything).
		Return(nil, types.ErrProviderUnavailable)
	mockAI.On("GenerateContent", mock.Anything, mock.Anything).
		Return("not json at all", nil)

	service := NewServiceImpl(mockPlaces, mockAI, 5000, 15, testLogger())
	places, _, err := service.GetRecommendations(ctx, "food", "Madrid", types.Coordinates{}, types.StyleAny)

	require.NoError(t, err)
	require.Len(t, places, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{places[0].PlaceID, places[1].PlaceID, places[2].PlaceID})
}

func TestGetRecommendations_LimitApplied(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlacesClient)
	mockAI := new(MockAIClient)

	var input []types.RawPlace
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		input = append(input, types.RawPlace{PlaceID: id, Name: id, Rating: 4.0, UserRatingsTotal: 100})
	}
	mockPlaces.On("TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(input, nil)
	mockPlaces.On("PlaceDetails", mock.Anything, mock.Anything).
		Return(nil, types.ErrProviderUnavailable)
	mockAI.On("GenerateContent", mock.Anything, mock.Anything).
		Return("", errors.New("unavailable"))

	service := NewServiceImpl(mockPlaces, mockAI, 5000, 2, testLogger())
	places, _, err := service.GetRecommendations(ctx, "shopping", "Milan", types.Coordinates{}, types.StyleAny)

	require.NoError(t, err)
	assert.Len(t, places, 2)
}
