package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/intellitravel/go-travel-recommendations/app/observability/metrics"
	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

const (
	// minResultsBeforeKeywords: below this many accumulated type-search
	// results, the resolver tops up with free-text keyword queries.
	minResultsBeforeKeywords = 5

	// maxParallelQueries bounds concurrent directory sub-queries. Results land
	// in per-query slots so discovery order stays deterministic regardless of
	// arrival order.
	maxParallelQueries = 4

	maxHighlights = 3
)

var _ Service = (*ServiceImpl)(nil)

// PlacesClient is the slice of the places directory the resolver consumes.
type PlacesClient interface {
	TextSearch(ctx context.Context, query string, location types.Coordinates, radius uint, placeType string) ([]types.RawPlace, error)
	PlaceDetails(ctx context.Context, placeID string) (*types.RawPlace, error)
}

// AIClient is the completion call the enricher consumes.
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Service defines the business logic contract for recommendation retrieval.
type Service interface {
	GetRecommendations(ctx context.Context, category, locationName string, coords types.Coordinates, style types.TravelStyle) ([]types.EnrichedPlace, []string, error)
}

// ServiceImpl runs the full pipeline: category search, dedupe, price filter,
// popularity ranking, detail fetch, LLM enrichment and templated fallback.
// Provider failures at any step degrade to warnings, never abort the pipeline.
type ServiceImpl struct {
	logger *slog.Logger
	places PlacesClient
	ai     AIClient
	radius uint
	limit  int
}

func NewServiceImpl(places PlacesClient, ai AIClient, radius uint, limit int, logger *slog.Logger) *ServiceImpl {
	if radius == 0 {
		radius = 5000
	}
	if limit <= 0 {
		limit = 15
	}
	return &ServiceImpl{
		logger: logger,
		places: places,
		ai:     ai,
		radius: radius,
		limit:  limit,
	}
}

func (s *ServiceImpl) GetRecommendations(ctx context.Context, category, locationName string, coords types.Coordinates, style types.TravelStyle) ([]types.EnrichedPlace, []string, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "GetRecommendations", trace.WithAttributes(
		attribute.String("category", category),
		attribute.String("travel_style", string(style)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.Get().PipelineDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	ranked, warnings := s.searchPlaces(ctx, category, locationName, coords, style)
	enriched := s.enrich(ctx, ranked, category, locationName, style, &warnings)

	span.SetAttributes(attribute.Int("places.count", len(enriched)))
	return enriched, warnings, ctx.Err()
}

// subQuery is one directory query the resolver issues for a category.
type subQuery struct {
	query     string
	placeType string
	tag       string
}

// searchPlaces resolves a category into a ranked, detail-overlaid place list.
func (s *ServiceImpl) searchPlaces(ctx context.Context, category, locationName string, coords types.Coordinates, style types.TravelStyle) ([]types.RankedPlace, []string) {
	info := LookupCategory(category)
	prefix := style.QueryPrefix()

	typeQueries := make([]subQuery, len(info.Types))
	for i, t := range info.Types {
		typeQueries[i] = subQuery{
			query:     fmt.Sprintf("%s%s in %s", prefix, t, locationName),
			placeType: t,
			tag:       t,
		}
	}
	slots, warnings := s.runSubQuerySlots(ctx, typeQueries, coords)

	// The top-up threshold is checked after every typed query, not once at the
	// end: a thin early type triggers the keyword searches even when later
	// types push the total past the threshold. Keyword results splice in at
	// the point the count went thin, keeping discovery order.
	var accumulated []types.RawPlace
	keywordsPending := len(info.Keywords) > 0
	for _, slot := range slots {
		accumulated = append(accumulated, slot...)
		if keywordsPending && len(accumulated) < minResultsBeforeKeywords {
			keywordsPending = false
			keywordQueries := make([]subQuery, len(info.Keywords))
			for i, kw := range info.Keywords {
				keywordQueries[i] = subQuery{
					query: fmt.Sprintf("%s%s in %s", prefix, kw, locationName),
					tag:   kw + " search",
				}
			}
			extra, extraWarnings := s.runSubQueries(ctx, keywordQueries, coords)
			accumulated = append(accumulated, extra...)
			warnings = append(warnings, extraWarnings...)
		}
	}

	unique := dedupePlaces(accumulated)
	filtered := filterByStyle(unique, style)
	ranked := rankByPopularity(filtered)
	if len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}

	warnings = append(warnings, s.fetchDetails(ctx, ranked)...)
	return ranked, warnings
}

// runSubQuerySlots executes the queries with bounded parallelism. Each query
// writes into its own slot so the caller sees results in query order, which is
// what dedupe and ranking tie-breaks key off. A failed query leaves an empty
// slot and contributes nothing beyond a warning.
func (s *ServiceImpl) runSubQuerySlots(ctx context.Context, queries []subQuery, coords types.Coordinates) ([][]types.RawPlace, []string) {
	slots := make([][]types.RawPlace, len(queries))
	errs := make([]error, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelQueries)
	for i, q := range queries {
		g.Go(func() error {
			results, err := s.places.TextSearch(gctx, q.query, coords, s.radius, q.placeType)
			if err != nil {
				errs[i] = err
				return nil
			}
			for j := range results {
				results[j].SearchType = q.tag
			}
			slots[i] = results
			return nil
		})
	}
	_ = g.Wait()

	var warnings []string
	for i := range queries {
		if errs[i] != nil {
			s.logger.WarnContext(ctx, "Sub-query failed, skipping its contribution",
				slog.String("query", queries[i].query), slog.Any("error", errs[i]))
			warnings = append(warnings, fmt.Sprintf("Error searching for %s: %v", queries[i].tag, errs[i]))
		}
	}
	return slots, warnings
}

// runSubQueries is runSubQuerySlots flattened in query order.
func (s *ServiceImpl) runSubQueries(ctx context.Context, queries []subQuery, coords types.Coordinates) ([]types.RawPlace, []string) {
	slots, warnings := s.runSubQuerySlots(ctx, queries, coords)
	var flat []types.RawPlace
	for _, slot := range slots {
		flat = append(flat, slot...)
	}
	return flat, warnings
}

// dedupePlaces folds results into one entry per place identifier, first seen
// wins, discovery order preserved.
func dedupePlaces(results []types.RawPlace) []types.RawPlace {
	seen := make(map[string]struct{}, len(results))
	unique := make([]types.RawPlace, 0, len(results))
	for _, p := range results {
		if _, ok := seen[p.PlaceID]; ok {
			continue
		}
		seen[p.PlaceID] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}

// filterByStyle keeps only places whose price level matches the style. Places
// without price info stay out while any priced match exists, but filtering
// never empties the set: with zero matches the full set passes through.
func filterByStyle(unique []types.RawPlace, style types.TravelStyle) []types.RawPlace {
	allowed := style.PriceLevels()
	if allowed == nil {
		return unique
	}

	var matched []types.RawPlace
	for _, p := range unique {
		if p.PriceLevel == nil {
			continue
		}
		for _, level := range allowed {
			if *p.PriceLevel == level {
				matched = append(matched, p)
				break
			}
		}
	}
	if len(matched) > 0 {
		return matched
	}
	return unique
}

// rankByPopularity sorts descending by rating x rating count / 100. The sort
// is stable so ties keep discovery order.
func rankByPopularity(placesList []types.RawPlace) []types.RankedPlace {
	ranked := make([]types.RankedPlace, len(placesList))
	for i, p := range placesList {
		ranked[i] = types.RankedPlace{
			RawPlace: p,
			Score:    p.Rating * float64(p.UserRatingsTotal) / 100,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// fetchDetails overlays detail records onto the top-ranked places. A place is
// never dropped because its detail fetch failed; the summary record stands.
func (s *ServiceImpl) fetchDetails(ctx context.Context, ranked []types.RankedPlace) []string {
	errs := make([]error, len(ranked))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelQueries)
	for i := range ranked {
		g.Go(func() error {
			detail, err := s.places.PlaceDetails(gctx, ranked[i].PlaceID)
			if err != nil {
				errs[i] = err
				return nil
			}
			overlayDetail(&ranked[i].RawPlace, detail)
			return nil
		})
	}
	_ = g.Wait()

	var warnings []string
	for i, err := range errs {
		if err != nil {
			s.logger.WarnContext(ctx, "Detail fetch failed, keeping summary record",
				slog.String("place_id", ranked[i].PlaceID), slog.Any("error", err))
			warnings = append(warnings, fmt.Sprintf("Could not load details for %s", ranked[i].Name))
		}
	}
	return warnings
}

// overlayDetail copies detail fields over the summary; detail wins wherever it
// carries a value.
func overlayDetail(summary *types.RawPlace, detail *types.RawPlace) {
	if detail.Name != "" {
		summary.Name = detail.Name
	}
	if detail.Rating > 0 {
		summary.Rating = detail.Rating
	}
	if detail.UserRatingsTotal > 0 {
		summary.UserRatingsTotal = detail.UserRatingsTotal
	}
	if detail.FormattedAddress != "" {
		summary.FormattedAddress = detail.FormattedAddress
	}
	if detail.Phone != "" {
		summary.Phone = detail.Phone
	}
	if detail.Website != "" {
		summary.Website = detail.Website
	}
	if detail.MapURL != "" {
		summary.MapURL = detail.MapURL
	}
	if detail.PriceLevel != nil {
		summary.PriceLevel = detail.PriceLevel
	}
	if detail.OpenNow != nil {
		summary.OpenNow = detail.OpenNow
	}
	if len(detail.WeekdayText) > 0 {
		summary.WeekdayText = detail.WeekdayText
	}
	if len(detail.PhotoRefs) > 0 {
		summary.PhotoRefs = detail.PhotoRefs
	}
	if len(detail.Types) > 0 {
		summary.Types = detail.Types
	}
	if detail.Location.Lat != 0 || detail.Location.Lng != 0 {
		summary.Location = detail.Location
	}
}

// enrich asks the model for per-place descriptions and merges them back by
// place identifier. When not a single place ends up described (failed call,
// unparseable output, or no known identifier covered) the whole list falls
// back to templated descriptions. Partial coverage is kept as-is. Output
// length and order always equal the input.
func (s *ServiceImpl) enrich(ctx context.Context, ranked []types.RankedPlace, category, locationName string, style types.TravelStyle, warnings *[]string) []types.EnrichedPlace {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "enrich")
	defer span.End()

	projected := make([]types.EnrichedPlace, 0, len(ranked))
	for _, p := range ranked {
		projected = append(projected, projectPlace(p))
	}
	if len(projected) == 0 {
		return projected
	}

	var recs map[string]llmRecommendation
	prompt := buildRecommendationPrompt(category, locationName, style, projected)
	raw, err := s.ai.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.WarnContext(ctx, "LLM enrichment call failed", slog.Any("error", err))
		*warnings = append(*warnings, "Description generation unavailable, using simple descriptions")
	} else if recs, err = parseRecommendations(raw); err != nil {
		s.logger.WarnContext(ctx, "LLM response did not parse", slog.Any("error", err))
		*warnings = append(*warnings, "Could not read generated descriptions, using simple descriptions")
	}

	described := 0
	for i := range projected {
		rec, ok := recs[projected[i].PlaceID]
		if !ok {
			projected[i].Description = ""
			projected[i].Highlights = []string{}
			continue
		}
		projected[i].Description = rec.Description
		highlights := rec.Highlights
		if len(highlights) > maxHighlights {
			highlights = highlights[:maxHighlights]
		}
		if highlights == nil {
			highlights = []string{}
		}
		projected[i].Highlights = highlights
		if rec.Description != "" {
			described++
		}
	}

	if described == 0 {
		metrics.Get().EnrichmentFallbacksTotal.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("fallback", true))
		return ApplyTemplatedDescriptions(projected, category, locationName, style)
	}
	return projected
}

// projectPlace shapes a ranked place for display: short vicinity address when
// available, opening hours flattened to weekday text, open_now carried as a
// tri-state.
func projectPlace(p types.RankedPlace) types.EnrichedPlace {
	address := p.Vicinity
	if address == "" {
		address = p.FormattedAddress
	}
	if address == "" {
		address = "Address not available"
	}
	return types.EnrichedPlace{
		Name:         p.Name,
		Rating:       p.Rating,
		TotalRatings: p.UserRatingsTotal,
		Address:      address,
		PlaceID:      p.PlaceID,
		Types:        p.Types,
		Location:     p.Location,
		PriceLevel:   p.PriceLevel,
		OpeningHours: p.WeekdayText,
		Photos:       p.PhotoRefs,
		URL:          p.MapURL,
		Website:      p.Website,
		OpenNow:      p.OpenNow,
	}
}
