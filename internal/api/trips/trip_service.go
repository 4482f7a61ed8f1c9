package trips

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/intellitravel/go-travel-recommendations/app/observability/metrics"
	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

// Geocoder is the slice of the places provider the trip layer consumes.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Coordinates, error)
	DestinationImage(ctx context.Context, destination string) (string, error)
}

// Recommender is the pipeline entry point for one category of one trip.
type Recommender interface {
	GetRecommendations(ctx context.Context, category, locationName string, coords types.Coordinates, style types.TravelStyle) ([]types.EnrichedPlace, []string, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for trip sessions.
type Service interface {
	CreateTrip(ctx context.Context, req types.CreateTripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error)
	GetRecommendations(ctx context.Context, tripID uuid.UUID, category string) (*types.RecommendationsResponse, error)
	DestinationImage(ctx context.Context, tripID uuid.UUID) (string, error)
}

// ServiceImpl owns the in-memory session state: trips and their per-category
// recommendation results, cached by (category, travel style) for the lifetime
// of the trip. Concurrent requests for the same uncached category are
// coalesced through a singleflight group so the pipeline runs once.
type ServiceImpl struct {
	logger      *slog.Logger
	geocoder    Geocoder
	recommender Recommender
	sessions    *cache.Cache
	group       singleflight.Group
}

func NewServiceImpl(geocoder Geocoder, recommender Recommender, sessions *cache.Cache, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		geocoder:    geocoder,
		recommender: recommender,
		sessions:    sessions,
	}
}

// CreateTrip geocodes the destination and opens a new session. A destination
// the geocoder cannot resolve surfaces as ErrNotFound, which handlers turn
// into a plain "not found" message rather than a server error.
func (s *ServiceImpl) CreateTrip(ctx context.Context, req types.CreateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("destination", req.Destination),
	))
	defer span.End()

	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return nil, fmt.Errorf("destination is required")
	}

	startDate, endDate, err := parseTripDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	coords, err := s.geocoder.Geocode(ctx, destination)
	if err != nil {
		s.logger.WarnContext(ctx, "Geocoding failed", slog.String("destination", destination), slog.Any("error", err))
		return nil, err
	}

	trip := &types.Trip{
		ID:          uuid.New(),
		Destination: destination,
		Coordinates: coords,
		StartDate:   startDate,
		EndDate:     endDate,
		TravelStyle: types.ParseTravelStyle(req.TravelStyle),
		CreatedAt:   time.Now(),
	}
	s.sessions.Set(tripKey(trip.ID), trip, cache.DefaultExpiration)

	s.logger.InfoContext(ctx, "Trip created",
		slog.String("trip_id", trip.ID.String()),
		slog.String("destination", destination),
		slog.String("travel_style", string(trip.TravelStyle)))
	return trip, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	if v, ok := s.sessions.Get(tripKey(tripID)); ok {
		return v.(*types.Trip), nil
	}
	return nil, fmt.Errorf("%w: trip %s", types.ErrNotFound, tripID)
}

// GetRecommendations returns the cached result for (category, travel style)
// or runs the pipeline once and caches it. A new trip (new destination or
// style) starts with an empty cache, which is how results invalidate.
func (s *ServiceImpl) GetRecommendations(ctx context.Context, tripID uuid.UUID, category string) (*types.RecommendationsResponse, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetRecommendations", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("category", category),
	))
	defer span.End()

	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	category = strings.ToLower(strings.TrimSpace(category))
	key := recommendationKey(tripID, category, trip.TravelStyle)

	if v, ok := s.sessions.Get(key); ok {
		metrics.Get().RecommendationCacheHits.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return v.(*types.RecommendationsResponse), nil
	}
	metrics.Get().RecommendationCacheMisses.Add(ctx, 1)

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have stored it.
		if cached, ok := s.sessions.Get(key); ok {
			return cached, nil
		}

		placesList, warnings, err := s.recommender.GetRecommendations(ctx, category, trip.Destination, trip.Coordinates, trip.TravelStyle)
		if err != nil {
			return nil, err
		}

		resp := &types.RecommendationsResponse{
			Category:    category,
			Destination: trip.Destination,
			TravelStyle: trip.TravelStyle,
			Places:      placesList,
			Warnings:    warnings,
		}
		if len(placesList) == 0 {
			resp.Message = fmt.Sprintf("No %s recommendations found for %s with %s travel style.",
				category, trip.Destination, trip.TravelStyle)
		}
		s.sessions.Set(key, resp, cache.DefaultExpiration)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.RecommendationsResponse), nil
}

// DestinationImage returns a representative photo URL for the trip's destination.
func (s *ServiceImpl) DestinationImage(ctx context.Context, tripID uuid.UUID) (string, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return "", err
	}
	return s.geocoder.DestinationImage(ctx, trip.Destination)
}

func tripKey(tripID uuid.UUID) string {
	return "trip:" + tripID.String()
}

func recommendationKey(tripID uuid.UUID, category string, style types.TravelStyle) string {
	return fmt.Sprintf("recs:%s:%s_%s", tripID, category, style)
}

// parseTripDates accepts YYYY-MM-DD strings, defaulting both to today and
// rejecting an end date before the start.
func parseTripDates(start, end string) (time.Time, time.Time, error) {
	today := time.Now().Truncate(24 * time.Hour)

	startDate := today
	if start != "" {
		var err error
		startDate, err = time.Parse(types.TripDateLayout, start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", start)
		}
	}
	endDate := startDate
	if end != "" {
		var err error
		endDate, err = time.Parse(types.TripDateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", end)
		}
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date is before start_date")
	}
	return startDate, endDate, nil
}
