package trips

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/intellitravel/go-travel-recommendations/internal/api"
	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

type Handler struct {
	tripService Service
	logger      *slog.Logger
}

func NewHandler(tripService Service, logger *slog.Logger) *Handler {
	return &Handler{
		tripService: tripService,
		logger:      logger,
	}
}

// CreateTrip geocodes the submitted destination and opens a trip session.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "CreateTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateTrip"))

	var req types.CreateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Destination == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Please enter a destination.")
		return
	}

	trip, err := h.tripService.CreateTrip(ctx, req)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Could not find the specified location. Please try again.")
			return
		}
		if errors.Is(err, types.ErrProviderUnavailable) {
			l.ErrorContext(ctx, "Geocoding provider unavailable", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Location lookup is temporarily unavailable. Please try again.")
			return
		}
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.TripResponse{
		Trip:         *trip,
		DurationDays: trip.DurationDays(),
	})
}

// GetTrip returns the stored session and computed trip duration.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GetTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/{tripID}"),
	))
	defer span.End()

	tripID, ok := h.tripIDFromRequest(w, r)
	if !ok {
		return
	}

	trip, err := h.tripService.GetTrip(ctx, tripID)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found or expired")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TripResponse{
		Trip:         *trip,
		DurationDays: trip.DurationDays(),
	})
}

// GetRecommendations runs (or serves from cache) the recommendation pipeline
// for one category of the trip.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GetRecommendations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/{tripID}/recommendations/{category}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetRecommendations"))

	tripID, ok := h.tripIDFromRequest(w, r)
	if !ok {
		return
	}
	category := chi.URLParam(r, "category")
	if category == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Category is required")
		return
	}

	resp, err := h.tripService.GetRecommendations(ctx, tripID, category)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found or expired")
			return
		}
		l.ErrorContext(ctx, "Failed to get recommendations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get recommendations")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetDestinationImage returns a representative photo URL for the destination.
func (h *Handler) GetDestinationImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GetDestinationImage", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/{tripID}/image"),
	))
	defer span.End()

	tripID, ok := h.tripIDFromRequest(w, r)
	if !ok {
		return
	}

	imageURL, err := h.tripService.DestinationImage(ctx, tripID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found or expired")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get destination image", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get destination image")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"image_url": imageURL})
}

func (h *Handler) tripIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, false
	}
	return tripID, true
}
