package recommendation

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/intellitravel/go-travel-recommendations/internal/api"
)

type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// ListCategories serves the static category table the UI renders as buttons.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "ListCategories", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/categories"),
	))
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"categories": Categories(),
	})
}
