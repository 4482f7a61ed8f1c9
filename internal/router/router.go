package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/intellitravel/go-travel-recommendations/internal/api/recommendation"
	"github.com/intellitravel/go-travel-recommendations/internal/api/trips"
)

// Config contains the handlers the router wires up. Server-wide middleware
// (request ID, logger, recoverer) is applied before mounting this router in
// main.go.
type Config struct {
	TripHandler           *trips.Handler
	RecommendationHandler *recommendation.Handler
	MetricsHandler        http.Handler
}

// SetupRouter initializes and configures the main application router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", cfg.RecommendationHandler.ListCategories)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripHandler.CreateTrip)
			r.Get("/{tripID}", cfg.TripHandler.GetTrip)
			r.Get("/{tripID}/image", cfg.TripHandler.GetDestinationImage)
			r.Get("/{tripID}/recommendations/{category}", cfg.TripHandler.GetRecommendations)
		})
	})

	return r
}
