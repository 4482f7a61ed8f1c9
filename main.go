package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/patrickmn/go-cache"

	appLogger "github.com/intellitravel/go-travel-recommendations/app/logger"
	"github.com/intellitravel/go-travel-recommendations/app/observability/metrics"
	"github.com/intellitravel/go-travel-recommendations/app/tracer"
	"github.com/intellitravel/go-travel-recommendations/config"
	generativeAI "github.com/intellitravel/go-travel-recommendations/internal/api/generative_ai"
	"github.com/intellitravel/go-travel-recommendations/internal/api/places"
	"github.com/intellitravel/go-travel-recommendations/internal/api/recommendation"
	"github.com/intellitravel/go-travel-recommendations/internal/api/trips"
	"github.com/intellitravel/go-travel-recommendations/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	metricsHandler, err := tracer.InitTracingAndMetrics("IntelliTravel")
	if err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// --- Provider clients ---
	placesClient, err := places.NewClient(
		os.Getenv("GOOGLE_MAPS_API_KEY"),
		cfg.Providers.Places.RequestsPerSecond,
		cfg.Providers.Places.Timeout,
		logger,
	)
	if err != nil {
		logger.Error("Failed to initialize places client", slog.Any("error", err))
		os.Exit(1)
	}

	aiClient, err := generativeAI.NewAIClient(ctx,
		cfg.Providers.Gemini.Model,
		float32(cfg.Providers.Gemini.Temperature),
		cfg.Providers.Gemini.Timeout,
	)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Services & handlers ---
	sessions := cache.New(cfg.Cache.TripTTL, cfg.Cache.CleanupInterval)

	recommendationService := recommendation.NewServiceImpl(
		placesClient, aiClient,
		cfg.Providers.Places.RadiusMeters,
		cfg.Providers.Places.ResultLimit,
		logger,
	)
	tripService := trips.NewServiceImpl(placesClient, recommendationService, sessions, logger)

	mainRouter := router.SetupRouter(&router.Config{
		TripHandler:           trips.NewHandler(tripService, logger),
		RecommendationHandler: recommendation.NewHandler(logger),
		MetricsHandler:        metricsHandler,
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(cfg.Server.Timeout))
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
	}
	return logger
}
