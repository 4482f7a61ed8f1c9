package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ProviderCallsTotal        metric.Int64Counter
	ProviderCallErrorsTotal   metric.Int64Counter
	PipelineDurationSeconds   metric.Float64Histogram
	EnrichmentFallbacksTotal  metric.Int64Counter
	RecommendationCacheHits   metric.Int64Counter
	RecommendationCacheMisses metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("IntelliTravel")
		var err error
		m := &AppMetrics{}

		m.ProviderCallsTotal, err = meter.Int64Counter(
			"provider_calls_total",
			metric.WithDescription("Total number of outbound provider calls"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_calls_total: %v", err)
		}

		m.ProviderCallErrorsTotal, err = meter.Int64Counter(
			"provider_call_errors_total",
			metric.WithDescription("Total number of failed provider calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_call_errors_total: %v", err)
		}

		m.PipelineDurationSeconds, err = meter.Float64Histogram(
			"recommendation_pipeline_duration_seconds",
			metric.WithDescription("Duration of the search-and-enrich pipeline per category"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommendation_pipeline_duration_seconds: %v", err)
		}

		m.EnrichmentFallbacksTotal, err = meter.Int64Counter(
			"enrichment_fallbacks_total",
			metric.WithDescription("Times the templated fallback replaced LLM enrichment"),
			metric.WithUnit("{fallback}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create enrichment_fallbacks_total: %v", err)
		}

		m.RecommendationCacheHits, err = meter.Int64Counter(
			"recommendation_cache_hits_total",
			metric.WithDescription("Recommendation requests served from the session cache"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommendation_cache_hits_total: %v", err)
		}

		m.RecommendationCacheMisses, err = meter.Int64Counter(
			"recommendation_cache_misses_total",
			metric.WithDescription("Recommendation requests that ran the full pipeline"),
			metric.WithUnit("{miss}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommendation_cache_misses_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. Panics if
// InitAppMetrics was not called at startup.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
