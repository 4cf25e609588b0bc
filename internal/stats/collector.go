// Package stats provides a unified interface for collecting pipeline metrics.
package stats

// Metric names used throughout the library.
const (
	// Pipeline metrics.
	MetricGamesAnalyzed = "coach_games_analyzed_total"
	MetricGamesFailed   = "coach_games_failed_total"
	MetricGamesSkipped  = "coach_games_skipped_total"
	MetricBatches       = "coach_batches_total"

	// Engine metrics.
	MetricEngineEvals    = "coach_engine_evals_total"
	MetricEngineTimeouts = "coach_engine_timeouts_total"

	// Evaluation cache metrics.
	MetricEvalCacheHits   = "coach_eval_cache_hits_total"
	MetricEvalCacheMisses = "coach_eval_cache_misses_total"

	// Narration metrics.
	MetricNarrationFailures = "coach_narration_failures_total"

	// Histograms.
	MetricGameSeconds = "coach_game_analysis_seconds"

	// Gauges.
	MetricBudgetRemaining = "coach_budget_remaining"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
