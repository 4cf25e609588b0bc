// Package coach analyzes chess games with a UCI engine and turns the raw
// evaluations into per-move classifications, feature reports and aggregate
// coaching feedback across batches of games.
//
// Example usage:
//
//	analyzer, err := coach.New(
//	    coach.WithEnginePath("/usr/bin/stockfish"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer analyzer.Close()
//
//	result, err := analyzer.AnalyzeGame(ctx, game)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d blunders, %.1f%% accuracy\n", result.Blunders, result.Accuracy)
package coach

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/coach/internal/engine"
	"github.com/discochess/coach/internal/evalcache"
	"github.com/discochess/coach/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNoEngine indicates no engine factory or path was provided.
	ErrNoEngine = errors.New("coach: no engine provided")

	// ErrClosed indicates the analyzer has been closed.
	ErrClosed = errors.New("coach: analyzer closed")

	// ErrEngineUnavailable indicates the engine process died and could
	// not be restarted; the affected game's analysis failed.
	ErrEngineUnavailable = errors.New("coach: engine unavailable")

	// ErrMalformedGame indicates the game record could not be analyzed
	// (no moves, or an illegal move in the list).
	ErrMalformedGame = errors.New("coach: malformed game record")
)

// Analyzer runs the analysis pipeline. An Analyzer is safe for concurrent
// use by multiple goroutines; each analysis acquires its own engine from
// the configured factory.
type Analyzer struct {
	cfg    options
	logger *zap.Logger
	stats  stats.Collector
	closed atomic.Bool
}

// New creates an Analyzer with the given options. An engine must be
// provided via WithEnginePath or WithEngineFactory.
func New(opts ...Option) (*Analyzer, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.engineFactory == nil {
		return nil, ErrNoEngine
	}
	if err := cfg.thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("coach: %w", err)
	}
	if cfg.concurrency < 1 {
		return nil, fmt.Errorf("coach: concurrency must be at least 1, got %d", cfg.concurrency)
	}

	a := &Analyzer{
		cfg:    cfg,
		logger: cfg.logger,
		stats:  cfg.stats,
	}

	a.logger.Debug("analyzer initialized",
		zap.Int("depth", cfg.depth),
		zap.Int("concurrency", cfg.concurrency),
		zap.Bool("narration", cfg.narrator != nil),
	)
	return a, nil
}

// AnalyzeGame runs the single-game pipeline: engine evaluation of every
// position, move classification, feature extraction and feedback synthesis.
// The engine is acquired for this call only and released on every exit path.
func (a *Analyzer) AnalyzeGame(ctx context.Context, game GameRecord) (*AnalysisResult, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}

	ev, err := a.acquireEngine()
	if err != nil {
		return nil, err
	}
	defer ev.Close()

	start := time.Now()
	result, err := a.analyzeWith(ctx, ev, game)
	if err != nil {
		a.stats.IncCounter(stats.MetricGamesFailed, 1)
		return nil, err
	}

	a.stats.IncCounter(stats.MetricGamesAnalyzed, 1)
	a.stats.ObserveHistogram(stats.MetricGameSeconds, time.Since(start).Seconds())
	return result, nil
}

// Close marks the analyzer closed. Engines are owned per call, so there is
// nothing else to release.
func (a *Analyzer) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}

// acquireEngine creates one evaluator from the factory, wrapped with the
// shared evaluation cache when enabled.
func (a *Analyzer) acquireEngine() (engine.Evaluator, error) {
	ev, err := a.cfg.engineFactory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	if a.cfg.cacheSize > 0 {
		cached, err := evalcache.New(ev, a.cfg.cacheSize, a.stats)
		if err != nil {
			ev.Close()
			return nil, fmt.Errorf("coach: %w", err)
		}
		return cached, nil
	}
	return ev, nil
}
