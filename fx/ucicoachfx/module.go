// Package ucicoachfx provides an fx module for an analyzer backed by a UCI
// engine binary such as Stockfish.
package ucicoachfx

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/coach"
	"github.com/discochess/coach/internal/narrate/httpnarrate"
	"github.com/discochess/coach/internal/stats"
	"github.com/discochess/coach/internal/stats/prometheus"
)

// Config holds configuration for the engine-backed analyzer.
type Config struct {
	// EnginePath is the UCI engine binary to launch.
	EnginePath string

	// Depth is the engine search depth. Zero means the default.
	Depth int

	// MoveTimeout bounds each single-position evaluation.
	// Zero means the default.
	MoveTimeout time.Duration

	// Concurrency is the batch worker pool size. Zero means the default.
	Concurrency int

	// NarratorURL, NarratorKey and NarratorModel configure the remote
	// narration service. An empty URL keeps the offline rule-based
	// narrator.
	NarratorURL   string
	NarratorKey   string
	NarratorModel string
}

// Module provides an engine-backed analyzer with Prometheus metrics.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("ucicoach",
	fx.Provide(
		newStatsCollector,
		newAnalyzer,
	),
)

// StatsParams holds dependencies for the metrics collector. The registry is
// optional; the Prometheus default registerer is used when absent.
type StatsParams struct {
	fx.In

	Registry promclient.Registerer `optional:"true"`
}

func newStatsCollector(p StatsParams) stats.Collector {
	return prometheus.New(p.Registry)
}

// Params holds dependencies for creating the analyzer.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided analyzer.
type Result struct {
	fx.Out

	Analyzer *coach.Analyzer
}

func newAnalyzer(p Params) (Result, error) {
	opts := []coach.Option{
		coach.WithEnginePath(p.Config.EnginePath),
		coach.WithStats(p.Collector),
		coach.WithLogger(p.Logger.Named("coach")),
	}
	if p.Config.Depth > 0 {
		opts = append(opts, coach.WithDepth(p.Config.Depth))
	}
	if p.Config.MoveTimeout > 0 {
		opts = append(opts, coach.WithMoveTimeout(p.Config.MoveTimeout))
	}
	if p.Config.Concurrency > 0 {
		opts = append(opts, coach.WithConcurrency(p.Config.Concurrency))
	}
	if p.Config.NarratorURL != "" {
		narrator, err := httpnarrate.New(httpnarrate.Config{
			Endpoint: p.Config.NarratorURL,
			APIKey:   p.Config.NarratorKey,
			Model:    p.Config.NarratorModel,
			Logger:   p.Logger.Named("coach.narrate"),
		})
		if err != nil {
			return Result{}, err
		}
		opts = append(opts, coach.WithNarrator(narrator))
	}

	analyzer, err := coach.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return analyzer.Close()
		},
	})

	return Result{Analyzer: analyzer}, nil
}
