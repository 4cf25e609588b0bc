// Package memorycoachfx provides an fx module for an analyzer backed by a
// scripted in-memory engine. Useful for testing.
package memorycoachfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/coach"
	"github.com/discochess/coach/internal/engine/enginetest"
	"github.com/discochess/coach/internal/stats"
	"github.com/discochess/coach/internal/stats/logger"
)

// Module provides a stub-backed analyzer for testing.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memorycoach",
	fx.Provide(
		newStatsCollector,
		newStub,
		newAnalyzer,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("coach.stats"))
}

func newStub() *enginetest.Stub {
	return enginetest.New()
}

// Params holds dependencies for creating the analyzer.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Stub      *enginetest.Stub
	Lifecycle fx.Lifecycle
}

// Result holds the provided analyzer and engine stub.
type Result struct {
	fx.Out

	Analyzer *coach.Analyzer
	Stub     *enginetest.Stub // Exposed for test setup
}

func newAnalyzer(p Params) (Result, error) {
	analyzer, err := coach.New(
		coach.WithEngineFactory(p.Stub.Factory()),
		coach.WithStats(p.Collector),
		coach.WithLogger(p.Logger.Named("coach")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return analyzer.Close()
		},
	})

	return Result{
		Analyzer: analyzer,
		Stub:     p.Stub,
	}, nil
}
