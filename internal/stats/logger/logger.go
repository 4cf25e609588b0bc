// Package logger provides a stats collector that writes every metric
// update to a zap logger. It is the backend the in-memory fx module uses,
// so test runs show the pipeline's counters in their debug output.
package logger

import (
	"go.uber.org/zap"

	"github.com/discochess/coach/internal/stats"
)

// Collector implements stats.Collector by emitting one debug log line per
// metric update, with the metric kind and name as fields.
type Collector struct {
	log *zap.Logger
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a logging collector.
// If log is nil, a no-op logger is used.
func New(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{log: log}
}

func (c *Collector) IncCounter(name string, delta int64) {
	c.log.Debug("metric",
		zap.String("kind", "counter"),
		zap.String("name", name),
		zap.Int64("delta", delta),
	)
}

func (c *Collector) SetGauge(name string, value int64) {
	c.log.Debug("metric",
		zap.String("kind", "gauge"),
		zap.String("name", name),
		zap.Int64("value", value),
	)
}

func (c *Collector) ObserveHistogram(name string, value float64) {
	c.log.Debug("metric",
		zap.String("kind", "histogram"),
		zap.String("name", name),
		zap.Float64("value", value),
	)
}
