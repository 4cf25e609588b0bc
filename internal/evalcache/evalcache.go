// Package evalcache wraps an Evaluator with an LRU cache keyed by position
// and depth. Games share many positions (openings above all), so repeated
// evaluations skip the engine entirely.
package evalcache

import (
	"context"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/coach/internal/engine"
	"github.com/discochess/coach/internal/stats"
)

// Compile-time check that Cache implements engine.Evaluator.
var _ engine.Evaluator = (*Cache)(nil)

// DefaultSize is the evaluation cache capacity when none is given.
const DefaultSize = 4096

// Cache is a caching Evaluator decorator.
type Cache struct {
	inner engine.Evaluator
	lru   *lru.Cache[string, engine.Evaluation]
	stats stats.Collector
}

// New wraps inner with a cache of the given capacity. A non-positive size
// means DefaultSize. The collector may be nil.
func New(inner engine.Evaluator, size int, collector stats.Collector) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	cache, err := lru.New[string, engine.Evaluation](size)
	if err != nil {
		return nil, fmt.Errorf("evalcache: %w", err)
	}
	return &Cache{inner: inner, lru: cache, stats: collector}, nil
}

func key(fen string, depth int) string {
	return fen + "|" + strconv.Itoa(depth)
}

// Evaluate returns the cached evaluation when present, otherwise delegates
// and caches the success. Timeouts and failures are never cached, so a
// retried position gets a fresh chance.
func (c *Cache) Evaluate(ctx context.Context, fen string, depth int) (*engine.Evaluation, error) {
	k := key(fen, depth)
	if ev, ok := c.lru.Get(k); ok {
		c.stats.IncCounter(stats.MetricEvalCacheHits, 1)
		out := ev
		return &out, nil
	}
	c.stats.IncCounter(stats.MetricEvalCacheMisses, 1)

	ev, err := c.inner.Evaluate(ctx, fen, depth)
	if err != nil {
		return nil, err
	}
	c.lru.Add(k, *ev)
	return ev, nil
}

// Close closes the wrapped evaluator.
func (c *Cache) Close() error {
	return c.inner.Close()
}
