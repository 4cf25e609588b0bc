// Package memgate provides an in-memory atomic budget gate. It is the
// reference Gate implementation and the one used in tests; production
// deployments back the same interface with their credit ledger.
package memgate

import (
	"sync/atomic"

	"github.com/discochess/coach/internal/gate"
)

// Compile-time check that Gate implements gate.Gate.
var _ gate.Gate = (*Gate)(nil)

// Gate is a CAS-based budget counter.
type Gate struct {
	remaining atomic.Int64
}

// New creates a Gate with the given budget.
func New(budget int) *Gate {
	g := &Gate{}
	g.remaining.Store(int64(budget))
	return g
}

// Remaining returns the units still available.
func (g *Gate) Remaining() int {
	return int(g.remaining.Load())
}

// Reserve claims n units atomically. Concurrent callers can never drive the
// budget negative: the compare-and-swap loop re-checks the balance on every
// contention retry.
func (g *Gate) Reserve(n int) bool {
	if n <= 0 {
		return true
	}
	for {
		cur := g.remaining.Load()
		if cur < int64(n) {
			return false
		}
		if g.remaining.CompareAndSwap(cur, cur-int64(n)) {
			return true
		}
	}
}

// Release returns n units to the budget.
func (g *Gate) Release(n int) {
	if n > 0 {
		g.remaining.Add(int64(n))
	}
}
