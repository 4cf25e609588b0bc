// Package gate defines the analysis allowance collaborator. The batch
// orchestrator reserves one unit per game before dispatching it and never
// mutates the underlying budget directly.
package gate

// Gate is an atomically updated analysis budget. Implementations must be
// safe for concurrent use: Reserve is a check-and-decrement that either
// claims the full amount or claims nothing.
type Gate interface {
	// Remaining returns the units still available.
	Remaining() int

	// Reserve atomically claims n units, returning false (and claiming
	// nothing) when fewer than n remain.
	Reserve(n int) bool

	// Release returns n previously reserved units, for callers that
	// reserved ahead of work that never ran.
	Release(n int)
}

// Unlimited is a Gate with no budget: every reservation succeeds.
type Unlimited struct{}

// Compile-time check that Unlimited implements Gate.
var _ Gate = Unlimited{}

func (Unlimited) Remaining() int     { return int(^uint(0) >> 1) }
func (Unlimited) Reserve(n int) bool { return true }
func (Unlimited) Release(n int)      {}
