// Package feature extracts the per-game coaching sub-reports: opening,
// time management, tactical opportunities and endgame play. Extractors are
// pure functions over the annotated move list and are independent of each
// other, so they may run concurrently.
package feature

import (
	"time"

	"github.com/discochess/coach/internal/classify"
)

// Move is one annotated move as the extractors see it.
type Move struct {
	// Number is the 1-based ply number of the move.
	Number int

	// SAN is the move as played.
	SAN string

	// UCI is the same move in coordinate notation.
	UCI string

	// WhiteMoved is true when white made the move.
	WhiteMoved bool

	// TimeSpent is the wall clock spent on the move; zero means no clock
	// data was supplied for it.
	TimeSpent time.Duration

	// EvalBefore and EvalAfter are centipawn evaluations from the mover's
	// perspective; nil means the engine could not evaluate that position.
	EvalBefore *int
	EvalAfter  *int

	// BestUCI is the engine's preferred move in the pre-move position,
	// empty when unavailable.
	BestUCI string

	// Class is the classifier's verdict for the move.
	Class classify.Classification

	// IsCapture and IsCheck are derived from replaying the move.
	IsCapture bool
	IsCheck   bool

	// MaterialAfter is the total board material after the move in
	// centipawns, kings excluded.
	MaterialAfter int
}

// Swing returns the centipawn loss this move caused for its mover, and
// whether both surrounding evaluations were available.
func (m *Move) Swing() (int, bool) {
	if m.EvalBefore == nil || m.EvalAfter == nil {
		return 0, false
	}
	return *m.EvalBefore - *m.EvalAfter, true
}
