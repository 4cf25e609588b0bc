// Package classify labels moves by the evaluation swing they caused.
package classify

import "fmt"

// Classification is the severity tier assigned to a single move.
type Classification string

const (
	// Blunder is a move that loses the game or a large amount of material.
	Blunder Classification = "blunder"

	// Mistake is a clearly inferior move short of a blunder.
	Mistake Classification = "mistake"

	// Inaccuracy is a slightly suboptimal move.
	Inaccuracy Classification = "inaccuracy"

	// Normal is any move below the inaccuracy threshold.
	Normal Classification = "normal"

	// Unknown marks a move whose surrounding evaluations are unavailable,
	// typically because the engine timed out on one of its positions.
	// Unknown moves are excluded from blunder/mistake/inaccuracy counts.
	Unknown Classification = "unknown"
)

// IsError reports whether the classification counts as an error tier.
func (c Classification) IsError() bool {
	return c == Blunder || c == Mistake || c == Inaccuracy
}

// Thresholds holds the centipawn swing boundaries between tiers.
// A swing delta is prevEval - nextEval, both from the mover's perspective,
// so a positive delta means the mover's own move worsened their position.
type Thresholds struct {
	// Blunder is the minimum swing classified as a blunder.
	Blunder int

	// Mistake is the minimum swing classified as a mistake.
	Mistake int

	// Inaccuracy is the minimum swing classified as an inaccuracy.
	Inaccuracy int
}

// DefaultThresholds returns the documented default tier boundaries:
// swing >= 300 blunder, >= 100 mistake, >= 50 inaccuracy, else normal.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Blunder:    300,
		Mistake:    100,
		Inaccuracy: 50,
	}
}

// Validate checks that the tiers are strictly ordered so every swing maps
// to exactly one classification with no gaps or overlaps.
func (t Thresholds) Validate() error {
	if t.Inaccuracy <= 0 {
		return fmt.Errorf("classify: inaccuracy threshold must be positive, got %d", t.Inaccuracy)
	}
	if t.Mistake <= t.Inaccuracy {
		return fmt.Errorf("classify: mistake threshold %d must exceed inaccuracy threshold %d", t.Mistake, t.Inaccuracy)
	}
	if t.Blunder <= t.Mistake {
		return fmt.Errorf("classify: blunder threshold %d must exceed mistake threshold %d", t.Blunder, t.Mistake)
	}
	return nil
}

// Classify assigns a tier from the evaluation pair around one move.
// prev is the evaluation before the move and next the evaluation after it,
// both in centipawns from the mover's perspective. A nil on either side means
// the engine could not evaluate that position and the move is Unknown.
// The caller is responsible for the first-move rule (ply 0 is always Normal,
// regardless of its evaluation pair).
func (t Thresholds) Classify(prev, next *int) Classification {
	if prev == nil || next == nil {
		return Unknown
	}

	delta := *prev - *next
	switch {
	case delta >= t.Blunder:
		return Blunder
	case delta >= t.Mistake:
		return Mistake
	case delta >= t.Inaccuracy:
		return Inaccuracy
	default:
		return Normal
	}
}
