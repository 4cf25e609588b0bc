package feature

import (
	"fmt"
	"time"
)

// DefaultPressureFraction is the remaining-time fraction below which a move
// counts as made under time pressure.
const DefaultPressureFraction = 0.10

// TimeConfig configures time management extraction.
type TimeConfig struct {
	// BaseTime is each side's initial clock. Zero disables pressure
	// detection since remaining time cannot be derived.
	BaseTime time.Duration

	// PressureFraction is the remaining fraction of BaseTime below which a
	// move is flagged. Zero means DefaultPressureFraction.
	PressureFraction float64
}

// TimeReport summarizes how the clock was used.
type TimeReport struct {
	// Available is false when the source supplied no clock data; all
	// other fields are then zero ("N/A").
	Available bool `json:"available"`

	// AvgPerMove is the mean wall clock per move across both sides.
	AvgPerMove time.Duration `json:"avg_per_move"`

	// PressureMoves lists ply numbers played with remaining time below
	// the pressure fraction.
	PressureMoves []int `json:"pressure_moves"`

	// Suggestion is a qualitative hint drawn from the pattern observed.
	Suggestion string `json:"suggestion"`
}

// ExtractTime computes per-move time statistics and pressure flags.
// Games without clock data yield Available=false, never an error.
func ExtractTime(moves []Move, cfg TimeConfig) TimeReport {
	fraction := cfg.PressureFraction
	if fraction <= 0 {
		fraction = DefaultPressureFraction
	}

	var total time.Duration
	var timed int
	for _, m := range moves {
		if m.TimeSpent > 0 {
			total += m.TimeSpent
			timed++
		}
	}
	if timed == 0 {
		return TimeReport{Available: false}
	}

	report := TimeReport{
		Available:  true,
		AvgPerMove: total / time.Duration(timed),
	}

	// Remaining time is tracked per side from the base clock; without a
	// known base there is nothing to compare against.
	if cfg.BaseTime > 0 {
		threshold := time.Duration(float64(cfg.BaseTime) * fraction)
		remaining := map[bool]time.Duration{true: cfg.BaseTime, false: cfg.BaseTime}

		for _, m := range moves {
			remaining[m.WhiteMoved] -= m.TimeSpent
			if remaining[m.WhiteMoved] < threshold {
				report.PressureMoves = append(report.PressureMoves, m.Number)
			}
		}
	}

	switch {
	case len(report.PressureMoves) > 3:
		report.Suggestion = fmt.Sprintf(
			"You played %d moves in serious time trouble. Practice better time allocation in the opening and middlegame.",
			len(report.PressureMoves))
	case len(report.PressureMoves) > 0:
		report.Suggestion = "Fine-tune your time usage in critical positions."
	default:
		report.Suggestion = "Balance your time usage to avoid spending too much time on certain moves."
	}
	return report
}
