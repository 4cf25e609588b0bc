package feature

import "github.com/discochess/coach/internal/classify"

// DefaultMaterialCutoff is the total board material, kings excluded, below
// which the game counts as having entered the endgame. 2400 centipawns is
// roughly a rook and minor piece per side with pawns.
const DefaultMaterialCutoff = 2400

// EndgameConfig configures endgame detection.
type EndgameConfig struct {
	// MaterialCutoff is the total-material boundary in centipawns. Zero
	// means DefaultMaterialCutoff.
	MaterialCutoff int
}

// EndgameReport evaluates play from the endgame boundary onward.
type EndgameReport struct {
	// Reached is false when material never fell below the cutoff.
	Reached bool `json:"reached"`

	// StartPly is the 1-based ply at which the endgame began.
	StartPly int `json:"start_ply"`

	// Errors counts blunders, mistakes and inaccuracies from StartPly on.
	Errors int `json:"errors"`

	// Evaluation is a qualitative account of endgame accuracy.
	Evaluation string `json:"evaluation"`

	// Suggestion is a short practice hint.
	Suggestion string `json:"suggestion"`
}

// ExtractEndgame finds the ply where material drops below the cutoff and
// grades the remaining moves with the same classifier used for the full
// game. A game that never reaches the endgame reports Reached=false, never
// an error.
func ExtractEndgame(moves []Move, cfg EndgameConfig, th classify.Thresholds) EndgameReport {
	cutoff := cfg.MaterialCutoff
	if cutoff <= 0 {
		cutoff = DefaultMaterialCutoff
	}

	start := -1
	for i, m := range moves {
		if m.MaterialAfter < cutoff {
			start = i
			break
		}
	}
	if start < 0 {
		return EndgameReport{
			Reached:    false,
			Evaluation: "The game never reached an endgame.",
		}
	}

	report := EndgameReport{
		Reached:  true,
		StartPly: moves[start].Number,
	}

	var graded int
	for _, m := range moves[start:] {
		if c := th.Classify(m.EvalBefore, m.EvalAfter); c.IsError() {
			report.Errors++
		}
		if m.EvalBefore != nil && m.EvalAfter != nil {
			graded++
		}
	}

	switch {
	case graded == 0:
		report.Evaluation = "Endgame accuracy could not be measured."
		report.Suggestion = "Practice common endgame patterns like king and pawn versus king."
	case report.Errors == 0:
		report.Evaluation = "Your endgame play was accurate."
		report.Suggestion = "Study more complex endgame positions."
	case report.Errors <= 2:
		report.Evaluation = "Your endgame positioning was solid with a few slips."
		report.Suggestion = "Practice common endgame patterns like king and pawn versus king."
	default:
		report.Evaluation = "The endgame cost you significant ground."
		report.Suggestion = "Focus on basic endgame principles and common patterns."
	}
	return report
}
