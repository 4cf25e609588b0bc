package coach

import (
	"time"

	"github.com/discochess/coach/internal/classify"
	"github.com/discochess/coach/internal/feature"
)

// Outcome is the final result of a game from the player's point of view.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Move is one played move as supplied by the game-fetching collaborator.
type Move struct {
	// Ply is the 0-based half-move index; white moves on even plies.
	Ply int `json:"ply"`

	// SAN is the move in standard algebraic notation.
	SAN string `json:"san"`

	// TimeSpent is the wall clock spent on the move. Zero means the
	// source supplied no clock data for it.
	TimeSpent time.Duration `json:"time_spent,omitempty"`
}

// GameRecord is one game to analyze. The caller owns it; analysis only
// reads it and produces a derived AnalysisResult.
type GameRecord struct {
	// ID identifies the game within a batch. Required.
	ID string `json:"id"`

	// Moves is the full ordered move list. Required.
	Moves []Move `json:"moves"`

	// Result is the game's outcome for the player.
	Result Outcome `json:"result"`

	// Platform names the source site (e.g. "chess.com", "lichess").
	Platform string `json:"platform,omitempty"`

	// Opponent is the other player's handle.
	Opponent string `json:"opponent,omitempty"`

	// OpeningName is the source's opening label when it supplied one; the
	// pipeline resolves its own name from the book regardless.
	OpeningName string `json:"opening_name,omitempty"`

	// PlayedAt is when the game was played.
	PlayedAt time.Time `json:"played_at,omitempty"`

	// BaseTime is each side's initial clock, used for time pressure
	// detection. Zero disables it.
	BaseTime time.Duration `json:"base_time,omitempty"`
}

// SANs returns the bare move strings in order.
func (g *GameRecord) SANs() []string {
	sans := make([]string, len(g.Moves))
	for i, m := range g.Moves {
		sans[i] = m.SAN
	}
	return sans
}

// Classification re-exports the move severity tiers.
type Classification = classify.Classification

// Severity tiers attached to annotated moves.
const (
	Blunder    = classify.Blunder
	Mistake    = classify.Mistake
	Inaccuracy = classify.Inaccuracy
	Normal     = classify.Normal
	Unknown    = classify.Unknown
)

// AnnotatedMove is a played move enriched with engine evaluations and a
// classification. Evaluations are centipawns from the mover's perspective:
// positive is good for the side that just moved.
type AnnotatedMove struct {
	Move

	// WhiteMoved is true when white made the move.
	WhiteMoved bool `json:"white_moved"`

	// IsCheck and IsCapture are derived from replaying the move.
	IsCheck   bool `json:"is_check"`
	IsCapture bool `json:"is_capture"`

	// EvalBefore and EvalAfter bracket the move; nil when the engine
	// could not evaluate the position in time.
	EvalBefore *int `json:"eval_before"`
	EvalAfter  *int `json:"eval_after"`

	// BestMove is the engine's preferred move in the pre-move position,
	// in UCI notation.
	BestMove string `json:"best_move,omitempty"`

	// Classification is the severity tier for this move.
	Classification Classification `json:"classification"`
}

// Report types produced by the feature extractors.
type (
	OpeningReport  = feature.OpeningReport
	TimeReport     = feature.TimeReport
	TacticalMoment = feature.TacticalMoment
	EndgameReport  = feature.EndgameReport
)
