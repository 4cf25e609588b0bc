// Package narrate defines the language-generation collaborator that turns
// structured analysis data into free-text coaching advice. Narration is
// always optional: the numeric results never depend on it.
package narrate

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the narrator could not produce text. Callers
// downgrade to an absent narrative, never to a failed analysis.
var ErrUnavailable = errors.New("narrate: narrator unavailable")

// Scope identifies what a narration request covers.
type Scope string

const (
	// ScopeGame requests a narrative for one game.
	ScopeGame Scope = "game"

	// ScopeBatch requests a combined narrative across many games.
	ScopeBatch Scope = "batch"
)

// Request is the fixed schema handed to a narrator: counts and report
// summaries in, one suggestion string out.
type Request struct {
	Scope Scope `json:"scope"`

	// Per-game and aggregate error counts.
	Blunders     int     `json:"blunders"`
	Mistakes     int     `json:"mistakes"`
	Inaccuracies int     `json:"inaccuracies"`
	Accuracy     float64 `json:"accuracy"`

	// Single-game report summaries, empty for batch scope.
	Opening     string   `json:"opening,omitempty"`
	TimeSummary string   `json:"time_summary,omitempty"`
	Tactics     []string `json:"tactics,omitempty"`
	Endgame     string   `json:"endgame,omitempty"`

	// Batch-only aggregates, zero for game scope.
	Games     int      `json:"games,omitempty"`
	Wins      int      `json:"wins,omitempty"`
	Losses    int      `json:"losses,omitempty"`
	Draws     int      `json:"draws,omitempty"`
	Focus     []string `json:"focus,omitempty"`
	Strengths []string `json:"strengths,omitempty"`
}

// Narrator produces a coaching suggestion from structured analysis data.
// Implementations must respect the context deadline; a slow or failing
// narrator returns an error and the caller omits the narrative.
type Narrator interface {
	Narrate(ctx context.Context, req Request) (string, error)
}
