// Package engine defines the chess evaluation engine interface consumed by
// the analysis pipeline. Implementations wrap a concrete engine (an OS
// process speaking UCI, a remote service, or a scripted stub for tests).
package engine

import (
	"context"
	"errors"
)

// MateScore is the centipawn value assigned to a forced mate, matching the
// convention of mapping "mate in N" to a score beyond any material advantage.
const MateScore = 10000

// Sentinel errors for well-defined engine failure modes.
var (
	// ErrTimeout indicates a single evaluation exceeded its per-call budget.
	// The position's evaluation is unavailable; the engine remains usable.
	ErrTimeout = errors.New("engine: evaluation timed out")

	// ErrUnavailable indicates the engine process is gone and could not be
	// restarted. All further calls on the same evaluator will fail.
	ErrUnavailable = errors.New("engine: unavailable")

	// ErrClosed indicates the evaluator has been closed.
	ErrClosed = errors.New("engine: closed")
)

// Evaluation is the engine's verdict on a single position.
type Evaluation struct {
	// Centipawns is the score relative to the side to move, per UCI
	// convention. Positive favors the side to move. Forced mates are
	// folded to +-MateScore.
	Centipawns int

	// Mate is the number of moves until forced mate, zero if none.
	Mate int

	// BestMove is the engine's preferred move in UCI notation.
	BestMove string

	// BestLine is the principal variation in UCI notation.
	BestLine []string

	// Depth is the search depth actually reached.
	Depth int
}

// Evaluator evaluates chess positions. Implementations are not required to
// be safe for concurrent use; the pipeline gives each worker its own
// evaluator.
type Evaluator interface {
	// Evaluate returns the evaluation of the position given in FEN at the
	// requested search depth. Returns ErrTimeout when the per-call budget
	// is exceeded and ErrUnavailable when the engine is permanently gone.
	Evaluate(ctx context.Context, fen string, depth int) (*Evaluation, error)

	// Close releases the underlying engine resources.
	Close() error
}

// Factory creates one Evaluator per analysis worker. Each worker owns its
// evaluator exclusively for its whole lifetime.
type Factory func() (Evaluator, error)

// SequenceResult holds the outcome of evaluating one position of a game.
// Eval is nil when the evaluation timed out.
type SequenceResult struct {
	Eval *Evaluation
	Err  error
}

// Sequence evaluates every position of a game in order. A timeout on one
// position is recorded in its slot and evaluation continues with the next
// position; only ErrUnavailable (or context cancellation) aborts the
// sequence and is returned as the function error.
func Sequence(ctx context.Context, ev Evaluator, fens []string, depth int) ([]SequenceResult, error) {
	results := make([]SequenceResult, len(fens))
	for i, fen := range fens {
		eval, err := ev.Evaluate(ctx, fen, depth)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				results[i] = SequenceResult{Err: err}
				continue
			}
			return nil, err
		}
		results[i] = SequenceResult{Eval: eval}
	}
	return results, nil
}
