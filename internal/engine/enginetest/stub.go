// Package enginetest provides a scripted in-memory Evaluator for tests.
// Evaluations, timeouts and crashes are keyed by FEN, so tests can stage
// exact engine behavior per position without a real engine binary.
package enginetest

import (
	"context"
	"sync"

	"github.com/discochess/coach/internal/engine"
)

// Stub is a scripted evaluator. It is safe for concurrent use so a single
// Stub can back every worker of a batch test through Factory.
type Stub struct {
	mu          sync.Mutex
	evals       map[string]engine.Evaluation
	timeouts    map[string]bool
	unavailable map[string]bool
	defaultCP   int
	calls       int
	closes      int
}

// New creates an empty Stub. Positions without a staged evaluation return
// the default score (zero centipawns unless SetDefault is called).
func New() *Stub {
	return &Stub{
		evals:       make(map[string]engine.Evaluation),
		timeouts:    make(map[string]bool),
		unavailable: make(map[string]bool),
	}
}

// SetEval stages the evaluation returned for a position. The score is in
// centipawns relative to the side to move, per the evaluator contract.
func (s *Stub) SetEval(fen string, centipawns int, bestLine ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := engine.Evaluation{Centipawns: centipawns, BestLine: bestLine, Depth: 1}
	if len(bestLine) > 0 {
		ev.BestMove = bestLine[0]
	}
	s.evals[fen] = ev
}

// SetDefault sets the score returned for positions with no staged evaluation.
func (s *Stub) SetDefault(centipawns int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultCP = centipawns
}

// TimeoutOn makes evaluation of the given position fail with ErrTimeout.
func (s *Stub) TimeoutOn(fen string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts[fen] = true
}

// UnavailableOn makes evaluation of the given position fail with
// ErrUnavailable, simulating an engine crash that survived its restart.
func (s *Stub) UnavailableOn(fen string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable[fen] = true
}

// Calls returns how many Evaluate calls the stub has served.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Closes returns how many evaluator handles have been closed.
func (s *Stub) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Evaluate returns the staged behavior for the position.
func (s *Stub) Evaluate(ctx context.Context, fen string, depth int) (*engine.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.unavailable[fen] {
		return nil, engine.ErrUnavailable
	}
	if s.timeouts[fen] {
		return nil, engine.ErrTimeout
	}
	if ev, ok := s.evals[fen]; ok {
		out := ev
		return &out, nil
	}
	return &engine.Evaluation{Centipawns: s.defaultCP, Depth: depth}, nil
}

// Close counts the close without disabling the stub, so one Stub can serve
// many evaluator handles across a batch.
func (s *Stub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

// Factory returns an engine.Factory whose evaluators all share this stub.
func (s *Stub) Factory() engine.Factory {
	return func() (engine.Evaluator, error) {
		return s, nil
	}
}
