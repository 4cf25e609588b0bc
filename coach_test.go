package coach

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/discochess/coach/internal/classify"
	"github.com/discochess/coach/internal/engine/enginetest"
	"github.com/discochess/coach/internal/narrate"
	"github.com/discochess/coach/internal/replay"
	"github.com/discochess/coach/internal/stats"
)

func testGame(id string, sans ...string) GameRecord {
	moves := make([]Move, len(sans))
	for i, san := range sans {
		moves[i] = Move{Ply: i, SAN: san}
	}
	return GameRecord{ID: id, Moves: moves, Result: OutcomeWin}
}

// positions replays the moves so tests can stage stub behavior per FEN
// without hard-coding FEN strings.
func positions(t *testing.T, sans ...string) []string {
	t.Helper()
	g, err := replay.Replay(sans)
	if err != nil {
		t.Fatalf("Replay(%v) error: %v", sans, err)
	}
	return g.FENs
}

func TestNewRequiresEngine(t *testing.T) {
	if _, err := New(); !errors.Is(err, ErrNoEngine) {
		t.Errorf("New() error = %v, want %v", err, ErrNoEngine)
	}
}

func TestNewValidatesOptions(t *testing.T) {
	stub := enginetest.New()

	_, err := New(
		WithEngineFactory(stub.Factory()),
		WithThresholds(classify.Thresholds{Blunder: 50, Mistake: 100, Inaccuracy: 300}),
	)
	if err == nil {
		t.Error("New() with inverted thresholds succeeded, want error")
	}

	_, err = New(
		WithEngineFactory(stub.Factory()),
		WithConcurrency(0),
	)
	if err == nil {
		t.Error("New() with zero concurrency succeeded, want error")
	}
}

func TestAnalyzeGameSingleMove(t *testing.T) {
	stub := enginetest.New()
	analyzer, err := New(WithEngineFactory(stub.Factory()), WithoutNarrative())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	result, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", "e4"))
	if err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}

	if got := len(result.Moves); got != 1 {
		t.Fatalf("len(Moves) = %d, want 1", got)
	}
	mv := result.Moves[0]
	if mv.Classification != Normal {
		t.Errorf("Moves[0].Classification = %q, want %q", mv.Classification, Normal)
	}
	if !mv.WhiteMoved {
		t.Error("Moves[0].WhiteMoved = false, want true")
	}
	if result.Blunders != 0 || result.Mistakes != 0 || result.Inaccuracies != 0 {
		t.Errorf("error counts = %d/%d/%d, want 0/0/0",
			result.Blunders, result.Mistakes, result.Inaccuracies)
	}
	if result.Accuracy != 100 {
		t.Errorf("Accuracy = %v, want 100", result.Accuracy)
	}
	if result.GameID != "g1" {
		t.Errorf("GameID = %q, want %q", result.GameID, "g1")
	}
}

func TestAnalyzeGameMalformed(t *testing.T) {
	stub := enginetest.New()
	analyzer, err := New(WithEngineFactory(stub.Factory()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	cases := []struct {
		name string
		game GameRecord
	}{
		{"illegal move", testGame("g1", "e4", "e4")},
		{"undecodable move", testGame("g1", "e4", "Zz9")},
		{"missing id", testGame("", "e4")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := analyzer.AnalyzeGame(context.Background(), tc.game); !errors.Is(err, ErrMalformedGame) {
				t.Errorf("AnalyzeGame() error = %v, want %v", err, ErrMalformedGame)
			}
		})
	}
}

func TestAnalyzeGameZeroMoves(t *testing.T) {
	stub := enginetest.New()
	analyzer, err := New(WithEngineFactory(stub.Factory()), WithoutNarrative())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	result, err := analyzer.AnalyzeGame(context.Background(), testGame("g1"))
	if err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}

	if len(result.Moves) != 0 {
		t.Errorf("len(Moves) = %d, want 0", len(result.Moves))
	}
	if result.Blunders != 0 || result.Mistakes != 0 || result.Inaccuracies != 0 || result.UnknownMoves != 0 {
		t.Errorf("counts = %d/%d/%d/%d, want all zero",
			result.Blunders, result.Mistakes, result.Inaccuracies, result.UnknownMoves)
	}
	if result.Accuracy != 0 {
		t.Errorf("Accuracy = %v, want 0", result.Accuracy)
	}
	if got := stub.Calls(); got != 0 {
		t.Errorf("Calls() = %d, want 0 for an empty game", got)
	}
}

func TestAnalyzeGameClassifiesBlunder(t *testing.T) {
	sans := []string{"e4", "e5", "Nf3", "Nc6"}
	fens := positions(t, sans...)

	stub := enginetest.New()
	// Scores are relative to the side to move in each position. Nf3 swings
	// from +50 for white to +270 for black, a 320 centipawn loss.
	stub.SetEval(fens[1], -50)
	stub.SetEval(fens[2], 50)
	stub.SetEval(fens[3], 270)
	stub.SetEval(fens[4], -270)

	analyzer, err := New(WithEngineFactory(stub.Factory()), WithoutNarrative())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	result, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", sans...))
	if err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}

	want := []Classification{Normal, Normal, Blunder, Normal}
	for i, mv := range result.Moves {
		if mv.Classification != want[i] {
			t.Errorf("Moves[%d].Classification = %q, want %q", i, mv.Classification, want[i])
		}
	}
	if result.Blunders != 1 {
		t.Errorf("Blunders = %d, want 1", result.Blunders)
	}
	if result.Accuracy != 75 {
		t.Errorf("Accuracy = %v, want 75", result.Accuracy)
	}
}

func TestAnalyzeGameTimeoutYieldsUnknown(t *testing.T) {
	sans := []string{"e4", "e5", "Nf3", "Nc6"}
	fens := positions(t, sans...)

	stub := enginetest.New()
	stub.TimeoutOn(fens[2])

	analyzer, err := New(WithEngineFactory(stub.Factory()), WithoutNarrative(), WithEvalCacheSize(0))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	result, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", sans...))
	if err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}

	// The timed-out position brackets moves 1 and 2; move 0 is always
	// normal and move 3 still has both of its evaluations.
	want := []Classification{Normal, Unknown, Unknown, Normal}
	for i, mv := range result.Moves {
		if mv.Classification != want[i] {
			t.Errorf("Moves[%d].Classification = %q, want %q", i, mv.Classification, want[i])
		}
	}
	if result.UnknownMoves != 2 {
		t.Errorf("UnknownMoves = %d, want 2", result.UnknownMoves)
	}
	if result.Accuracy != 100 {
		t.Errorf("Accuracy = %v, want 100", result.Accuracy)
	}
}

func TestAnalyzeGameAllTimeoutsFails(t *testing.T) {
	fens := positions(t, "e4")

	stub := enginetest.New()
	stub.TimeoutOn(fens[0])
	stub.TimeoutOn(fens[1])

	analyzer, err := New(WithEngineFactory(stub.Factory()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	// With no position evaluated at all, the game must fail rather than
	// report a clean empty analysis.
	if _, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", "e4")); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("AnalyzeGame() error = %v, want %v", err, ErrEngineUnavailable)
	}
}

// captureStats records counter increments for assertions.
type captureStats struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newCaptureStats() *captureStats {
	return &captureStats{counters: make(map[string]int64)}
}

func (c *captureStats) IncCounter(name string, delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name] += delta
}

func (c *captureStats) SetGauge(name string, value int64)           {}
func (c *captureStats) ObserveHistogram(name string, value float64) {}

func (c *captureStats) counter(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}

func TestAnalyzeGameCountsTimeoutsPerPosition(t *testing.T) {
	sans := []string{"e4", "e5", "Nf3", "Nc6"}
	fens := positions(t, sans...)

	stub := enginetest.New()
	stub.TimeoutOn(fens[2])

	collector := newCaptureStats()
	analyzer, err := New(
		WithEngineFactory(stub.Factory()),
		WithStats(collector),
		WithoutNarrative(),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	if _, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", sans...)); err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}

	// One timed-out position brackets two moves but is still one timeout.
	if got := collector.counter(stats.MetricEngineTimeouts); got != 1 {
		t.Errorf("engine timeout count = %d, want 1", got)
	}
	if got := collector.counter(stats.MetricEngineEvals); got != int64(len(fens)-1) {
		t.Errorf("engine eval count = %d, want %d", got, len(fens)-1)
	}
}

func TestAnalyzeGameEngineUnavailable(t *testing.T) {
	fens := positions(t, "e4")

	stub := enginetest.New()
	stub.UnavailableOn(fens[1])

	analyzer, err := New(WithEngineFactory(stub.Factory()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	if _, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", "e4")); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("AnalyzeGame() error = %v, want %v", err, ErrEngineUnavailable)
	}
}

func TestAnalyzeGameReleasesEngine(t *testing.T) {
	fens := positions(t, "e4")

	stub := enginetest.New()
	analyzer, err := New(WithEngineFactory(stub.Factory()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	if _, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", "e4")); err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}
	if got := stub.Closes(); got != 1 {
		t.Errorf("Closes() after success = %d, want 1", got)
	}

	stub.UnavailableOn(fens[0])
	if _, err := analyzer.AnalyzeGame(context.Background(), testGame("g2", "e4")); err == nil {
		t.Fatal("AnalyzeGame() with dead engine succeeded, want error")
	}
	if got := stub.Closes(); got != 2 {
		t.Errorf("Closes() after failure = %d, want 2", got)
	}
}

func TestAnalyzeGameDeterministic(t *testing.T) {
	sans := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}
	fens := positions(t, sans...)

	stub := enginetest.New()
	for i, fen := range fens {
		stub.SetEval(fen, (i%3)*60)
	}

	analyzer, err := New(WithEngineFactory(stub.Factory()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	game := testGame("g1", sans...)
	first, err := analyzer.AnalyzeGame(context.Background(), game)
	if err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}
	second, err := analyzer.AnalyzeGame(context.Background(), game)
	if err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated analysis differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

type failingNarrator struct{}

func (failingNarrator) Narrate(context.Context, narrate.Request) (string, error) {
	return "", narrate.ErrUnavailable
}

func TestAnalyzeGameNarratorFailureDowngrades(t *testing.T) {
	stub := enginetest.New()
	analyzer, err := New(
		WithEngineFactory(stub.Factory()),
		WithNarrator(failingNarrator{}),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	result, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", "e4"))
	if err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}
	if result.Narrative != "" {
		t.Errorf("Narrative = %q, want empty", result.Narrative)
	}
}

func TestAnalyzeGameDefaultNarrative(t *testing.T) {
	stub := enginetest.New()
	analyzer, err := New(WithEngineFactory(stub.Factory()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer analyzer.Close()

	result, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", "e4", "e5"))
	if err != nil {
		t.Fatalf("AnalyzeGame() error: %v", err)
	}
	if result.Narrative == "" {
		t.Error("Narrative is empty, want rule-based text")
	}
}

func TestClose(t *testing.T) {
	stub := enginetest.New()
	analyzer, err := New(WithEngineFactory(stub.Factory()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := analyzer.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := analyzer.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v, want %v", err, ErrClosed)
	}
	if _, err := analyzer.AnalyzeGame(context.Background(), testGame("g1", "e4")); !errors.Is(err, ErrClosed) {
		t.Errorf("AnalyzeGame() after Close error = %v, want %v", err, ErrClosed)
	}
}
