package feature

import (
	"strings"
	"testing"
	"time"

	"github.com/discochess/coach/internal/classify"
	"github.com/discochess/coach/internal/opening"
)

func intp(v int) *int { return &v }

func TestExtractOpening_BookMatch(t *testing.T) {
	moves := []Move{
		{Number: 1, SAN: "e4"},
		{Number: 2, SAN: "c5"},
		{Number: 3, SAN: "Nf3"},
	}

	report := ExtractOpening(moves, opening.Builtin())
	if report.Name != "Sicilian Defense" {
		t.Errorf("Name = %q, want Sicilian Defense", report.Name)
	}
	if len(report.PlayedMoves) != 2 {
		t.Errorf("PlayedMoves = %v, want the 2-ply matched prefix", report.PlayedMoves)
	}
	if report.Suggestion == "" {
		t.Error("Suggestion is empty")
	}
}

func TestExtractOpening_OffBook(t *testing.T) {
	moves := []Move{{Number: 1, SAN: "a3"}, {Number: 2, SAN: "h6"}}

	report := ExtractOpening(moves, opening.Builtin())
	if report.Name != UnknownOpening {
		t.Errorf("Name = %q, want %q", report.Name, UnknownOpening)
	}
	if len(report.PlayedMoves) != 2 {
		t.Errorf("PlayedMoves = %v, want both played moves", report.PlayedMoves)
	}
}

func TestExtractOpening_NilBook(t *testing.T) {
	report := ExtractOpening([]Move{{Number: 1, SAN: "e4"}}, nil)
	if report.Name != UnknownOpening {
		t.Errorf("Name = %q, want %q", report.Name, UnknownOpening)
	}
}

func TestExtractTime_NoClockData(t *testing.T) {
	moves := []Move{{Number: 1, SAN: "e4"}, {Number: 2, SAN: "e5"}}

	report := ExtractTime(moves, TimeConfig{BaseTime: 5 * time.Minute})
	if report.Available {
		t.Error("Available = true, want false without clock data")
	}
}

func TestExtractTime_AverageAndPressure(t *testing.T) {
	// White burns nearly the whole clock by move 5; base time 100s with
	// the default fraction flags moves below 10s remaining.
	moves := []Move{
		{Number: 1, WhiteMoved: true, TimeSpent: 50 * time.Second},
		{Number: 2, WhiteMoved: false, TimeSpent: 10 * time.Second},
		{Number: 3, WhiteMoved: true, TimeSpent: 45 * time.Second},
		{Number: 4, WhiteMoved: false, TimeSpent: 5 * time.Second},
		{Number: 5, WhiteMoved: true, TimeSpent: 3 * time.Second},
	}

	report := ExtractTime(moves, TimeConfig{BaseTime: 100 * time.Second})
	if !report.Available {
		t.Fatal("Available = false, want true")
	}

	want := (50 + 10 + 45 + 5 + 3) * time.Second / 5
	if report.AvgPerMove != want {
		t.Errorf("AvgPerMove = %v, want %v", report.AvgPerMove, want)
	}

	// White is at 5s after move 3 and 2s after move 5.
	if len(report.PressureMoves) != 2 || report.PressureMoves[0] != 3 || report.PressureMoves[1] != 5 {
		t.Errorf("PressureMoves = %v, want [3 5]", report.PressureMoves)
	}
}

func TestExtractTime_NoBaseTimeSkipsPressure(t *testing.T) {
	moves := []Move{{Number: 1, WhiteMoved: true, TimeSpent: time.Minute}}

	report := ExtractTime(moves, TimeConfig{})
	if !report.Available {
		t.Fatal("Available = false, want true")
	}
	if len(report.PressureMoves) != 0 {
		t.Errorf("PressureMoves = %v, want none without a base clock", report.PressureMoves)
	}
}

func TestExtractTactics_FindsDivergentSwings(t *testing.T) {
	moves := []Move{
		// Big swing, engine wanted a different move: reported.
		{Number: 3, SAN: "Qh4", UCI: "d8h4", BestUCI: "g8f6", EvalBefore: intp(20), EvalAfter: intp(-300)},
		// Big swing but the engine move was played: position was already lost.
		{Number: 4, SAN: "Ke2", UCI: "e1e2", BestUCI: "e1e2", EvalBefore: intp(-100), EvalAfter: intp(-400)},
		// Small swing: not reported.
		{Number: 5, SAN: "Nc3", UCI: "b1c3", BestUCI: "g1f3", EvalBefore: intp(10), EvalAfter: intp(-30)},
		// Missing eval: not reported.
		{Number: 6, SAN: "d4", UCI: "d2d4", BestUCI: "g1f3", EvalAfter: intp(0)},
	}

	moments := ExtractTactics(moves, TacticsConfig{})
	if len(moments) != 1 {
		t.Fatalf("len(moments) = %d, want 1", len(moments))
	}
	if moments[0].MoveNumber != 3 {
		t.Errorf("MoveNumber = %d, want 3", moments[0].MoveNumber)
	}
	if moments[0].Swing != 320 {
		t.Errorf("Swing = %d, want 320", moments[0].Swing)
	}
	if !strings.Contains(moments[0].Description, "g8f6") {
		t.Errorf("Description = %q, want mention of the engine move", moments[0].Description)
	}
}

func TestExtractTactics_EmptyNotNil(t *testing.T) {
	moments := ExtractTactics(nil, TacticsConfig{})
	if moments == nil {
		t.Error("ExtractTactics() = nil, want empty slice")
	}
	if len(moments) != 0 {
		t.Errorf("len(moments) = %d, want 0", len(moments))
	}
}

func TestExtractEndgame_NotReached(t *testing.T) {
	moves := []Move{{Number: 1, MaterialAfter: 7800}, {Number: 2, MaterialAfter: 7600}}

	report := ExtractEndgame(moves, EndgameConfig{}, classify.DefaultThresholds())
	if report.Reached {
		t.Error("Reached = true, want false")
	}
}

func TestExtractEndgame_GradesFromBoundary(t *testing.T) {
	moves := []Move{
		// Middlegame blunder, must not count toward the endgame grade.
		{Number: 10, MaterialAfter: 5000, EvalBefore: intp(0), EvalAfter: intp(-400)},
		{Number: 11, MaterialAfter: 2300, EvalBefore: intp(-20), EvalAfter: intp(-30)},
		{Number: 12, MaterialAfter: 2300, EvalBefore: intp(30), EvalAfter: intp(-90)},
		{Number: 13, MaterialAfter: 2200, EvalBefore: intp(90), EvalAfter: intp(80)},
	}

	report := ExtractEndgame(moves, EndgameConfig{}, classify.DefaultThresholds())
	if !report.Reached {
		t.Fatal("Reached = false, want true")
	}
	if report.StartPly != 11 {
		t.Errorf("StartPly = %d, want 11", report.StartPly)
	}
	if report.Errors != 1 {
		t.Errorf("Errors = %d, want 1 (only the ply-12 inaccuracy)", report.Errors)
	}
	if report.Evaluation == "" || report.Suggestion == "" {
		t.Error("Evaluation/Suggestion should be populated")
	}
}

func TestExtractEndgame_UnknownEvals(t *testing.T) {
	moves := []Move{{Number: 30, MaterialAfter: 1000}}

	report := ExtractEndgame(moves, EndgameConfig{}, classify.DefaultThresholds())
	if !report.Reached {
		t.Fatal("Reached = false, want true")
	}
	if report.Errors != 0 {
		t.Errorf("Errors = %d, want 0 for unmeasurable moves", report.Errors)
	}
	if !strings.Contains(report.Evaluation, "could not be measured") {
		t.Errorf("Evaluation = %q, want the unmeasured wording", report.Evaluation)
	}
}
