package narrate

import (
	"context"
	"fmt"
	"strings"
)

// Scripted is a rule-based Narrator that needs no external service. It is
// the fallback when no language model is configured and the offline default
// in tests.
type Scripted struct{}

// Compile-time check that Scripted implements Narrator.
var _ Narrator = Scripted{}

// Narrate builds sectioned advice from the counts and report summaries.
// It never fails.
func (Scripted) Narrate(ctx context.Context, req Request) (string, error) {
	if req.Scope == ScopeBatch {
		return narrateBatch(req), nil
	}
	return narrateGame(req), nil
}

func narrateGame(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You made %d blunders, %d mistakes and %d inaccuracies (%.1f%% accuracy).\n",
		req.Blunders, req.Mistakes, req.Inaccuracies, req.Accuracy)

	if req.Opening != "" {
		fmt.Fprintf(&b, "Opening: %s.\n", req.Opening)
	}
	switch {
	case req.Blunders > 2:
		b.WriteString("• Key suggestion: practice tactical puzzles daily focusing on calculation accuracy.\n")
	case req.Blunders > 0 || req.Mistakes > 1:
		b.WriteString("• Key suggestion: slow down on forcing moves and double-check captures and checks.\n")
	default:
		b.WriteString("• Key suggestion: work on finding more advanced tactical opportunities.\n")
	}
	if len(req.Tactics) > 0 {
		fmt.Fprintf(&b, "• Missed tactics: %s\n", strings.Join(req.Tactics, "; "))
	}
	if req.TimeSummary != "" {
		fmt.Fprintf(&b, "• Time management: %s\n", req.TimeSummary)
	}
	if req.Endgame != "" {
		fmt.Fprintf(&b, "• Endgame: %s\n", req.Endgame)
	}
	return strings.TrimRight(b.String(), "\n")
}

func narrateBatch(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Across %d games (%d wins, %d losses, %d draws) you averaged %.1f%% accuracy.\n",
		req.Games, req.Wins, req.Losses, req.Draws, req.Accuracy)
	fmt.Fprintf(&b, "Totals: %d blunders, %d mistakes, %d inaccuracies.\n",
		req.Blunders, req.Mistakes, req.Inaccuracies)

	if len(req.Focus) > 0 {
		fmt.Fprintf(&b, "• Improvement areas: %s\n", strings.Join(req.Focus, "; "))
	}
	if len(req.Strengths) > 0 {
		fmt.Fprintf(&b, "• Strengths: %s\n", strings.Join(req.Strengths, "; "))
	}
	switch {
	case req.Accuracy >= 80:
		b.WriteString("• Keep challenging yourself with stronger opposition to convert this accuracy into rating.\n")
	case req.Accuracy >= 60:
		b.WriteString("• Review your lost games move by move; most of the dropped points came from a handful of swings.\n")
	default:
		b.WriteString("• Focus on fundamentals: fewer one-move blunders will improve your results faster than opening study.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
