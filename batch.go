package coach

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/discochess/coach/internal/engine"
	"github.com/discochess/coach/internal/narrate"
	"github.com/discochess/coach/internal/stats"
)

// pressureGameMoves is how many time-pressure moves make a game count
// toward the batch's time-pressure pattern.
const pressureGameMoves = 3

// AnalyzeBatch runs the single-game pipeline over every game under a
// bounded worker pool, then aggregates the outcomes. Each worker owns one
// engine for its whole lifetime. The resource gate is consulted before each
// game is dispatched; once it refuses, no further games start and the rest
// are marked skipped. Per-game failures never abort siblings, and a
// BatchResult is always returned, even when every game failed.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, games []GameRecord) (*BatchResult, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}

	a.stats.IncCounter(stats.MetricBatches, 1)
	result := &BatchResult{
		BatchID: uuid.NewString(),
		Games:   make(map[string]GameOutcome, len(games)),
	}

	var mu sync.Mutex
	record := func(id string, out GameOutcome) {
		mu.Lock()
		result.Games[id] = out
		mu.Unlock()
	}
	skip := func(remaining []GameRecord, reason string) {
		for _, g := range remaining {
			a.stats.IncCounter(stats.MetricGamesSkipped, 1)
			record(g.ID, GameOutcome{Status: StatusSkipped, Reason: reason})
		}
	}

	workers := a.cfg.concurrency
	if workers > len(games) {
		workers = len(games)
	}
	jobs := make(chan GameRecord)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.runWorker(ctx, jobs, record)
		}()
	}

	a.logger.Info("batch started",
		zap.String("batchID", result.BatchID),
		zap.Int("games", len(games)),
		zap.Int("workers", workers),
	)

dispatch:
	for i, game := range games {
		if ctx.Err() != nil {
			skip(games[i:], ReasonCanceled)
			break
		}
		if !a.cfg.gate.Reserve(1) {
			a.logger.Warn("analysis budget exhausted",
				zap.String("batchID", result.BatchID),
				zap.Int("remainingGames", len(games)-i),
			)
			skip(games[i:], ReasonInsufficientResources)
			break
		}
		select {
		case jobs <- game:
		case <-ctx.Done():
			a.cfg.gate.Release(1)
			skip(games[i:], ReasonCanceled)
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	a.stats.SetGauge(stats.MetricBudgetRemaining, int64(a.cfg.gate.Remaining()))

	// Aggregation is a barrier: every game has a final outcome here.
	result.Stats = aggregate(games, result.Games)
	if a.cfg.narrator != nil {
		result.Narrative = a.narrateBatch(ctx, &result.Stats)
	}

	a.logger.Info("batch finished",
		zap.String("batchID", result.BatchID),
		zap.Int("analyzed", result.Stats.Analyzed),
		zap.Int("failed", result.Stats.Failed),
		zap.Int("skipped", result.Stats.Skipped),
	)
	return result, nil
}

// runWorker processes games off the jobs channel with one owned engine.
// A dead engine fails only the game it died on; the worker acquires a
// fresh one before taking the next game.
func (a *Analyzer) runWorker(ctx context.Context, jobs <-chan GameRecord, record func(string, GameOutcome)) {
	ev, err := a.acquireEngine()
	for game := range jobs {
		if err != nil {
			a.stats.IncCounter(stats.MetricGamesFailed, 1)
			record(game.ID, GameOutcome{Status: StatusFailed, Reason: ReasonEngineUnavailable})
			ev, err = a.acquireEngine()
			continue
		}

		outcome := a.runGame(ctx, ev, game)
		record(game.ID, outcome)

		if outcome.Status == StatusFailed && outcome.Reason == ReasonEngineUnavailable {
			ev.Close()
			ev, err = a.acquireEngine()
		}
	}
	if err == nil {
		ev.Close()
	}
}

// runGame analyzes one game and maps its error, if any, to an outcome.
func (a *Analyzer) runGame(ctx context.Context, ev engine.Evaluator, game GameRecord) GameOutcome {
	start := time.Now()
	result, err := a.analyzeWith(ctx, ev, game)
	if err != nil {
		a.stats.IncCounter(stats.MetricGamesFailed, 1)
		a.logger.Warn("game analysis failed",
			zap.String("gameID", game.ID),
			zap.Error(err),
		)

		reason := err.Error()
		switch {
		case errors.Is(err, ErrEngineUnavailable):
			reason = ReasonEngineUnavailable
		case errors.Is(err, ErrMalformedGame):
			reason = ReasonMalformedGame
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			reason = ReasonCanceled
		}
		return GameOutcome{Status: StatusFailed, Reason: reason}
	}

	a.stats.IncCounter(stats.MetricGamesAnalyzed, 1)
	a.stats.ObserveHistogram(stats.MetricGameSeconds, time.Since(start).Seconds())
	return GameOutcome{Status: StatusAnalyzed, Result: result}
}

// aggregate folds all final per-game outcomes into OverallStats.
func aggregate(games []GameRecord, outcomes map[string]GameOutcome) OverallStats {
	overall := OverallStats{
		TotalGames:       len(games),
		ImprovementAreas: []FocusArea{},
		Strengths:        []FocusArea{},
	}

	recordsByID := make(map[string]*GameRecord, len(games))
	for i := range games {
		recordsByID[games[i].ID] = &games[i]
	}

	var accuracies []float64
	for id, out := range outcomes {
		switch out.Status {
		case StatusFailed:
			overall.Failed++
			continue
		case StatusSkipped:
			overall.Skipped++
			continue
		}
		overall.Analyzed++

		if rec, ok := recordsByID[id]; ok {
			switch rec.Result {
			case OutcomeWin:
				overall.Wins++
			case OutcomeLoss:
				overall.Losses++
			case OutcomeDraw:
				overall.Draws++
			}
		}

		res := out.Result
		overall.TotalBlunders += res.Blunders
		overall.TotalMistakes += res.Mistakes
		overall.TotalInaccuracies += res.Inaccuracies
		accuracies = append(accuracies, res.Accuracy)

		if res.TimeManagement.Available && len(res.TimeManagement.PressureMoves) > pressureGameMoves {
			overall.TimePressureGames++
		}
	}

	if overall.Analyzed == 0 {
		return overall
	}

	overall.AverageAccuracy = stat.Mean(accuracies, nil)
	if len(accuracies) > 1 {
		overall.AccuracyStdDev = stat.StdDev(accuracies, nil)
	}

	rankFocusAreas(&overall)
	return overall
}

// rankFocusAreas splits error categories into improvement areas (above the
// batch's average per-game error rate) and strengths (at or below it),
// ranked by how far they sit from the average. The original time-pressure
// and win-rate heuristics are kept on top of the ranking.
func rankFocusAreas(overall *OverallStats) {
	n := float64(overall.Analyzed)

	categories := []FocusArea{
		{
			Area:        "Tactical Awareness",
			Description: "Focus on reducing tactical oversights and blunders.",
			Rate:        float64(overall.TotalBlunders) / n,
		},
		{
			Area:        "Strategic Planning",
			Description: "Work on positional understanding and long-term planning.",
			Rate:        float64(overall.TotalMistakes) / n,
		},
		{
			Area:        "Precision",
			Description: "Cut down on the small concessions that add up over a game.",
			Rate:        float64(overall.TotalInaccuracies) / n,
		},
	}

	var mean float64
	for _, c := range categories {
		mean += c.Rate
	}
	mean /= float64(len(categories))

	for _, c := range categories {
		if c.Rate > mean {
			overall.ImprovementAreas = append(overall.ImprovementAreas, c)
		} else {
			overall.Strengths = append(overall.Strengths, c)
		}
	}
	// Worst rates first for improvement areas, best first for strengths.
	sort.Slice(overall.ImprovementAreas, func(i, j int) bool {
		return overall.ImprovementAreas[i].Rate > overall.ImprovementAreas[j].Rate
	})
	sort.Slice(overall.Strengths, func(i, j int) bool {
		return overall.Strengths[i].Rate < overall.Strengths[j].Rate
	})

	if rate := float64(overall.TimePressureGames) / n; rate > 0.3 {
		overall.ImprovementAreas = append(overall.ImprovementAreas, FocusArea{
			Area:        "Time Management",
			Description: "Improve time management, especially in critical positions.",
			Rate:        rate,
		})
	}
	if overall.AverageAccuracy > 80 {
		overall.Strengths = append(overall.Strengths, FocusArea{
			Area:        "Overall Accuracy",
			Description: "Strong overall play with few significant errors.",
			Rate:        overall.AverageAccuracy,
		})
	}
	if winRate := float64(overall.Wins) / n; winRate > 0.6 {
		overall.Strengths = append(overall.Strengths, FocusArea{
			Area:        "Competitive Performance",
			Description: "Good win rate showing strong competitive ability.",
			Rate:        winRate,
		})
	}
}

// narrateBatch requests the combined narrative, independent of per-game
// narratives and with the same downgrade-on-failure policy.
func (a *Analyzer) narrateBatch(ctx context.Context, overall *OverallStats) string {
	focus := make([]string, len(overall.ImprovementAreas))
	for i, f := range overall.ImprovementAreas {
		focus[i] = f.Area
	}
	strengths := make([]string, len(overall.Strengths))
	for i, s := range overall.Strengths {
		strengths[i] = s.Area
	}

	nctx, cancel := context.WithTimeout(ctx, a.cfg.narrationTimeout)
	defer cancel()

	text, err := a.cfg.narrator.Narrate(nctx, narrate.Request{
		Scope:        narrate.ScopeBatch,
		Blunders:     overall.TotalBlunders,
		Mistakes:     overall.TotalMistakes,
		Inaccuracies: overall.TotalInaccuracies,
		Accuracy:     overall.AverageAccuracy,
		Games:        overall.TotalGames,
		Wins:         overall.Wins,
		Losses:       overall.Losses,
		Draws:        overall.Draws,
		Focus:        focus,
		Strengths:    strengths,
	})
	if err != nil {
		a.stats.IncCounter(stats.MetricNarrationFailures, 1)
		a.logger.Warn("batch narrative generation failed", zap.Error(err))
		return ""
	}
	return text
}
