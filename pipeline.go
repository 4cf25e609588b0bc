package coach

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/discochess/coach/internal/engine"
	"github.com/discochess/coach/internal/feature"
	"github.com/discochess/coach/internal/narrate"
	"github.com/discochess/coach/internal/replay"
	"github.com/discochess/coach/internal/stats"
)

// analyzeWith runs the whole single-game pipeline on one evaluator:
// replay, engine evaluation, classification, feature extraction, synthesis
// and optional narration.
func (a *Analyzer) analyzeWith(ctx context.Context, ev engine.Evaluator, game GameRecord) (*AnalysisResult, error) {
	if game.ID == "" {
		return nil, fmt.Errorf("%w: missing game id", ErrMalformedGame)
	}

	// A record with no moves is an empty but valid game; it needs no
	// engine and yields a zeroed result.
	if len(game.Moves) == 0 {
		result := a.synthesize(game, nil, nil)
		if a.cfg.narrator != nil {
			result.Narrative = a.narrateGame(ctx, result)
		}
		return result, nil
	}

	replayed, err := replay.Replay(game.SANs())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGame, err)
	}

	evals, err := engine.Sequence(ctx, ev, replayed.FENs, a.cfg.depth)
	if err != nil {
		if errors.Is(err, engine.ErrUnavailable) {
			return nil, fmt.Errorf("%w: game %s", ErrEngineUnavailable, game.ID)
		}
		return nil, err
	}

	var evaluated int
	for _, r := range evals {
		if errors.Is(r.Err, engine.ErrTimeout) {
			a.stats.IncCounter(stats.MetricEngineTimeouts, 1)
		}
		if r.Eval != nil {
			evaluated++
		}
	}
	a.stats.IncCounter(stats.MetricEngineEvals, int64(evaluated))

	// An engine that produced nothing at all is as good as gone; an empty
	// report would misstate the game as cleanly played.
	if evaluated == 0 {
		return nil, fmt.Errorf("%w: no positions evaluated for game %s", ErrEngineUnavailable, game.ID)
	}

	annotated := a.annotate(game, replayed, evals)
	result := a.synthesize(game, replayed, annotated)

	if a.cfg.narrator != nil {
		result.Narrative = a.narrateGame(ctx, result)
	}

	a.logger.Debug("game analyzed",
		zap.String("gameID", game.ID),
		zap.Int("moves", len(result.Moves)),
		zap.Int("blunders", result.Blunders),
		zap.Float64("accuracy", result.Accuracy),
	)
	return result, nil
}

// annotate merges replay facts with engine evaluations and classifies every
// move. Evaluations are normalized to the mover's perspective: the engine
// scores relative to the side to move, so the post-move score (opponent to
// move) is negated.
func (a *Analyzer) annotate(game GameRecord, replayed *replay.Game, evals []engine.SequenceResult) []AnnotatedMove {
	relative := func(i int) *int {
		if evals[i].Eval == nil {
			return nil
		}
		cp := evals[i].Eval.Centipawns
		return &cp
	}

	annotated := make([]AnnotatedMove, len(replayed.Moves))
	for i, facts := range replayed.Moves {
		before := relative(i)
		var after *int
		if cp := relative(i + 1); cp != nil {
			negated := -*cp
			after = &negated
		}

		am := AnnotatedMove{
			Move:       game.Moves[i],
			WhiteMoved: facts.WhiteMoved,
			IsCheck:    facts.IsCheck,
			IsCapture:  facts.IsCapture,
			EvalBefore: before,
			EvalAfter:  after,
		}
		if evals[i].Eval != nil {
			am.BestMove = evals[i].Eval.BestMove
		}

		// The opening move carries no verdict regardless of its pair.
		if i == 0 {
			am.Classification = Normal
		} else {
			am.Classification = a.cfg.thresholds.Classify(before, after)
		}
		annotated[i] = am
	}
	return annotated
}

// featureMoves converts annotated moves into the extractors' input form.
func featureMoves(replayed []replay.MoveFacts, annotated []AnnotatedMove) []feature.Move {
	moves := make([]feature.Move, len(annotated))
	for i, am := range annotated {
		moves[i] = feature.Move{
			Number:        i + 1,
			SAN:           am.SAN,
			UCI:           replayed[i].UCI,
			WhiteMoved:    am.WhiteMoved,
			TimeSpent:     am.TimeSpent,
			EvalBefore:    am.EvalBefore,
			EvalAfter:     am.EvalAfter,
			BestUCI:       am.BestMove,
			Class:         am.Classification,
			IsCapture:     am.IsCapture,
			IsCheck:       am.IsCheck,
			MaterialAfter: replayed[i].MaterialAfter,
		}
	}
	return moves
}

// narrateGame requests the optional per-game narrative. Any failure is
// logged and downgraded to an absent narrative.
func (a *Analyzer) narrateGame(ctx context.Context, result *AnalysisResult) string {
	tactics := make([]string, len(result.Tactics))
	for i, m := range result.Tactics {
		tactics[i] = m.Description
	}

	req := narrate.Request{
		Scope:        narrate.ScopeGame,
		Blunders:     result.Blunders,
		Mistakes:     result.Mistakes,
		Inaccuracies: result.Inaccuracies,
		Accuracy:     result.Accuracy,
		Opening:      result.Opening.Name,
		Tactics:      tactics,
		Endgame:      result.Endgame.Evaluation,
	}
	if result.TimeManagement.Available {
		req.TimeSummary = result.TimeManagement.Suggestion
	}

	nctx, cancel := context.WithTimeout(ctx, a.cfg.narrationTimeout)
	defer cancel()

	text, err := a.cfg.narrator.Narrate(nctx, req)
	if err != nil {
		a.stats.IncCounter(stats.MetricNarrationFailures, 1)
		a.logger.Warn("narrative generation failed",
			zap.String("gameID", result.GameID),
			zap.Error(err),
		)
		return ""
	}
	return text
}
