package coach

import (
	"gonum.org/v1/gonum/stat"

	"github.com/discochess/coach/internal/feature"
	"github.com/discochess/coach/internal/replay"
)

// synthesize combines classifications and feature reports into one
// AnalysisResult. It is purely combinational and total: any classified move
// list, including an empty or all-unknown one, yields a well-formed result
// with zeroed fields.
func (a *Analyzer) synthesize(game GameRecord, replayed *replay.Game, annotated []AnnotatedMove) *AnalysisResult {
	result := &AnalysisResult{
		GameID:  game.ID,
		Depth:   a.cfg.depth,
		Moves:   annotated,
		Tactics: []TacticalMoment{},
	}

	var classified int
	for _, am := range annotated {
		switch am.Classification {
		case Blunder:
			result.Blunders++
		case Mistake:
			result.Mistakes++
		case Inaccuracy:
			result.Inaccuracies++
		case Unknown:
			result.UnknownMoves++
		}
		if am.Classification != Unknown {
			classified++
		}
	}
	if classified > 0 {
		good := classified - result.Blunders - result.Mistakes - result.Inaccuracies
		result.Accuracy = float64(good) / float64(classified) * 100
	}

	var moves []feature.Move
	if replayed != nil {
		moves = featureMoves(replayed.Moves, annotated)
	}
	result.Opening = feature.ExtractOpening(moves, a.cfg.book)
	result.TimeManagement = feature.ExtractTime(moves, a.cfg.timeConfig(game.BaseTime))
	result.Tactics = feature.ExtractTactics(moves, feature.TacticsConfig{SwingThreshold: a.cfg.tacticSwing})
	result.Endgame = feature.ExtractEndgame(moves, feature.EndgameConfig{MaterialCutoff: a.cfg.materialCutoff}, a.cfg.thresholds)
	result.Consistency = consistency(annotated)

	return result
}

// consistency summarizes the evaluation trajectory from white's
// perspective. Positions the engine could not evaluate are skipped.
func consistency(annotated []AnnotatedMove) ConsistencyReport {
	var evals []float64
	for _, am := range annotated {
		if am.EvalAfter == nil {
			continue
		}
		cp := float64(*am.EvalAfter)
		if !am.WhiteMoved {
			cp = -cp
		}
		evals = append(evals, cp)
	}

	if len(evals) == 0 {
		return ConsistencyReport{}
	}
	report := ConsistencyReport{AverageEval: stat.Mean(evals, nil)}
	if len(evals) > 1 {
		report.EvalStdDev = stat.StdDev(evals, nil)
	}
	return report
}
