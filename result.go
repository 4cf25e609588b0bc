package coach

// ConsistencyReport summarizes how stable the evaluation stayed over the
// game, from white's perspective.
type ConsistencyReport struct {
	// AverageEval is the mean centipawn evaluation across all evaluated
	// positions.
	AverageEval float64 `json:"average_eval"`

	// EvalStdDev is the standard deviation of those evaluations; lower
	// means steadier play by both sides.
	EvalStdDev float64 `json:"eval_std_dev"`
}

// AnalysisResult is the complete analysis of one game. It is created once
// per successful analysis and never mutated afterward.
type AnalysisResult struct {
	// GameID echoes the analyzed record's ID.
	GameID string `json:"game_id"`

	// Depth is the engine search depth used.
	Depth int `json:"depth"`

	// Moves is the annotated move list, one entry per input move.
	Moves []AnnotatedMove `json:"moves"`

	// Error tier counts. Unknown moves are counted separately and never
	// contribute to the three error tiers.
	Blunders     int `json:"blunders"`
	Mistakes     int `json:"mistakes"`
	Inaccuracies int `json:"inaccuracies"`
	UnknownMoves int `json:"unknown_moves"`

	// Accuracy is the share of classified moves that were not errors, as
	// a percentage. Zero when no move could be classified.
	Accuracy float64 `json:"accuracy"`

	// Per-feature sub-reports.
	Opening        OpeningReport     `json:"opening"`
	TimeManagement TimeReport        `json:"time_management"`
	Tactics        []TacticalMoment  `json:"tactics"`
	Endgame        EndgameReport     `json:"endgame"`
	Consistency    ConsistencyReport `json:"consistency"`

	// Narrative is optional free-text coaching advice; empty when
	// narration is disabled or unavailable.
	Narrative string `json:"narrative,omitempty"`
}

// GameStatus labels how a game fared within a batch.
type GameStatus string

const (
	// StatusAnalyzed means the game has a full AnalysisResult.
	StatusAnalyzed GameStatus = "analyzed"

	// StatusFailed means the game's own analysis failed; siblings are
	// unaffected.
	StatusFailed GameStatus = "failed"

	// StatusSkipped means the game was never started.
	StatusSkipped GameStatus = "skipped"
)

// Skip and failure reasons recorded on GameOutcome.
const (
	ReasonEngineUnavailable     = "engine_unavailable"
	ReasonMalformedGame         = "malformed_game_record"
	ReasonInsufficientResources = "skipped_insufficient_resources"
	ReasonCanceled              = "batch_canceled"
)

// GameOutcome is one game's entry in a BatchResult.
type GameOutcome struct {
	// Status tells whether Result is populated.
	Status GameStatus `json:"status"`

	// Result is the analysis, only for StatusAnalyzed.
	Result *AnalysisResult `json:"result,omitempty"`

	// Reason explains failed and skipped outcomes.
	Reason string `json:"reason,omitempty"`
}

// FocusArea is one ranked improvement area or strength.
type FocusArea struct {
	// Area is the category name.
	Area string `json:"area"`

	// Description says what to do about it.
	Description string `json:"description"`

	// Rate is the measure that ranked this area: the per-game error rate
	// for the error categories and time pressure, the accuracy percentage
	// for the accuracy strength, and the win ratio for the competitive
	// strength.
	Rate float64 `json:"rate"`
}

// OverallStats aggregates a whole batch. Computed only after every game has
// a final outcome.
type OverallStats struct {
	TotalGames int `json:"total_games"`
	Analyzed   int `json:"analyzed"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`

	// AverageAccuracy and AccuracyStdDev summarize per-game accuracy
	// across analyzed games.
	AverageAccuracy float64 `json:"average_accuracy"`
	AccuracyStdDev  float64 `json:"accuracy_std_dev"`

	// Error totals across analyzed games.
	TotalBlunders     int `json:"total_blunders"`
	TotalMistakes     int `json:"total_mistakes"`
	TotalInaccuracies int `json:"total_inaccuracies"`

	// TimePressureGames counts analyzed games with more than three moves
	// played under time pressure.
	TimePressureGames int `json:"time_pressure_games"`

	// ImprovementAreas and Strengths rank categories by their per-game
	// error rate against the batch average.
	ImprovementAreas []FocusArea `json:"improvement_areas"`
	Strengths        []FocusArea `json:"strengths"`
}

// BatchResult is the aggregate outcome of one batch invocation. It is
// always produced, even when every game failed or was skipped.
type BatchResult struct {
	// BatchID uniquely identifies this invocation.
	BatchID string `json:"batch_id"`

	// Games maps game ID to its outcome. Every submitted game appears
	// exactly once.
	Games map[string]GameOutcome `json:"games"`

	// Stats is the cross-game aggregate.
	Stats OverallStats `json:"stats"`

	// Narrative is the combined coaching text; empty when narration is
	// disabled or unavailable.
	Narrative string `json:"narrative,omitempty"`
}
