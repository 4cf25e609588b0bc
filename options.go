package coach

import (
	"time"

	"go.uber.org/zap"

	"github.com/discochess/coach/internal/classify"
	"github.com/discochess/coach/internal/engine"
	"github.com/discochess/coach/internal/engine/uci"
	"github.com/discochess/coach/internal/evalcache"
	"github.com/discochess/coach/internal/feature"
	"github.com/discochess/coach/internal/gate"
	"github.com/discochess/coach/internal/narrate"
	"github.com/discochess/coach/internal/opening"
	"github.com/discochess/coach/internal/stats"
)

// DefaultDepth is the engine search depth when none is configured.
const DefaultDepth = 12

// DefaultConcurrency is the batch worker pool size when none is configured.
// Each worker holds one live engine process, so this is the binding
// resource, not CPU count.
const DefaultConcurrency = 2

// DefaultNarrationTimeout bounds one narrative-generation call.
const DefaultNarrationTimeout = 10 * time.Second

// Option configures an Analyzer.
type Option interface {
	apply(*options)
}

// options holds the analyzer configuration.
type options struct {
	engineFactory    engine.Factory
	depth            int
	moveTimeout      time.Duration
	thresholds       classify.Thresholds
	pressureFraction float64
	tacticSwing      int
	materialCutoff   int
	book             opening.Book
	narrator         narrate.Narrator
	narrationTimeout time.Duration
	gate             gate.Gate
	concurrency      int
	cacheSize        int
	stats            stats.Collector
	logger           *zap.Logger
}

// defaultOptions returns the default configuration. Narration defaults to
// the offline rule-based narrator so results always carry feedback text.
func defaultOptions() options {
	return options{
		depth:            DefaultDepth,
		moveTimeout:      uci.DefaultMoveTimeout,
		thresholds:       classify.DefaultThresholds(),
		book:             opening.Builtin(),
		narrator:         narrate.Scripted{},
		narrationTimeout: DefaultNarrationTimeout,
		gate:             gate.Unlimited{},
		concurrency:      DefaultConcurrency,
		cacheSize:        evalcache.DefaultSize,
		stats:            stats.NewNoop(),
		logger:           zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithEnginePath configures a UCI engine binary (e.g. Stockfish). One
// process is launched per analysis worker and reused across its games.
func WithEnginePath(path string) Option {
	return optionFunc(func(o *options) {
		o.engineFactory = func() (engine.Evaluator, error) {
			return uci.New(uci.Config{
				Path:        path,
				MoveTimeout: o.moveTimeout,
				Logger:      o.logger,
			})
		}
	})
}

// WithEngineFactory sets a custom evaluator factory. Each batch worker
// calls it once and owns the returned evaluator exclusively.
func WithEngineFactory(f engine.Factory) Option {
	return optionFunc(func(o *options) {
		o.engineFactory = f
	})
}

// WithDepth sets the engine search depth. Deeper searches cost more time
// and only change score precision.
func WithDepth(depth int) Option {
	return optionFunc(func(o *options) {
		o.depth = depth
	})
}

// WithMoveTimeout bounds each single-position evaluation. A timed-out
// position is recorded as unavailable; analysis continues with the next.
func WithMoveTimeout(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.moveTimeout = d
	})
}

// WithThresholds sets the classification tier boundaries.
func WithThresholds(t classify.Thresholds) Option {
	return optionFunc(func(o *options) {
		o.thresholds = t
	})
}

// WithPressureFraction sets the remaining-clock fraction below which a move
// counts as played under time pressure.
func WithPressureFraction(f float64) Option {
	return optionFunc(func(o *options) {
		o.pressureFraction = f
	})
}

// WithTacticSwing sets the minimum centipawn swing reported as a missed
// tactical opportunity.
func WithTacticSwing(cp int) Option {
	return optionFunc(func(o *options) {
		o.tacticSwing = cp
	})
}

// WithMaterialCutoff sets the total-material boundary, in centipawns with
// kings excluded, below which the endgame begins.
func WithMaterialCutoff(cp int) Option {
	return optionFunc(func(o *options) {
		o.materialCutoff = cp
	})
}

// WithBook sets the known-openings reference.
// If not set, the bundled book is used.
func WithBook(b opening.Book) Option {
	return optionFunc(func(o *options) {
		o.book = b
	})
}

// WithNarrator sets the language-generation collaborator used for
// narrative feedback. If not set, an offline rule-based narrator is used.
func WithNarrator(n narrate.Narrator) Option {
	return optionFunc(func(o *options) {
		o.narrator = n
	})
}

// WithoutNarrative disables narrative generation entirely; results carry
// numeric and structured feedback only.
func WithoutNarrative() Option {
	return optionFunc(func(o *options) {
		o.narrator = nil
	})
}

// WithNarrationTimeout bounds each narrative-generation call.
func WithNarrationTimeout(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.narrationTimeout = d
	})
}

// WithGate sets the analysis allowance gate consulted before each game of
// a batch. If not set, the budget is unlimited.
func WithGate(g gate.Gate) Option {
	return optionFunc(func(o *options) {
		o.gate = g
	})
}

// WithConcurrency sets the batch worker pool size. Each worker holds one
// live engine process.
func WithConcurrency(n int) Option {
	return optionFunc(func(o *options) {
		o.concurrency = n
	})
}

// WithEvalCacheSize sets the per-worker evaluation cache capacity.
// Zero or negative disables caching.
func WithEvalCacheSize(n int) Option {
	return optionFunc(func(o *options) {
		o.cacheSize = n
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// timeConfig builds the extractor config for one game's clock settings.
func (o *options) timeConfig(baseTime time.Duration) feature.TimeConfig {
	return feature.TimeConfig{
		BaseTime:         baseTime,
		PressureFraction: o.pressureFraction,
	}
}
