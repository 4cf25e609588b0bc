package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/discochess/coach"
	"github.com/discochess/coach/internal/narrate/httpnarrate"
)

var (
	// Global flags.
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "Engine-backed chess game analysis and coaching feedback",
	Long: `Coach analyzes chess games with a UCI engine (such as Stockfish),
classifies every move, and produces per-game and cross-game coaching
feedback: blunder counts, opening performance, time management, missed
tactics and endgame technique.

Examples:
  # Analyze the first game of a PGN file
  coach analyze games.pgn --engine /usr/bin/stockfish

  # Analyze a whole PGN file and write the aggregate report
  coach batch games.pgn --engine /usr/bin/stockfish --output report.json.zst

Settings can also come from a config file (--config) or COACH_* environment
variables, e.g. COACH_ENGINE or COACH_DEPTH.`,
	PersistentPreRunE: initConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./coach.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.String("engine", "", "path to a UCI engine binary")
	pf.Int("depth", coach.DefaultDepth, "engine search depth")
	pf.Duration("move-timeout", 2*time.Second, "per-position evaluation timeout")
	pf.Int("concurrency", coach.DefaultConcurrency, "batch worker pool size")
	pf.String("player", "", "player name used to orient results")
	pf.String("narrator-url", "", "chat-completions endpoint for narrative feedback")
	pf.String("narrator-key", "", "API key for the narration endpoint")
	pf.String("narrator-model", "", "model name for the narration endpoint")

	for _, name := range []string{
		"engine", "depth", "move-timeout", "concurrency", "player",
		"narrator-url", "narrator-key", "narrator-model",
	} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func initConfig(cmd *cobra.Command, args []string) error {
	viper.SetEnvPrefix("coach")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}

	viper.SetConfigName("coach")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newAnalyzer builds an analyzer from the resolved configuration.
func newAnalyzer(logger *zap.Logger, extra ...coach.Option) (*coach.Analyzer, error) {
	enginePath := viper.GetString("engine")
	if enginePath == "" {
		return nil, fmt.Errorf("no engine configured; set --engine or COACH_ENGINE")
	}

	opts := []coach.Option{
		coach.WithEnginePath(enginePath),
		coach.WithDepth(viper.GetInt("depth")),
		coach.WithMoveTimeout(viper.GetDuration("move-timeout")),
		coach.WithConcurrency(viper.GetInt("concurrency")),
		coach.WithLogger(logger),
	}

	if url := viper.GetString("narrator-url"); url != "" {
		narrator, err := httpnarrate.New(httpnarrate.Config{
			Endpoint: url,
			APIKey:   viper.GetString("narrator-key"),
			Model:    viper.GetString("narrator-model"),
			Logger:   logger.Named("narrate"),
		})
		if err != nil {
			return nil, fmt.Errorf("configuring narrator: %w", err)
		}
		opts = append(opts, coach.WithNarrator(narrator))
	}

	return coach.New(append(opts, extra...)...)
}
