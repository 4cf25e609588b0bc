package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/discochess/coach"
	"github.com/discochess/coach/internal/codec"
	"github.com/discochess/coach/internal/gate"
	"github.com/discochess/coach/internal/gate/memgate"
	"github.com/discochess/coach/internal/pgnio"
)

var batchCmd = &cobra.Command{
	Use:   "batch [PGN file]",
	Short: "Analyze every game in a PGN file",
	Long: `Analyze all games of a PGN file and print the aggregate coaching
report. With --output the full report is written as JSON; a .gz or .zst
extension selects the matching compression.

Examples:
  coach batch games.pgn --engine /usr/bin/stockfish
  coach batch games.pgn --engine /usr/bin/stockfish --limit 20 --output report.json.zst`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchOutput string
	batchLimit  int
)

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write the full report to this file")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "analyze at most this many games (0 = unlimited)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening PGN: %w", err)
	}
	defer f.Close()

	games, err := pgnio.Read(f, viper.GetString("player"))
	if err != nil {
		return err
	}

	var budget gate.Gate = gate.Unlimited{}
	if batchLimit > 0 {
		budget = memgate.New(batchLimit)
	}

	analyzer, err := newAnalyzer(logger, coach.WithGate(budget))
	if err != nil {
		return err
	}
	defer analyzer.Close()

	result, err := analyzer.AnalyzeBatch(context.Background(), games)
	if err != nil {
		return fmt.Errorf("batch analysis failed: %w", err)
	}

	if batchOutput != "" {
		if err := writeReport(batchOutput, result); err != nil {
			return err
		}
	}
	printBatchSummary(result)
	return nil
}

// writeReport encodes the full report as JSON, compressed per the file
// extension.
func writeReport(path string, result *coach.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()

	w, err := codec.ForPath(path).Writer(f)
	if err != nil {
		return fmt.Errorf("creating report writer: %w", err)
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		w.Close()
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing report: %w", err)
	}
	return nil
}

func printBatchSummary(result *coach.BatchResult) {
	s := result.Stats
	fmt.Printf("Batch:    %s\n", result.BatchID)
	fmt.Printf("Games:    %d analyzed, %d failed, %d skipped (of %d)\n",
		s.Analyzed, s.Failed, s.Skipped, s.TotalGames)
	fmt.Printf("Record:   %d-%d-%d\n", s.Wins, s.Losses, s.Draws)
	fmt.Printf("Accuracy: %.1f%% (stddev %.1f)\n", s.AverageAccuracy, s.AccuracyStdDev)
	fmt.Printf("Errors:   %d blunders, %d mistakes, %d inaccuracies\n",
		s.TotalBlunders, s.TotalMistakes, s.TotalInaccuracies)
	for _, area := range s.ImprovementAreas {
		fmt.Printf("Improve:  %s (%.2f per game) - %s\n", area.Area, area.Rate, area.Description)
	}
	for _, strength := range s.Strengths {
		fmt.Printf("Strength: %s\n", strength.Area)
	}
	if result.Narrative != "" {
		fmt.Printf("\n%s\n", result.Narrative)
	}
}
