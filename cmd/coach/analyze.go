package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/discochess/coach/internal/pgnio"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [PGN file]",
	Short: "Analyze a single game",
	Long: `Analyze the first game of a PGN file and print its coaching report.

Examples:
  coach analyze game.pgn --engine /usr/bin/stockfish
  coach analyze game.pgn --engine /usr/bin/stockfish --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeJSON bool

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	analyzer, err := newAnalyzer(logger)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	result, err := analyzer.AnalyzeGame(context.Background(), games[0])
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Game:     %s\n", result.GameID)
	fmt.Printf("Opening:  %s\n", result.Opening.Name)
	fmt.Printf("Accuracy: %.1f%%\n", result.Accuracy)
	fmt.Printf("Errors:   %d blunders, %d mistakes, %d inaccuracies\n",
		result.Blunders, result.Mistakes, result.Inaccuracies)
	for _, moment := range result.Tactics {
		fmt.Printf("Missed:   %s\n", moment.Description)
	}
	if result.TimeManagement.Available {
		fmt.Printf("Clock:    %s\n", result.TimeManagement.Suggestion)
	}
	if result.Endgame.Reached {
		fmt.Printf("Endgame:  %s\n", result.Endgame.Evaluation)
	}
	if result.Narrative != "" {
		fmt.Printf("\n%s\n", result.Narrative)
	}
	return nil
}
