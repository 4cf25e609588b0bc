package pgnio

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/discochess/coach"
)

const samplePGN = `[Event "Rated Blitz game"]
[Site "https://lichess.org/abcd1234"]
[White "alice"]
[Black "bob"]
[Result "1-0"]
[UTCDate "2024.03.15"]
[UTCTime "18:30:00"]
[Opening "King's Pawn Game"]
[TimeControl "300+3"]

1. e4 e5 2. Nf3 Nc6 1-0

[Event "Rated Blitz game"]
[Site "https://lichess.org/efgh5678"]
[White "bob"]
[Black "alice"]
[Result "1-0"]
[TimeControl "-"]

1. d4 d5 1-0
`

func TestRead(t *testing.T) {
	games, err := Read(strings.NewReader(samplePGN), "alice")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("len(games) = %d, want 2", len(games))
	}

	first := games[0]
	if first.ID != "https://lichess.org/abcd1234" {
		t.Errorf("ID = %q, want site link", first.ID)
	}
	wantSANs := []string{"e4", "e5", "Nf3", "Nc6"}
	if len(first.Moves) != len(wantSANs) {
		t.Fatalf("len(Moves) = %d, want %d", len(first.Moves), len(wantSANs))
	}
	for i, want := range wantSANs {
		if first.Moves[i].SAN != want {
			t.Errorf("Moves[%d].SAN = %q, want %q", i, first.Moves[i].SAN, want)
		}
		if first.Moves[i].Ply != i {
			t.Errorf("Moves[%d].Ply = %d, want %d", i, first.Moves[i].Ply, i)
		}
	}
	if first.Result != coach.OutcomeWin {
		t.Errorf("Result = %q, want %q", first.Result, coach.OutcomeWin)
	}
	if first.Platform != "lichess" {
		t.Errorf("Platform = %q, want lichess", first.Platform)
	}
	if first.Opponent != "bob" {
		t.Errorf("Opponent = %q, want bob", first.Opponent)
	}
	if first.OpeningName != "King's Pawn Game" {
		t.Errorf("OpeningName = %q", first.OpeningName)
	}
	if first.BaseTime != 5*time.Minute {
		t.Errorf("BaseTime = %v, want 5m", first.BaseTime)
	}
	want := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	if !first.PlayedAt.Equal(want) {
		t.Errorf("PlayedAt = %v, want %v", first.PlayedAt, want)
	}

	// alice played black and lost the second game.
	second := games[1]
	if second.Result != coach.OutcomeLoss {
		t.Errorf("second Result = %q, want %q", second.Result, coach.OutcomeLoss)
	}
	if second.Opponent != "bob" {
		t.Errorf("second Opponent = %q, want bob", second.Opponent)
	}
	if second.BaseTime != 0 {
		t.Errorf("second BaseTime = %v, want 0", second.BaseTime)
	}
}

func TestReadWhitePerspectiveDefault(t *testing.T) {
	games, err := Read(strings.NewReader(samplePGN), "")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if games[1].Result != coach.OutcomeWin {
		t.Errorf("Result = %q, want %q from white's side", games[1].Result, coach.OutcomeWin)
	}
}

func TestReadEmpty(t *testing.T) {
	inputs := map[string]string{
		"empty":    "",
		"moveless": "[Event \"?\"]\n[Result \"*\"]\n\n*\n",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(input), ""); !errors.Is(err, ErrNoGames) {
				t.Errorf("Read() error = %v, want %v", err, ErrNoGames)
			}
		})
	}
}
