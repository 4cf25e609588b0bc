// Package pgnio reads PGN streams into analyzable game records.
package pgnio

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/notnil/chess"

	"github.com/discochess/coach"
)

// ErrNoGames indicates the stream contained no parseable games.
var ErrNoGames = errors.New("pgnio: no games in input")

// Read parses every game in the PGN stream. player, when non-empty, names
// the side whose point of view the results take; games where neither tag
// matches are scored from white's side.
func Read(r io.Reader, player string) ([]coach.GameRecord, error) {
	scanner := chess.NewScanner(r)

	var games []coach.GameRecord
	for scanner.Scan() {
		g := scanner.Next()
		// The scanner yields a phantom moveless game for empty or
		// trailing input.
		if len(g.Moves()) == 0 {
			continue
		}
		games = append(games, record(g, player, len(games)+1))
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("pgnio: %w", err)
	}
	if len(games) == 0 {
		return nil, ErrNoGames
	}
	return games, nil
}

func record(g *chess.Game, player string, idx int) coach.GameRecord {
	positions := g.Positions()
	chessMoves := g.Moves()

	moves := make([]coach.Move, len(chessMoves))
	for i, mv := range chessMoves {
		moves[i] = coach.Move{
			Ply: i,
			SAN: chess.AlgebraicNotation{}.Encode(positions[i], mv),
		}
	}

	white := tag(g, "White")
	black := tag(g, "Black")
	asWhite := !strings.EqualFold(player, black) || player == ""

	opponent := black
	if !asWhite {
		opponent = white
	}

	return coach.GameRecord{
		ID:          gameID(g, idx),
		Moves:       moves,
		Result:      outcome(tag(g, "Result"), asWhite),
		Platform:    platform(tag(g, "Site")),
		Opponent:    opponent,
		OpeningName: tag(g, "Opening"),
		PlayedAt:    playedAt(g),
		BaseTime:    baseTime(tag(g, "TimeControl")),
	}
}

func tag(g *chess.Game, name string) string {
	if tp := g.GetTagPair(name); tp != nil {
		return tp.Value
	}
	return ""
}

// gameID prefers an explicit tag so batch outcomes can be traced back to
// the source. Lichess puts the game URL in Site; chess.com uses Link.
// The fallback is the game's position in the stream.
func gameID(g *chess.Game, idx int) string {
	if id := tag(g, "GameId"); id != "" {
		return id
	}
	if link := tag(g, "Link"); link != "" {
		return link
	}
	if site := tag(g, "Site"); strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return site
	}
	return fmt.Sprintf("pgn-%d", idx)
}

// outcome maps the PGN result tag to the player's point of view.
// Unfinished games ("*") carry no outcome.
func outcome(result string, asWhite bool) coach.Outcome {
	switch result {
	case "1-0":
		if asWhite {
			return coach.OutcomeWin
		}
		return coach.OutcomeLoss
	case "0-1":
		if asWhite {
			return coach.OutcomeLoss
		}
		return coach.OutcomeWin
	case "1/2-1/2":
		return coach.OutcomeDraw
	}
	return ""
}

func platform(site string) string {
	site = strings.ToLower(site)
	switch {
	case strings.Contains(site, "lichess"):
		return "lichess"
	case strings.Contains(site, "chess.com"):
		return "chess.com"
	}
	return ""
}

// baseTime parses the TimeControl tag's initial clock, e.g. "300+3".
func baseTime(tc string) time.Duration {
	if tc == "" || tc == "-" {
		return 0
	}
	base := tc
	if i := strings.IndexByte(tc, '+'); i >= 0 {
		base = tc[:i]
	}
	seconds, err := strconv.Atoi(base)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func playedAt(g *chess.Game) time.Time {
	if date := tag(g, "UTCDate"); date != "" {
		if ts, err := time.Parse("2006.01.02 15:04:05", date+" "+tag(g, "UTCTime")); err == nil {
			return ts
		}
	}
	if date := tag(g, "Date"); date != "" {
		if ts, err := time.Parse("2006.01.02", date); err == nil {
			return ts
		}
	}
	return time.Time{}
}
