package feature

import "github.com/discochess/coach/internal/opening"

// UnknownOpening is reported when no book line matches the game.
const UnknownOpening = "Unknown Opening"

// OpeningReport names the opening played and the matched move prefix.
type OpeningReport struct {
	// Name is the opening name, or UnknownOpening when off book.
	Name string `json:"name"`

	// PlayedMoves is the SAN prefix that matched the book line. For an
	// unknown opening it holds the first few played moves instead.
	PlayedMoves []string `json:"played_moves"`

	// Suggestion is a short study hint.
	Suggestion string `json:"suggestion"`
}

// unknownPrefixLen is how many plies to show when no book line matched.
const unknownPrefixLen = 5

// ExtractOpening matches the game's leading moves against the book.
// An off-book game reports UnknownOpening, never an error.
func ExtractOpening(moves []Move, book opening.Book) OpeningReport {
	sans := make([]string, len(moves))
	for i, m := range moves {
		sans[i] = m.SAN
	}

	if book != nil {
		if match, ok := book.Lookup(sans); ok {
			return OpeningReport{
				Name:        match.Name,
				PlayedMoves: sans[:match.PrefixLen],
				Suggestion:  "Study the main lines of your chosen openings and understand their key ideas.",
			}
		}
	}

	n := len(sans)
	if n > unknownPrefixLen {
		n = unknownPrefixLen
	}
	return OpeningReport{
		Name:        UnknownOpening,
		PlayedMoves: sans[:n],
		Suggestion:  "Consider expanding your opening repertoire.",
	}
}
