package opening

import "strings"

// builtinLines maps space-joined SAN prefixes to opening names. Longest
// match wins, so deeper lines refine their parent entries.
var builtinLines = map[string]string{
	"e4":                         "King's Pawn Opening",
	"e4 c5":                      "Sicilian Defense",
	"e4 c5 Nf3 d6":               "Sicilian Defense: Najdorf Setup",
	"e4 c6":                      "Caro-Kann Defense",
	"e4 e5":                      "Open Game",
	"e4 e5 Nf3 Nc6 Bb5":          "Ruy Lopez",
	"e4 e5 Nf3 Nc6 Bb5 a6":       "Ruy Lopez: Morphy Defense",
	"e4 e5 Nf3 Nc6 Bc4":          "Italian Game",
	"e4 e5 Nf3 Nc6 Bc4 Bc5":      "Italian Game: Giuoco Piano",
	"e4 e5 Nf3 Nc6 Bc4 Nf6":      "Italian Game: Two Knights Defense",
	"e4 e5 Nf3 Nc6 d4":           "Scotch Game",
	"e4 e5 Nf3 Nf6":              "Petrov's Defense",
	"e4 e5 Nc3":                  "Vienna Game",
	"e4 e5 f4":                   "King's Gambit",
	"e4 e6":                      "French Defense",
	"e4 e6 d4 d5":                "French Defense: Main Line",
	"e4 d5":                      "Scandinavian Defense",
	"e4 d6":                      "Pirc Defense",
	"e4 g6":                      "Modern Defense",
	"e4 Nf6":                     "Alekhine's Defense",
	"d4":                         "Queen's Pawn Opening",
	"d4 d5":                      "Closed Game",
	"d4 d5 c4":                   "Queen's Gambit",
	"d4 d5 c4 dxc4":              "Queen's Gambit Accepted",
	"d4 d5 c4 e6":                "Queen's Gambit Declined",
	"d4 d5 c4 c6":                "Slav Defense",
	"d4 Nf6":                     "Indian Defense",
	"d4 Nf6 c4 e6":               "Indian Defense: East Indian",
	"d4 Nf6 c4 e6 Nc3 Bb4":       "Nimzo-Indian Defense",
	"d4 Nf6 c4 e6 Nf3 b6":        "Queen's Indian Defense",
	"d4 Nf6 c4 g6":               "King's Indian Defense",
	"d4 Nf6 c4 g6 Nc3 d5":        "Grünfeld Defense",
	"d4 f5":                      "Dutch Defense",
	"c4":                         "English Opening",
	"c4 e5":                      "English Opening: Reversed Sicilian",
	"Nf3":                        "Réti Opening",
	"Nf3 d5 c4":                  "Réti Opening: Advance Variation",
	"f4":                         "Bird's Opening",
	"b3":                         "Nimzo-Larsen Attack",
	"g3":                         "King's Fianchetto Opening",
}

// builtin is an in-memory Book over a fixed line table.
type builtin struct {
	lines map[string]string
}

// Compile-time check that builtin implements Book.
var _ Book = (*builtin)(nil)

// Builtin returns the bundled reference book. The table is small but covers
// the common systems; a caller with richer reference data supplies its own
// Book instead.
func Builtin() Book {
	return &builtin{lines: builtinLines}
}

// maxLinePlies is the longest line in the builtin table; deeper prefixes
// can never match.
const maxLinePlies = 6

// Lookup matches the longest book line against the game's leading moves.
func (b *builtin) Lookup(sans []string) (Match, bool) {
	n := len(sans)
	if n > maxLinePlies {
		n = maxLinePlies
	}
	for ; n > 0; n-- {
		key := strings.Join(sans[:n], " ")
		if name, ok := b.lines[key]; ok {
			return Match{Name: name, PrefixLen: n}, true
		}
	}
	return Match{}, false
}
