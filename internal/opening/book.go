// Package opening defines the known-openings lookup collaborator.
package opening

// Match is a recognized opening and the played prefix that matched it.
type Match struct {
	// Name is the opening's common name.
	Name string

	// PrefixLen is how many plies of the game matched the book line.
	PrefixLen int
}

// Book resolves the leading moves of a game to a named opening.
// Implementations must be safe for concurrent use.
type Book interface {
	// Lookup returns the longest book line matching a prefix of the given
	// SAN move sequence. ok is false when no line matches.
	Lookup(sans []string) (Match, bool)
}
