// Package replay reconstructs board positions from a game's move list.
// It turns SAN notation into the per-position FEN sequence the engine
// evaluates, plus the derived per-move facts the feature extractors need.
package replay

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
)

// Sentinel errors for malformed game records.
var (
	// ErrNoMoves indicates the record contained no moves.
	ErrNoMoves = errors.New("replay: game has no moves")

	// ErrIllegalMove indicates a move could not be decoded or is illegal
	// in its position.
	ErrIllegalMove = errors.New("replay: illegal move")
)

// Piece values in centipawns for material counting. Kings are excluded.
var pieceValues = map[chess.PieceType]int{
	chess.Queen:  900,
	chess.Rook:   500,
	chess.Bishop: 300,
	chess.Knight: 300,
	chess.Pawn:   100,
}

// MoveFacts holds what the pipeline derives from replaying one move.
type MoveFacts struct {
	// SAN is the move as played, in standard algebraic notation.
	SAN string

	// UCI is the same move in UCI coordinate notation, comparable against
	// engine best lines.
	UCI string

	// WhiteMoved is true when white made this move.
	WhiteMoved bool

	// IsCheck is true when the move gives check.
	IsCheck bool

	// IsCapture is true when the move captures material.
	IsCapture bool

	// MaterialAfter is the total material of both sides after the move,
	// in centipawns, kings excluded. Drives endgame detection.
	MaterialAfter int
}

// Game is a fully replayed game: one FEN per position and one MoveFacts per
// move. FENs[i] is the position before move i; FENs[len(Moves)] is the final
// position.
type Game struct {
	FENs  []string
	Moves []MoveFacts
}

// Replay validates and replays a SAN move list from the starting position.
// Any undecodable or illegal move fails the whole game with ErrIllegalMove;
// an empty list fails with ErrNoMoves.
func Replay(sans []string) (*Game, error) {
	if len(sans) == 0 {
		return nil, ErrNoMoves
	}

	g := chess.NewGame()
	out := &Game{
		FENs:  make([]string, 0, len(sans)+1),
		Moves: make([]MoveFacts, 0, len(sans)),
	}

	for i, san := range sans {
		pos := g.Position()
		out.FENs = append(out.FENs, pos.String())
		whiteToMove := pos.Turn() == chess.White

		if err := g.MoveStr(san); err != nil {
			return nil, fmt.Errorf("%w: move %d (%q): %v", ErrIllegalMove, i+1, san, err)
		}

		moves := g.Moves()
		mv := moves[len(moves)-1]

		out.Moves = append(out.Moves, MoveFacts{
			SAN:           san,
			UCI:           chess.UCINotation{}.Encode(pos, mv),
			WhiteMoved:    whiteToMove,
			IsCheck:       mv.HasTag(chess.Check),
			IsCapture:     mv.HasTag(chess.Capture) || mv.HasTag(chess.EnPassant),
			MaterialAfter: material(g.Position().Board()),
		})
	}

	out.FENs = append(out.FENs, g.Position().String())
	return out, nil
}

// material sums piece values for both sides, kings excluded.
func material(b *chess.Board) int {
	var total int
	for _, piece := range b.SquareMap() {
		total += pieceValues[piece.Type()]
	}
	return total
}
