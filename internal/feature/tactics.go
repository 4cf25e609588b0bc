package feature

import "fmt"

// DefaultTacticSwing is the minimum centipawn swing that counts as a missed
// tactical opportunity.
const DefaultTacticSwing = 150

// TacticsConfig configures tactical opportunity detection.
type TacticsConfig struct {
	// SwingThreshold is the minimum centipawn loss before a move is
	// reported. Zero means DefaultTacticSwing.
	SwingThreshold int
}

// TacticalMoment is one missed opportunity, ready for narration.
type TacticalMoment struct {
	// MoveNumber is the 1-based ply number of the miss.
	MoveNumber int `json:"move_number"`

	// Description is a human-readable account of the miss.
	Description string `json:"description"`

	// Swing is the centipawn loss relative to the engine's line.
	Swing int `json:"swing"`
}

// ExtractTactics scans for moves whose evaluation swing shows the mover
// missed a significantly better alternative, identified by the engine's
// best line diverging from the move played. Finding nothing yields an empty
// list, not an error.
func ExtractTactics(moves []Move, cfg TacticsConfig) []TacticalMoment {
	threshold := cfg.SwingThreshold
	if threshold <= 0 {
		threshold = DefaultTacticSwing
	}

	moments := make([]TacticalMoment, 0)
	for _, m := range moves {
		swing, ok := m.Swing()
		if !ok || swing < threshold {
			continue
		}
		if m.BestUCI == "" || m.BestUCI == m.UCI {
			continue
		}
		moments = append(moments, TacticalMoment{
			MoveNumber: m.Number,
			Swing:      swing,
			Description: fmt.Sprintf(
				"Move %d (%s) gave up %d centipawns; %s was a stronger continuation.",
				m.Number, m.SAN, swing, m.BestUCI),
		})
	}
	return moments
}
