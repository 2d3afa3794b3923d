package engine

import (
	"strings"

	hm "heron-engine/heronmg"
)

// PVLine accumulates the principal variation while the search runs. Update
// prepends a move to a child line, so the root ends up with the full line.
type PVLine struct {
	Moves []hm.Move
}

func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update sets this line to move followed by the child line.
func (pv *PVLine) Update(move hm.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// GetPVMove returns the first move of the line, or 0 if empty.
func (pv *PVLine) GetPVMove() hm.Move {
	if len(pv.Moves) == 0 {
		return 0
	}
	return pv.Moves[0]
}

// Clone returns an independent copy of the line.
func (pv *PVLine) Clone() PVLine {
	out := PVLine{Moves: make([]hm.Move, len(pv.Moves))}
	copy(out.Moves, pv.Moves)
	return out
}

func (pv *PVLine) String() string {
	parts := make([]string, len(pv.Moves))
	for i, m := range pv.Moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
