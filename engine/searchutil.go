package engine

import (
	"fmt"
	"math/bits"

	hm "heron-engine/heronmg"
)

const MaxDepth = 100

// Quiet-move heuristic state. History scores reward quiet moves that
// caused cutoffs; the counter table remembers the refutation of the
// previous move. Both are indexed by side so scores never bleed between
// colors.
type historyTables struct {
	history [2][64][64]int
	counter [2][64][64]hm.Move
}

// Kept below the capture and killer ordering offsets.
const historyMaxVal = 10000

func (h *historyTables) storeCounter(side hm.Color, prevMove, move hm.Move) {
	if prevMove == 0 {
		return
	}
	h.counter[side][prevMove.From()][prevMove.To()] = move
}

func (h *historyTables) counterFor(side hm.Color, prevMove hm.Move) hm.Move {
	if prevMove == 0 {
		return 0
	}
	return h.counter[side][prevMove.From()][prevMove.To()]
}

// incrementHistory rewards a quiet move that caused a beta cutoff. The
// depth-squared bonus makes deep cutoffs dominate without letting one
// entry run away; the table halves when any entry caps out.
func (h *historyTables) incrementHistory(side hm.Color, move hm.Move, depth int8) {
	h.history[side][move.From()][move.To()] += int(depth) * int(depth)
	if h.history[side][move.From()][move.To()] >= historyMaxVal {
		h.ageHistory(side)
	}
}

// decrementHistory penalizes a quiet move that was tried before the
// cutoff move and failed.
func (h *historyTables) decrementHistory(side hm.Color, move hm.Move, depth int8) {
	score := h.history[side][move.From()][move.To()] - int(depth)*int(depth)
	if score < 0 {
		score = 0
	}
	h.history[side][move.From()][move.To()] = score
}

func (h *historyTables) ageHistory(side hm.Color) {
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			h.history[side][from][to] /= 2
		}
	}
}

func (h *historyTables) clear() {
	*h = historyTables{}
}

// hasMinorOrMajorPiece reports, per side, whether any non-pawn material
// remains. Null-move pruning is unsound in pawn endgames.
func hasMinorOrMajorPiece(b *hm.Board) (wCount, bCount int) {
	w := b.Bitboards(hm.White)
	bl := b.Bitboards(hm.Black)
	wCount = bits.OnesCount64(w.Knights | w.Bishops | w.Rooks | w.Queens)
	bCount = bits.OnesCount64(bl.Knights | bl.Bishops | bl.Rooks | bl.Queens)
	return wCount, bCount
}

// getMateOrCPScore formats a score the way UCI wants it: "mate N" in
// moves when the score is in the mate band, otherwise "cp N".
func getMateOrCPScore(score int32) string {
	if score >= Checkmate {
		pliesToMate := int(MaxScore - score)
		if pliesToMate < 0 {
			pliesToMate = 0
		}
		return fmt.Sprintf("mate %d", (pliesToMate+1)/2)
	}
	if score <= -Checkmate {
		pliesToMate := int(MaxScore + score)
		if pliesToMate < 0 {
			pliesToMate = 0
		}
		return fmt.Sprintf("mate %d", -(pliesToMate+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}
