package engine

import (
	"math/bits"

	hm "heron-engine/heronmg"
)

var seeValues = [7]int32{0, 100, 325, 335, 500, 975, 20000}

// see runs a static exchange evaluation of a capture: the value of the
// exchange sequence on the target square assuming both sides keep
// capturing with their least valuable attacker.
func see(b *hm.Board, m hm.Move) int32 {
	to := m.To()
	from := m.From()

	var gain [32]int32
	depth := 0

	occ := b.AllOccupancy()
	side := b.SideToMove()

	target := m.CapturedPiece().Type()
	if m.Flags() == hm.FlagEnPassant {
		// The captured pawn is not on the target square.
		occ &^= 1 << uint(int(to)+epVictimOffset(side))
	}
	gain[0] = seeValues[target]

	attacker := m.MovedPiece().Type()
	occ &^= 1 << uint(from)
	side = side.Other()

	attackers := b.AttackersTo(to, occ)

	for {
		depth++
		gain[depth] = seeValues[attacker] - gain[depth-1]
		if Max(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		attacker, occ = popLeastValuable(b, attackers, occ, side)
		if attacker == hm.PieceTypeNone {
			break
		}
		// Recompute for x-ray attackers uncovered by the removal.
		attackers = b.AttackersTo(to, occ)
		side = side.Other()
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -Max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// epVictimOffset is the offset from the en-passant target square to the
// captured pawn's square, from the capturer's point of view.
func epVictimOffset(capturer hm.Color) int {
	if capturer == hm.White {
		return -8
	}
	return 8
}

// popLeastValuable removes the cheapest attacker of the given side from
// the occupancy and returns its type.
func popLeastValuable(b *hm.Board, attackers, occ uint64, side hm.Color) (hm.PieceType, uint64) {
	attackers &= occ & b.ColorOccupancy(side)
	for pt := hm.PieceTypePawn; pt <= hm.PieceTypeKing; pt++ {
		subset := attackers & b.PieceBB(side, pt)
		if subset != 0 {
			sq := bits.TrailingZeros64(subset)
			return pt, occ &^ (1 << uint(sq))
		}
	}
	return hm.PieceTypeNone, occ
}
