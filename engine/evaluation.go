package engine

import (
	"math/bits"

	hm "heron-engine/heronmg"
)

// Game phase weights for midgame/endgame interpolation
const (
	knightPhase = 1
	bishopPhase = 1
	rookPhase   = 2
	queenPhase  = 4
	totalPhase  = knightPhase*4 + bishopPhase*4 + rookPhase*4 + queenPhase*2
)

var pieceValueMG = [7]int{
	hm.PieceTypePawn: 92, hm.PieceTypeKnight: 320, hm.PieceTypeBishop: 333,
	hm.PieceTypeRook: 497, hm.PieceTypeQueen: 984,
}
var pieceValueEG = [7]int{
	hm.PieceTypePawn: 114, hm.PieceTypeKnight: 302, hm.PieceTypeBishop: 330,
	hm.PieceTypeRook: 531, hm.PieceTypeQueen: 958,
}

var mobilityValueMG = [7]int{
	hm.PieceTypeKnight: 3, hm.PieceTypeBishop: 3, hm.PieceTypeRook: 2, hm.PieceTypeQueen: 1,
}
var mobilityValueEG = [7]int{
	hm.PieceTypeKnight: 2, hm.PieceTypeBishop: 3, hm.PieceTypeRook: 4, hm.PieceTypeQueen: 4,
}

// Piece-square tables from White's point of view, a1 = index 0. Black
// reads them through flipView.
var psqtMG = [7][64]int{
	hm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-38, -34, -36, -34, -32, -10, 3, -19,
		-43, -44, -38, -37, -30, -31, -17, -26,
		-39, -33, -27, -17, -14, -21, -13, -26,
		-29, -21, -20, -6, 4, 5, -2, -17,
		-26, -3, 9, 15, 29, 47, 17, -8,
		48, 46, 47, 45, 39, 28, 4, 8,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	hm.PieceTypeKnight: {
		-48, -30, -36, -26, -22, -19, -25, -44,
		-33, -28, -14, -7, -10, -9, -18, -16,
		-22, -6, -2, 8, 9, 1, 0, -15,
		-12, 1, 10, 7, 15, 12, 22, -1,
		-4, 9, 26, 31, 22, 37, 17, 20,
		-18, 11, 35, 43, 57, 55, 32, 13,
		-15, -10, 18, 29, 29, 33, -7, 3,
		-55, -6, -11, -2, 1, -5, -1, -14,
	},
	hm.PieceTypeBishop: {
		0, -2, -12, -18, -15, -7, -7, 2,
		4, 9, 10, -2, 1, 5, 18, 9,
		-2, 10, 8, 12, 9, 8, 9, 12,
		-6, 9, 14, 19, 23, 10, 9, 6,
		-4, 19, 21, 42, 29, 32, 18, 5,
		3, 16, 31, 31, 41, 48, 32, 21,
		-19, 5, 3, -6, 4, 12, -3, 7,
		-24, -7, -11, -11, -7, -18, 1, -9,
	},
	hm.PieceTypeRook: {
		-38, -34, -30, -27, -29, -33, -16, -35,
		-58, -38, -37, -36, -39, -31, -21, -42,
		-50, -38, -42, -37, -39, -40, -18, -32,
		-41, -38, -36, -29, -31, -28, -11, -24,
		-28, -18, -9, 5, 0, 6, 7, 2,
		-18, 8, 3, 21, 34, 32, 37, 17,
		-3, -4, 13, 23, 26, 31, 8, 25,
		19, 18, 16, 20, 19, 17, 18, 28,
	},
	hm.PieceTypeQueen: {
		-5, -14, -10, -2, -5, -23, -22, -10,
		-9, -3, 2, -2, -1, 6, 7, -6,
		-7, -1, -2, -3, -3, -1, 7, 6,
		-4, -2, -2, -5, -5, 8, 6, 13,
		-9, -5, -2, -1, 10, 18, 22, 22,
		-11, -5, -1, 12, 30, 48, 59, 35,
		-9, -33, 4, 4, 17, 37, -2, 22,
		0, 13, 18, 24, 30, 32, 21, 30,
	},
	hm.PieceTypeKing: {
		-3, 30, -1, -58, -19, -62, 16, 22,
		10, 0, -15, -44, -28, -33, 6, 21,
		-5, -3, -3, -9, -5, -7, 3, -13,
		-1, 7, 13, 8, 13, 10, 19, -8,
		0, 8, 13, 8, 11, 13, 13, -7,
		1, 9, 10, 8, 7, 12, 10, 0,
		-2, 5, 5, 2, 3, 3, 3, -2,
		-1, 0, 0, 2, 0, 0, 0, -2,
	},
}
var psqtEG = [7][64]int{
	hm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-8, -7, -3, -2, 6, 2, -12, -24,
		-13, -14, -11, -10, -8, -10, -22, -24,
		-7, -8, -16, -15, -16, -14, -18, -18,
		3, -2, -4, -19, -13, -12, -8, -10,
		18, 19, 18, 19, 19, 9, 21, 14,
		63, 58, 49, 40, 36, 36, 46, 53,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	hm.PieceTypeKnight: {
		-25, -50, -22, -15, -17, -24, -40, -26,
		-24, -11, -11, -5, -3, -14, -15, -26,
		-32, -3, 5, 16, 15, 4, -2, -28,
		-13, 9, 27, 30, 29, 29, 14, -8,
		-9, 12, 24, 36, 40, 30, 24, -1,
		-17, 5, 20, 22, 17, 26, 10, -9,
		-21, -10, 1, 18, 16, -3, -8, -14,
		-35, -9, 2, 0, 1, 3, -3, -14,
	},
	hm.PieceTypeBishop: {
		-24, -14, -32, -12, -16, -20, -18, -17,
		-8, -17, -10, -3, -4, -15, -15, -28,
		-10, -1, 6, 8, 7, 3, -9, -9,
		-4, 5, 14, 15, 13, 12, 3, -8,
		0, 9, 10, 14, 20, 13, 16, 3,
		-4, 7, 9, 9, 11, 16, 10, 3,
		-6, 6, 8, 9, 10, 8, 10, -5,
		1, 4, 4, 7, 3, 0, 2, 2,
	},
	hm.PieceTypeRook: {
		-8, 0, 4, 4, 3, 3, -1, -15,
		-7, -8, -3, -5, -4, -9, -12, -8,
		-2, 6, 7, 4, 3, 3, -1, -7,
		11, 21, 22, 19, 17, 15, 10, 5,
		21, 23, 25, 22, 19, 17, 14, 14,
		29, 20, 27, 21, 14, 20, 12, 15,
		30, 35, 34, 35, 34, 19, 24, 19,
		27, 31, 34, 31, 32, 35, 33, 31,
	},
	hm.PieceTypeQueen: {
		-21, -29, -34, -40, -42, -33, -23, -8,
		-22, -20, -37, -23, -30, -52, -48, -14,
		-18, -14, 4, -8, -9, 1, -16, -12,
		-16, 4, 5, 32, 27, 25, 14, 17,
		-9, 12, 11, 35, 44, 48, 41, 28,
		-1, 3, 17, 24, 38, 47, 34, 32,
		6, 26, 21, 30, 48, 37, 24, 21,
		12, 22, 24, 32, 37, 36, 26, 28,
	},
	hm.PieceTypeKing: {
		-31, -24, -17, -22, -45, -12, -29, -65,
		-13, -8, -3, 3, -2, 1, -13, -29,
		-13, -3, 6, 13, 11, 5, -7, -15,
		-13, 7, 18, 23, 21, 16, 4, -15,
		-2, 18, 24, 25, 24, 22, 17, -4,
		1, 22, 21, 16, 13, 27, 26, -1,
		-10, 12, 9, 3, 4, 8, 17, -8,
		-14, -10, -5, -1, -5, -5, -5, -12,
	},
}

// Passed pawn bonus by rank (White's view; rank 1 and 8 unused).
var passedPawnMG = [8]int{0, 2, 5, 12, 28, 52, 84, 0}
var passedPawnEG = [8]int{0, 12, 18, 34, 58, 94, 140, 0}

var (
	bishopPairMG = 14
	bishopPairEG = 48

	doubledPawnMG  = 6
	doubledPawnEG  = 16
	isolatedPawnMG = 8
	isolatedPawnEG = 9

	rookOpenFileMG     = 26
	rookSemiOpenFileMG = 12

	kingOpenFileMG     = 22
	kingSemiOpenFileMG = 11
	kingShelterPawnMG  = 7

	tempoBonus = 12
)

var flipView = [64]int{
	56, 57, 58, 59, 60, 61, 62, 63,
	48, 49, 50, 51, 52, 53, 54, 55,
	40, 41, 42, 43, 44, 45, 46, 47,
	32, 33, 34, 35, 36, 37, 38, 39,
	24, 25, 26, 27, 28, 29, 30, 31,
	16, 17, 18, 19, 20, 21, 22, 23,
	8, 9, 10, 11, 12, 13, 14, 15,
	0, 1, 2, 3, 4, 5, 6, 7,
}

var fileMask = [8]uint64{
	0x0101010101010101, 0x0202020202020202, 0x0404040404040404, 0x0808080808080808,
	0x1010101010101010, 0x2020202020202020, 0x4040404040404040, 0x8080808080808080,
}

// adjacentFilesMask[f] covers file f and both neighbours.
var adjacentFilesMask [8]uint64

// passedPawnMask[color][sq] covers every square an enemy pawn could sit
// on and still stop the pawn: the three files ahead of it.
var passedPawnMask [2][64]uint64

func init() {
	for f := 0; f < 8; f++ {
		adjacentFilesMask[f] = fileMask[f]
		if f > 0 {
			adjacentFilesMask[f] |= fileMask[f-1]
		}
		if f < 7 {
			adjacentFilesMask[f] |= fileMask[f+1]
		}
	}
	for sq := 0; sq < 64; sq++ {
		span := adjacentFilesMask[sq&7]
		var ahead, behind uint64
		for r := (sq >> 3) + 1; r < 8; r++ {
			ahead |= 0xFF << uint(r*8)
		}
		for r := 0; r < sq>>3; r++ {
			behind |= 0xFF << uint(r*8)
		}
		passedPawnMask[hm.White][sq] = span & ahead
		passedPawnMask[hm.Black][sq] = span & behind
	}
}

// Evaluate scores the position from the side to move's point of view,
// tapered between midgame and endgame by remaining material.
func Evaluate(b *hm.Board) int32 {
	white := b.Bitboards(hm.White)
	black := b.Bitboards(hm.Black)

	mg, eg := 0, 0

	wm, we := evalSide(b, hm.White, &white, &black)
	bm, be := evalSide(b, hm.Black, &black, &white)
	mg += wm - bm
	eg += we - be

	phase := piecePhase(&white, &black)
	if phase > totalPhase {
		phase = totalPhase
	}
	score := (mg*phase + eg*(totalPhase-phase)) / totalPhase

	if b.SideToMove() == hm.Black {
		score = -score
	}
	return int32(score) + int32(tempoBonus)
}

func piecePhase(white, black *hm.Bitboards) int {
	phase := bits.OnesCount64(white.Knights|black.Knights) * knightPhase
	phase += bits.OnesCount64(white.Bishops|black.Bishops) * bishopPhase
	phase += bits.OnesCount64(white.Rooks|black.Rooks) * rookPhase
	phase += bits.OnesCount64(white.Queens|black.Queens) * queenPhase
	return phase
}

func evalSide(b *hm.Board, us hm.Color, own, their *hm.Bitboards) (mg, eg int) {
	occ := own.All | their.All

	for pieces := own.All; pieces != 0; {
		sq := bits.TrailingZeros64(pieces)
		pieces &= pieces - 1

		pt := b.PieceAt(hm.Square(sq)).Type()
		psq := sq
		if us == hm.Black {
			psq = flipView[sq]
		}
		mg += pieceValueMG[pt] + psqtMG[pt][psq]
		eg += pieceValueEG[pt] + psqtEG[pt][psq]

		var attacks uint64
		switch pt {
		case hm.PieceTypeKnight:
			attacks = hm.KnightMoveBitboard(hm.Square(sq))
		case hm.PieceTypeBishop:
			attacks = hm.BishopMoveBitboard(hm.Square(sq), occ)
		case hm.PieceTypeRook:
			attacks = hm.RookMoveBitboard(hm.Square(sq), occ)
		case hm.PieceTypeQueen:
			attacks = hm.RookMoveBitboard(hm.Square(sq), occ) | hm.BishopMoveBitboard(hm.Square(sq), occ)
		default:
			continue
		}
		mob := bits.OnesCount64(attacks &^ own.All)
		mg += mob * mobilityValueMG[pt]
		eg += mob * mobilityValueEG[pt]
	}

	if bits.OnesCount64(own.Bishops) >= 2 {
		mg += bishopPairMG
		eg += bishopPairEG
	}

	pm, pe := evalPawns(us, own.Pawns, their.Pawns)
	mg += pm
	eg += pe

	rm := evalRookFiles(own.Rooks, own.Pawns, their.Pawns)
	mg += rm

	mg += evalKingShelter(b, us, own.Pawns, their.Pawns)

	return mg, eg
}

func evalPawns(us hm.Color, ownPawns, theirPawns uint64) (mg, eg int) {
	for pawns := ownPawns; pawns != 0; {
		sq := bits.TrailingZeros64(pawns)
		pawns &= pawns - 1
		file := sq & 7

		if bits.OnesCount64(ownPawns&fileMask[file]) > 1 {
			mg -= doubledPawnMG
			eg -= doubledPawnEG
		}
		if ownPawns&adjacentFilesMask[file]&^fileMask[file] == 0 {
			mg -= isolatedPawnMG
			eg -= isolatedPawnEG
		}
		if theirPawns&passedPawnMask[us][sq] == 0 {
			rank := sq >> 3
			if us == hm.Black {
				rank = 7 - rank
			}
			mg += passedPawnMG[rank]
			eg += passedPawnEG[rank]
		}
	}
	return mg, eg
}

func evalRookFiles(rooks, ownPawns, theirPawns uint64) (mg int) {
	for ; rooks != 0; rooks &= rooks - 1 {
		file := bits.TrailingZeros64(rooks) & 7
		switch {
		case (ownPawns|theirPawns)&fileMask[file] == 0:
			mg += rookOpenFileMG
		case ownPawns&fileMask[file] == 0:
			mg += rookSemiOpenFileMG
		}
	}
	return mg
}

// evalKingShelter penalizes open and half-open files around the king and
// rewards friendly pawns in front of it.
func evalKingShelter(b *hm.Board, us hm.Color, ownPawns, theirPawns uint64) (mg int) {
	ksq := b.KingSquare(us)
	if ksq == hm.NoSquare {
		return 0
	}
	kf := int(ksq) & 7
	lo, hi := Max(0, kf-1), Min(7, kf+1)
	for f := lo; f <= hi; f++ {
		switch {
		case (ownPawns|theirPawns)&fileMask[f] == 0:
			mg -= kingOpenFileMG
		case ownPawns&fileMask[f] == 0:
			mg -= kingSemiOpenFileMG
		}
	}
	shelter := hm.KingMoveBitboard(ksq)
	if us == hm.White {
		shelter &= ^uint64(0) << uint(int(ksq)+1)
	} else {
		shelter &= 1<<uint(ksq) - 1
	}
	mg += bits.OnesCount64(shelter&ownPawns) * kingShelterPawnMG
	return mg
}
