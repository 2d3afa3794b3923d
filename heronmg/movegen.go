package heronmg

import "math/bits"

// Leaper attack masks, indexed by square.
var knightMoves [64]uint64
var kingMoves [64]uint64

// pawnAttacks[color][sq] holds the squares a pawn of that color attacks
// from sq. Indexing it with the defender's color gives a reverse lookup:
// the squares from which an enemy pawn would attack sq.
var pawnAttacks [2][64]uint64

// Directional rays, excluding the origin square.
// Rook order: N, S, E, W. Bishop order: NE, NW, SE, SW.
var rookRays [64][4]uint64
var bishopRays [64][4]uint64

// rookForward/bishopForward record, per direction, whether square indices
// grow along the ray. The first blocker is then the LSB (growing) or MSB
// (shrinking) of ray&occ.
var rookForward = [4]bool{true, false, true, false}
var bishopForward = [4]bool{true, true, false, false}

// Union of all eight rays from each square. A piece outside this mask can
// never uncover a check on a king standing there.
var kingRaysUnion [64]uint64

// Slider lookup tables indexed by software pext over the blocker mask.
var rookMask [64]uint64
var bishopMask [64]uint64
var rookAttTable [64][]uint64
var bishopAttTable [64][]uint64

var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

func init() {
	initLeaperTables()
	initRays()
	initSliderTables()
}

func initLeaperTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		knightMoves[sq] = leaperMask(sq, knightOffsets)
		kingMoves[sq] = leaperMask(sq, kingOffsets)
	}

	for sq := 0; sq < 64; sq++ {
		f, r := sq%8, sq/8
		if r < 7 {
			if f > 0 {
				pawnAttacks[White][sq] |= 1 << uint((r+1)*8+f-1)
			}
			if f < 7 {
				pawnAttacks[White][sq] |= 1 << uint((r+1)*8+f+1)
			}
		}
		if r > 0 {
			if f > 0 {
				pawnAttacks[Black][sq] |= 1 << uint((r-1)*8+f-1)
			}
			if f < 7 {
				pawnAttacks[Black][sq] |= 1 << uint((r-1)*8+f+1)
			}
		}
	}
}

func leaperMask(sq int, offsets [8][2]int) uint64 {
	f, r := sq%8, sq/8
	var mask uint64
	for _, off := range offsets {
		rr, ff := r+off[0], f+off[1]
		if rr >= 0 && rr < 8 && ff >= 0 && ff < 8 {
			mask |= 1 << uint(rr*8+ff)
		}
	}
	return mask
}

// buildRay walks from sq in direction (dr,df). With trimEdge the last
// square before the board edge is dropped, producing a blocker mask.
func buildRay(sq, dr, df int, trimEdge bool) uint64 {
	var ray uint64
	r, f := sq/8+dr, sq%8+df
	for r >= 0 && r < 8 && f >= 0 && f < 8 {
		nr, nf := r+dr, f+df
		if trimEdge && (nr < 0 || nr > 7 || nf < 0 || nf > 7) {
			break
		}
		ray |= 1 << uint(r*8+f)
		r, f = nr, nf
	}
	return ray
}

func initRays() {
	for sq := 0; sq < 64; sq++ {
		for d := 0; d < 4; d++ {
			rookRays[sq][d] = buildRay(sq, rookDirs[d][0], rookDirs[d][1], false)
			bishopRays[sq][d] = buildRay(sq, bishopDirs[d][0], bishopDirs[d][1], false)
			kingRaysUnion[sq] |= rookRays[sq][d] | bishopRays[sq][d]
		}
	}
}

func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		var rm, bm uint64
		for d := 0; d < 4; d++ {
			rm |= buildRay(sq, rookDirs[d][0], rookDirs[d][1], true)
			bm |= buildRay(sq, bishopDirs[d][0], bishopDirs[d][1], true)
		}
		rookMask[sq] = rm
		bishopMask[sq] = bm

		// Enumerate every blocker subset of the mask via software pdep
		// and store the resulting attack set.
		rookAttTable[sq] = make([]uint64, 1<<bits.OnesCount64(rm))
		for idx := range rookAttTable[sq] {
			occ := pdep(uint64(idx), rm)
			rookAttTable[sq][idx] = rayAttacks(sq, occ, &rookRays, &rookForward)
		}
		bishopAttTable[sq] = make([]uint64, 1<<bits.OnesCount64(bm))
		for idx := range bishopAttTable[sq] {
			occ := pdep(uint64(idx), bm)
			bishopAttTable[sq][idx] = rayAttacks(sq, occ, &bishopRays, &bishopForward)
		}
	}
}

// pext packs the bits of x selected by mask into the low bits of the result.
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m))
		if (x>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// pdep scatters the low bits of x into the positions selected by mask.
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
	}
	return res
}

// firstBlocker picks the blocker nearest the ray origin.
func firstBlocker(blockers uint64, forward bool) int {
	if forward {
		return bits.TrailingZeros64(blockers)
	}
	return 63 - bits.LeadingZeros64(blockers)
}

// rayAttacks walks four rays, cutting each at its first blocker. Used to
// seed the lookup tables; the hot path goes through rookAttacks and
// bishopAttacks instead.
func rayAttacks(sq int, occ uint64, rays *[64][4]uint64, forward *[4]bool) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := rays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			ray &^= rays[firstBlocker(blockers, forward[d])][d]
		}
		attacks |= ray
	}
	return attacks
}

// rookAttacks returns the rook attack set from sq under the given occupancy.
func rookAttacks(sq int, occ uint64) uint64 {
	return rookAttTable[sq][pext(occ, rookMask[sq])]
}

// bishopAttacks returns the bishop attack set from sq under the given occupancy.
func bishopAttacks(sq int, occ uint64) uint64 {
	return bishopAttTable[sq][pext(occ, bishopMask[sq])]
}

// IsSquareAttacked reports whether sq is attacked by any piece of the
// given color.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.isSquareAttackedWithOcc(int(sq), by, b.AllOccupancy())
}

func (b *Board) isSquareAttackedWithOcc(s int, by Color, occ uint64) bool {
	// Reverse pawn lookup: index with the defender's color.
	if pawnAttacks[by.Other()][s]&b.pieceBB[by][PieceTypePawn] != 0 {
		return true
	}
	if knightMoves[s]&b.pieceBB[by][PieceTypeKnight] != 0 {
		return true
	}
	if kingMoves[s]&b.pieceBB[by][PieceTypeKing] != 0 {
		return true
	}

	// For sliders only the first blocker on each ray matters.
	rq := b.pieceBB[by][PieceTypeRook] | b.pieceBB[by][PieceTypeQueen]
	bq := b.pieceBB[by][PieceTypeBishop] | b.pieceBB[by][PieceTypeQueen]
	for d := 0; d < 4; d++ {
		if blockers := rookRays[s][d] & occ; blockers != 0 {
			if bb(Square(firstBlocker(blockers, rookForward[d])))&rq != 0 {
				return true
			}
		}
		if blockers := bishopRays[s][d] & occ; blockers != 0 {
			if bb(Square(firstBlocker(blockers, bishopForward[d])))&bq != 0 {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether the given color's king is attacked.
func (b *Board) InCheck(c Color) bool {
	ksq := b.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return b.IsSquareAttacked(ksq, c.Other())
}

// segmentToward returns the squares from ksq up to and including target,
// following the ray of the given family that passes through target, or 0
// if no such ray exists.
func segmentToward(ksq, target int, rays *[64][4]uint64) uint64 {
	tBB := uint64(1) << uint(target)
	for d := 0; d < 4; d++ {
		if rays[ksq][d]&tBB != 0 {
			return rays[ksq][d] &^ rays[target][d]
		}
	}
	return 0
}

// computeCheckAndPins scans outward from the side's king.
//
// checkMask is meaningful only under a single check: the squares a
// non-king move may land on (capturing the checker or blocking its ray).
// pinLine[sq] is nonzero when the piece on sq is absolutely pinned, and
// holds the squares it may still move to along the pin ray.
func (b *Board) computeCheckAndPins(side Color, occ uint64) (inCheck, doubleCheck bool, checkMask uint64, pinLine [64]uint64) {
	them := side.Other()
	ksq := b.KingSquare(side)
	if ksq == NoSquare {
		return false, false, 0, pinLine
	}
	k := int(ksq)

	checkers := pawnAttacks[side][k] & b.pieceBB[them][PieceTypePawn]
	checkers |= knightMoves[k] & b.pieceBB[them][PieceTypeKnight]
	rq := b.pieceBB[them][PieceTypeRook] | b.pieceBB[them][PieceTypeQueen]
	bq := b.pieceBB[them][PieceTypeBishop] | b.pieceBB[them][PieceTypeQueen]
	checkers |= rookAttacks(k, occ) & rq
	checkers |= bishopAttacks(k, occ) & bq

	inCheck = checkers != 0
	doubleCheck = checkers&(checkers-1) != 0

	if inCheck && !doubleCheck {
		c := bits.TrailingZeros64(checkers)
		switch b.pieces[c].Type() {
		case PieceTypeRook:
			checkMask = segmentToward(k, c, &rookRays)
		case PieceTypeBishop:
			checkMask = segmentToward(k, c, &bishopRays)
		case PieceTypeQueen:
			checkMask = segmentToward(k, c, &rookRays)
			if checkMask == 0 {
				checkMask = segmentToward(k, c, &bishopRays)
			}
		default:
			// Pawn or knight: capture is the only answer.
			checkMask = 1 << uint(c)
		}
	}

	b.scanPins(k, side, occ, rq, &rookRays, &rookForward, &pinLine)
	b.scanPins(k, side, occ, bq, &bishopRays, &bishopForward, &pinLine)
	return inCheck, doubleCheck, checkMask, pinLine
}

// scanPins marks our pieces that shield the king from an enemy slider on
// the same ray. sliders is the set of enemy pieces that slide along this
// ray family.
func (b *Board) scanPins(k int, side Color, occ, sliders uint64, rays *[64][4]uint64, forward *[4]bool, pinLine *[64]uint64) {
	for d := 0; d < 4; d++ {
		blockers := rays[k][d] & occ
		if blockers == 0 {
			continue
		}
		first := firstBlocker(blockers, forward[d])
		if bb(Square(first))&b.occupancy[side] == 0 {
			continue
		}
		beyond := rays[first][d] & occ
		if beyond == 0 {
			continue
		}
		next := firstBlocker(beyond, forward[d])
		if bb(Square(next))&sliders != 0 {
			pinLine[first] = rays[k][d] &^ rays[next][d]
		}
	}
}

// Filter modes for selective generation.
const (
	genAll = iota
	genCaptures
	genQuiets
)

// castleSpec describes one castling option: the required right, the
// king's path, the rook's home square, the squares that must be empty
// and the squares the king crosses that must not be attacked.
type castleSpec struct {
	right    CastlingRights
	kingFrom Square
	kingTo   Square
	rookHome Square
	empty    uint64
	transit  [2]Square
}

var castleSpecs = [2][2]castleSpec{
	White: {
		{CastleWhiteKing, 4, 6, 7, bb(5) | bb(6), [2]Square{5, 6}},
		{CastleWhiteQueen, 4, 2, 0, bb(1) | bb(2) | bb(3), [2]Square{3, 2}},
	},
	Black: {
		{CastleBlackKing, 60, 62, 63, bb(61) | bb(62), [2]Square{61, 62}},
		{CastleBlackQueen, 60, 58, 56, bb(57) | bb(58) | bb(59), [2]Square{59, 58}},
	},
}

// generateMovesFilteredInto is the core generator: it appends the legal
// moves matching the filter to dst and returns the extended slice. Every
// emitted move is fully legal; MakeMove on any of them cannot fail.
func (b *Board) generateMovesFilteredInto(dst []Move, filter int) []Move {
	moves := dst[:0]
	us := b.sideToMove
	them := us.Other()

	ownOcc := b.occupancy[us]
	oppOcc := b.occupancy[them]
	allOcc := ownOcc | oppOcc

	ksq := b.KingSquare(us)
	inCheck, doubleCheck, checkMask, pinLine := b.computeCheckAndPins(us, allOcc)

	// allowed reports whether a non-king move may land on toBB given its
	// pin line and the current check state.
	allowed := func(toBB, pinMask uint64) bool {
		if doubleCheck {
			return false
		}
		if pinMask != 0 && toBB&pinMask == 0 {
			return false
		}
		return !inCheck || toBB&checkMask != 0
	}

	// Pawns, both colors through one direction-parameterized pass.
	push := 8
	startRank, promoRank := 1, 7
	if us == Black {
		push = -8
		startRank, promoRank = 6, 0
	}
	ourPawn := PieceFromType(us, PieceTypePawn)
	theirPawn := PieceFromType(them, PieceTypePawn)

	pawns := b.pieceBB[us][PieceTypePawn]
	for pawns != 0 {
		from := popLSB(&pawns)
		fromSq := Square(from)
		pinMask := pinLine[from]

		if filter != genCaptures {
			one := from + push
			if one >= 0 && one < 64 && allOcc&(1<<uint(one)) == 0 {
				if allowed(1<<uint(one), pinMask) {
					if one/8 == promoRank {
						moves = appendPromotions(moves, fromSq, Square(one), ourPawn, NoPiece, us)
					} else {
						moves = append(moves, NewMove(fromSq, Square(one), ourPawn, NoPiece, NoPiece, FlagNone))
					}
				}
				if from/8 == startRank {
					two := one + push
					if allOcc&(1<<uint(two)) == 0 && allowed(1<<uint(two), pinMask) {
						moves = append(moves, NewMove(fromSq, Square(two), ourPawn, NoPiece, NoPiece, FlagNone))
					}
				}
			}
		}

		if filter == genQuiets {
			continue
		}

		caps := pawnAttacks[us][from]
		for targets := caps & oppOcc; targets != 0; {
			to := popLSB(&targets)
			if !allowed(1<<uint(to), pinMask) {
				continue
			}
			victim := b.pieces[to]
			if to/8 == promoRank {
				moves = appendPromotions(moves, fromSq, Square(to), ourPawn, victim, us)
			} else {
				moves = append(moves, NewMove(fromSq, Square(to), ourPawn, victim, NoPiece, FlagNone))
			}
		}

		// En passant removes two pieces from the capture rank at once, so
		// the pin masks cannot fully vouch for it. Simulate the occupancy
		// and check the king directly.
		if ep := b.enPassantSquare; ep != NoSquare && caps&bb(ep) != 0 {
			epBB := bb(ep)
			if doubleCheck || (pinMask != 0 && epBB&pinMask == 0) {
				continue
			}
			capSq := int(ep) - push
			occp := allOcc&^(1<<uint(from))&^(1<<uint(capSq)) | epBB
			if ksq != NoSquare && !b.isSquareAttackedWithOcc(int(ksq), them, occp) {
				moves = append(moves, NewMove(fromSq, ep, ourPawn, theirPawn, NoPiece, FlagEnPassant))
			}
		}
	}

	// Knights and sliders. Under double check only the king may move.
	if !doubleCheck {
		for pt := PieceTypeKnight; pt <= PieceTypeQueen; pt++ {
			moved := PieceFromType(us, pt)
			pieces := b.pieceBB[us][pt]
			for pieces != 0 {
				from := popLSB(&pieces)
				fromSq := Square(from)

				var targets uint64
				switch pt {
				case PieceTypeKnight:
					targets = knightMoves[from]
				case PieceTypeBishop:
					targets = bishopAttacks(from, allOcc)
				case PieceTypeRook:
					targets = rookAttacks(from, allOcc)
				case PieceTypeQueen:
					targets = rookAttacks(from, allOcc) | bishopAttacks(from, allOcc)
				}
				targets &^= ownOcc

				if pinMask := pinLine[from]; pinMask != 0 {
					targets &= pinMask
				}
				if inCheck {
					targets &= checkMask
				}
				switch filter {
				case genCaptures:
					targets &= oppOcc
				case genQuiets:
					targets &^= oppOcc
				}

				for targets != 0 {
					to := popLSB(&targets)
					moves = append(moves, NewMove(fromSq, Square(to), moved, b.pieces[to], NoPiece, FlagNone))
				}
			}
		}
	}

	// King moves are checked against the occupancy with the king removed,
	// so stepping along a checking ray is caught.
	if ksq != NoSquare {
		from := int(ksq)
		king := PieceFromType(us, PieceTypeKing)
		targets := kingMoves[from] &^ ownOcc
		switch filter {
		case genCaptures:
			targets &= oppOcc
		case genQuiets:
			targets &^= oppOcc
		}
		for targets != 0 {
			to := popLSB(&targets)
			occp := allOcc&^(1<<uint(from)) | 1<<uint(to)
			if b.isSquareAttackedWithOcc(to, them, occp) {
				continue
			}
			moves = append(moves, NewMove(ksq, Square(to), king, b.pieces[to], NoPiece, FlagNone))
		}

		if filter != genCaptures && !inCheck {
			ourRook := PieceFromType(us, PieceTypeRook)
			for _, cs := range castleSpecs[us] {
				if b.castlingRights&cs.right == 0 {
					continue
				}
				if allOcc&cs.empty != 0 || b.pieces[cs.rookHome] != ourRook {
					continue
				}
				if b.IsSquareAttacked(cs.transit[0], them) || b.IsSquareAttacked(cs.transit[1], them) {
					continue
				}
				moves = append(moves, NewMove(cs.kingFrom, cs.kingTo, king, NoPiece, NoPiece, FlagCastle))
			}
		}
	}

	return moves
}

func appendPromotions(moves []Move, from, to Square, pawn, victim Piece, us Color) []Move {
	return append(moves,
		NewMove(from, to, pawn, victim, PieceFromType(us, PieceTypeQueen), FlagNone),
		NewMove(from, to, pawn, victim, PieceFromType(us, PieceTypeRook), FlagNone),
		NewMove(from, to, pawn, victim, PieceFromType(us, PieceTypeBishop), FlagNone),
		NewMove(from, to, pawn, victim, PieceFromType(us, PieceTypeKnight), FlagNone),
	)
}

// GenerateMoves returns every legal move for the side to move. It
// allocates; hot paths should use GenerateMovesInto with a reused buffer.
func (b *Board) GenerateMoves() []Move { return b.GenerateMovesInto(make([]Move, 0, 128)) }

// GenerateMovesInto appends every legal move to dst[:0] and returns it.
func (b *Board) GenerateMovesInto(dst []Move) []Move {
	return b.generateMovesFilteredInto(dst, genAll)
}

// GenerateCapturesInto appends every legal capture, including en passant
// and capturing promotions.
func (b *Board) GenerateCapturesInto(dst []Move) []Move {
	return b.generateMovesFilteredInto(dst, genCaptures)
}

// GenerateQuietsInto appends every legal non-capture, including quiet
// promotions and castling.
func (b *Board) GenerateQuietsInto(dst []Move) []Move {
	return b.generateMovesFilteredInto(dst, genQuiets)
}

// GenerateCaptures returns a fresh slice of the legal captures.
func (b *Board) GenerateCaptures() []Move { return b.GenerateCapturesInto(make([]Move, 0, 64)) }

// RookMoveBitboard returns the rook attack set from sq for an arbitrary
// occupancy, for callers outside the generator (exchange evaluation,
// mobility terms).
func RookMoveBitboard(sq Square, occ uint64) uint64 { return rookAttacks(int(sq), occ) }

// BishopMoveBitboard returns the bishop attack set from sq for an
// arbitrary occupancy.
func BishopMoveBitboard(sq Square, occ uint64) uint64 { return bishopAttacks(int(sq), occ) }

// KnightMoveBitboard returns the knight attack set from sq.
func KnightMoveBitboard(sq Square) uint64 { return knightMoves[sq] }

// KingMoveBitboard returns the king attack set from sq.
func KingMoveBitboard(sq Square) uint64 { return kingMoves[sq] }

// PawnCaptureBitboard returns the squares a pawn of the given color
// attacks from sq.
func PawnCaptureBitboard(c Color, sq Square) uint64 { return pawnAttacks[c][sq] }

// AttackersTo returns every piece of either color that attacks sq under
// the given occupancy. Sliders are resolved against occ, so callers can
// peel attackers off during an exchange.
func (b *Board) AttackersTo(sq Square, occ uint64) uint64 {
	s := int(sq)
	attackers := pawnAttacks[Black][s] & b.pieceBB[White][PieceTypePawn]
	attackers |= pawnAttacks[White][s] & b.pieceBB[Black][PieceTypePawn]
	attackers |= knightMoves[s] & (b.pieceBB[White][PieceTypeKnight] | b.pieceBB[Black][PieceTypeKnight])
	attackers |= kingMoves[s] & (b.pieceBB[White][PieceTypeKing] | b.pieceBB[Black][PieceTypeKing])
	rq := b.pieceBB[White][PieceTypeRook] | b.pieceBB[Black][PieceTypeRook] |
		b.pieceBB[White][PieceTypeQueen] | b.pieceBB[Black][PieceTypeQueen]
	bq := b.pieceBB[White][PieceTypeBishop] | b.pieceBB[Black][PieceTypeBishop] |
		b.pieceBB[White][PieceTypeQueen] | b.pieceBB[Black][PieceTypeQueen]
	attackers |= rookAttacks(s, occ) & rq
	attackers |= bishopAttacks(s, occ) & bq
	return attackers & occ
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][]Move, depth)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 256)
	}
	return perftRec(b, depth, bufs)
}

func perftRec(b *Board, depth int, bufs [][]Move) uint64 {
	moves := b.GenerateMovesInto(bufs[depth-1])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += perftRec(b, depth-1, bufs)
		undo()
	}
	return nodes
}

// PerftDivide maps each legal root move to its subtree leaf count.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range b.GenerateMoves() {
		undo := b.Apply(m)
		result[m] = Perft(b, depth-1)
		undo()
	}
	return result
}
