package heronmg

// Keys for the Polyglot book hash. Kept apart from the internal Zobrist
// set so the two schemes can never drift into each other.
var (
	polyglotPieces    [12][64]uint64
	polyglotCastle    [4]uint64
	polyglotEnPassant [8]uint64
	polyglotSide      uint64
)

func init() {
	// xorshift-multiply stream, fixed seed, drained in a fixed order so
	// the keys are stable across builds.
	var s uint64 = 0x37b4a4b3f0d1c0d0
	next := func() uint64 {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545F4914F6CDD1D
	}

	for kind := 0; kind < 12; kind++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieces[kind][sq] = next()
		}
	}
	for i := range polyglotCastle {
		polyglotCastle[i] = next()
	}
	for i := range polyglotEnPassant {
		polyglotEnPassant[i] = next()
	}
	polyglotSide = next()
}

// polyglotKind orders piece kinds black-first: bp..bk take 0..5 and
// wp..wk take 6..11.
func polyglotKind(c Color, pt PieceType) int {
	kind := int(pt) - 1
	if c == White {
		kind += 6
	}
	return kind
}

// PolyglotHash computes the book hash of the position. It differs from
// Hash in two ways: the en-passant file only counts when a pawn of the
// side to move can actually capture, and the side key marks White rather
// than toggling per move.
func (b *Board) PolyglotHash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := PieceTypePawn; pt <= PieceTypeKing; pt++ {
			kind := polyglotKind(c, pt)
			pieces := b.pieceBB[c][pt]
			for pieces != 0 {
				sq := popLSB(&pieces)
				hash ^= polyglotPieces[kind][sq]
			}
		}
	}

	if b.castlingRights&CastleWhiteKing != 0 {
		hash ^= polyglotCastle[0]
	}
	if b.castlingRights&CastleWhiteQueen != 0 {
		hash ^= polyglotCastle[1]
	}
	if b.castlingRights&CastleBlackKing != 0 {
		hash ^= polyglotCastle[2]
	}
	if b.castlingRights&CastleBlackQueen != 0 {
		hash ^= polyglotCastle[3]
	}

	if ep := b.enPassantSquare; ep != NoSquare {
		// Reverse lookup: the squares from which one of our pawns would
		// attack the en-passant square.
		us := b.sideToMove
		if pawnAttacks[us.Other()][ep]&b.pieceBB[us][PieceTypePawn] != 0 {
			hash ^= polyglotEnPassant[ep.File()]
		}
	}

	if b.sideToMove == White {
		hash ^= polyglotSide
	}

	return hash
}
