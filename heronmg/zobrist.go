package heronmg

import "math/rand"

// Zobrist feature keys: piece-on-square, castling-rights state, en-passant
// file, and side to move. Indexed by the raw Piece code, so the table has
// unused rows for the gap codes 7-8; wasting a few keys keeps lookups
// branch-free.
var (
	zobristPiece     [15][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	// Fixed seed so hashes are reproducible across runs and in tests.
	rnd := rand.New(rand.NewSource(0x48E207))

	for p := range zobristPiece {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for cr := range zobristCastle {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeZobrist recomputes the position hash from scratch. MakeMove and
// UnmakeMove maintain the same value incrementally; Validate cross-checks
// the two.
func (b *Board) ComputeZobrist() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if p := b.pieces[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}
	if b.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[b.castlingRights]
	if b.enPassantSquare != NoSquare {
		key ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	return key
}
