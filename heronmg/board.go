package heronmg

import "math/bits"

// Piece encodes a colored piece in four bits: the low three bits hold the
// type in [1..6], bit 3 marks Black.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is the colorless piece kind, used to index lookup tables.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type strips the color from a piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the owning side. NoPiece reports White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// PieceFromType attaches a color to a colorless piece type.
func PieceFromType(c Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	if c == Black {
		return Piece(pt) | 8
	}
	return Piece(pt)
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return 1 - c }

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	CastleWhiteKing CastlingRights = 1 << iota
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen
)

// Square indexes the board 0..63, a1=0, h8=63.
type Square int

const NoSquare Square = -1

// File returns the square's file 0..7.
func (s Square) File() int { return int(s) & 7 }

// Rank returns the square's rank 0..7.
func (s Square) Rank() int { return int(s) >> 3 }

// Bitboards is a by-piece snapshot of one side's occupancy, handed out to
// the evaluator and to external tooling.
type Bitboards struct {
	Pawns   uint64
	Knights uint64
	Bishops uint64
	Rooks   uint64
	Queens  uint64
	Kings   uint64
	All     uint64
}

// Board holds a single mutable chess position. It is mutated in place by
// MakeMove/UnmakeMove; the Zobrist key is maintained incrementally.
type Board struct {
	// pieceBB[color][PieceType]; index 0 of the inner array is unused.
	pieceBB   [2][7]uint64
	occupancy [2]uint64

	// Mailbox mirror of the bitboards, for O(1) piece-at-square queries.
	pieces [64]Piece

	sideToMove      Color
	castlingRights  CastlingRights
	enPassantSquare Square
	halfmoveClock   int
	fullmoveNumber  int

	zobristKey uint64
}

// SideToMove reports whose turn it is.
func (b *Board) SideToMove() Color { return b.sideToMove }

// Hash returns the current incremental Zobrist key.
func (b *Board) Hash() uint64 { return b.zobristKey }

// EnPassantSquare returns the en-passant target square or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.enPassantSquare }

// CastlingRightsMask returns the current castling permissions.
func (b *Board) CastlingRightsMask() CastlingRights { return b.castlingRights }

// HalfmoveClock returns half-moves since the last capture or pawn move.
func (b *Board) HalfmoveClock() int { return b.halfmoveClock }

// FullmoveNumber returns the full move counter, incremented after Black moves.
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

// PieceAt returns the piece occupying a square.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[sq] }

// AllOccupancy returns all occupied squares.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[White] | b.occupancy[Black] }

// ColorOccupancy returns squares occupied by one side.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[c] }

// PieceBB returns the bitboard for one colored piece kind.
func (b *Board) PieceBB(c Color, pt PieceType) uint64 { return b.pieceBB[c][pt] }

// Bitboards returns a by-piece snapshot for the requested side.
func (b *Board) Bitboards(c Color) Bitboards {
	return Bitboards{
		Pawns:   b.pieceBB[c][PieceTypePawn],
		Knights: b.pieceBB[c][PieceTypeKnight],
		Bishops: b.pieceBB[c][PieceTypeBishop],
		Rooks:   b.pieceBB[c][PieceTypeRook],
		Queens:  b.pieceBB[c][PieceTypeQueen],
		Kings:   b.pieceBB[c][PieceTypeKing],
		All:     b.occupancy[c],
	}
}

// KingSquare returns the side's king square, or NoSquare if absent
// (only possible on hand-built test positions).
func (b *Board) KingSquare(c Color) Square {
	kings := b.pieceBB[c][PieceTypeKing]
	if kings == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(kings))
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (b *Board) HasLegalMoves() bool {
	var buf [64]Move
	return len(b.GenerateMovesInto(buf[:0])) > 0
}

// InCheckmate reports whether the side to move is checkmated.
func (b *Board) InCheckmate() bool {
	return b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// InStalemate reports whether the side to move has no moves but is not in check.
func (b *Board) InStalemate() bool {
	return !b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// IsDrawBy50 reports a fifty-move-rule draw. The clock counts half-moves.
func (b *Board) IsDrawBy50() bool { return b.halfmoveClock >= 100 }

// InsufficientMaterial reports positions where neither side can possibly
// deliver mate: bare kings, king+minor vs king, and king+bishop vs
// king+bishop with both bishops on the same square color.
func (b *Board) InsufficientMaterial() bool {
	if b.pieceBB[White][PieceTypePawn]|b.pieceBB[Black][PieceTypePawn] != 0 {
		return false
	}
	if b.pieceBB[White][PieceTypeRook]|b.pieceBB[Black][PieceTypeRook] != 0 {
		return false
	}
	if b.pieceBB[White][PieceTypeQueen]|b.pieceBB[Black][PieceTypeQueen] != 0 {
		return false
	}
	minors := b.pieceBB[White][PieceTypeKnight] | b.pieceBB[White][PieceTypeBishop] |
		b.pieceBB[Black][PieceTypeKnight] | b.pieceBB[Black][PieceTypeBishop]
	switch bits.OnesCount64(minors) {
	case 0, 1:
		return true
	case 2:
		wb := b.pieceBB[White][PieceTypeBishop]
		bb := b.pieceBB[Black][PieceTypeBishop]
		if bits.OnesCount64(wb) == 1 && bits.OnesCount64(bb) == 1 {
			const darkSquares = 0xAA55AA55AA55AA55
			return (wb&darkSquares != 0) == (bb&darkSquares != 0)
		}
	}
	return false
}

// bb returns a bitboard with only the given square set.
func bb(sq Square) uint64 { return 1 << uint(sq) }

// popLSB removes and returns the index of the lowest set bit.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// addPiece places a piece on an empty square, keeping bitboards, mailbox,
// occupancy and the Zobrist key in sync.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	c := p.Color()
	b.pieces[sq] = p
	b.pieceBB[c][p.Type()] |= bb(sq)
	b.occupancy[c] |= bb(sq)
	b.zobristKey ^= zobristPiece[p][sq]
}

// removePiece clears a square and returns the removed piece.
func (b *Board) removePiece(sq Square) Piece {
	p := b.pieces[sq]
	if p == NoPiece {
		return NoPiece
	}
	c := p.Color()
	mask := ^bb(sq)
	b.pieces[sq] = NoPiece
	b.pieceBB[c][p.Type()] &= mask
	b.occupancy[c] &= mask
	b.zobristKey ^= zobristPiece[p][sq]
	return p
}

// Validate cross-checks the mailbox against the bitboards, the occupancy
// unions, and the incremental hash against a from-scratch recomputation.
func (b *Board) Validate() bool {
	var pieceBB [2][7]uint64
	var occ [2]uint64
	for sq := Square(0); sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		c := p.Color()
		pieceBB[c][p.Type()] |= bb(sq)
		occ[c] |= bb(sq)
	}
	if occ != b.occupancy || pieceBB != b.pieceBB {
		return false
	}
	if occ[White]&occ[Black] != 0 {
		return false
	}
	return b.zobristKey == b.ComputeZobrist()
}

// IsDrawByRepetition counts occurrences of the current position key in the
// supplied history. Two prior occurrences plus the current one make a
// threefold repetition. The key already folds in side to move, castling
// rights and the en-passant file, as the repetition rule requires.
func (b *Board) IsDrawByRepetition(history []uint64) bool {
	target := b.zobristKey
	end := len(history)
	if end > 0 && history[end-1] == target {
		end--
	}
	seen := 0
	for _, h := range history[:end] {
		if h == target {
			seen++
			if seen >= 2 {
				return true
			}
		}
	}
	return false
}

// Apply plays a move that is known to be legal and returns an undo closure.
// It panics if the move is illegal; use MakeMove when legality is in doubt.
func (b *Board) Apply(m Move) func() {
	ok, st := b.MakeMove(m)
	if !ok {
		panic("heronmg: Apply called with illegal move " + m.String())
	}
	return func() { b.UnmakeMove(m, st) }
}

// ApplyNullMove switches the side to move and returns an undo closure.
func (b *Board) ApplyNullMove() func() {
	st := b.MakeNullMove()
	return func() { b.UnmakeNullMove(st) }
}

// OurKingInCheck reports whether the side to move is currently in check.
func (b *Board) OurKingInCheck() bool { return b.InCheck(b.sideToMove) }

// IsCapture reports whether a move takes a piece, including en passant.
func IsCapture(m Move, b *Board) bool {
	if m.CapturedPiece() != NoPiece {
		return true
	}
	return m.Flags() == FlagEnPassant
}
