package heronmg

import (
	"errors"
	"strings"
)

// Move packs a full move description into 32 bits:
//
//	bits  0-5   from square
//	bits  6-11  to square
//	bits 12-15  moved piece
//	bits 16-19  captured piece (NoPiece if quiet)
//	bits 20-23  promotion piece (NoPiece if none)
//	bits 24-25  special flag
type Move uint32

const (
	moveToShift      = 6
	movePieceShift   = 12
	moveCaptureShift = 16
	movePromoteShift = 20
	moveFlagShift    = 24
)

// Special move flags. Promotions are signaled by a non-zero promotion piece.
const (
	FlagNone uint8 = iota
	FlagCastle
	FlagEnPassant
)

// NewMove assembles a move from its components.
func NewMove(from, to Square, moved, captured, promotion Piece, flag uint8) Move {
	return Move(uint32(from&0x3F) |
		uint32(to&0x3F)<<moveToShift |
		uint32(moved&0xF)<<movePieceShift |
		uint32(captured&0xF)<<moveCaptureShift |
		uint32(promotion&0xF)<<movePromoteShift |
		uint32(flag&0x3)<<moveFlagShift)
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> moveToShift & 0x3F) }

// MovedPiece returns the piece being moved.
func (m Move) MovedPiece() Piece { return Piece(m >> movePieceShift & 0xF) }

// CapturedPiece returns the captured piece, or NoPiece.
func (m Move) CapturedPiece() Piece { return Piece(m >> moveCaptureShift & 0xF) }

// PromotionPiece returns the promotion piece, or NoPiece.
func (m Move) PromotionPiece() Piece { return Piece(m >> movePromoteShift & 0xF) }

// PromotionPieceType returns the colorless promotion kind, or PieceTypeNone.
func (m Move) PromotionPieceType() PieceType { return m.PromotionPiece().Type() }

// Flags returns the special move flag.
func (m Move) Flags() uint8 { return uint8(m >> moveFlagShift & 0x3) }

// String renders the move in long algebraic coordinates, e.g. "e2e4", "e7e8q".
func (m Move) String() string {
	from, to := m.From(), m.To()
	buf := []byte{
		'a' + byte(from.File()), '1' + byte(from.Rank()),
		'a' + byte(to.File()), '1' + byte(to.Rank()),
	}
	if promo := m.PromotionPiece(); promo != NoPiece {
		switch promo.Type() {
		case PieceTypeKnight:
			buf = append(buf, 'n')
		case PieceTypeBishop:
			buf = append(buf, 'b')
		case PieceTypeRook:
			buf = append(buf, 'r')
		case PieceTypeQueen:
			buf = append(buf, 'q')
		}
	}
	return string(buf)
}

var errBadMoveString = errors.New("heronmg: malformed move string")

// ParseMove decodes a long-algebraic move string ("e2e4", "e7e8q", "0000").
// The result carries only squares and promotion type; resolve it against the
// legal move list to recover piece and flag information.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "0000" {
		return 0, nil
	}
	if len(s) < 4 || len(s) > 5 {
		return 0, errBadMoveString
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' ||
		s[2] < 'a' || s[2] > 'h' || s[3] < '1' || s[3] > '8' {
		return 0, errBadMoveString
	}
	from := Square(int(s[1]-'1')*8 + int(s[0]-'a'))
	to := Square(int(s[3]-'1')*8 + int(s[2]-'a'))
	var promo Piece
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = WhiteKnight
		case 'b':
			promo = WhiteBishop
		case 'r':
			promo = WhiteRook
		case 'q':
			promo = WhiteQueen
		default:
			return 0, errBadMoveString
		}
	}
	return NewMove(from, to, NoPiece, NoPiece, promo, FlagNone), nil
}

// GivesCheck reports whether a move, assumed legal for the side to move,
// leaves the opponent's king in check. It simulates the post-move occupancy
// without mutating the board.
func (b *Board) GivesCheck(m Move) bool {
	us := b.sideToMove
	them := us.Other()

	ksq := b.KingSquare(them)
	if ksq == NoSquare {
		return false
	}

	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	flag := m.Flags()

	fromBB := bb(from)
	toBB := bb(to)

	var pieces [7]uint64
	for pt := PieceTypePawn; pt <= PieceTypeKing; pt++ {
		pieces[pt] = b.pieceBB[us][pt]
	}
	occUs := b.occupancy[us]
	occThem := b.occupancy[them]

	// Remove the captured piece from the opposing occupancy.
	if flag == FlagEnPassant {
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		occThem &^= bb(capSq)
	} else if m.CapturedPiece() != NoPiece {
		occThem &^= toBB
	}

	// Relocate the mover, applying any promotion.
	pieces[moved.Type()] &^= fromBB
	occUs &^= fromBB
	landed := moved
	if promo := m.PromotionPiece(); promo != NoPiece {
		landed = promo
	}
	pieces[landed.Type()] |= toBB
	occUs |= toBB

	// Castling also relocates the rook.
	if flag == FlagCastle {
		rFrom, rTo := castleRookSquares(to)
		if rFrom != NoSquare {
			pieces[PieceTypeRook] &^= bb(rFrom)
			occUs &^= bb(rFrom)
			pieces[PieceTypeRook] |= bb(rTo)
			occUs |= bb(rTo)
		}
	}

	occAll := occUs | occThem
	k := int(ksq)

	// Pawns attack the king square if the king "attacks" them in reverse.
	if pawnAttacks[them][k]&pieces[PieceTypePawn] != 0 {
		return true
	}
	if knightMoves[k]&pieces[PieceTypeKnight] != 0 {
		return true
	}
	if kingMoves[k]&pieces[PieceTypeKing] != 0 {
		return true
	}
	if rq := pieces[PieceTypeRook] | pieces[PieceTypeQueen]; rq != 0 {
		if rookAttacks(k, occAll)&rq != 0 {
			return true
		}
	}
	if bq := pieces[PieceTypeBishop] | pieces[PieceTypeQueen]; bq != 0 {
		if bishopAttacks(k, occAll)&bq != 0 {
			return true
		}
	}
	return false
}

// castleRookSquares maps a castling king destination to the rook's hop.
func castleRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case 6: // g1
		return 7, 5
	case 2: // c1
		return 0, 3
	case 62: // g8
		return 63, 61
	case 58: // c8
		return 56, 59
	}
	return NoSquare, NoSquare
}
