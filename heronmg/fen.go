package heronmg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the standard initial position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every ParseFEN failure.
var ErrInvalidFEN = errors.New("invalid FEN")

var pieceFromChar = map[rune]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop,
	'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop,
	'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

var charFromPiece = map[Piece]byte{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B',
	WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b',
	BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

func fenErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN builds a fresh Board from a FEN string. Construction is
// all-or-nothing: on error no partially filled board escapes.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fenErr("want at least 4 fields, got %d", len(fields))
	}

	board := &Board{enPassantSquare: NoSquare, fullmoveNumber: 1}

	// Piece placement, rank 8 first.
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fenErr("want 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := pieceFromChar[ch]
			if !ok {
				return nil, fenErr("bad piece character %q", ch)
			}
			if file >= 8 {
				return nil, fenErr("rank %d overflows 8 files", rank+1)
			}
			sq := Square(rank*8 + file)
			board.pieces[sq] = p
			board.pieceBB[p.Color()][p.Type()] |= bb(sq)
			board.occupancy[p.Color()] |= bb(sq)
			file++
		}
		if file != 8 {
			return nil, fenErr("rank %d has %d files", rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		board.sideToMove = White
	case "b":
		board.sideToMove = Black
	default:
		return nil, fenErr("side to move must be w or b, got %q", fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				board.castlingRights |= CastleWhiteKing
			case 'Q':
				board.castlingRights |= CastleWhiteQueen
			case 'k':
				board.castlingRights |= CastleBlackKing
			case 'q':
				board.castlingRights |= CastleBlackQueen
			default:
				return nil, fenErr("bad castling character %q", ch)
			}
		}
	}

	if fields[3] != "-" {
		if len(fields[3]) != 2 ||
			fields[3][0] < 'a' || fields[3][0] > 'h' ||
			fields[3][1] < '1' || fields[3][1] > '8' {
			return nil, fenErr("bad en passant square %q", fields[3])
		}
		board.enPassantSquare = Square(int(fields[3][1]-'1')*8 + int(fields[3][0]-'a'))
	}

	if len(fields) > 4 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fenErr("halfmove clock %q is not a number", fields[4])
		}
		board.halfmoveClock = hm
	}
	if len(fields) > 5 {
		fm, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fenErr("fullmove number %q is not a number", fields[5])
		}
		board.fullmoveNumber = fm
	}

	board.zobristKey = board.ComputeZobrist()
	return board, nil
}

// MustParseFEN is ParseFEN for known-good positions; it panics on error.
func MustParseFEN(fen string) *Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// ToFEN serializes the current position.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece[p])
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')

	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		for _, right := range []struct {
			flag CastlingRights
			ch   byte
		}{
			{CastleWhiteKing, 'K'}, {CastleWhiteQueen, 'Q'},
			{CastleBlackKing, 'k'}, {CastleBlackQueen, 'q'},
		} {
			if b.castlingRights&right.flag != 0 {
				sb.WriteByte(right.ch)
			}
		}
	}
	sb.WriteByte(' ')

	if b.enPassantSquare != NoSquare {
		sb.WriteByte('a' + byte(b.enPassantSquare.File()))
		sb.WriteByte('1' + byte(b.enPassantSquare.Rank()))
	} else {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}
