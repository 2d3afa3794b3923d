package heronmg

// MoveState records the prior state a move destroys, so UnmakeMove can
// restore the position exactly.
type MoveState struct {
	move          Move
	captured      Piece
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
}

// Move returns the move this state undoes.
func (st MoveState) Move() Move { return st.move }

// NullState records what a null move destroys.
type NullState struct {
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	prevSide      Color
}

// movePieceBB shifts one piece between two squares on the bitboard layer
// and fixes the mailbox and Zobrist key.
func (b *Board) movePieceBB(c Color, pt PieceType, p Piece, from, to Square) {
	fromTo := bb(from) | bb(to)
	b.pieceBB[c][pt] ^= fromTo
	b.occupancy[c] ^= fromTo
	b.pieces[from] = NoPiece
	b.pieces[to] = p
	b.zobristKey ^= zobristPiece[p][from] ^ zobristPiece[p][to]
}

// MakeMove applies a move. If the move would leave the mover's own king in
// check it restores the position and reports ok=false; otherwise the board
// now reflects the move and st can undo it.
func (b *Board) MakeMove(m Move) (ok bool, st MoveState) {
	st = MoveState{
		move:          m,
		captured:      NoPiece,
		prevCastling:  b.castlingRights,
		prevEnPassant: b.enPassantSquare,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
	}

	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	promo := m.PromotionPiece()
	flag := m.Flags()

	us := b.sideToMove
	them := us.Other()

	// The old en-passant file leaves the hash no matter what follows.
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	b.enPassantSquare = NoSquare

	// Captures, en passant included.
	if flag == FlagEnPassant {
		capSq := to - 8
		capPiece := BlackPawn
		if us == Black {
			capSq = to + 8
			capPiece = WhitePawn
		}
		st.captured = capPiece
		b.pieces[capSq] = NoPiece
		b.pieceBB[them][PieceTypePawn] &^= bb(capSq)
		b.occupancy[them] &^= bb(capSq)
		b.zobristKey ^= zobristPiece[capPiece][capSq]
	} else if captured := m.CapturedPiece(); captured != NoPiece {
		st.captured = captured
		b.pieces[to] = NoPiece
		b.pieceBB[them][captured.Type()] &^= bb(to)
		b.occupancy[them] &^= bb(to)
		b.zobristKey ^= zobristPiece[captured][to]
	}

	// Relocate the mover, swapping in the promoted piece if any.
	if promo != NoPiece {
		b.pieceBB[us][PieceTypePawn] &^= bb(from)
		b.occupancy[us] &^= bb(from)
		b.pieces[from] = NoPiece
		b.zobristKey ^= zobristPiece[moved][from]

		b.pieceBB[us][promo.Type()] |= bb(to)
		b.occupancy[us] |= bb(to)
		b.pieces[to] = promo
		b.zobristKey ^= zobristPiece[promo][to]
	} else {
		b.movePieceBB(us, moved.Type(), moved, from, to)
	}

	// Castling walks the rook too.
	if flag == FlagCastle {
		rFrom, rTo := castleRookSquares(to)
		if rFrom != NoSquare {
			rook := PieceFromType(us, PieceTypeRook)
			b.movePieceBB(us, PieceTypeRook, rook, rFrom, rTo)
		}
	}

	// Castling rights decay when kings or rooks move, or rooks fall.
	newCR := b.castlingRights
	switch moved {
	case WhiteKing:
		newCR &^= CastleWhiteKing | CastleWhiteQueen
	case BlackKing:
		newCR &^= CastleBlackKing | CastleBlackQueen
	case WhiteRook:
		if from == 0 {
			newCR &^= CastleWhiteQueen
		} else if from == 7 {
			newCR &^= CastleWhiteKing
		}
	case BlackRook:
		if from == 56 {
			newCR &^= CastleBlackQueen
		} else if from == 63 {
			newCR &^= CastleBlackKing
		}
	}
	if st.captured.Type() == PieceTypeRook {
		switch to {
		case 0:
			newCR &^= CastleWhiteQueen
		case 7:
			newCR &^= CastleWhiteKing
		case 56:
			newCR &^= CastleBlackQueen
		case 63:
			newCR &^= CastleBlackKing
		}
	}
	if newCR != b.castlingRights {
		b.zobristKey ^= zobristCastle[b.castlingRights] ^ zobristCastle[newCR]
		b.castlingRights = newCR
	}

	// A double pawn push opens an en-passant target behind the pawn.
	if moved.Type() == PieceTypePawn {
		if d := to - from; d == 16 || d == -16 {
			ep := from + 8
			if us == Black {
				ep = from - 8
			}
			b.enPassantSquare = ep
			b.zobristKey ^= zobristEnPassant[ep.File()]
		}
	}

	// Toggle side before the legality check so Unmake can rely on it.
	b.sideToMove = them
	b.zobristKey ^= zobristSide

	// Reject the move if it exposes our own king. The attack scan is
	// gated: only king moves, en passant, and pieces leaving a ray
	// through our king can uncover check.
	ksq := b.KingSquare(us)
	if ksq == NoSquare {
		b.UnmakeMove(m, st)
		return false, st
	}
	needCheck := moved.Type() == PieceTypeKing || flag == FlagEnPassant ||
		kingRaysUnion[ksq]&bb(from) != 0
	if needCheck && b.isSquareAttackedWithOcc(int(ksq), them, b.AllOccupancy()) {
		b.UnmakeMove(m, st)
		return false, st
	}

	if moved.Type() == PieceTypePawn || st.captured != NoPiece {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if us == Black {
		b.fullmoveNumber++
	}

	return true, st
}

// UnmakeMove reverses a move made with MakeMove; afterwards the board is
// bit-for-bit identical to its state before the move.
func (b *Board) UnmakeMove(m Move, st MoveState) {
	b.sideToMove = b.sideToMove.Other()
	us := b.sideToMove
	them := us.Other()

	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	promo := m.PromotionPiece()
	flag := m.Flags()

	// Walk the rook home first on castles.
	if flag == FlagCastle {
		rFrom, rTo := castleRookSquares(to)
		if rFrom != NoSquare {
			rook := PieceFromType(us, PieceTypeRook)
			fromTo := bb(rFrom) | bb(rTo)
			b.pieceBB[us][PieceTypeRook] ^= fromTo
			b.occupancy[us] ^= fromTo
			b.pieces[rTo] = NoPiece
			b.pieces[rFrom] = rook
		}
	}

	// Bring the mover back, undoing any promotion.
	b.pieces[to] = NoPiece
	if promo != NoPiece {
		pawn := PieceFromType(us, PieceTypePawn)
		b.pieceBB[us][promo.Type()] &^= bb(to)
		b.pieceBB[us][PieceTypePawn] |= bb(from)
		b.occupancy[us] ^= bb(from) | bb(to)
		b.pieces[from] = pawn
	} else {
		fromTo := bb(from) | bb(to)
		b.pieceBB[us][moved.Type()] ^= fromTo
		b.occupancy[us] ^= fromTo
		b.pieces[from] = moved
	}

	// Resurrect the victim.
	if st.captured != NoPiece {
		capSq := to
		if flag == FlagEnPassant {
			if us == White {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
		}
		b.pieces[capSq] = st.captured
		b.pieceBB[them][st.captured.Type()] |= bb(capSq)
		b.occupancy[them] |= bb(capSq)
	}

	b.castlingRights = st.prevCastling
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.zobristKey = st.prevZobrist
}

// MakeNullMove passes the turn without moving a piece, for null-move
// pruning. Reversible via UnmakeNullMove.
func (b *Board) MakeNullMove() (st NullState) {
	st = NullState{
		prevEnPassant: b.enPassantSquare,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
		prevSide:      b.sideToMove,
	}

	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	b.enPassantSquare = NoSquare
	b.halfmoveClock++
	b.sideToMove = b.sideToMove.Other()
	b.zobristKey ^= zobristSide
	if st.prevSide == Black {
		b.fullmoveNumber++
	}
	return st
}

// UnmakeNullMove restores the state prior to MakeNullMove.
func (b *Board) UnmakeNullMove(st NullState) {
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.sideToMove = st.prevSide
	b.zobristKey = st.prevZobrist
}
