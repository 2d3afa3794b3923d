package engine

import (
	"testing"

	hm "heron-engine/heronmg"
)

// findMove resolves a coordinate string against the position's legal
// moves so the move carries its piece metadata.
func findMove(t *testing.T, b *hm.Board, uci string) hm.Move {
	t.Helper()
	move, err := matchUCIMove(b, uci)
	if err != nil {
		t.Fatalf("move %s not legal in %s: %v", uci, b.ToFEN(), err)
	}
	return move
}

func TestSEEWinsUndefendedPawn(t *testing.T) {
	board := hm.MustParseFEN("1k6/8/8/3p4/4P3/8/8/6K1 w - - 0 1")
	score := see(board, findMove(t, board, "e4d5"))
	if want := seeValues[hm.PieceTypePawn]; score != want {
		t.Fatalf("expected SEE score %d, got %d", want, score)
	}
}

func TestSEELosesQueenForPawn(t *testing.T) {
	board := hm.MustParseFEN("1k6/2p5/3p4/8/8/8/3Q4/6K1 w - - 0 1")
	score := see(board, findMove(t, board, "d2d6"))
	want := seeValues[hm.PieceTypePawn] - seeValues[hm.PieceTypeQueen]
	if score != want {
		t.Fatalf("expected SEE score %d, got %d", want, score)
	}
}

func TestSEEAccountsForDefendedMinor(t *testing.T) {
	board := hm.MustParseFEN("6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1")
	score := see(board, findMove(t, board, "c4e6"))
	want := seeValues[hm.PieceTypeKnight] - seeValues[hm.PieceTypeBishop]
	if score != want {
		t.Fatalf("expected SEE score %d, got %d", want, score)
	}
}

func TestSEEHandlesEnPassantCapture(t *testing.T) {
	board := hm.MustParseFEN("k7/8/8/3pP3/8/8/8/6K1 w - d6 0 1")
	score := see(board, findMove(t, board, "e5d6"))
	if want := seeValues[hm.PieceTypePawn]; score != want {
		t.Fatalf("expected SEE score %d, got %d", want, score)
	}
}

func TestSEEStopsWhenRecaptureIsBad(t *testing.T) {
	// Rook takes a pawn-defended rook: an even trade, since the pawn
	// recapture has nothing left to win.
	board := hm.MustParseFEN("1k6/2p5/3r4/8/8/8/3R4/3K4 w - - 0 1")
	score := see(board, findMove(t, board, "d2d6"))
	want := seeValues[hm.PieceTypeRook] - seeValues[hm.PieceTypeRook]
	if score != want {
		t.Fatalf("expected SEE score %d, got %d", want, score)
	}
}
