package engine

import (
	"testing"

	hm "heron-engine/heronmg"
)

func TestScoreMovesListRanksHashMoveFirst(t *testing.T) {
	eng := New()
	board := hm.MustParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	moves := board.GenerateMoves()

	pvMove := findMove(t, board, "f1b5")
	list := eng.scoreMovesList(board, moves, 0, pvMove, 0)

	orderNextMove(0, &list)
	if got := list.moves[0].move; got != pvMove {
		t.Fatalf("expected hash move %s first, got %s", pvMove, got)
	}
}

func TestScoreMovesListRanksCapturesAboveQuiets(t *testing.T) {
	eng := New()
	board := hm.MustParseFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	moves := board.GenerateMoves()

	list := eng.scoreMovesList(board, moves, 0, 0, 0)
	orderNextMove(0, &list)

	best := list.moves[0].move
	if best.CapturedPiece() == hm.NoPiece {
		t.Fatalf("expected a capture to be ordered first, got %s", best)
	}
}

func TestMVVLVAPrefersValuableVictims(t *testing.T) {
	// Pawn takes queen must outrank queen takes pawn.
	pxq := mvvLva[hm.PieceTypeQueen][hm.PieceTypePawn]
	qxp := mvvLva[hm.PieceTypePawn][hm.PieceTypeQueen]
	if pxq <= qxp {
		t.Fatalf("PxQ (%d) should outrank QxP (%d)", pxq, qxp)
	}
}

func TestKillerMovesRankAboveHistory(t *testing.T) {
	eng := New()
	board := hm.MustParseFEN(hm.FENStartPos)
	moves := board.GenerateMoves()

	killer := findMove(t, board, "b1c3")
	eng.killers.InsertKiller(killer, 0)

	other := findMove(t, board, "a2a3")
	eng.tables.incrementHistory(hm.White, other, 3)

	list := eng.scoreMovesList(board, moves, 0, 0, 0)
	orderNextMove(0, &list)
	if got := list.moves[0].move; got != killer {
		t.Fatalf("expected killer %s first, got %s", killer, got)
	}
}

func TestOrderNextMoveSortsIncrementally(t *testing.T) {
	list := moveList{moves: []scoredMove{
		{move: 1, score: 10},
		{move: 2, score: 40},
		{move: 3, score: 30},
		{move: 4, score: 20},
	}}
	wantOrder := []hm.Move{2, 3, 4, 1}
	for i := range list.moves {
		orderNextMove(i, &list)
		if list.moves[i].move != wantOrder[i] {
			t.Fatalf("step %d: expected move %d, got %d", i, wantOrder[i], list.moves[i].move)
		}
	}
}

func TestCountersScoreAboveBareHistory(t *testing.T) {
	eng := New()
	board := hm.MustParseFEN(hm.FENStartPos)

	prev := findMove(t, board, "e2e4")
	reply := findMove(t, board, "b1c3")
	eng.tables.storeCounter(hm.White, prev, reply)

	list := eng.scoreMovesList(board, board.GenerateMoves(), 0, 0, prev)
	orderNextMove(0, &list)
	if got := list.moves[0].move; got != reply {
		t.Fatalf("expected counter move %s first, got %s", reply, got)
	}
}
