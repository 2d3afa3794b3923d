package engine

import (
	"testing"

	hm "heron-engine/heronmg"
)

func TestGetMateOrCPScore(t *testing.T) {
	cases := []struct {
		score int32
		want  string
	}{
		{50, "cp 50"},
		{-120, "cp -120"},
		{MaxScore - 1, "mate 1"},
		{MaxScore - 5, "mate 3"},
		{-(MaxScore - 2), "mate -1"},
		{-(MaxScore - 6), "mate -3"},
	}
	for _, tc := range cases {
		if got := getMateOrCPScore(tc.score); got != tc.want {
			t.Errorf("getMateOrCPScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestHistoryBonusAndAging(t *testing.T) {
	var tables historyTables
	move := hm.NewMove(8, 16, hm.WhitePawn, hm.NoPiece, hm.NoPiece, hm.FlagNone)

	tables.incrementHistory(hm.White, move, 4)
	if got := tables.history[hm.White][8][16]; got != 16 {
		t.Fatalf("expected history bonus 16, got %d", got)
	}

	tables.decrementHistory(hm.White, move, 3)
	if got := tables.history[hm.White][8][16]; got != 7 {
		t.Fatalf("expected history 7 after malus, got %d", got)
	}

	// Saturating: a floor of zero, never negative.
	tables.decrementHistory(hm.White, move, 10)
	if got := tables.history[hm.White][8][16]; got != 0 {
		t.Fatalf("expected history floor 0, got %d", got)
	}
}

func TestHistoryHalvesAtCap(t *testing.T) {
	var tables historyTables
	move := hm.NewMove(8, 16, hm.WhitePawn, hm.NoPiece, hm.NoPiece, hm.FlagNone)

	tables.history[hm.White][8][16] = historyMaxVal
	tables.incrementHistory(hm.White, move, 2)

	if got := tables.history[hm.White][8][16]; got > historyMaxVal {
		t.Fatalf("history exceeded cap: %d", got)
	}
}

func TestCounterMoves(t *testing.T) {
	var tables historyTables
	prev := hm.NewMove(12, 28, hm.WhitePawn, hm.NoPiece, hm.NoPiece, hm.FlagNone)
	reply := hm.NewMove(52, 36, hm.BlackPawn, hm.NoPiece, hm.NoPiece, hm.FlagNone)

	tables.storeCounter(hm.Black, prev, reply)
	if got := tables.counterFor(hm.Black, prev); got != reply {
		t.Fatalf("expected counter %s, got %s", reply, got)
	}
	if got := tables.counterFor(hm.Black, 0); got != 0 {
		t.Fatalf("no previous move must yield no counter, got %s", got)
	}
}

func TestKillerSlots(t *testing.T) {
	var killers KillerStruct
	first := hm.Move(100)
	second := hm.Move(200)

	killers.InsertKiller(first, 3)
	killers.InsertKiller(second, 3)

	if !killers.IsKiller(first, 3) || !killers.IsKiller(second, 3) {
		t.Fatal("both killers should be stored")
	}
	if killers.IsKiller(first, 4) {
		t.Fatal("killers are per ply")
	}

	// Re-inserting the newest killer must not evict the other slot.
	killers.InsertKiller(second, 3)
	if !killers.IsKiller(first, 3) {
		t.Fatal("duplicate insert evicted the older killer")
	}
}

func TestStateStackDrawDetection(t *testing.T) {
	board := hm.MustParseFEN(hm.FENStartPos)
	var stack stateStack
	stack.reset(board)

	moves := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for _, mv := range moves {
		move, err := matchUCIMove(board, mv)
		if err != nil {
			t.Fatalf("move %s: %v", mv, err)
		}
		board.Apply(move)
		stack.push(board)
	}

	// One earlier occurrence inside the "search tree" (rootIndex 0) is
	// already a draw for search purposes.
	if !stack.isDraw(0) {
		t.Fatal("expected repetition draw with root at game start")
	}

	// With the root at the top of the stack the single earlier
	// occurrence lies outside the tree: not yet a draw.
	if stack.isDraw(stack.rootIndex()) {
		t.Fatal("single pre-root repetition should not be an immediate draw")
	}
}

func TestHasMinorOrMajorPiece(t *testing.T) {
	board := hm.MustParseFEN("4k3/8/8/8/8/8/4P3/4KN2 w - - 0 1")
	wCount, bCount := hasMinorOrMajorPiece(board)
	if wCount == 0 {
		t.Fatal("white has a knight")
	}
	if bCount != 0 {
		t.Fatal("black has only king material")
	}
}
