package engine

import (
	"testing"
	"time"

	hm "heron-engine/heronmg"
)

func searchPosition(t *testing.T, fen string, depth int) Result {
	t.Helper()
	eng := New()
	if err := eng.SetPosition(fen, nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	return eng.Search(Limits{Depth: depth})
}

func TestSearchFindsMateInOne(t *testing.T) {
	result := searchPosition(t, "k7/8/1K6/8/8/8/8/7R w - - 0 1", 4)
	if got := result.BestMove.String(); got != "h1h8" {
		t.Fatalf("expected mating move h1h8, got %s (score %d)", got, result.Score)
	}
	if result.Score <= Checkmate {
		t.Fatalf("expected a mate score, got %d", result.Score)
	}
}

func TestSearchPrefersShorterMate(t *testing.T) {
	// Back-rank position with a forced mate; the mate-in-one must win
	// over longer mating lines.
	result := searchPosition(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1", 6)
	if got := result.BestMove.String(); got != "a1a8" {
		t.Fatalf("expected a1a8, got %s", got)
	}
	if want := MaxScore - 1; result.Score != want {
		t.Fatalf("expected mate-in-one score %d, got %d", want, result.Score)
	}
}

func TestSearchEscapesCheckmateThreat(t *testing.T) {
	// Black to move, white threatens Ra8#; the king must make luft or
	// the rook must cover the back rank.
	result := searchPosition(t, "6k1/5ppp/8/8/8/8/8/R6K b - - 0 1", 5)
	board := hm.MustParseFEN("6k1/5ppp/8/8/8/8/8/R6K b - - 0 1")
	move := findMove(t, board, result.BestMove.String())
	board.Apply(move)
	followUp := searchPositionBoard(t, board, 4)
	if followUp.Score > Checkmate {
		t.Fatalf("move %s still loses to forced mate (score %d)", result.BestMove, followUp.Score)
	}
}

func searchPositionBoard(t *testing.T, b *hm.Board, depth int) Result {
	t.Helper()
	eng := New()
	if err := eng.SetPosition(b.ToFEN(), nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	return eng.Search(Limits{Depth: depth})
}

func TestSearchCapturesHangingQueen(t *testing.T) {
	result := searchPosition(t, "k7/8/8/3q4/8/8/3R4/K7 w - - 0 1", 5)
	if got := result.BestMove.String(); got != "d2d5" {
		t.Fatalf("expected d2d5 winning the queen, got %s", got)
	}
	if result.Score < int32(pieceValueEG[hm.PieceTypeQueen]-pieceValueEG[hm.PieceTypeRook]) {
		t.Fatalf("score %d does not reflect the won queen", result.Score)
	}
}

func TestSearchReportsDrawOnStalemate(t *testing.T) {
	// Black is stalemated; searching from white's view one ply earlier
	// must not claim a decisive score for the stalemating line.
	eng := New()
	if err := eng.SetPosition("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	result := eng.Search(Limits{Depth: 3})
	if result.BestMove != 0 {
		t.Fatalf("expected no best move in stalemate, got %s", result.BestMove)
	}
}

func TestQuiescenceEqualsStaticEvalWhenQuiet(t *testing.T) {
	// No captures, no checks: quiescence must fall through to the
	// stand-pat score.
	fens := []string{
		hm.FENStartPos,
		"4k3/pppp4/8/8/8/8/4PPPP/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		eng := New()
		board := hm.MustParseFEN(fen)
		var pv PVLine
		got := eng.quiescence(board, -MaxScore, MaxScore, &pv, 0, 0)
		if want := Evaluate(board); got != want {
			t.Errorf("%s: quiescence %d != static eval %d", fen, got, want)
		}
	}
}

func TestSearchHonorsNodeBudget(t *testing.T) {
	eng := New()
	if err := eng.SetPosition(hm.FENStartPos, nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	result := eng.Search(Limits{Nodes: 5000})
	if result.BestMove == 0 {
		t.Fatal("expected a fallback best move under a node budget")
	}
}

func TestStopAbortsSearch(t *testing.T) {
	eng := New()
	if err := eng.SetPosition(hm.FENStartPos, nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	done := make(chan Result, 1)
	go func() { done <- eng.Search(Limits{Infinite: true}) }()

	time.Sleep(50 * time.Millisecond)
	eng.Stop()

	select {
	case result := <-done:
		if result.BestMove == 0 {
			t.Fatal("expected a best move from the aborted search")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("search did not stop")
	}
}

func TestSearchInfoCallback(t *testing.T) {
	eng := New()
	var depths []int
	eng.Info = func(info SearchInfo) { depths = append(depths, info.Depth) }
	if err := eng.SetPosition(hm.FENStartPos, nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	eng.Search(Limits{Depth: 5})

	if len(depths) == 0 {
		t.Fatal("expected info reports")
	}
	for i := 1; i < len(depths); i++ {
		if depths[i] <= depths[i-1] {
			t.Fatalf("depths not increasing: %v", depths)
		}
	}
}

func TestNewGameResetsState(t *testing.T) {
	eng := New()
	if err := eng.SetPosition("k7/8/8/3q4/8/8/3R4/K7 w - - 0 1", nil); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	eng.Search(Limits{Depth: 4})
	eng.NewGame()

	if eng.prevScore != 0 {
		t.Fatalf("prevScore not reset: %d", eng.prevScore)
	}
	if got := eng.board.ToFEN(); got != hm.FENStartPos {
		t.Fatalf("board not reset, got %s", got)
	}
}

func TestSetPositionRejectsBadInput(t *testing.T) {
	eng := New()
	before := eng.board.ToFEN()

	if err := eng.SetPosition("not a fen", nil); err == nil {
		t.Fatal("expected error for garbage FEN")
	}
	if err := eng.SetPosition(hm.FENStartPos, []string{"e2e5"}); err == nil {
		t.Fatal("expected error for illegal move")
	}
	if got := eng.board.ToFEN(); got != before {
		t.Fatalf("position changed on failed SetPosition: %s", got)
	}
}

func TestSearchWithRepetitionHistory(t *testing.T) {
	// A knight shuffle puts two earlier occurrences of the position in
	// the game history; the search must fold that into its draw
	// detection and still produce a sane move and score.
	eng := New()
	moves := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	if err := eng.SetPosition(hm.FENStartPos, moves); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	result := eng.Search(Limits{Depth: 4})
	if result.BestMove == 0 {
		t.Fatal("expected a best move")
	}
	if abs32(result.Score) > 200 {
		t.Fatalf("expected a balanced score from the start position, got %d", result.Score)
	}
}
