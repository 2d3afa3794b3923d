package heronmg_test

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"

	"heron-engine/heronmg"
)

// Cross-checks the generator against an independent implementation. Any
// divergence in the move set or the perft counts points at a generator bug
// on one side, and the diff output localizes it.
var crossCheckFens = []string{
	heronmg.FENStartPos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
	"1n5k/P7/8/8/8/8/8/7K w - - 0 1",
	"8/8/8/8/8/2k5/1q6/K7 w - - 0 1",
}

func TestMoveSetMatchesDragontooth(t *testing.T) {
	for _, fen := range crossCheckFens {
		ours := heronmg.MustParseFEN(fen).GenerateMoves()
		theirsBoard := dragontoothmg.ParseFen(fen)
		theirs := theirsBoard.GenerateLegalMoves()

		ourSet := make([]string, 0, len(ours))
		for _, m := range ours {
			ourSet = append(ourSet, m.String())
		}
		theirSet := make([]string, 0, len(theirs))
		for _, m := range theirs {
			theirSet = append(theirSet, m.String())
		}
		sort.Strings(ourSet)
		sort.Strings(theirSet)

		if len(ourSet) != len(theirSet) {
			t.Errorf("%s: %d moves, reference has %d\nours:   %v\ntheirs: %v",
				fen, len(ourSet), len(theirSet), ourSet, theirSet)
			continue
		}
		for i := range ourSet {
			if ourSet[i] != theirSet[i] {
				t.Errorf("%s: move set mismatch\nours:   %v\ntheirs: %v", fen, ourSet, theirSet)
				break
			}
		}
	}
}

func TestPerftMatchesDragontooth(t *testing.T) {
	depth := 3
	if testing.Short() {
		depth = 2
	}
	for _, fen := range crossCheckFens {
		b := heronmg.MustParseFEN(fen)
		ref := dragontoothmg.ParseFen(fen)
		for d := 1; d <= depth; d++ {
			got := heronmg.Perft(b, d)
			want := uint64(dragontoothmg.Perft(&ref, d))
			if got != want {
				t.Errorf("%s depth %d: got %d, reference %d", fen, d, got, want)
			}
		}
	}
}

func BenchmarkPerftDragontooth(b *testing.B) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dragontoothmg.Perft(&board, 4)
	}
}
