package engine

import (
	"testing"

	hm "heron-engine/heronmg"
)

func TestEvaluateStartposIsBalanced(t *testing.T) {
	board := hm.MustParseFEN(hm.FENStartPos)
	score := Evaluate(board)
	if abs32(score) > 100 {
		t.Fatalf("start position should be near equal, got %d", score)
	}
}

func TestEvaluateSideToMovePerspective(t *testing.T) {
	// White is a full queen up; the sign must follow the side to move.
	whiteUp := "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	board := hm.MustParseFEN(whiteUp)
	whiteView := Evaluate(board)
	if whiteView < 500 {
		t.Fatalf("white to move, queen up: expected large positive score, got %d", whiteView)
	}

	board = hm.MustParseFEN("rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	blackView := Evaluate(board)
	if blackView > -500 {
		t.Fatalf("black to move, queen down: expected large negative score, got %d", blackView)
	}
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	// A position and its color-mirror must evaluate identically from the
	// mover's perspective.
	fens := []struct {
		orig, mirror string
	}{
		{
			"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
			"rnbqkb1r/pppp1ppp/5n2/4p3/4P3/2N5/PPPP1PPP/R1BQKBNR b KQkq - 2 3",
		},
		{
			"4k3/8/8/3p4/8/8/3P4/4K3 w - - 0 1",
			"4k3/3p4/8/8/3P4/8/8/4K3 b - - 0 1",
		},
	}
	for _, tc := range fens {
		orig := Evaluate(hm.MustParseFEN(tc.orig))
		mirror := Evaluate(hm.MustParseFEN(tc.mirror))
		if orig != mirror {
			t.Fatalf("mirror mismatch for %s: %d vs %d", tc.orig, orig, mirror)
		}
	}
}

func TestEvaluateRewardsPassedPawn(t *testing.T) {
	blocked := Evaluate(hm.MustParseFEN("4k3/3p4/8/8/3P4/8/8/4K3 w - - 0 1"))
	passed := Evaluate(hm.MustParseFEN("4k3/p7/8/8/3P4/8/8/4K3 w - - 0 1"))
	if passed <= blocked {
		t.Fatalf("passed pawn position (%d) should beat blocked pawn position (%d)", passed, blocked)
	}
}

func TestEvaluatePenalizesDoubledPawns(t *testing.T) {
	healthy := Evaluate(hm.MustParseFEN("4k3/8/8/8/8/8/2PP4/4K3 w - - 0 1"))
	doubled := Evaluate(hm.MustParseFEN("4k3/8/8/8/8/3P4/3P4/4K3 w - - 0 1"))
	if doubled >= healthy {
		t.Fatalf("doubled pawns (%d) should score below side-by-side pawns (%d)", doubled, healthy)
	}
}

func TestEvaluateBishopPair(t *testing.T) {
	pair := Evaluate(hm.MustParseFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1"))
	bishopKnight := Evaluate(hm.MustParseFEN("4k3/8/8/8/8/8/8/2B1KN2 w - - 0 1"))
	if pair <= bishopKnight {
		t.Fatalf("bishop pair (%d) should outscore bishop+knight (%d)", pair, bishopKnight)
	}
}
