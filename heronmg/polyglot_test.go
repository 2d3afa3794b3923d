package heronmg_test

import (
	"testing"

	"heron-engine/heronmg"
)

// The book hash must only reflect the en-passant file when a pawn of the
// side to move can actually play the capture.
func TestPolyglotHashEnPassantRelevance(t *testing.T) {
	// d6 is capturable by the e5 pawn.
	capturable := heronmg.MustParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	// Same position with the target forgotten.
	plain := heronmg.MustParseFEN("k7/8/8/3pP3/8/8/8/7K w - - 0 2")
	if capturable.PolyglotHash() == plain.PolyglotHash() {
		t.Error("capturable en-passant square should change the book hash")
	}

	// d6 is set but no white pawn attacks it.
	idle := heronmg.MustParseFEN("k7/8/8/3p4/8/8/4P3/7K w - d6 0 2")
	idlePlain := heronmg.MustParseFEN("k7/8/8/3p4/8/8/4P3/7K w - - 0 2")
	if idle.PolyglotHash() != idlePlain.PolyglotHash() {
		t.Error("idle en-passant square should not change the book hash")
	}
}

// Transpositions reach the same book key regardless of move order.
func TestPolyglotHashTransposition(t *testing.T) {
	a := heronmg.MustParseFEN(heronmg.FENStartPos)
	for _, s := range []string{"g1f3", "g8f6", "b1c3", "b8c6"} {
		a.Apply(findMove(t, a, s))
	}
	b := heronmg.MustParseFEN(heronmg.FENStartPos)
	for _, s := range []string{"b1c3", "b8c6", "g1f3", "g8f6"} {
		b.Apply(findMove(t, b, s))
	}
	if a.PolyglotHash() != b.PolyglotHash() {
		t.Fatalf("transposed positions hash differently: %x vs %x", a.PolyglotHash(), b.PolyglotHash())
	}
	if a.PolyglotHash() == heronmg.MustParseFEN(heronmg.FENStartPos).PolyglotHash() {
		t.Fatal("developed position hashes like the start position")
	}
}

func TestPolyglotHashDistinguishesSideAndCastling(t *testing.T) {
	white := heronmg.MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	black := heronmg.MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
	if white.PolyglotHash() == black.PolyglotHash() {
		t.Error("side to move not reflected in book hash")
	}
	stripped := heronmg.MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")
	if white.PolyglotHash() == stripped.PolyglotHash() {
		t.Error("castling rights not reflected in book hash")
	}
}
