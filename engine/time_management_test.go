package engine

import (
	"testing"
	"time"

	hm "heron-engine/heronmg"
)

func TestTimeHandlerMovetime(t *testing.T) {
	board := hm.MustParseFEN(hm.FENStartPos)
	var th timeHandler
	th.start(board, Limits{MovetimeMs: 50})

	if !th.hasDeadline {
		t.Fatal("movetime must set a deadline")
	}
	if th.expired(0) {
		t.Fatal("deadline expired immediately")
	}
	time.Sleep(60 * time.Millisecond)
	if !th.expired(0) {
		t.Fatal("deadline did not expire")
	}
}

func TestTimeHandlerInfinite(t *testing.T) {
	board := hm.MustParseFEN(hm.FENStartPos)
	var th timeHandler
	th.start(board, Limits{Infinite: true, WhiteTimeMs: 10})

	if th.hasDeadline {
		t.Fatal("infinite search must not set a deadline")
	}
	if th.expired(1 << 40) {
		t.Fatal("infinite search must not expire on nodes")
	}
}

func TestTimeHandlerNodeBudget(t *testing.T) {
	board := hm.MustParseFEN(hm.FENStartPos)
	var th timeHandler
	th.start(board, Limits{Nodes: 1000})

	if th.expired(999) {
		t.Fatal("budget not yet reached")
	}
	if !th.expired(1000) {
		t.Fatal("budget reached but not reported")
	}
}

func TestTimeHandlerClockAllocation(t *testing.T) {
	board := hm.MustParseFEN(hm.FENStartPos)
	var th timeHandler
	th.start(board, Limits{WhiteTimeMs: 60000, WhiteIncMs: 1000})

	if !th.hasDeadline {
		t.Fatal("clock limits must set a deadline")
	}
	budget := time.Until(th.deadline)
	if budget <= 0 || budget > 42*time.Second {
		t.Fatalf("unreasonable budget %v for 60s clock", budget)
	}
}

func TestTimeHandlerDepthLimit(t *testing.T) {
	board := hm.MustParseFEN(hm.FENStartPos)
	var th timeHandler

	th.start(board, Limits{Depth: 12})
	if th.depthLimit != 12 {
		t.Fatalf("expected depth limit 12, got %d", th.depthLimit)
	}

	th.start(board, Limits{})
	if th.depthLimit != MaxDepth {
		t.Fatalf("expected default depth limit %d, got %d", MaxDepth, th.depthLimit)
	}
}

func TestEstimateMovesRemaining(t *testing.T) {
	if got := estimateMovesRemaining(0); got != 20 {
		t.Fatalf("bare kings: expected 20, got %d", got)
	}
	if got := estimateMovesRemaining(totalPhase); got != 45 {
		t.Fatalf("full material: expected 45, got %d", got)
	}
}
