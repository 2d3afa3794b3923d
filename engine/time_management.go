package engine

import (
	"time"

	hm "heron-engine/heronmg"
)

// Limits describes the bounds of one search request. Zero values mean
// "no limit"; a fully zero Limits searches to MaxDepth.
type Limits struct {
	Depth      int
	Nodes      uint64
	MovetimeMs int

	WhiteTimeMs int
	BlackTimeMs int
	WhiteIncMs  int
	BlackIncMs  int
	MovesToGo   int

	Infinite bool
}

type timeHandler struct {
	deadline    time.Time
	hasDeadline bool
	nodeBudget  uint64
	depthLimit  int
}

// start derives the per-move budget from the limits. Clock-based
// allocation spends a phase-scaled slice of the remaining time plus the
// increment, kept clear of the flag by a fixed overhead reserve.
func (th *timeHandler) start(b *hm.Board, limits Limits) {
	th.deadline = time.Time{}
	th.hasDeadline = false
	th.nodeBudget = limits.Nodes
	th.depthLimit = MaxDepth
	if limits.Depth > 0 && limits.Depth < MaxDepth {
		th.depthLimit = limits.Depth
	}
	if limits.Infinite {
		return
	}

	if limits.MovetimeMs > 0 {
		th.setDeadline(limits.MovetimeMs)
		return
	}

	rem, inc := limits.WhiteTimeMs, limits.WhiteIncMs
	if b.SideToMove() == hm.Black {
		rem, inc = limits.BlackTimeMs, limits.BlackIncMs
	}
	if rem <= 0 {
		return
	}

	movesLeft := limits.MovesToGo
	if movesLeft <= 0 {
		white := b.Bitboards(hm.White)
		black := b.Bitboards(hm.Black)
		movesLeft = estimateMovesRemaining(piecePhase(&white, &black))
	}

	const overheadMs = 30
	const minMoveMs = 5
	const maxFrac = 0.7
	const panicThreshMs = 1000
	const panicFrac = 0.90

	var moveTime int
	if inc > 0 {
		if rem < panicThreshMs {
			// Try to bank a little time off the increment.
			moveTime = int(float64(inc) * panicFrac)
		} else {
			moveTime = rem/movesLeft + inc
		}
	} else {
		moveTime = rem / movesLeft
	}

	moveTime = Min(moveTime, int(float64(rem)*maxFrac))
	moveTime = Min(moveTime, rem-overheadMs)
	moveTime = Max(moveTime, minMoveMs)

	th.setDeadline(moveTime)
}

func (th *timeHandler) setDeadline(ms int) {
	th.deadline = time.Now().Add(time.Duration(ms) * time.Millisecond)
	th.hasDeadline = true
}

// expired reports whether the budget is spent. Called on node-count
// strides, never per node.
func (th *timeHandler) expired(nodes uint64) bool {
	if th.nodeBudget > 0 && nodes >= th.nodeBudget {
		return true
	}
	return th.hasDeadline && !time.Now().Before(th.deadline)
}

// estimateMovesRemaining interpolates between 20 (bare endgame) and 45
// (full opening material) from the phase count.
func estimateMovesRemaining(phase int) int {
	return (phase*25)/totalPhase + 20
}
