package engine

import (
	hm "heron-engine/heronmg"
)

const fiftyMoveLimit = 100

// State captures the information needed to reason about repetitions and
// the fifty-move rule.
type State struct {
	Hash   uint64
	Rule50 int
}

// stateStack tracks game history plus the search's make/unmake spine.
// Entries up to rootIndex come from the actual game; entries beyond it
// are search-internal.
type stateStack struct {
	states []State
}

// reset rebuilds the stack so it contains only the current board.
func (ss *stateStack) reset(board *hm.Board) {
	ss.states = ss.states[:0]
	ss.push(board)
}

// sync guarantees the top of the stack reflects the board position.
func (ss *stateStack) sync(board *hm.Board) {
	if len(ss.states) == 0 {
		ss.push(board)
		return
	}
	last := &ss.states[len(ss.states)-1]
	if last.Hash != board.Hash() {
		ss.reset(board)
		return
	}
	last.Rule50 = board.HalfmoveClock()
}

func (ss *stateStack) push(board *hm.Board) {
	ss.states = append(ss.states, State{
		Hash:   board.Hash(),
		Rule50: board.HalfmoveClock(),
	})
}

func (ss *stateStack) pop() {
	if len(ss.states) > 0 {
		ss.states = ss.states[:len(ss.states)-1]
	}
}

func (ss *stateStack) rootIndex() int {
	return len(ss.states) - 1
}

// isDraw reports fifty-move or repetition draws at the current node. A
// single repetition counts once the repeated position lies inside the
// search tree: the opponent has already shown they can force it.
func (ss *stateStack) isDraw(rootIndex int) bool {
	if len(ss.states) == 0 {
		return false
	}
	curr := ss.states[len(ss.states)-1]
	if curr.Rule50 >= fiftyMoveLimit {
		return true
	}
	matchCount, firstIdx := ss.repetitionInfo(curr.Hash, curr.Rule50)
	if matchCount >= 2 {
		return true
	}
	return matchCount >= 1 && firstIdx >= rootIndex
}

// upcomingRepetition reports whether the current node repeats a position
// from inside the search tree, used to bound alpha at the draw score.
func (ss *stateStack) upcomingRepetition(rootIndex int) bool {
	if len(ss.states) <= 1 {
		return false
	}
	curr := ss.states[len(ss.states)-1]
	start := Max(len(ss.states)-1-curr.Rule50, 0)
	for i := len(ss.states) - 2; i >= start; i-- {
		if ss.states[i].Hash == curr.Hash && i >= rootIndex {
			return true
		}
	}
	return false
}

// repetitionInfo counts earlier occurrences of hash within the reversible
// move window and returns the index of the first.
func (ss *stateStack) repetitionInfo(hash uint64, rule50 int) (count, firstIdx int) {
	firstIdx = -1
	if len(ss.states) <= 1 {
		return 0, firstIdx
	}
	start := Max(len(ss.states)-1-rule50, 0)
	for i := start; i <= len(ss.states)-2; i++ {
		if ss.states[i].Hash == hash {
			count++
			if firstIdx == -1 {
				firstIdx = i
			}
		}
	}
	return count, firstIdx
}
