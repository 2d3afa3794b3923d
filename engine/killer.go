package engine

import (
	hm "heron-engine/heronmg"
)

// KillerStruct keeps two quiet moves per ply that caused beta cutoffs,
// newest first.
type KillerStruct struct {
	KillerMoves [MaxDepth + 1][2]hm.Move
}

func (k *KillerStruct) InsertKiller(move hm.Move, ply int8) {
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

func (k *KillerStruct) IsKiller(move hm.Move, ply int8) bool {
	return move == k.KillerMoves[ply][0] || move == k.KillerMoves[ply][1]
}

func (k *KillerStruct) ClearKillers() {
	for ply := 0; ply <= MaxDepth; ply++ {
		k.KillerMoves[ply][0] = 0
		k.KillerMoves[ply][1] = 0
	}
}
