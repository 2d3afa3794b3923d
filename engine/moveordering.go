package engine

import (
	hm "heron-engine/heronmg"
)

type scoredMove struct {
	move  hm.Move
	score uint16
}

type moveList struct {
	moves []scoredMove
}

// Most Valuable Victim - Least Valuable Aggressor; used to score captures.
// Row is the victim, column the aggressor.
var mvvLva = [7][7]uint16{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim knight
	{0, 34, 33, 32, 31, 30, 0}, // victim bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim rook
	{0, 54, 53, 52, 51, 50, 0}, // victim queen
	{0, 0, 0, 0, 0, 0, 0},      // victim king
}

// Ordering bands. The hash move outranks everything, then promotions and
// captures; killers and counters sit above plain history scores.
const (
	pvOffset        uint16 = 25000
	promotionOffset uint16 = 20000
	captureOffset   uint16 = 15000
	killerOffset    uint16 = 2000
	counterOffset   uint16 = 1000
)

// orderNextMove selection-sorts one step: it swaps the best remaining
// move into currIndex. The full list is rarely consumed, so sorting
// lazily beats sorting up front.
func orderNextMove(currIndex int, list *moveList) {
	bestIndex := currIndex
	bestScore := list.moves[bestIndex].score
	for i := currIndex + 1; i < len(list.moves); i++ {
		if list.moves[i].score > bestScore {
			bestIndex = i
			bestScore = list.moves[i].score
		}
	}
	list.moves[currIndex], list.moves[bestIndex] = list.moves[bestIndex], list.moves[currIndex]
}

// scoreMovesList scores a full move list for the main search.
func (e *Engine) scoreMovesList(b *hm.Board, moves []hm.Move, ply int8, pvMove, prevMove hm.Move) moveList {
	side := b.SideToMove()
	counter := e.tables.counterFor(side, prevMove)

	list := moveList{moves: make([]scoredMove, len(moves))}
	for i, move := range moves {
		var score uint16
		switch {
		case move == pvMove && pvMove != 0:
			score = pvOffset + 1500
		case move.PromotionPiece() != hm.NoPiece:
			score = promotionOffset + uint16(pieceValueMG[move.PromotionPiece().Type()])
		case move.CapturedPiece() != hm.NoPiece:
			score = captureOffset + mvvLva[move.CapturedPiece().Type()][move.MovedPiece().Type()]
		case move == e.killers.KillerMoves[ply][0]:
			score = killerOffset + 200
		case move == e.killers.KillerMoves[ply][1]:
			score = killerOffset
		default:
			score = uint16(e.tables.history[side][move.From()][move.To()])
			if move == counter {
				score += counterOffset
			}
		}
		list.moves[i] = scoredMove{move: move, score: score}
	}
	return list
}

// scoreMovesListCaptures scores the capture list for quiescence. The
// caller passes GenerateCaptures output, so everything here is a capture
// or a capturing promotion.
func (e *Engine) scoreMovesListCaptures(moves []hm.Move, pvMove hm.Move) moveList {
	list := moveList{moves: make([]scoredMove, len(moves))}
	for i, move := range moves {
		var score uint16
		switch {
		case move == pvMove && pvMove != 0:
			score = captureOffset + 256
		case move.PromotionPiece() != hm.NoPiece:
			score = captureOffset + 75
		default:
			score = mvvLva[move.CapturedPiece().Type()][move.MovedPiece().Type()]
		}
		list.moves[i] = scoredMove{move: move, score: score}
	}
	return list
}
