package engine

import (
	"time"

	hm "heron-engine/heronmg"
)

const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

var FutilityMargins = [8]int32{0, 120, 220, 320, 420, 520, 620, 720}
var RFPMargins = [8]int32{0, 100, 200, 300, 400, 500, 600, 700}
var LateMovePruningMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

const (
	lmrDepthLimit      int8  = 2
	lmrMoveLimit             = 2
	nullMoveMinDepth   int8  = 2
	quiescenceSeeLimit int32 = -100
	deltaMargin        int32 = 200
)

var aspirationWindowSize int32 = 35

// SearchInfo is one iterative-deepening report, forwarded to the Info
// callback after each completed depth.
type SearchInfo struct {
	Depth    int
	Score    string
	Nodes    uint64
	TimeMs   int64
	NPS      uint64
	Hashfull int
	PV       string
}

func (e *Engine) rootsearch(maxDepth int) (int32, hm.Move, PVLine) {
	b := e.board
	rootIndex := e.stack.rootIndex()

	var alpha = -MaxScore
	var beta = MaxScore
	var bestScore = -MaxScore

	if e.prevScore != 0 {
		alpha = e.prevScore - aspirationWindowSize
		beta = e.prevScore + aspirationWindowSize
	}

	var pvLine, prevPVLine PVLine
	currentWindow := aspirationWindowSize
	startTime := time.Now()

	for depth := 1; depth <= maxDepth; depth++ {
		pvLine.Clear()

		score := e.alphabeta(b, alpha, beta, int8(depth), 0, &pvLine, 0, false, rootIndex)

		if e.stopped() {
			if len(prevPVLine.Moves) == 0 && len(pvLine.Moves) > 0 {
				bestScore = score
				e.prevScore = bestScore
				prevPVLine = pvLine.Clone()
			}
			break
		}

		// Aspiration miss: widen and redo the same depth.
		if score <= alpha || score >= beta {
			currentWindow = Min(currentWindow*2, MaxScore)
			alpha = Max(score-currentWindow, -MaxScore)
			beta = Min(score+currentWindow, MaxScore)
			depth--
			continue
		}

		alpha = score - aspirationWindowSize
		beta = score + aspirationWindowSize
		currentWindow = aspirationWindowSize
		bestScore = score
		e.prevScore = bestScore
		prevPVLine = pvLine.Clone()

		timeSpent := time.Since(startTime).Milliseconds()
		if timeSpent == 0 {
			timeSpent = 1
		}
		if e.Info != nil {
			e.Info(SearchInfo{
				Depth:    depth,
				Score:    getMateOrCPScore(score),
				Nodes:    e.nodes,
				TimeMs:   timeSpent,
				NPS:      e.nodes * 1000 / uint64(timeSpent),
				Hashfull: e.tt.hashfull(),
				PV:       pvLine.String(),
			})
		}

		if abs32(score) > Checkmate {
			break
		}
	}

	bestMove := prevPVLine.GetPVMove()
	if bestMove == 0 {
		// Never return an empty move while a legal one exists.
		if moves := b.GenerateMoves(); len(moves) > 0 {
			bestMove = moves[0]
		}
	}
	return bestScore, bestMove, prevPVLine
}

func (e *Engine) alphabeta(b *hm.Board, alpha, beta int32, depth, ply int8, pvLine *PVLine, prevMove hm.Move, didNull bool, rootIndex int) int32 {
	e.nodes++
	if e.nodes&4095 == 0 && e.th.expired(e.nodes) {
		e.searchStop = true
	}
	if e.stopped() {
		return 0
	}

	if ply >= MaxDepth {
		return Evaluate(b)
	}

	var bestMove hm.Move
	var childPVLine PVLine
	isPVNode := beta-alpha > 1
	isRoot := ply == 0

	if !isRoot {
		if e.stack.isDraw(rootIndex) || b.InsufficientMaterial() {
			return DrawScore
		}
		if alpha < DrawScore && e.stack.upcomingRepetition(rootIndex) {
			alpha = DrawScore
		}
	}

	inCheck := b.InCheck(b.SideToMove())

	// Check extension
	if inCheck {
		depth++
	}

	if depth <= 0 {
		if !inCheck && !b.HasLegalMoves() {
			return DrawScore
		}
		return e.quiescence(b, alpha, beta, pvLine, ply, rootIndex)
	}

	posHash := b.Hash()

	ttEntry, ttHit := e.tt.ProbeEntry(posHash)
	usable, ttScore := e.tt.useEntry(ttEntry, posHash, depth, alpha, beta, ply)
	if usable && !isRoot && !isPVNode {
		return ttScore
	}

	var ttMove hm.Move
	if ttHit {
		ttMove = ttEntry.Move
		bestMove = ttMove
	}

	var staticScore int32
	if ttHit {
		staticScore = int32(ttEntry.Score)
	} else {
		staticScore = Evaluate(b)
	}

	improving := ply >= 2 && !inCheck && staticScore > alpha

	wCount, bCount := hasMinorOrMajorPiece(b)
	sideHasPieces := (b.SideToMove() == hm.White && wCount > 0) ||
		(b.SideToMove() == hm.Black && bCount > 0)

	// Reverse futility: a static eval this far above beta fails high
	// even after conceding a margin.
	if !inCheck && !isPVNode && !isRoot && depth <= 7 && abs32(beta) < Checkmate {
		rfpMargin := RFPMargins[depth]
		if !improving {
			rfpMargin -= 50
		}
		if staticScore-rfpMargin >= beta {
			e.tt.storeEntry(posHash, depth, ply, ttMove, staticScore-rfpMargin, BetaFlag)
			return staticScore - rfpMargin
		}
	}

	// Null move pruning; skipped without minor or major pieces to dodge
	// zugzwang.
	if !inCheck && !isPVNode && !isRoot && !didNull && sideHasPieces && depth >= nullMoveMinDepth {
		st := b.MakeNullMove()
		e.stack.push(b)

		R := 3 + depth/3
		if depth > 6 {
			R++
		}
		if R > depth-1 {
			R = depth - 1
		}

		score := -e.alphabeta(b, -beta, -beta+1, depth-1-R, ply+1, &childPVLine, 0, true, rootIndex)

		e.stack.pop()
		b.UnmakeNullMove(st)

		if score >= beta && score < Checkmate {
			e.tt.storeEntry(posHash, depth, ply, ttMove, score, BetaFlag)
			if depth <= 10 {
				return score
			}
			// Verify at high depth before trusting the cutoff.
			verifyScore := e.alphabeta(b, beta-1, beta, depth-1-R, ply, &childPVLine, prevMove, true, rootIndex)
			if verifyScore >= beta {
				return verifyScore
			}
		}
	}

	// Internal iterative deepening: with no hash move at real depth, a
	// reduced search seeds one.
	if ttMove == 0 && depth >= 5 && !didNull {
		reducedDepth := depth - 2
		if depth >= 8 {
			reducedDepth = depth - depth/4
		}
		var iidPV PVLine
		e.alphabeta(b, alpha, beta, reducedDepth, ply, &iidPV, prevMove, true, rootIndex)
		if iidEntry, hit := e.tt.ProbeEntry(posHash); hit && iidEntry.Move != 0 {
			ttMove = iidEntry.Move
			bestMove = ttMove
		}
	}

	allMoves := b.GenerateMoves()
	if len(allMoves) == 0 {
		if inCheck {
			return -MaxScore + int32(ply)
		}
		return DrawScore
	}

	side := b.SideToMove()
	var score int32
	bestScore := -MaxScore
	list := e.scoreMovesList(b, allMoves, ply, ttMove, prevMove)
	ttFlag := AlphaFlag
	legalMoves := 0

	quietMovesTried := make([]hm.Move, 0, 16)

	for index := 0; index < len(list.moves); index++ {
		orderNextMove(index, &list)
		move := list.moves[index].move

		isCapture := move.CapturedPiece() != hm.NoPiece
		isPromotion := move.PromotionPiece() != hm.NoPiece
		moveGivesCheck := b.GivesCheck(move)
		tactical := isCapture || isPromotion || moveGivesCheck
		legalMoves++

		// Late move pruning: quiet stragglers at low depth.
		if depth <= 8 && !isPVNode && !isRoot && !tactical && legalMoves > 1 {
			lmpMargin := LateMovePruningMargins[Min(int(depth), len(LateMovePruningMargins)-1)]
			if !improving {
				lmpMargin = lmpMargin * 2 / 3
			}
			if lmpMargin > 0 && legalMoves > lmpMargin {
				continue
			}
		}

		// Futility: quiet moves that cannot raise alpha from here.
		if depth <= 7 && !isPVNode && !isRoot && !tactical && !inCheck && abs32(alpha) < Checkmate {
			futilityMargin := FutilityMargins[depth]
			if !improving {
				futilityMargin -= 50
			}
			if staticScore+futilityMargin <= alpha {
				continue
			}
		}

		if !isCapture {
			quietMovesTried = append(quietMovesTried, move)
		}

		unapply := b.Apply(move)
		e.stack.push(b)

		if legalMoves == 1 {
			score = -e.alphabeta(b, -beta, -alpha, depth-1, ply+1, &childPVLine, move, false, rootIndex)
		} else {
			var reduct int8
			if depth >= lmrDepthLimit && legalMoves >= lmrMoveLimit && !tactical && !inCheck {
				reduct = LMR[depth][Min(legalMoves, 99)]
				if isPVNode && reduct > 0 {
					reduct--
				}
				if e.killers.IsKiller(move, ply) && reduct > 0 {
					reduct--
				}
				if !improving {
					reduct++
				}
				reduct = Clamp(reduct, 0, depth-1)
			}
			score = e.searchMoveWithPVS(b, move, depth-1, reduct, alpha, beta, ply, rootIndex, &childPVLine)
		}

		e.stack.pop()
		unapply()

		if score > bestScore {
			bestScore = score
			bestMove = move
		}

		if score >= beta {
			ttFlag = BetaFlag
			if !isCapture {
				e.killers.InsertKiller(move, ply)
				e.tables.storeCounter(side, prevMove, move)
				e.tables.incrementHistory(side, move, depth)
				for _, failedMove := range quietMovesTried {
					if failedMove != move {
						e.tables.decrementHistory(side, failedMove, depth)
					}
				}
			}
			break
		}

		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			pvLine.Update(move, childPVLine)
			if !isCapture {
				e.tables.incrementHistory(side, move, depth)
			}
		}
		childPVLine.Clear()
	}

	if !e.stopped() {
		e.tt.storeEntry(posHash, depth, ply, bestMove, bestScore, ttFlag)
	}
	return bestScore
}

func (e *Engine) quiescence(b *hm.Board, alpha, beta int32, pvLine *PVLine, ply int8, rootIndex int) int32 {
	e.nodes++
	if e.nodes&2047 == 0 && e.th.expired(e.nodes) {
		e.searchStop = true
	}
	if e.stopped() {
		return 0
	}

	if ply >= MaxDepth {
		return Evaluate(b)
	}

	inCheck := b.InCheck(b.SideToMove())
	var childPVLine PVLine

	standpat := Evaluate(b)

	if !inCheck {
		if standpat >= beta {
			return standpat
		}
		if standpat > alpha {
			alpha = standpat
		}
	}

	bestScore := standpat
	if inCheck {
		bestScore = -MaxScore
	}

	// All evasions when in check, captures otherwise.
	var list moveList
	if inCheck {
		moves := b.GenerateMoves()
		if len(moves) == 0 {
			return -MaxScore + int32(ply)
		}
		list = e.scoreMovesList(b, moves, ply, 0, 0)
	} else {
		list = e.scoreMovesListCaptures(b.GenerateCaptures(), 0)
	}

	for index := 0; index < len(list.moves); index++ {
		orderNextMove(index, &list)
		move := list.moves[index].move

		if !inCheck {
			if see(b, move) < quiescenceSeeLimit {
				continue
			}

			// Delta pruning: even the full capture gain plus a margin
			// cannot reach alpha.
			moveGain := int32(pieceValueMG[move.CapturedPiece().Type()])
			if promo := move.PromotionPiece(); promo != hm.NoPiece {
				moveGain += int32(pieceValueMG[promo.Type()] - pieceValueMG[hm.PieceTypePawn])
			}
			if standpat+moveGain+deltaMargin < alpha {
				continue
			}
		}

		unapply := b.Apply(move)
		e.stack.push(b)

		score := -e.quiescence(b, -beta, -alpha, &childPVLine, ply+1, rootIndex)

		e.stack.pop()
		unapply()

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
			pvLine.Update(move, childPVLine)
		}
		childPVLine.Clear()
	}

	return bestScore
}

// searchMoveWithPVS runs the standard three stage principal variation
// search: reduced null window, full-depth null window on improvement,
// then a full window re-search when the score lands inside the window.
func (e *Engine) searchMoveWithPVS(b *hm.Board, move hm.Move, baseDepth, reduction int8, alpha, beta int32, ply int8, rootIndex int, childPVLine *PVLine) int32 {
	score := -e.alphabeta(b, -(alpha + 1), -alpha, baseDepth-reduction, ply+1, childPVLine, move, false, rootIndex)

	if score > alpha && reduction > 0 {
		score = -e.alphabeta(b, -(alpha + 1), -alpha, baseDepth, ply+1, childPVLine, move, false, rootIndex)
	}
	if score > alpha && score < beta {
		score = -e.alphabeta(b, -beta, -alpha, baseDepth, ply+1, childPVLine, move, false, rootIndex)
	}
	return score
}
