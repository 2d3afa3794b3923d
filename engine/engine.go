// Package engine implements the search: iterative deepening with
// aspiration windows over a principal variation alpha-beta, a clustered
// transposition table, and a tapered evaluation.
package engine

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	hm "heron-engine/heronmg"
)

// ErrIllegalMove is wrapped when a replayed move does not exist in the
// position it is applied to.
var ErrIllegalMove = errors.New("illegal move")

// Result is the outcome of one Search call.
type Result struct {
	BestMove hm.Move
	Score    int32
	PV       []hm.Move
}

// Engine owns one search thread's worth of state. It is not safe for
// concurrent Search calls; Stop may be called from any goroutine.
type Engine struct {
	board *hm.Board

	tt      TransTable
	killers KillerStruct
	tables  historyTables
	stack   stateStack
	th      timeHandler

	book     *OpeningBook
	bookPath string
	bookSeed int64
	ownBook  bool

	nodes      uint64
	searchStop bool
	stop       atomic.Bool
	prevScore  int32

	ttSizeMB int

	// Info, when set, receives one report per completed depth.
	Info func(SearchInfo)

	log zerolog.Logger
}

// New returns an engine set up at the starting position.
func New() *Engine {
	e := &Engine{
		board:    hm.MustParseFEN(hm.FENStartPos),
		ttSizeMB: DefaultTTSize,
		log:      zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}
	e.stack.reset(e.board)
	return e
}

// Board exposes the current position, e.g. for debug printing.
func (e *Engine) Board() *hm.Board { return e.board }

// SetPosition loads a FEN and replays the given UCI moves on top of it.
// The engine's position is untouched when any part fails.
func (e *Engine) SetPosition(fen string, moves []string) error {
	board, err := hm.ParseFEN(fen)
	if err != nil {
		return err
	}

	var stack stateStack
	stack.reset(board)

	for _, moveStr := range moves {
		move, err := matchUCIMove(board, moveStr)
		if err != nil {
			return err
		}
		board.Apply(move)
		stack.push(board)
	}

	e.board = board
	e.stack = stack
	return nil
}

// matchUCIMove resolves a coordinate move string against the legal moves
// of the position.
func matchUCIMove(b *hm.Board, s string) (hm.Move, error) {
	parsed, err := hm.ParseMove(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrIllegalMove, s, err)
	}
	for _, m := range b.GenerateMoves() {
		if m.From() == parsed.From() && m.To() == parsed.To() &&
			m.PromotionPiece().Type() == parsed.PromotionPiece().Type() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in %s", ErrIllegalMove, s, b.ToFEN())
}

// Search runs one search under the given limits and returns the best
// move found. It blocks until the search finishes or Stop is called.
func (e *Engine) Search(limits Limits) Result {
	if !e.tt.isInitialized {
		e.tt.init(e.ttSizeMB)
	}

	e.stop.Store(false)
	e.searchStop = false
	e.nodes = 0
	e.stack.sync(e.board)
	e.tt.nextAge()

	if e.ownBook && !limits.Infinite {
		if move := e.probeBook(); move != 0 {
			return Result{BestMove: move, PV: []hm.Move{move}}
		}
	}

	e.th.start(e.board, limits)

	score, bestMove, pv := e.rootsearch(e.th.depthLimit)
	return Result{BestMove: bestMove, Score: score, PV: pv.Moves}
}

func (e *Engine) probeBook() hm.Move {
	if e.book == nil && e.bookPath != "" {
		book, err := LoadBook(e.bookPath)
		if err != nil {
			e.log.Warn().Err(err).Str("path", e.bookPath).Msg("opening book unavailable")
			e.bookPath = ""
			return 0
		}
		book.SetSeed(e.bookSeed)
		e.book = book
		e.log.Info().Int("entries", len(book.entries)).Msg("opening book loaded")
	}
	return e.book.Probe(e.board)
}

// Stop aborts an in-flight Search. Safe to call concurrently.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

func (e *Engine) stopped() bool {
	return e.searchStop || e.stop.Load()
}

// NewGame clears all state carried between searches.
func (e *Engine) NewGame() {
	if e.tt.isInitialized {
		e.tt.clear()
	}
	e.killers.ClearKillers()
	e.tables.clear()
	e.prevScore = 0
	e.board = hm.MustParseFEN(hm.FENStartPos)
	e.stack.reset(e.board)
}

// Configure sets a named option. Option names are matched
// case-insensitively, UCI style.
func (e *Engine) Configure(name, value string) error {
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb <= 0 {
			return fmt.Errorf("invalid Hash value %q", value)
		}
		e.ttSizeMB = mb
		e.tt.init(mb)
		e.log.Info().Int("mb", mb).Msg("hash table resized")
	case "ownbook":
		e.ownBook = strings.EqualFold(value, "true")
	case "bookfile":
		e.bookPath = value
		e.book = nil
	case "bookseed":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid BookSeed value %q", value)
		}
		e.bookSeed = seed
		if e.book != nil {
			e.book.SetSeed(seed)
		}
	case "clear hash":
		if e.tt.isInitialized {
			e.tt.clear()
		}
	default:
		return fmt.Errorf("unknown option %q", name)
	}
	return nil
}
