// Command searchbench runs fixed-depth searches over a small position
// suite and reports node counts and speed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/muesli/termenv"

	"heron-engine/engine"
	hm "heron-engine/heronmg"
)

// Mixed opening, middlegame and endgame positions.
var benchFens = []string{
	hm.FENStartPos,
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"8/8/1p6/p1p5/P1P2k2/1P6/4K3/8 w - - 0 1",
}

func main() {
	depth := flag.Int("depth", 10, "search depth in plies")
	fen := flag.String("fen", "", "single FEN to search (empty = built-in suite)")
	repeat := flag.Int("repeat", 1, "number of passes over the suite")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	flag.Parse()

	if *depth <= 0 {
		log.Fatalf("depth must be positive, got %d", *depth)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	fens := benchFens
	if *fen != "" {
		fens = []string{*fen}
	}

	out := termenv.NewOutput(os.Stdout)
	header := out.String(fmt.Sprintf("searchbench: depth=%d positions=%d repeat=%d", *depth, len(fens), *repeat)).Bold()
	fmt.Println(header)

	var totalNodes uint64
	startAll := time.Now()

	for pass := 0; pass < *repeat; pass++ {
		for i, benchFen := range fens {
			eng := engine.New()
			var nodes uint64
			eng.Info = func(info engine.SearchInfo) { nodes = info.Nodes }

			if err := eng.SetPosition(benchFen, nil); err != nil {
				log.Fatalf("position %d: %v", i+1, err)
			}

			iterStart := time.Now()
			result := eng.Search(engine.Limits{Depth: *depth})
			iterElapsed := time.Since(iterStart)
			totalNodes += nodes

			move := out.String(result.BestMove.String()).Foreground(out.Color("6"))
			fmt.Printf("position %d: bestmove %s  score %d  nodes %d  time %v\n",
				i+1, move, result.Score, nodes, iterElapsed)
		}
	}

	totalElapsed := time.Since(startAll)
	nps := float64(totalNodes) / totalElapsed.Seconds()
	summary := out.String(fmt.Sprintf("total: nodes %d  time %v  nps %.0f", totalNodes, totalElapsed, nps)).Bold().Foreground(out.Color("2"))
	fmt.Println(summary)
}
