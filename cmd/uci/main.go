// Command uci speaks the Universal Chess Interface on stdin/stdout.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"heron-engine/engine"
	hm "heron-engine/heronmg"
)

const (
	engineName   = "Heron"
	engineAuthor = "the Heron authors"
)

func atoi(s string) int { v, _ := strconv.Atoi(s); return v }

func main() {
	eng := engine.New()
	eng.Info = printInfo

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)

		switch parts[0] {
		case "uci":
			fmt.Printf("id name %s\n", engineName)
			fmt.Printf("id author %s\n", engineAuthor)
			fmt.Printf("option name Hash type spin default %d min 1 max 4096\n", engine.DefaultTTSize)
			fmt.Println("option name OwnBook type check default false")
			fmt.Println("option name BookFile type string default <empty>")
			fmt.Println("option name BookSeed type spin default 0 min 0 max 1000000")
			fmt.Println("uciok")

		case "isready":
			fmt.Println("readyok")

		case "ucinewgame":
			eng.NewGame()

		case "setoption":
			handleSetOption(eng, parts)

		case "position":
			handlePosition(eng, parts)

		case "go":
			limits := parseGoLimits(parts)
			go func() {
				result := eng.Search(limits)
				if result.BestMove == 0 {
					fmt.Println("bestmove 0000")
					return
				}
				fmt.Printf("bestmove %s\n", result.BestMove.String())
			}()

		case "stop":
			eng.Stop()

		case "perft":
			if len(parts) > 1 {
				runPerft(eng.Board(), atoi(parts[1]))
			}

		case "print":
			fmt.Println(eng.Board().ToFEN())

		case "quit":
			eng.Stop()
			return
		}
	}
}

func printInfo(info engine.SearchInfo) {
	fmt.Printf("info depth %d score %s nodes %d time %d nps %d hashfull %d pv %s\n",
		info.Depth, info.Score, info.Nodes, info.TimeMs, info.NPS, info.Hashfull, info.PV)
}

// handleSetOption parses "setoption name <N> [value <V>]"; the name may
// contain spaces.
func handleSetOption(eng *engine.Engine, parts []string) {
	nameIdx := -1
	valueIdx := len(parts)
	for i, p := range parts {
		if p == "name" && nameIdx == -1 {
			nameIdx = i + 1
		}
		if p == "value" {
			valueIdx = i
			break
		}
	}
	if nameIdx == -1 || nameIdx >= valueIdx {
		return
	}
	name := strings.Join(parts[nameIdx:valueIdx], " ")
	value := ""
	if valueIdx+1 < len(parts) {
		value = strings.Join(parts[valueIdx+1:], " ")
	}
	if err := eng.Configure(name, value); err != nil {
		fmt.Fprintf(os.Stderr, "setoption: %v\n", err)
	}
}

func handlePosition(eng *engine.Engine, parts []string) {
	if len(parts) < 2 {
		return
	}
	fen := hm.FENStartPos
	movesIdx := -1
	switch parts[1] {
	case "startpos":
		for i := 2; i < len(parts); i++ {
			if parts[i] == "moves" {
				movesIdx = i + 1
				break
			}
		}
	case "fen":
		end := len(parts)
		for i := 2; i < len(parts); i++ {
			if parts[i] == "moves" {
				end = i
				movesIdx = i + 1
				break
			}
		}
		fen = strings.Join(parts[2:end], " ")
	default:
		return
	}

	var moves []string
	if movesIdx != -1 && movesIdx < len(parts) {
		moves = parts[movesIdx:]
	}
	if err := eng.SetPosition(fen, moves); err != nil {
		fmt.Fprintf(os.Stderr, "position: %v\n", err)
	}
}

func parseGoLimits(parts []string) engine.Limits {
	var limits engine.Limits
	for i := 1; i < len(parts); i++ {
		switch parts[i] {
		case "infinite":
			limits.Infinite = true
			continue
		}
		if i+1 >= len(parts) {
			continue
		}
		switch parts[i] {
		case "depth":
			limits.Depth = atoi(parts[i+1])
		case "nodes":
			limits.Nodes = uint64(atoi(parts[i+1]))
		case "movetime":
			limits.MovetimeMs = atoi(parts[i+1])
		case "wtime":
			limits.WhiteTimeMs = atoi(parts[i+1])
		case "btime":
			limits.BlackTimeMs = atoi(parts[i+1])
		case "winc":
			limits.WhiteIncMs = atoi(parts[i+1])
		case "binc":
			limits.BlackIncMs = atoi(parts[i+1])
		case "movestogo":
			limits.MovesToGo = atoi(parts[i+1])
		}
	}
	return limits
}

func runPerft(b *hm.Board, depth int) {
	if depth <= 0 {
		return
	}
	start := time.Now()
	nodes := hm.Perft(b, depth)
	elapsed := time.Since(start)
	fmt.Printf("nodes %d time %v nps %.0f\n", nodes, elapsed, float64(nodes)/elapsed.Seconds())
}
