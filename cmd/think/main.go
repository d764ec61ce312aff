// Command think searches one position and prints the chosen move.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"chess-bot/board"
	"chess-bot/engine"
	"chess-bot/internal/logx"

	"github.com/rs/zerolog"
)

func main() {
	// --- Flags ---
	fenFlag := flag.String("fen", board.StartFEN, "position to search")
	movesFlag := flag.String("moves", "", "space separated moves to play from -fen first")
	moveTime := flag.Duration("movetime", 0, "fixed budget for the move (0 = derive from -remaining)")
	remaining := flag.Duration("remaining", time.Minute, "time left on the clock")
	depthFlag := flag.Int("depth", 0, "run one fixed-depth search instead of a timed one")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	seed := flag.Uint64("seed", engine.DefaultOptions().Seed, "tie-break seed")
	ttBits := flag.Int("tt-bits", engine.DefaultOptions().TTBits, "log2 of the transposition table size (0 disables it)")
	noMobility := flag.Bool("no-mobility", false, "drop the mobility term from the evaluation")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	logLevel := flag.String("log-level", "info", "zerolog level")
	jsonLogs := flag.Bool("json", false, "log JSON lines instead of console output")
	flag.Parse()

	log, err := logx.New(*logLevel, !*jsonLogs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(log, *fenFlag, *movesFlag, *moveTime, *remaining, *depthFlag, *repeatFlag, *seed, *ttBits, *noMobility, *cpuProfile, *memProfile); err != nil {
		log.Error().Err(err).Msg("think failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, fen, moves string, moveTime, remaining time.Duration, depth, repeat int,
	seed uint64, ttBits int, noMobility bool, cpuProfile, memProfile string) error {

	// --- Optional CPU profiling setup ---
	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	opts := engine.DefaultOptions()
	opts.Seed = seed
	opts.TTBits = ttBits
	opts.UseTT = ttBits > 0
	opts.Mobility = !noMobility
	opts.Logger = log
	if moveTime > 0 {
		opts = opts.WithMoveTime(moveTime)
	}

	log.Info().Str("fen", fen).Int("depth", depth).Int("repeat", repeat).Str("options", opts.String()).Msg("think")
	startAll := time.Now()
	for i := 0; i < repeat; i++ {
		// Fresh position and engine for each run
		pos, err := board.FromFEN(fen)
		if err != nil {
			return err
		}
		for _, mv := range strings.Fields(moves) {
			if err := pos.ApplyUCI(mv); err != nil {
				return fmt.Errorf("replay %s: %w", mv, err)
			}
		}
		e := engine.New(opts)

		if depth > 0 {
			res := e.SearchDepth(pos, depth)
			fmt.Printf("depth %d score %d nodes %d qnodes %d time %v moves %v\n",
				res.Depth, res.Score, res.Nodes, res.QNodes, res.Elapsed, res.Moves)
			continue
		}
		move := e.Think(pos, engine.NewTurnClock(remaining))
		res := e.LastResult()
		fmt.Printf("bestmove %s depth %d score %d nodes %d time %v\n", move, res.Depth, res.Score, res.Nodes, res.Elapsed)
	}
	log.Info().Dur("total", time.Since(startAll)).Msg("done")

	// --- Optional heap profile at the end ---
	if memProfile != "" {
		f, err := os.Create(memProfile)
		if err != nil {
			return fmt.Errorf("create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("write memory profile: %w", err)
		}
	}
	return nil
}
