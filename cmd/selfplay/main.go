// Command selfplay runs engine-vs-engine matches and writes the games as zstd-compressed JSON
// lines.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"chess-bot/board"
	"chess-bot/engine"
	"chess-bot/internal/logx"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type matchConfig struct {
	game        gameConfig
	pairs       int
	parallel    int
	seed        uint64
	moveTime    time.Duration
	ttBits      int
	bNoMobility bool
	out         string
}

func main() {
	var cfg matchConfig
	flag.IntVar(&cfg.pairs, "games", 2, "number of game pairs; each pair is played with colours swapped")
	flag.IntVar(&cfg.parallel, "parallel", 2, "games played at once")
	flag.DurationVar(&cfg.game.clock, "clock", 10*time.Second, "game clock per side")
	flag.IntVar(&cfg.game.maxPlies, "max-plies", 300, "adjudicate a draw after this many plies")
	flag.StringVar(&cfg.game.startFEN, "fen", board.StartFEN, "start position")
	flag.StringVar(&cfg.out, "out", "games.jsonl.zst", "output file for game records")
	flag.Uint64Var(&cfg.seed, "seed", engine.DefaultOptions().Seed, "base seed; each engine gets its own")
	flag.DurationVar(&cfg.moveTime, "movetime", 0, "fixed time per move instead of the clock-derived budget")
	flag.IntVar(&cfg.ttBits, "tt-bits", 18, "log2 of each engine's transposition table size")
	flag.BoolVar(&cfg.bNoMobility, "b-no-mobility", false, "play engine B without the mobility term")
	logLevel := flag.String("log-level", "info", "zerolog level")
	flag.Parse()

	log, err := logx.New(*logLevel, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, cfg); err != nil {
		log.Error().Err(err).Msg("selfplay failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, cfg matchConfig) error {
	if _, err := board.FromFEN(cfg.game.startFEN); err != nil {
		return err
	}
	f, err := os.Create(cfg.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfg.out, err)
	}
	defer f.Close()
	rw, err := newRecordWriter(f)
	if err != nil {
		return err
	}

	recs, err := playMatch(ctx, log, cfg, rw)
	if cerr := rw.Close(); err == nil {
		err = cerr
	}
	if errors.Is(err, context.Canceled) {
		log.Warn().Int("games", len(recs)).Msg("match interrupted")
		err = nil
	}
	if err != nil {
		return err
	}

	for _, name := range []string{"A", "B"} {
		t := tallyFor(name, recs)
		log.Info().
			Str("player", t.Player).
			Int("wins", t.Wins).
			Int("losses", t.Losses).
			Int("draws", t.Draws).
			Float64("points", t.Points()).
			Interface("reasons", t.Reasons).
			Msg("score")
	}
	log.Info().Int("games", len(recs)).Str("out", cfg.out).Msg("match finished")
	return nil
}

func (cfg matchConfig) engineOptions(log zerolog.Logger, name string, seed uint64) engine.Options {
	opts := engine.DefaultOptions()
	opts.Seed = seed
	opts.TTBits = cfg.ttBits
	opts.Logger = log.With().Str("engine", name).Logger().Level(zerolog.WarnLevel)
	if cfg.moveTime > 0 {
		opts = opts.WithMoveTime(cfg.moveTime)
	}
	if name == "B" && cfg.bNoMobility {
		opts.Mobility = false
	}
	return opts
}

// playMatch runs the game pairs concurrently. Every pair owns its engines.
func playMatch(ctx context.Context, log zerolog.Logger, cfg matchConfig, rw *recordWriter) ([]gameRecord, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.parallel, 1))

	var mu sync.Mutex
	var recs []gameRecord
	for pair := 0; pair < cfg.pairs; pair++ {
		pair := pair
		g.Go(func() error {
			seed := cfg.seed + uint64(pair)*2
			a := &player{name: "A", engine: engine.New(cfg.engineOptions(log, "A", seed))}
			b := &player{name: "B", engine: engine.New(cfg.engineOptions(log, "B", seed+1))}
			played, err := playPair(ctx, log, cfg.game, pair, a, b)
			for _, rec := range played {
				if werr := rw.Write(rec); werr != nil {
					return werr
				}
			}
			mu.Lock()
			recs = append(recs, played...)
			mu.Unlock()
			return err
		})
	}
	err := g.Wait()
	return recs, err
}
