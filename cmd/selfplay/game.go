package main

import (
	"context"
	"time"

	"chess-bot/board"
	"chess-bot/engine"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	resultWhite = "1-0"
	resultBlack = "0-1"
	resultDraw  = "1/2-1/2"
	resultNone  = "*"
)

// gameRecord is one finished game, written as a JSON line.
type gameRecord struct {
	ID       string   `json:"id"`
	Pair     int      `json:"pair"`
	White    string   `json:"white"`
	Black    string   `json:"black"`
	StartFEN string   `json:"start_fen"`
	Moves    []string `json:"moves"`
	Result   string   `json:"result"`
	Reason   string   `json:"reason"`
	Plies    int      `json:"plies"`
	Millis   int64    `json:"ms"`
}

// player is an engine with a name and a game clock.
type player struct {
	name   string
	engine *engine.Engine
	left   time.Duration
}

type gameConfig struct {
	startFEN string
	clock    time.Duration
	maxPlies int
}

// playGame plays white against black from cfg.startFEN until the game ends, a clock runs out,
// the ply limit is reached or ctx is cancelled.
func playGame(ctx context.Context, log zerolog.Logger, cfg gameConfig, pair int, white, black *player) (gameRecord, error) {
	pos, err := board.FromFEN(cfg.startFEN)
	if err != nil {
		return gameRecord{}, err
	}
	rec := gameRecord{
		ID:       uuid.NewString(),
		Pair:     pair,
		White:    white.name,
		Black:    black.name,
		StartFEN: cfg.startFEN,
		Result:   resultNone,
	}
	log = log.With().Str("game", rec.ID).Str("white", white.name).Str("black", black.name).Logger()
	white.left, black.left = cfg.clock, cfg.clock
	start := time.Now()

	for ply := 0; ; ply++ {
		if err := ctx.Err(); err != nil {
			rec.Reason = "cancelled"
			rec.Millis = time.Since(start).Milliseconds()
			return rec, err
		}
		if done := adjudicate(pos, &rec); done {
			break
		}
		if ply >= cfg.maxPlies {
			rec.Result, rec.Reason = resultDraw, "max-plies"
			break
		}

		mover, winner := white, resultBlack
		if !pos.WhiteToMove() {
			mover, winner = black, resultWhite
		}
		clock := engine.NewTurnClock(mover.left)
		m := mover.engine.Think(pos, clock)
		mover.left -= clock.Elapsed()
		if mover.left <= 0 {
			rec.Result, rec.Reason = winner, "time"
			break
		}
		if err := pos.Commit(m); err != nil {
			return rec, err
		}
		rec.Moves = append(rec.Moves, m.String())
		rec.Plies++
	}

	log.Info().Str("result", rec.Result).Str("reason", rec.Reason).Int("plies", rec.Plies).Msg("game over")
	rec.Millis = time.Since(start).Milliseconds()
	return rec, nil
}

// adjudicate fills in the result when the game is over in pos.
func adjudicate(pos *board.Position, rec *gameRecord) bool {
	switch {
	case pos.IsCheckmate():
		rec.Result, rec.Reason = resultWhite, "checkmate"
		if pos.WhiteToMove() {
			rec.Result = resultBlack
		}
	case pos.IsStalemate():
		rec.Result, rec.Reason = resultDraw, "stalemate"
	case pos.Repetitions() >= 2:
		rec.Result, rec.Reason = resultDraw, "repetition"
	case pos.HalfmoveClock() >= 100:
		rec.Result, rec.Reason = resultDraw, "fifty-move"
	case pos.IsDraw():
		rec.Result, rec.Reason = resultDraw, "insufficient-material"
	default:
		return false
	}
	return true
}

// playPair plays two games between a and b with colours swapped, clearing both engines in between.
func playPair(ctx context.Context, log zerolog.Logger, cfg gameConfig, pair int, a, b *player) ([]gameRecord, error) {
	var recs []gameRecord
	for _, seats := range [2][2]*player{{a, b}, {b, a}} {
		a.engine.NewGame()
		b.engine.NewGame()
		rec, err := playGame(ctx, log, cfg, pair, seats[0], seats[1])
		if rec.ID != "" {
			recs = append(recs, rec)
		}
		if err != nil {
			return recs, err
		}
	}
	return recs, nil
}
