package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Options configures an Engine. Start from DefaultOptions and override fields.
type Options struct {
	// TTBits sizes the transposition table at 2^TTBits entries.
	TTBits   int
	MaxDepth int
	Seed     uint64
	// MoveTime replaces the clock-derived budget when set. A zero duration is honoured and
	// makes Think fall back to a random legal move.
	MoveTime *time.Duration
	// MaxBudget caps the per-move budget; zero means no cap.
	MaxBudget    time.Duration
	UseTT        bool
	Mobility     bool
	OpeningMoves bool
	Logger       zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		TTBits:       20,
		MaxDepth:     64,
		Seed:         1776,
		UseTT:        true,
		Mobility:     true,
		OpeningMoves: true,
		Logger:       zerolog.Nop(),
	}
}

// WithMoveTime returns a copy of o with a fixed per-move budget.
func (o Options) WithMoveTime(d time.Duration) Options {
	o.MoveTime = &d
	return o
}

func (o Options) String() string {
	moveTime := "clock"
	if o.MoveTime != nil {
		moveTime = o.MoveTime.String()
	}
	return fmt.Sprintf("tt=%v/%d depth=%d seed=%d movetime=%s cap=%s mobility=%v opening=%v",
		o.UseTT, o.TTBits, o.MaxDepth, o.Seed, moveTime, o.MaxBudget, o.Mobility, o.OpeningMoves)
}
