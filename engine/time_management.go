package engine

import (
	"time"
)

// Clock reports the time situation of the side to move.
type Clock interface {
	// Elapsed is the time spent on the current move so far.
	Elapsed() time.Duration
	// Remaining is the time left on the game clock.
	Remaining() time.Duration
}

// TurnClock is a Clock that starts timing the move when it is created.
type TurnClock struct {
	start     time.Time
	remaining time.Duration
}

func NewTurnClock(remaining time.Duration) *TurnClock {
	return &TurnClock{start: time.Now(), remaining: remaining}
}

func (c *TurnClock) Elapsed() time.Duration { return time.Since(c.start) }

func (c *TurnClock) Remaining() time.Duration { return c.remaining - c.Elapsed() }

const (
	// kept back from the clock so the last moves never flag
	clockReserve = 5 * time.Second
	minBudget    = 50 * time.Millisecond
)

// MoveBudget turns the remaining game time into a budget for one move: a thirtieth of what is left
// after the reserve, a fifteenth under 30s and a tenth under 15s, never below 50ms.
func MoveBudget(remaining time.Duration) time.Duration {
	left := remaining - clockReserve
	div := time.Duration(30)
	if left < 15*time.Second {
		div = 10
	} else if left < 30*time.Second {
		div = 15
	}
	return max(left/div, minBudget)
}

func (o Options) budget(clock Clock) time.Duration {
	var b time.Duration
	if o.MoveTime != nil {
		b = *o.MoveTime
	} else {
		b = MoveBudget(clock.Remaining())
	}
	if o.MaxBudget > 0 && b > o.MaxBudget {
		b = o.MaxBudget
	}
	return max(b, 0)
}

// timeHandler tracks the deadline of one Think call.
type timeHandler struct {
	clock    Clock
	budget   time.Duration
	deadline time.Time
	limited  bool
	stopped  bool
}

func newTimeHandler(clock Clock, budget time.Duration) timeHandler {
	return timeHandler{
		clock:    clock,
		budget:   budget,
		deadline: time.Now().Add(budget - clock.Elapsed()),
		limited:  true,
	}
}

// unlimited never runs out; used for fixed-depth searches.
func unlimited() timeHandler { return timeHandler{clock: NewTurnClock(0)} }

// TimeStatus reports whether the budget is exhausted. Once it is, it stays exhausted.
func (th *timeHandler) TimeStatus() bool {
	if !th.stopped && th.limited && !time.Now().Before(th.deadline) {
		th.stopped = true
	}
	return th.stopped
}

// halfSpent reports whether more than half of the budget has been used.
func (th *timeHandler) halfSpent() bool {
	return th.limited && th.clock.Elapsed() > th.budget/2
}

func (th *timeHandler) elapsed() time.Duration { return th.clock.Elapsed() }
