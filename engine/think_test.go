package engine

import (
	"testing"
	"time"

	"chess-bot/board"
	"chess-bot/chess"
)

const middlegameFEN = "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"

func TestThinkRespectsBudget(t *testing.T) {
	const budget = 100 * time.Millisecond
	const slack = 100 * time.Millisecond
	p := mustPosition(t, middlegameFEN)
	e := New(testOptions().WithMoveTime(budget))
	clock := newFixedClock(10 * time.Minute)
	m := e.Think(p, clock)
	if spent := clock.Elapsed(); spent > budget+slack {
		t.Fatalf("Think took %v with a %v budget", spent, budget)
	}
	if !isLegal(p, m) {
		t.Fatalf("Think returned illegal move %s", m)
	}
	if e.LastResult().Depth == 0 {
		t.Fatalf("no iteration was accepted in %v", budget)
	}
}

func TestThinkZeroBudgetReturnsLegalMove(t *testing.T) {
	p := mustPosition(t, middlegameFEN)
	e := New(testOptions().WithMoveTime(0))
	m := e.Think(p, newFixedClock(time.Minute))
	if m.IsNull() || !isLegal(p, m) {
		t.Fatalf("Think with no time returned %s", m)
	}
	if got := len(e.LastResult().Moves); got != 0 {
		t.Fatalf("nothing should be accepted with a zero budget, got %d moves", got)
	}
}

func TestThinkNoLegalMoves(t *testing.T) {
	p := mustPosition(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if m := New(testOptions()).Think(p, newFixedClock(time.Minute)); !m.IsNull() {
		t.Fatalf("checkmated side moved %s", m)
	}
}

func TestThinkOpeningMoves(t *testing.T) {
	for _, seed := range []uint64{1, 1776, 99} {
		opts := testOptions()
		opts.Seed = seed
		e := New(opts)

		p := board.New()
		if m := e.Think(p, newFixedClock(time.Minute)); m.String() != "e2e4" {
			t.Fatalf("seed %d: first move %s, want e2e4", seed, m)
		}
		if err := p.ApplyUCI("d2d4"); err != nil {
			t.Fatal(err)
		}
		if m := e.Think(p, newFixedClock(time.Minute)); m.String() != "d7d5" {
			t.Fatalf("seed %d: reply %s, want d7d5", seed, m)
		}
	}
}

func TestThinkOpeningSequence(t *testing.T) {
	e := New(testOptions())
	p := board.New()
	first := e.Think(p, newFixedClock(time.Minute))
	if err := p.ApplyUCI(first.String()); err != nil {
		t.Fatal(err)
	}
	reply := e.Think(p, newFixedClock(time.Minute))
	if first.String() != "e2e4" || reply.String() != "d7d5" {
		t.Fatalf("opening = %s %s, want e2e4 d7d5", first, reply)
	}
	if !e.LastResult().Completed || len(e.LastResult().Moves) != 1 {
		t.Fatalf("opening reply result = %+v", e.LastResult())
	}
}

func TestAcceptIteration(t *testing.T) {
	m1 := chess.Move{From: 12, To: 28, Moved: chess.Pawn}
	m2 := chess.Move{From: 6, To: 21, Moved: chess.Knight}
	prev := SearchResult{Depth: 3, Score: 40, Moves: []chess.Move{m1}, Completed: true}
	tests := []struct {
		name      string
		have      bool
		res       rootResult
		accept    bool
		wantScore int32
	}{
		{"completed worse", true, rootResult{score: -10, moves: []chess.Move{m2}, completed: true}, true, -10},
		{"partial better", true, rootResult{score: 41, moves: []chess.Move{m2}}, true, 41},
		{"partial equal", true, rootResult{score: 40, moves: []chess.Move{m2}}, false, 40},
		{"partial worse", true, rootResult{score: 5, moves: []chess.Move{m2}}, false, 40},
		{"partial first iteration", false, rootResult{score: -300, moves: []chess.Move{m2}}, true, -300},
		{"partial without moves", false, rootResult{score: -Infinity}, false, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := acceptIteration(prev, tt.have, tt.res, 4)
			if ok != tt.accept {
				t.Fatalf("accepted = %v, want %v", ok, tt.accept)
			}
			if got.Score != tt.wantScore {
				t.Fatalf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if ok && (got.Depth != 4 || got.Moves[0] != m2 || got.Completed != tt.res.completed) {
				t.Fatalf("accepted result = %+v", got)
			}
			if !ok && got.Depth != prev.Depth {
				t.Fatalf("rejected iteration changed the result: %+v", got)
			}
		})
	}
}

// stepClock reports whatever elapsed time the test sets.
type stepClock struct{ elapsed time.Duration }

func (c *stepClock) Elapsed() time.Duration   { return c.elapsed }
func (c *stepClock) Remaining() time.Duration { return time.Hour }

func TestDeepenStopsAfterHalfBudget(t *testing.T) {
	tests := []struct {
		elapsed   time.Duration
		wantDepth int
	}{
		{6 * time.Second, 1},
		{4 * time.Second, 2},
	}
	for _, tt := range tests {
		opts := testOptions()
		opts.MaxDepth = 2
		e := New(opts)
		clock := &stepClock{}
		th := newTimeHandler(clock, 10*time.Second)
		clock.elapsed = tt.elapsed
		res := e.deepen(e.newSearcher(mustPosition(t, middlegameFEN), th))
		if res.Depth != tt.wantDepth || !res.Completed {
			t.Errorf("elapsed %v of 10s: depth %d completed %v, want depth %d", tt.elapsed, res.Depth, res.Completed, tt.wantDepth)
		}
	}
}

func TestThinkOpeningMovesNeedStartPosition(t *testing.T) {
	// Ply zero but not the standard array: the engine must search.
	p := mustPosition(t, "6k1/5ppp/8/8/8/8/4R3/R5K1 w - - 0 1")
	e := New(testOptions().WithMoveTime(300 * time.Millisecond))
	if m := e.Think(p, newFixedClock(time.Minute)); m.String() == "e2e4" {
		t.Fatalf("opening move played outside the start position")
	}
}

func TestThinkStopsOnMate(t *testing.T) {
	p := mustPosition(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	e := New(testOptions().WithMoveTime(5 * time.Second))
	clock := newFixedClock(time.Hour)
	if m := e.Think(p, clock); m.String() != "a1a8" {
		t.Fatalf("Think = %s, want a1a8", m)
	}
	if res := e.LastResult(); res.Depth != 1 || res.Score != MateScore-1 {
		t.Fatalf("mate should stop deepening at depth 1, got depth %d score %d", res.Depth, res.Score)
	}
	if clock.Elapsed() > time.Second {
		t.Fatalf("mate-in-one took %v", clock.Elapsed())
	}
}

func TestThinkDeterministicWithSeed(t *testing.T) {
	opts := testOptions().WithMoveTime(time.Minute)
	opts.MaxDepth = 2
	a := New(opts).Think(mustPosition(t, middlegameFEN), newFixedClock(time.Hour))
	b := New(opts).Think(mustPosition(t, middlegameFEN), newFixedClock(time.Hour))
	if a != b {
		t.Fatalf("same seed chose %s and %s", a, b)
	}
}

func TestThinkPicksFromTieSet(t *testing.T) {
	opts := testOptions().WithMoveTime(time.Minute)
	opts.MaxDepth = 1
	e := New(opts)
	p := mustPosition(t, "4k3/8/8/8/8/8/8/R3K2R w - - 0 1")
	m := e.Think(p, newFixedClock(time.Hour))
	res := e.LastResult()
	if !res.Completed || res.Depth != 1 {
		t.Fatalf("depth-limited search did not complete: %+v", res)
	}
	found := false
	for _, tie := range res.Moves {
		found = found || tie == m
	}
	if !found {
		t.Fatalf("played %s, not in the tie-set %v", m, res.Moves)
	}
}

func TestNewGameClearsTable(t *testing.T) {
	e := New(testOptions())
	e.SearchDepth(mustPosition(t, middlegameFEN), 2)
	if e.TransTable().Stores == 0 {
		t.Fatalf("nothing stored")
	}
	e.NewGame()
	if e.TransTable().Stores != 0 || e.LastResult().Depth != 0 {
		t.Fatalf("NewGame kept state")
	}
}

func BenchmarkThink(b *testing.B) {
	opts := testOptions().WithMoveTime(time.Minute)
	opts.MaxDepth = 3
	opts.OpeningMoves = false
	for i := 0; i < b.N; i++ {
		e := New(opts)
		e.Think(mustPosition(b, middlegameFEN), newFixedClock(time.Hour))
	}
}
