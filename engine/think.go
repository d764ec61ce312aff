// Package engine picks chess moves with an iterative-deepening alpha-beta search under a
// wall-clock budget.
package engine

import (
	"time"

	"chess-bot/chess"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// SearchResult describes the accepted outcome of a search.
type SearchResult struct {
	Depth int
	Score int32
	// Moves holds every root move that reached Score.
	Moves     []chess.Move
	Nodes     uint64
	QNodes    uint64
	Stats     CutStatistics
	Completed bool
	Elapsed   time.Duration
}

// Engine is not safe for concurrent use; give each goroutine its own.
type Engine struct {
	opts Options
	eval Evaluator
	tt   *TransTable
	rng  *rand.Rand
	log  zerolog.Logger
	last SearchResult
}

func New(opts Options) *Engine {
	e := &Engine{
		opts: opts,
		eval: Evaluator{Mobility: opts.Mobility, CheckPenalty: true},
		rng:  rand.New(rand.NewSource(opts.Seed)),
		log:  opts.Logger,
	}
	if opts.UseTT {
		e.tt = NewTransTable(opts.TTBits)
	}
	if e.opts.MaxDepth <= 0 {
		e.opts.MaxDepth = DefaultOptions().MaxDepth
	}
	return e
}

// NewGame forgets everything learned in the previous game.
func (e *Engine) NewGame() {
	if e.tt != nil {
		e.tt.Clear()
	}
	e.last = SearchResult{}
}

// LastResult is the accepted result of the last Think or SearchDepth.
func (e *Engine) LastResult() SearchResult { return e.last }

// TransTable exposes the engine's table, or nil when it runs without one.
func (e *Engine) TransTable() *TransTable { return e.tt }

func (e *Engine) newSearcher(pos Position, th timeHandler) *searcher {
	if e.tt != nil {
		e.tt.NextGeneration()
	}
	return &searcher{pos: pos, eval: e.eval, tt: e.tt, time: th}
}

// Think returns the move to play in pos. It returns chess.NullMove only when pos has no legal
// moves.
func (e *Engine) Think(pos Position, clock Clock) chess.Move {
	legal := pos.LegalMoves(false)
	if len(legal) == 0 {
		return chess.NullMove
	}
	if m, ok := e.openingMove(pos, legal); ok {
		e.last = SearchResult{Moves: []chess.Move{m}, Completed: true, Elapsed: clock.Elapsed()}
		e.log.Info().Str("move", m.String()).Bool("opening", true).Msg("think")
		return m
	}

	budget := e.opts.budget(clock)
	s := e.newSearcher(pos, newTimeHandler(clock, budget))
	e.last = e.deepen(s)

	var move chess.Move
	if len(e.last.Moves) > 0 {
		move = e.last.Moves[e.rng.Intn(len(e.last.Moves))]
	} else {
		move = legal[e.rng.Intn(len(legal))]
		e.log.Warn().Dur("budget", budget).Int("legal", len(legal)).
			Msg("no search result within budget, playing a random move")
	}

	ev := e.log.Info().
		Int64("budget_ms", budget.Milliseconds()).
		Int64("spent_ms", clock.Elapsed().Milliseconds()).
		Int("depth", e.last.Depth).
		Int32("score", e.last.Score).
		Str("options", e.opts.String()).
		Str("move", move.String()).
		Object("cuts", e.last.Stats)
	if e.tt != nil {
		ev = ev.Int("tt_usage", e.tt.Usage())
	}
	ev.Msg("think")
	return move
}

// deepen runs iterations of increasing depth until the budget, the depth limit or a proven mate
// stops it.
func (e *Engine) deepen(s *searcher) SearchResult {
	var accepted SearchResult
	haveAccepted := false
	for depth := 1; depth <= e.opts.MaxDepth; depth++ {
		res := s.searchRoot(depth, e.rootMove(s.pos))

		if next, ok := acceptIteration(accepted, haveAccepted, res, depth); ok {
			accepted, haveAccepted = next, true
			if res.completed && s.tt != nil && len(res.moves) > 0 {
				s.tt.Store(s.pos.Hash(), depth, 0, res.score, BoundExact, res.moves[0])
			}
		}

		e.log.Debug().
			Int("depth", depth).
			Bool("completed", res.completed).
			Int32("score", res.score).
			Uint64("nodes", s.nodes).
			Uint64("qnodes", s.qnodes).
			Int64("ms", s.time.elapsed().Milliseconds()).
			Int("moves", len(res.moves)).
			Msg("iteration")

		if !res.completed || s.time.halfSpent() {
			break
		}
		if res.score >= mateThreshold {
			break
		}
	}
	accepted.Nodes, accepted.QNodes, accepted.Stats = s.nodes, s.qnodes, s.stats
	accepted.Elapsed = s.time.elapsed()
	return accepted
}

// acceptIteration decides whether the iteration at depth replaces prev. A completed iteration
// always does. A partial one needs a move and, when something is already accepted, a strictly
// better score.
func acceptIteration(prev SearchResult, have bool, res rootResult, depth int) (SearchResult, bool) {
	switch {
	case res.completed:
	case len(res.moves) == 0:
		return prev, false
	case have && res.score <= prev.Score:
		return prev, false
	}
	return acceptRoot(depth, res), true
}

func acceptRoot(depth int, res rootResult) SearchResult {
	return SearchResult{
		Depth:     depth,
		Score:     res.score,
		Moves:     res.moves,
		Completed: res.completed,
	}
}

// rootMove is the best move of the previous iteration, when the table still has it.
func (e *Engine) rootMove(pos Position) chess.Move {
	if e.tt == nil {
		return chess.NullMove
	}
	if entry, ok := e.tt.Probe(pos.Hash()); ok {
		return entry.Move
	}
	return chess.NullMove
}

// SearchDepth runs a single full-window iteration at depth with no time limit.
func (e *Engine) SearchDepth(pos Position, depth int) SearchResult {
	s := e.newSearcher(pos, unlimited())
	res := s.searchRoot(max(depth, 1), e.rootMove(pos))
	e.last = SearchResult{
		Depth:     max(depth, 1),
		Score:     res.score,
		Moves:     res.moves,
		Nodes:     s.nodes,
		QNodes:    s.qnodes,
		Stats:     s.stats,
		Completed: res.completed,
		Elapsed:   s.time.elapsed(),
	}
	return e.last
}
