package engine

import (
	"chess-bot/chess"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MateScore int32 = 100000
	Infinity  int32 = MateScore + 1
	DrawScore int32 = 0

	// Scores at least this far from zero announce a forced mate.
	mateThreshold int32 = MateScore - 1000
)

// IsMateScore reports whether score announces a forced mate for either side.
func IsMateScore(score int32) bool { return abs(score) >= mateThreshold }

// MateIn returns the number of plies to the mate announced by score, or 0.
func MateIn(score int32) int {
	if !IsMateScore(score) {
		return 0
	}
	return int(MateScore - abs(score))
}

// searcher holds the state of one search over one position.
type searcher struct {
	pos  Position
	eval Evaluator
	tt   *TransTable
	time timeHandler

	nodes  uint64
	qnodes uint64
	stats  CutStatistics
}

func (s *searcher) stopped() bool { return s.time.stopped }

// apply makes m and returns the matching undo.
func (s *searcher) apply(m chess.Move) func() {
	s.pos.MakeMove(m)
	return func() { s.pos.UnmakeMove(m) }
}

// child searches the position after m from the opponent's side and negates the result.
func (s *searcher) child(m chess.Move, depth, ply int, alpha, beta int32) int32 {
	undo := s.apply(m)
	defer undo()
	return -s.search(depth, ply, -beta, -alpha)
}

// search is a fail-soft negamax. When the budget runs out it returns 0, which callers discard.
func (s *searcher) search(depth, ply int, alpha, beta int32) int32 {
	if s.time.TimeStatus() {
		return 0
	}
	s.nodes++

	if s.pos.IsCheckmate() {
		return -MateScore + int32(ply)
	}
	if s.pos.IsDraw() {
		return DrawScore
	}
	if depth <= 0 {
		return s.quiesce(alpha, beta, ply)
	}

	hash := s.pos.Hash()
	var ttMove chess.Move
	if s.tt != nil {
		if entry, ok := s.tt.Probe(hash); ok {
			ttMove = entry.Move
			if score, usable := entry.usable(depth, ply, alpha, beta); usable {
				s.stats.TTCutoffs++
				return score
			}
		}
	}

	startAlpha := alpha
	bestScore := -Infinity
	var bestMove chess.Move
	for _, m := range OrderMoves(s.pos, s.pos.LegalMoves(false), ttMove) {
		score := s.child(m, depth-1, ply+1, alpha, beta)
		if s.stopped() {
			return 0
		}
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		alpha = max(alpha, score)
		if alpha >= beta {
			s.stats.BetaCutoffs++
			break
		}
	}

	if s.tt != nil {
		bound := BoundExact
		switch {
		case bestScore <= startAlpha:
			bound = BoundUpper
		case bestScore >= beta:
			bound = BoundLower
		}
		s.tt.Store(hash, depth, ply, bestScore, bound, bestMove)
	}
	return bestScore
}

// quiesce resolves captures until the position is quiet. It is fail-hard: results are clamped to
// the (alpha, beta) window.
func (s *searcher) quiesce(alpha, beta int32, ply int) int32 {
	if s.time.TimeStatus() {
		return 0
	}
	s.qnodes++

	standPat := s.eval.Evaluate(s.pos)
	if standPat >= beta {
		s.stats.QStandPatCutoffs++
		return beta
	}
	alpha = max(alpha, standPat)

	for _, m := range OrderMoves(s.pos, s.pos.LegalMoves(true), chess.NullMove) {
		undo := s.apply(m)
		score := -s.quiesce(-beta, -alpha, ply+1)
		undo()
		if s.stopped() {
			return 0
		}
		if score >= beta {
			s.stats.QBetaCutoffs++
			return beta
		}
		alpha = max(alpha, score)
	}
	return alpha
}

// rootResult is the outcome of one iteration at the root.
type rootResult struct {
	score     int32
	moves     []chess.Move
	completed bool
}

// searchRoot searches every root move to depth. Alpha trails the best score by one so every move
// that ties or beats it gets an exact score; a move interrupted by the deadline is not counted.
func (s *searcher) searchRoot(depth int, ttMove chess.Move) rootResult {
	res := rootResult{score: -Infinity}
	alpha, beta := -Infinity, Infinity
	for _, m := range OrderMoves(s.pos, s.pos.LegalMoves(false), ttMove) {
		score := s.child(m, depth-1, 1, alpha, beta)
		if s.stopped() {
			return res
		}
		switch {
		case score > res.score:
			res.score = score
			res.moves = []chess.Move{m}
			alpha = score - 1
		case score == res.score:
			res.moves = append(res.moves, m)
		}
	}
	res.completed = true
	return res
}
