package engine

import (
	"testing"
	"time"

	"chess-bot/board"
)

// oracleNegamax is a plain minimax with the same terminal rules as the search and a full-width
// capture minimax at the leaves.
func oracleNegamax(pos *board.Position, depth, ply int) int32 {
	if pos.IsCheckmate() {
		return -MateScore + int32(ply)
	}
	if pos.IsDraw() {
		return DrawScore
	}
	if depth == 0 {
		return oracleQuiesce(pos)
	}
	best := -Infinity
	for _, m := range pos.LegalMoves(false) {
		pos.MakeMove(m)
		best = max(best, -oracleNegamax(pos, depth-1, ply+1))
		pos.UnmakeMove(m)
	}
	return best
}

func oracleQuiesce(pos *board.Position) int32 {
	best := DefaultEvaluator.Evaluate(pos)
	for _, m := range pos.LegalMoves(true) {
		pos.MakeMove(m)
		best = max(best, -oracleQuiesce(pos))
		pos.UnmakeMove(m)
	}
	return best
}

func TestSearchMatchesMinimax(t *testing.T) {
	fens := []string{
		"4k3/8/3p4/8/4N3/8/3P4/4K3 w - - 0 1",
		"r3k3/p7/8/3p4/2P1P3/8/8/4K2R w K - 0 1",
		"4k3/8/8/3q4/8/2N5/8/4K3 b - - 0 1",
	}
	for _, fen := range fens {
		for depth := 1; depth <= 3; depth++ {
			p := mustPosition(t, fen)
			want := oracleNegamax(p, depth, 0)
			for _, useTT := range []bool{false, true} {
				opts := testOptions()
				opts.UseTT = useTT
				res := New(opts).SearchDepth(p, depth)
				if res.Score != want {
					t.Errorf("%s depth %d tt=%v: search %d, minimax %d", fen, depth, useTT, res.Score, want)
				}
			}
		}
	}
}

func TestTranspositionTableDoesNotChangeScore(t *testing.T) {
	fen := "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"
	with := testOptions()
	without := testOptions()
	without.UseTT = false

	a := New(with).SearchDepth(mustPosition(t, fen), 3)
	b := New(without).SearchDepth(mustPosition(t, fen), 3)
	if a.Score != b.Score {
		t.Fatalf("score with table %d, without %d", a.Score, b.Score)
	}
	if len(a.Moves) != len(b.Moves) {
		t.Fatalf("tie-set with table %v, without %v", a.Moves, b.Moves)
	}
	for i := range a.Moves {
		if a.Moves[i] != b.Moves[i] {
			t.Fatalf("tie-set with table %v, without %v", a.Moves, b.Moves)
		}
	}
}

func TestMateScoresOrderByDistance(t *testing.T) {
	e := New(testOptions())

	mateIn1 := e.SearchDepth(mustPosition(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"), 1)
	if mateIn1.Score != MateScore-1 || len(mateIn1.Moves) != 1 || mateIn1.Moves[0].String() != "a1a8" {
		t.Fatalf("mate in one: score %d moves %v", mateIn1.Score, mateIn1.Moves)
	}

	e.NewGame()
	mateIn2 := e.SearchDepth(mustPosition(t, "7k/8/8/8/8/8/R7/1R4K1 w - - 0 1"), 3)
	if mateIn2.Score != MateScore-3 {
		t.Fatalf("mate in two: score %d, want %d", mateIn2.Score, MateScore-3)
	}

	e.NewGame()
	quiet := e.SearchDepth(mustPosition(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"), 2)

	if !(mateIn1.Score > mateIn2.Score && mateIn2.Score > quiet.Score) {
		t.Fatalf("want mate-in-1 %d > mate-in-2 %d > quiet %d", mateIn1.Score, mateIn2.Score, quiet.Score)
	}
	if IsMateScore(quiet.Score) || MateIn(mateIn1.Score) != 1 || MateIn(mateIn2.Score) != 3 {
		t.Fatalf("mate decoding: quiet %d, in1 %d, in2 %d", quiet.Score, MateIn(mateIn1.Score), MateIn(mateIn2.Score))
	}
}

func TestGettingMatedScoresNegative(t *testing.T) {
	res := New(testOptions()).SearchDepth(mustPosition(t, "7k/R7/8/8/8/8/8/1R4K1 b - - 0 1"), 2)
	if res.Score != -MateScore+2 {
		t.Fatalf("score = %d, want %d", res.Score, -MateScore+2)
	}
}

func TestQuiescenceStandPat(t *testing.T) {
	p := mustPosition(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	standPat := DefaultEvaluator.Evaluate(p)
	tests := []struct {
		alpha, beta int32
		want        int32
	}{
		{-100, 100, standPat},
		{-100, standPat - 5, standPat - 5},
		{standPat + 5, 100, standPat + 5},
	}
	for _, tt := range tests {
		s := &searcher{pos: p, eval: DefaultEvaluator, time: unlimited()}
		if got := s.quiesce(tt.alpha, tt.beta, 0); got != tt.want {
			t.Errorf("quiesce(%d, %d) = %d, want %d", tt.alpha, tt.beta, got, tt.want)
		}
		if s.qnodes != 1 {
			t.Errorf("quiesce with no captures visited %d nodes, want 1", s.qnodes)
		}
	}
}

func TestQuiescenceNeverBelowStandPat(t *testing.T) {
	// White can win a hanging rook.
	p := mustPosition(t, "4k3/8/8/3r4/8/8/3Q4/4K3 w - - 0 1")
	s := &searcher{pos: p, eval: DefaultEvaluator, time: unlimited()}
	standPat := DefaultEvaluator.Evaluate(p)
	got := s.quiesce(-Infinity, Infinity, 0)
	if got <= standPat {
		t.Fatalf("quiesce = %d, stand pat %d: capture should improve", got, standPat)
	}
	if s.qnodes < 2 {
		t.Fatalf("no capture was searched")
	}
}

func TestSearchRestoresPosition(t *testing.T) {
	p := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	fen, hash := p.FEN(), p.Hash()
	New(testOptions().WithMoveTime(200*time.Millisecond)).Think(p, newFixedClock(time.Minute))
	if p.FEN() != fen || p.Hash() != hash {
		t.Fatalf("position changed by search: %s", p.FEN())
	}
}

func TestSearchDepthResult(t *testing.T) {
	p := mustPosition(t, "4k3/8/3p4/8/4N3/8/3P4/4K3 w - - 0 1")
	e := New(testOptions())
	res := e.SearchDepth(p, 2)
	if !res.Completed || res.Depth != 2 || res.Nodes == 0 || len(res.Moves) == 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	for _, m := range res.Moves {
		if !isLegal(p, m) {
			t.Fatalf("tie-set holds illegal move %s", m)
		}
	}
	if last := e.LastResult(); last.Score != res.Score || last.Depth != 2 {
		t.Fatalf("LastResult = %+v", last)
	}
	if e.TransTable().Stores == 0 {
		t.Fatalf("search stored nothing in the table")
	}
}

func TestKernelPairsMakeAndUnmake(t *testing.T) {
	p := mustPosition(t, "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")
	s := &searcher{pos: p, eval: DefaultEvaluator, time: unlimited()}
	before := p.PlyCount()
	s.search(2, 0, -Infinity, Infinity)
	if p.PlyCount() != before {
		t.Fatalf("ply count %d after search, want %d", p.PlyCount(), before)
	}
}
