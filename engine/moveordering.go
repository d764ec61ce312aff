package engine

import (
	"cmp"
	"slices"

	"chess-bot/chess"
)

type scoredMove struct {
	move  chess.Move
	score int32
}

/*
	Move ordering offsets:
	- The table move for this exact position goes first; it was the best or a refuting move last time.
	- Captures next, most valuable victim by least valuable attacker.
	- Promotions, then castling.
	- Quiet moves last, pushed down further when they step onto an attacked square.
*/
const (
	ttMoveOffset    int32 = 1 << 20
	captureOffset   int32 = 1 << 16
	promotionOffset int32 = 1 << 12
	castleOffset    int32 = 1 << 8

	attackedQuietPenalty int32 = 50
)

// mvvLva scores a capture as 10 * victim - attacker using the piece ordinals.
func mvvLva(m chess.Move) int32 {
	return 10*int32(m.Captured) - int32(m.Moved)
}

func scoreMove(pos Position, m, ttMove chess.Move) int32 {
	switch {
	case !ttMove.IsNull() && m == ttMove:
		return ttMoveOffset
	case m.IsCapture():
		return captureOffset + mvvLva(m)
	case m.IsPromotion():
		return promotionOffset + pieceValue[m.Promotion]
	case m.Castle:
		return castleOffset
	case pos.SquareAttackedByOpponent(m.To):
		return -attackedQuietPenalty
	}
	return 0
}

// OrderMoves returns the moves sorted by descending priority in a new slice. Equal priorities keep
// generation order.
func OrderMoves(pos Position, moves []chess.Move, ttMove chess.Move) []chess.Move {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: scoreMove(pos, m, ttMove)}
	}
	slices.SortStableFunc(scored, func(a, b scoredMove) int {
		return cmp.Compare(b.score, a.score)
	})
	ordered := make([]chess.Move, len(scored))
	for i := range scored {
		ordered[i] = scored[i].move
	}
	return ordered
}
