package engine

import (
	"chess-bot/chess"
)

// Starting bitboards per colour, indexed by chess.PieceKind.
var startArray = [2][7]uint64{
	chess.White: {0, 0x000000000000FF00, 0x42, 0x24, 0x81, 0x08, 0x10},
	chess.Black: {0, 0x00FF000000000000, 0x4200000000000000, 0x2400000000000000,
		0x8100000000000000, 0x0800000000000000, 0x1000000000000000},
}

func inStartArray(pos Position, c chess.Color) bool {
	for _, kind := range chess.PieceKinds {
		if pos.Pieces(c, kind) != startArray[c][kind] {
			return false
		}
	}
	return true
}

// openingMove answers the first two plies of a game from the standard start without searching:
// 1.e4 as White, 1...d5 as Black.
func (e *Engine) openingMove(pos Position, legal []chess.Move) (chess.Move, bool) {
	if !e.opts.OpeningMoves {
		return chess.NullMove, false
	}
	var want string
	switch {
	case pos.PlyCount() == 0 && inStartArray(pos, chess.White) && inStartArray(pos, chess.Black):
		want = "e2e4"
	case pos.PlyCount() == 1 && inStartArray(pos, chess.Black):
		want = "d7d5"
	default:
		return chess.NullMove, false
	}
	for _, m := range legal {
		if m.String() == want {
			return m, true
		}
	}
	return chess.NullMove, false
}
