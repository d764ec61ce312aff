package engine

import (
	"math/bits"

	"chess-bot/chess"
)

const checkPenalty int32 = 50

// Evaluator scores positions from the side to move's point of view. The zero value scores
// material and piece-square tables only.
type Evaluator struct {
	Mobility     bool
	CheckPenalty bool
}

var DefaultEvaluator = Evaluator{Mobility: true, CheckPenalty: true}

func Evaluate(pos Position) int32 {
	return DefaultEvaluator.Evaluate(pos)
}

func (e Evaluator) Evaluate(pos Position) int32 {
	score := Material(pos) + Positional(pos)
	if !pos.WhiteToMove() {
		score = -score
	}
	if e.CheckPenalty && pos.InCheck() {
		score -= checkPenalty
	}
	if e.Mobility {
		score += int32(len(pos.LegalMoves(false)))
	}
	return score
}

// Material is the piece-value balance from White's point of view.
func Material(pos Position) int32 {
	var score int32
	for _, kind := range chess.PieceKinds {
		n := int32(bits.OnesCount64(pos.Pieces(chess.White, kind))) -
			int32(bits.OnesCount64(pos.Pieces(chess.Black, kind)))
		score += n * pieceValue[kind]
	}
	return score
}

// Positional is the phase-interpolated piece-square balance from White's point of view.
func Positional(pos Position) int32 {
	var mg, eg int32
	phase := 0
	for _, c := range [2]chess.Color{chess.White, chess.Black} {
		sign := int32(1)
		flip := 0
		if c == chess.Black {
			sign, flip = -1, 56
		}
		for _, kind := range chess.PieceKinds {
			bb := pos.Pieces(c, kind)
			for bb != 0 {
				sq := bits.TrailingZeros64(bb) ^ flip
				bb &= bb - 1
				mg += sign * pst[mgTable][kind][sq]
				eg += sign * pst[egTable][kind][sq]
				phase += phaseWeight[kind]
			}
		}
	}
	phase = clamp(phase, 0, maxPhase)
	return (mg*int32(phase) + eg*int32(maxPhase-phase)) / maxPhase
}
