package engine

import "chess-bot/chess"

// Position is the game state the engine searches. Implementations own move generation and the
// game rules; the engine only makes and unmakes moves they produced, in strict LIFO order.
type Position interface {
	LegalMoves(capturesOnly bool) []chess.Move
	MakeMove(m chess.Move)
	UnmakeMove(m chess.Move)

	InCheck() bool
	IsCheckmate() bool
	// IsDraw covers repetition, the fifty-move rule, insufficient material and stalemate.
	IsDraw() bool
	WhiteToMove() bool

	Hash() uint64
	SquareAttackedByOpponent(sq chess.Square) bool
	// Pieces returns the squares holding pieces of kind k and colour c as a bitboard (a1 = bit 0).
	Pieces(c chess.Color, k chess.PieceKind) uint64
	PlyCount() int
}

