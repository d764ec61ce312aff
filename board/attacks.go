package board

import (
	"math/bits"

	"chess-bot/chess"

	"github.com/dylhunn/dragontoothmg"
)

const (
	fileA uint64 = 0x0101010101010101
	fileH uint64 = 0x8080808080808080
)

var knightMasks, kingMasks [64]uint64

func init() {
	for sq := 0; sq < 64; sq++ {
		f, r := sq&7, sq>>3
		for _, d := range [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}} {
			if nf, nr := f+d[0], r+d[1]; nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
				knightMasks[sq] |= 1 << (nr*8 + nf)
			}
		}
		for df := -1; df <= 1; df++ {
			for dr := -1; dr <= 1; dr++ {
				if df == 0 && dr == 0 {
					continue
				}
				if nf, nr := f+df, r+dr; nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
					kingMasks[sq] |= 1 << (nr*8 + nf)
				}
			}
		}
	}
}

func popcount(bb uint64) int { return bits.OnesCount64(bb) }

// SquareAttackedByOpponent reports whether the side not to move attacks sq.
func (p *Position) SquareAttackedByOpponent(sq chess.Square) bool {
	return p.attacked(sq, p.SideToMove().Other())
}

// Attacked reports whether side by attacks sq in the current position.
func (p *Position) Attacked(sq chess.Square, by chess.Color) bool {
	return p.attacked(sq, by)
}

func (p *Position) attacked(sq chess.Square, by chess.Color) bool {
	att := &p.b.White
	if by == chess.Black {
		att = &p.b.Black
	}
	if knightMasks[sq]&att.Knights != 0 || kingMasks[sq]&att.Kings != 0 {
		return true
	}
	if pawnAttackers(sq, by)&att.Pawns != 0 {
		return true
	}
	occ := p.b.White.All | p.b.Black.All
	if dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ)&(att.Rooks|att.Queens) != 0 {
		return true
	}
	return dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ)&(att.Bishops|att.Queens) != 0
}

// pawnAttackers returns the squares from which a pawn of colour by would attack sq.
func pawnAttackers(sq chess.Square, by chess.Color) uint64 {
	bb := uint64(1) << sq
	if by == chess.White {
		return (bb>>7)&^fileA | (bb>>9)&^fileH
	}
	return (bb<<7)&^fileH | (bb<<9)&^fileA
}
