package board

import "chess-bot/chess"

const fiftyMoveLimit = 100

// state is what repetition detection needs to know about one position of the game.
type state struct {
	Hash   uint64
	Rule50 int
}

func (p *Position) pushState() {
	p.states = append(p.states, state{Hash: p.b.Hash(), Rule50: p.HalfmoveClock()})
}

func (p *Position) popState() {
	if len(p.states) > 1 {
		p.states = p.states[:len(p.states)-1]
	}
}

// IsRepetition reports a threefold repetition in the game, or a position that repeats one reached
// after the last committed game move. The second rule lets a search score a repeating line as a
// draw without waiting for the third occurrence.
func (p *Position) IsRepetition() bool {
	count, first := p.repetitionInfo()
	if count >= 2 {
		return true
	}
	return count >= 1 && first >= p.rootIndex
}

// Repetitions counts earlier occurrences of the current position inside the reversible window.
func (p *Position) Repetitions() int {
	count, _ := p.repetitionInfo()
	return count
}

func (p *Position) repetitionInfo() (count int, firstIdx int) {
	firstIdx = -1
	n := len(p.states)
	if n <= 1 {
		return 0, firstIdx
	}
	curr := p.states[n-1]
	start := n - 1 - curr.Rule50
	if start < 0 {
		start = 0
	}
	for i := n - 3; i >= start; i -= 2 {
		if p.states[i].Hash == curr.Hash {
			count++
			firstIdx = i
		}
	}
	return count, firstIdx
}

const (
	darkSquares  uint64 = 0xAA55AA55AA55AA55
	lightSquares        = ^darkSquares
)

// insufficientMaterial covers K vs K, K+minor vs K and K+B vs K+B with bishops on one colour.
func (p *Position) insufficientMaterial() bool {
	w, b := &p.b.White, &p.b.Black
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	minors := popcount(w.Knights | w.Bishops | b.Knights | b.Bishops)
	if minors <= 1 {
		return true
	}
	if w.Knights|b.Knights != 0 || popcount(w.Bishops) != 1 || popcount(b.Bishops) != 1 {
		return false
	}
	bishops := w.Bishops | b.Bishops
	return bishops&darkSquares == 0 || bishops&lightSquares == 0
}

func (p *Position) WhiteToMove() bool { return p.SideToMove() == chess.White }
