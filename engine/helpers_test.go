package engine

import (
	"strings"
	"testing"
	"time"

	"chess-bot/board"
	"chess-bot/chess"
)

func mustPosition(t testing.TB, fen string) *board.Position {
	t.Helper()
	p, err := board.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return p
}

func findMove(t testing.TB, pos Position, text string) chess.Move {
	t.Helper()
	for _, m := range pos.LegalMoves(false) {
		if m.String() == text {
			return m
		}
	}
	t.Fatalf("%s is not legal", text)
	return chess.NullMove
}

func isLegal(pos Position, m chess.Move) bool {
	for _, l := range pos.LegalMoves(false) {
		if l == m {
			return true
		}
	}
	return false
}

func testOptions() Options {
	o := DefaultOptions()
	o.TTBits = 16
	return o
}

// flipFEN mirrors the board vertically and swaps the colours of every piece and the side to move.
func flipFEN(fen string) string {
	f := strings.Fields(fen)
	ranks := strings.Split(f[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	side := "w"
	if f[1] == "w" {
		side = "b"
	}
	castle := f[2]
	if castle != "-" {
		castle = swapCase(castle)
		castle = strings.Map(keepUpper, castle) + strings.Map(keepLower, castle)
	}
	ep := f[3]
	if ep != "-" {
		rank := map[byte]byte{'3': '6', '6': '3'}[ep[1]]
		ep = string([]byte{ep[0], rank})
	}
	return strings.Join([]string{swapCase(strings.Join(ranks, "/")), side, castle, ep, f[4], f[5]}, " ")
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, s)
}

func keepLower(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r
	}
	return -1
}

func keepUpper(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r
	}
	return -1
}

// fixedClock reports a constant remaining time and measures elapsed time from creation.
type fixedClock struct {
	start     time.Time
	remaining time.Duration
}

func newFixedClock(remaining time.Duration) *fixedClock {
	return &fixedClock{start: time.Now(), remaining: remaining}
}

func (c *fixedClock) Elapsed() time.Duration   { return time.Since(c.start) }
func (c *fixedClock) Remaining() time.Duration { return c.remaining }
