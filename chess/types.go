// Package chess holds the value types shared by the rules collaborator and the search engine.
package chess

import (
	"errors"
	"fmt"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceKind ordinals match the dragontoothmg piece constants so adapters can convert directly.
type PieceKind uint8

const (
	NoPiece PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var PieceKinds = [6]PieceKind{Pawn, Knight, Bishop, Rook, Queen, King}

func (k PieceKind) String() string {
	return [...]string{"-", "pawn", "knight", "bishop", "rook", "queen", "king"}[k]
}

// Square indexes the board from a1 = 0 to h8 = 63.
type Square uint8

func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

// Mirror flips the square vertically (a1 <-> a8).
func (s Square) Mirror() Square { return s ^ 56 }

func (s Square) String() string {
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

func ParseSquare(text string) (Square, error) {
	if len(text) != 2 || text[0] < 'a' || text[0] > 'h' || text[1] < '1' || text[1] > '8' {
		return 0, fmt.Errorf("square %q: %w", text, ErrBadNotation)
	}
	return Square(int(text[1]-'1')*8 + int(text[0]-'a')), nil
}

var ErrBadNotation = errors.New("malformed move notation")

// Move is a transition between two positions. Moves produced by the same position compare equal
// exactly when they are the same move. The zero value is NullMove.
type Move struct {
	From      Square
	To        Square
	Moved     PieceKind
	Captured  PieceKind
	Promotion PieceKind
	Castle    bool
	EnPassant bool
	// Code is the move generator's own encoding; only the generator interprets it.
	Code uint16
}

var NullMove Move

func (m Move) IsNull() bool { return m == NullMove }

func (m Move) IsCapture() bool { return m.Captured != NoPiece }

func (m Move) IsPromotion() bool { return m.Promotion != NoPiece }

// String renders the move in coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	switch m.Promotion {
	case Knight:
		s += "n"
	case Bishop:
		s += "b"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}
