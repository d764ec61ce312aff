// Package board is the game-rules side of the engine: a mutable chess position over the
// dragontoothmg move generator with make/unmake, draw and mate predicates, attack tests and
// piece bitboards.
package board

import (
	"errors"
	"fmt"
	"strings"

	"chess-bot/chess"

	"github.com/dylhunn/dragontoothmg"
)

const StartFEN = dragontoothmg.Startpos

var (
	ErrInvalidFEN       = errors.New("invalid FEN")
	ErrIllegalMove      = errors.New("illegal move")
	ErrUnbalancedUnmake = errors.New("unmake does not match the last move made")
	ErrSearchInProgress = errors.New("position has unmade search moves")
)

type undo struct {
	move    chess.Move
	unapply func()
}

// Position is not safe for concurrent use. Moves made with MakeMove must be unmade in reverse
// order; moves played with ApplyUCI become part of the game history and cannot be unmade.
type Position struct {
	b        dragontoothmg.Board
	startPly int
	undos    []undo
	states   []state
	// rootIndex is the index in states of the last committed game position.
	rootIndex int

	legal    []chess.Move
	captures []chess.Move
	cached   bool
}

// New returns the standard starting position.
func New() *Position {
	p, err := FromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

func FromFEN(fen string) (p *Position, err error) {
	fen, err = normalizeFEN(fen)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, r)
		}
	}()

	p = &Position{b: dragontoothmg.ParseFen(fen)}
	p.startPly = (int(p.b.Fullmoveno) - 1) * 2
	if p.startPly < 0 {
		p.startPly = 0
	}
	if !p.b.Wtomove {
		p.startPly++
	}
	p.pushState()
	return p, nil
}

func normalizeFEN(fen string) (string, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 6:
	default:
		return "", fmt.Errorf("%w: %q: want 4 or 6 fields, got %d", ErrInvalidFEN, fen, len(fields))
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return "", fmt.Errorf("%w: %q: want 8 ranks, got %d", ErrInvalidFEN, fen, len(ranks))
	}
	if strings.Count(fields[0], "K") != 1 || strings.Count(fields[0], "k") != 1 {
		return "", fmt.Errorf("%w: %q: each side needs exactly one king", ErrInvalidFEN, fen)
	}
	if fields[1] != "w" && fields[1] != "b" {
		return "", fmt.Errorf("%w: %q: side to move %q", ErrInvalidFEN, fen, fields[1])
	}
	return strings.Join(fields, " "), nil
}

func (p *Position) FEN() string { return p.b.ToFen() }

func (p *Position) String() string { return p.FEN() }

func (p *Position) SideToMove() chess.Color {
	if p.b.Wtomove {
		return chess.White
	}
	return chess.Black
}

func (p *Position) Hash() uint64 { return p.b.Hash() }

// PlyCount is the number of half-moves since the start of the game, derived from the FEN move
// number plus every move played or made since.
func (p *Position) PlyCount() int { return p.startPly + len(p.states) - 1 }

func (p *Position) HalfmoveClock() int { return int(p.b.Halfmoveclock) }

func (p *Position) InCheck() bool { return p.b.OurKingInCheck() }

// LegalMoves returns the legal moves for the side to move. The returned slice belongs to the
// caller's node; it is never modified after it has been handed out.
func (p *Position) LegalMoves(capturesOnly bool) []chess.Move {
	if !p.cached {
		p.generate()
	}
	if capturesOnly {
		return p.captures
	}
	return p.legal
}

func (p *Position) generate() {
	raw := p.b.GenerateLegalMoves()
	p.legal = make([]chess.Move, len(raw))
	p.captures = nil
	for i := range raw {
		p.legal[i] = p.convert(raw[i])
		if p.legal[i].IsCapture() {
			p.captures = append(p.captures, p.legal[i])
		}
	}
	p.cached = true
}

func (p *Position) invalidate() {
	p.legal, p.captures, p.cached = nil, nil, false
}

func (p *Position) convert(dm dragontoothmg.Move) chess.Move {
	own, opp := &p.b.White, &p.b.Black
	if !p.b.Wtomove {
		own, opp = opp, own
	}
	from, to := chess.Square(dm.From()), chess.Square(dm.To())
	m := chess.Move{
		From:      from,
		To:        to,
		Moved:     kindAt(own, from),
		Captured:  kindAt(opp, to),
		Promotion: chess.PieceKind(dm.Promote()),
		Code:      uint16(dm),
	}
	if m.Moved == chess.Pawn && m.Captured == chess.NoPiece && from.File() != to.File() {
		m.Captured = chess.Pawn
		m.EnPassant = true
	}
	if m.Moved == chess.King && (int(from)-int(to) == 2 || int(to)-int(from) == 2) {
		m.Castle = true
	}
	return m
}

func kindAt(bb *dragontoothmg.Bitboards, sq chess.Square) chess.PieceKind {
	mask := uint64(1) << sq
	switch {
	case bb.All&mask == 0:
		return chess.NoPiece
	case bb.Pawns&mask != 0:
		return chess.Pawn
	case bb.Knights&mask != 0:
		return chess.Knight
	case bb.Bishops&mask != 0:
		return chess.Bishop
	case bb.Rooks&mask != 0:
		return chess.Rook
	case bb.Queens&mask != 0:
		return chess.Queen
	case bb.Kings&mask != 0:
		return chess.King
	}
	return chess.NoPiece
}

// MakeMove plays a move produced by LegalMoves on this position.
func (p *Position) MakeMove(m chess.Move) {
	unapply := p.b.Apply(dragontoothmg.Move(m.Code))
	p.undos = append(p.undos, undo{move: m, unapply: unapply})
	p.pushState()
	p.invalidate()
}

// UnmakeMove takes back the last move made. It panics with ErrUnbalancedUnmake when m is not
// that move.
func (p *Position) UnmakeMove(m chess.Move) {
	n := len(p.undos)
	if n == 0 || p.undos[n-1].move != m {
		panic(fmt.Errorf("%w: %s", ErrUnbalancedUnmake, m))
	}
	p.undos[n-1].unapply()
	p.undos = p.undos[:n-1]
	p.popState()
	p.invalidate()
}

// ApplyUCI plays a move given in coordinate notation and commits it to the game history.
func (p *Position) ApplyUCI(text string) error {
	if len(p.undos) > 0 {
		return ErrSearchInProgress
	}
	text = strings.ToLower(strings.TrimSpace(text))
	for _, m := range p.LegalMoves(false) {
		if m.String() == text {
			return p.Commit(m)
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrIllegalMove, text, p.FEN())
}

// Commit plays a legal move as a game move. It fails with ErrSearchInProgress while made moves
// are still waiting to be unmade.
func (p *Position) Commit(m chess.Move) error {
	if len(p.undos) > 0 {
		return ErrSearchInProgress
	}
	p.b.Apply(dragontoothmg.Move(m.Code))
	p.pushState()
	p.rootIndex = len(p.states) - 1
	p.invalidate()
	return nil
}

func (p *Position) Pieces(c chess.Color, k chess.PieceKind) uint64 {
	bb := &p.b.White
	if c == chess.Black {
		bb = &p.b.Black
	}
	switch k {
	case chess.Pawn:
		return bb.Pawns
	case chess.Knight:
		return bb.Knights
	case chess.Bishop:
		return bb.Bishops
	case chess.Rook:
		return bb.Rooks
	case chess.Queen:
		return bb.Queens
	case chess.King:
		return bb.Kings
	}
	return 0
}

func (p *Position) PieceAt(sq chess.Square) (chess.Color, chess.PieceKind) {
	if k := kindAt(&p.b.White, sq); k != chess.NoPiece {
		return chess.White, k
	}
	return chess.Black, kindAt(&p.b.Black, sq)
}

func (p *Position) IsCheckmate() bool {
	return p.InCheck() && len(p.LegalMoves(false)) == 0
}

func (p *Position) IsStalemate() bool {
	return !p.InCheck() && len(p.LegalMoves(false)) == 0
}

// IsDraw reports stalemate, the fifty-move rule, insufficient material and repetition.
func (p *Position) IsDraw() bool {
	if p.HalfmoveClock() >= fiftyMoveLimit && !p.IsCheckmate() {
		return true
	}
	return p.IsRepetition() || p.insufficientMaterial() || p.IsStalemate()
}
