package engine

import "chess-bot/chess"

type Bound uint8

const (
	BoundEmpty Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

func (b Bound) String() string {
	return [...]string{"empty", "exact", "lower", "upper"}[b]
}

type TTEntry struct {
	Hash  uint64
	Move  chess.Move
	Score int32
	Depth int16
	Bound Bound
	gen   uint16
}

// TransTable is a fixed-size, directly indexed table. Stores always replace the slot.
type TransTable struct {
	entries    []TTEntry
	mask       uint64
	generation uint16
	written    int

	Hits, Misses, Stores uint64
}

func NewTransTable(bits int) *TransTable {
	bits = clamp(bits, 1, 30)
	size := uint64(1) << bits
	return &TransTable{entries: make([]TTEntry, size), mask: size - 1}
}

func (tt *TransTable) Len() int { return len(tt.entries) }

func (tt *TransTable) Clear() {
	clear(tt.entries)
	tt.generation = 0
	tt.written = 0
	tt.Hits, tt.Misses, tt.Stores = 0, 0, 0
}

// NextGeneration starts a new usage window. Entries survive; only Usage is reset.
func (tt *TransTable) NextGeneration() {
	tt.generation++
	tt.written = 0
}

// Usage is the per-mille of slots written during the current generation.
func (tt *TransTable) Usage() int {
	return tt.written * 1000 / len(tt.entries)
}

func (tt *TransTable) Probe(hash uint64) (TTEntry, bool) {
	e := tt.entries[hash&tt.mask]
	if e.Bound == BoundEmpty || e.Hash != hash {
		tt.Misses++
		return TTEntry{}, false
	}
	tt.Hits++
	return e, true
}

// Lookup returns a score usable at this node: the entry must be at least depth deep and its bound
// must settle the (alpha, beta) window.
func (tt *TransTable) Lookup(hash uint64, depth, ply int, alpha, beta int32) (int32, bool) {
	e, ok := tt.Probe(hash)
	if !ok {
		return 0, false
	}
	return e.usable(depth, ply, alpha, beta)
}

func (e TTEntry) usable(depth, ply int, alpha, beta int32) (int32, bool) {
	if int(e.Depth) < depth {
		return 0, false
	}
	score := scoreFromTT(e.Score, ply)
	switch e.Bound {
	case BoundExact:
		return score, true
	case BoundLower:
		return score, score >= beta
	case BoundUpper:
		return score, score <= alpha
	}
	return 0, false
}

func (tt *TransTable) Store(hash uint64, depth, ply int, score int32, bound Bound, move chess.Move) {
	e := &tt.entries[hash&tt.mask]
	if e.Bound == BoundEmpty || e.gen != tt.generation {
		tt.written++
	}
	*e = TTEntry{
		Hash:  hash,
		Move:  move,
		Score: scoreToTT(score, ply),
		Depth: int16(depth),
		Bound: bound,
		gen:   tt.generation,
	}
	tt.Stores++
}

// Mate scores are kept as distance from the stored node, not from the root.
func scoreToTT(score int32, ply int) int32 {
	switch {
	case score >= mateThreshold:
		return score + int32(ply)
	case score <= -mateThreshold:
		return score - int32(ply)
	}
	return score
}

func scoreFromTT(score int32, ply int) int32 {
	switch {
	case score >= mateThreshold:
		return score - int32(ply)
	case score <= -mateThreshold:
		return score + int32(ply)
	}
	return score
}
