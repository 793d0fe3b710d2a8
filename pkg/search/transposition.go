package search

import (
	"context"
	"unsafe"

	"github.com/herohde/quax/pkg/board"
	"github.com/herohde/quax/pkg/nnue"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score.
type Bound uint8

const (
	NoBound Bound = iota
	ExactBound
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case NoBound:
		return "None"
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// entry is a packed transposition-table record: full hash, score, depth, and
// the best move and bound packed into 16 bits (low 12 bits move, high 2 bits
// bound).
type entry struct {
	hash         board.ZobristHash
	score        int16
	depth        uint8
	moveAndBound uint16
}

func (e *entry) move() board.Move {
	return board.UnpackMove(e.moveAndBound & 0x0fff)
}

func (e *entry) bound() Bound {
	return Bound(e.moveAndBound >> 14)
}

const DefaultHashMB = 32

// TranspositionTable caches search results across transpositions. It is
// open-addressed with single-entry buckets indexed by hash modulo size, and
// replaces unconditionally. Owned by a single searcher; probes and writes are
// not synchronized.
type TranspositionTable struct {
	entries []entry
}

// NewTranspositionTable allocates a table of the given size.
func NewTranspositionTable(ctx context.Context, sizeMB int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(ctx, sizeMB)
	return tt
}

// Resize reallocates the table to the given size, dropping all entries.
func (t *TranspositionTable) Resize(ctx context.Context, sizeMB int) {
	n := sizeMB << 20 / int(unsafe.Sizeof(entry{}))
	if n < 1 {
		n = 1
	}
	t.entries = make([]entry, n)

	logw.Infof(ctx, "Allocated %vMB TT with %v entries", sizeMB, n)
}

// Clear zeroes all entries in place without reallocating.
func (t *TranspositionTable) Clear() {
	for i := range t.entries {
		t.entries[i] = entry{}
	}
}

// Size returns the number of slots.
func (t *TranspositionTable) Size() int {
	return len(t.entries)
}

// Probe returns the bound, depth, ply-adjusted score and best move stored for
// the given hash, if present. A hit requires full-hash equality.
func (t *TranspositionTable) Probe(hash board.ZobristHash, ply int) (Bound, int, int, board.Move, bool) {
	e := &t.entries[uint64(hash)%uint64(len(t.entries))]
	if e.hash != hash || e.bound() == NoBound {
		return NoBound, 0, 0, board.NoMove, false
	}
	return e.bound(), int(e.depth), scoreFromTT(int(e.score), ply), e.move(), true
}

// Store writes the entry for the given hash, mate-adjusting the score so that
// win distances stay comparable across transpositions.
func (t *TranspositionTable) Store(hash board.ZobristHash, ply, depth, score int, move board.Move, bound Bound) {
	e := &t.entries[uint64(hash)%uint64(len(t.entries))]
	*e = entry{
		hash:         hash,
		score:        int16(scoreToTT(score, ply)),
		depth:        uint8(depth),
		moveAndBound: move.Pack() | uint16(bound)<<14,
	}
}

// scoreToTT removes the distance-to-root from decisive scores on write.
func scoreToTT(score, ply int) int {
	if score >= nnue.MinWinScore {
		return score + ply
	}
	if score <= -nnue.MinWinScore {
		return score - ply
	}
	return score
}

// scoreFromTT restores the distance-to-root on read. Inverse of scoreToTT.
func scoreFromTT(score, ply int) int {
	if score >= nnue.MinWinScore {
		return score - ply
	}
	if score <= -nnue.MinWinScore {
		return score + ply
	}
	return score
}
