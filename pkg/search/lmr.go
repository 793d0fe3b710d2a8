package search

import (
	"math"

	"github.com/herohde/quax/pkg/board"
)

// lmrTable holds the precomputed late-move reductions indexed by remaining
// depth and number of moves tried.
type lmrTable [MaxPly][board.MaxMoves]uint8

func newLMRTable(base, mul float64) *lmrTable {
	t := &lmrTable{}
	for depth := 1; depth < MaxPly; depth++ {
		for moves := 1; moves < board.MaxMoves; moves++ {
			r := math.Round(base + math.Log(float64(depth))*math.Log(float64(moves))*mul)
			t[depth][moves] = uint8(clamp(int(r), 0, 255))
		}
	}
	return t
}
