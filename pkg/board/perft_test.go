package board_test

import (
	"testing"

	"github.com/herohde/quax/pkg/board"
	"github.com/stretchr/testify/assert"
)

// Ground truths cross-checked against other Ataxx move generators.
func TestPerft(t *testing.T) {
	tests := []struct {
		position string
		counts   []uint64
	}{
		{"7/7/7/7/-------/-------/x5o x 0 1", []uint64{2, 4, 13, 30, 73, 174}},
		{"x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1", []uint64{14, 196, 4184, 86528, 2266352}},
		{"x5o/7/3-3/2-1-2/3-3/7/o5x x 0 1", []uint64{16, 256, 5948, 133264, 3639856}},
		{"7/7/7/2x1o2/7/7/7 x 0 1", []uint64{23, 419, 7887, 168317, 4266992}},
		{"7/7/7/7/ooooooo/ooooooo/xxxxxxx x 0 1", []uint64{1, 75, 249, 14270, 452980}},
	}

	for _, tt := range tests {
		b := decode(t, tt.position)
		for i, expected := range tt.counts {
			depth := i + 1
			assert.Equal(t, expected, board.Perft(b, depth), "%v depth %v", tt.position, depth)
		}
	}
}

func TestPerftZero(t *testing.T) {
	b := decode(t, "x5o/7/7/7/7/7/o5x x 0 1")
	assert.Equal(t, uint64(1), board.Perft(b, 0))
}

func TestPerftSplitSumsToPerft(t *testing.T) {
	b := decode(t, "x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1")

	split := board.PerftSplit(b, 3)
	assert.Len(t, split, 14)

	var total uint64
	for _, n := range split {
		total += n
	}
	assert.Equal(t, board.Perft(b, 3), total)
}
