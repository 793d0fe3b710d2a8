package nnue

import (
	"github.com/herohde/quax/pkg/board"
)

// Score scale shared with the search. Evaluations are clamped strictly inside
// the win-score range, so a static evaluation can never be confused with a
// terminal score stored in the transposition table.
const (
	Infinity    = 32000
	MinWinScore = 31000
)

// Quantization constants of the network.
const (
	Scale = 400
	QA    = 255
	QB    = 64
)

// Evaluate synchronizes the accumulator with the board and runs the forward
// pass, returning a score from the side to move's point of view.
func Evaluate(acc *Accumulator, b *board.Board) int {
	acc.Update(b.Red(), b.Blue())

	us := acc.Perspective(b.Turn())
	them := acc.Perspective(b.Turn().Opponent())

	sum := flatten(us, &acc.net.OutputWeights[0]) + flatten(them, &acc.net.OutputWeights[1])

	eval := (sum/QA + int32(acc.net.OutputBias)) * Scale / (QA * QB)
	return clamp(int(eval), -MinWinScore+1, MinWinScore-1)
}

// screlu is the squared clipped ReLU activation.
func screlu(x int16) int32 {
	v := int32(clamp(int(x), 0, QA))
	return v * v
}

func flatten(acc *[HiddenSize]int16, weights *[HiddenSize]int16) int32 {
	var sum int32
	for i := 0; i < HiddenSize; i++ {
		sum += screlu(acc[i]) * int32(weights[i])
	}
	return sum
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
