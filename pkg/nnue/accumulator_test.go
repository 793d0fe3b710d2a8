package nnue_test

import (
	"math/rand"
	"testing"

	"github.com/herohde/quax/pkg/board"
	"github.com/herohde/quax/pkg/board/fen"
	"github.com/herohde/quax/pkg/nnue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, position string) *board.Board {
	t.Helper()

	b, err := fen.Decode(position)
	require.NoError(t, err, position)
	return b
}

// TestAccumulatorIncremental verifies that an accumulator maintained across a
// random game evaluates identically to one built from scratch at every
// position, including after undos.
func TestAccumulatorIncremental(t *testing.T) {
	net := nnue.NewDefaultNet()
	r := rand.New(rand.NewSource(3))

	for _, position := range []string{
		fen.Initial,
		"x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1",
		"x5o/7/3-3/2-1-2/3-3/7/o5x o 0 1",
	} {
		b := decode(t, position)
		acc := nnue.NewAccumulator(net, b.Red(), b.Blue(), b.Gaps())

		var list board.MoveList
		for ply := 0; ply < 80; ply++ {
			if b.Result().Outcome != board.Ongoing {
				break
			}
			b.Generate(&list)
			m := list.Get(r.Intn(list.Size()))
			b.Make(m)

			if ply%3 == 0 {
				// Exercise the undo path: the lazy diff must recover.
				b.Undo()
				b.Make(m)
			}

			fresh := nnue.NewAccumulator(net, b.Red(), b.Blue(), b.Gaps())
			assert.Equal(t, nnue.Evaluate(fresh, b), nnue.Evaluate(acc, b),
				"%v ply %v move %v", position, ply, m)
		}
	}
}

func TestEvaluateBounds(t *testing.T) {
	net := nnue.NewDefaultNet()

	positions := []string{
		fen.Initial,
		"xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx/ooooooo/ooooooo/ooooooo x 0 1",
		"x6/7/7/7/7/7/7 o 0 1",
		"7/7/7/2x1o2/7/7/7 x 0 1",
	}

	for _, position := range positions {
		b := decode(t, position)
		acc := nnue.NewAccumulator(net, b.Red(), b.Blue(), b.Gaps())

		eval := nnue.Evaluate(acc, b)
		assert.Greater(t, eval, -nnue.MinWinScore, position)
		assert.Less(t, eval, nnue.MinWinScore, position)
	}
}

// TestEvaluateStability verifies that repeated evaluation of an unchanged
// position is a fixed point of the lazy accumulator synchronization.
func TestEvaluateStability(t *testing.T) {
	net := nnue.NewDefaultNet()
	b := decode(t, "x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1")
	acc := nnue.NewAccumulator(net, b.Red(), b.Blue(), b.Gaps())

	first := nnue.Evaluate(acc, b)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, nnue.Evaluate(acc, b))
	}
}

func TestBlockersShiftActivations(t *testing.T) {
	net := nnue.NewDefaultNet()

	open := decode(t, "x5o/7/7/7/7/7/o5x x 0 1")
	blocked := decode(t, "x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1")

	openAcc := nnue.NewAccumulator(net, open.Red(), open.Blue(), open.Gaps())
	blockedAcc := nnue.NewAccumulator(net, blocked.Red(), blocked.Blue(), blocked.Gaps())

	// The blocker plane feeds both perspectives; with the built-in weights
	// the two positions must not collapse to the same activation state.
	assert.NotEqual(t, openAcc, blockedAcc)
}
