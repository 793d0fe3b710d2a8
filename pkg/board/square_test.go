package board_test

import (
	"testing"

	"github.com/herohde/quax/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	assert.True(t, board.Rank1.IsValid())
	assert.True(t, board.Rank4.IsValid())
	assert.True(t, board.Rank7.IsValid())
	assert.False(t, board.Rank(7).IsValid())

	assert.Equal(t, "1", board.Rank1.String())
	assert.Equal(t, "7", board.Rank7.String())
	assert.Equal(t, "5", board.Rank(4).String())
}

func TestFile(t *testing.T) {
	assert.True(t, board.FileA.IsValid())
	assert.True(t, board.FileD.IsValid())
	assert.True(t, board.FileG.IsValid())
	assert.False(t, board.File(7).IsValid())

	assert.Equal(t, "a", board.FileA.String())
	assert.Equal(t, "g", board.FileG.String())
	assert.Equal(t, "e", board.File(4).String())
}

func TestSquare(t *testing.T) {
	assert.Equal(t, board.C2, board.NewSquare(board.FileC, board.Rank2))
	assert.Equal(t, board.G5, board.NewSquare(board.FileG, board.Rank5))

	assert.True(t, board.A1.IsValid())
	assert.True(t, board.D4.IsValid())
	assert.True(t, board.G7.IsValid())
	assert.False(t, board.Square(49).IsValid())

	assert.Equal(t, "a1", board.A1.String())
	assert.Equal(t, "g7", board.G7.String())
	assert.Equal(t, "e1", board.Square(4).String())

	sq, err := board.ParseSquareStr("b6")
	assert.NoError(t, err)
	assert.Equal(t, board.B6, sq)

	_, err = board.ParseSquareStr("h1")
	assert.Error(t, err)
	_, err = board.ParseSquareStr("a8")
	assert.Error(t, err)
}

func TestAdjacent(t *testing.T) {
	// Corner, edge and center squares have 3, 5 and 8 neighbors.
	assert.Equal(t, 3, board.Adjacent(board.A1).PopCount())
	assert.Equal(t, 3, board.Adjacent(board.G7).PopCount())
	assert.Equal(t, 5, board.Adjacent(board.D1).PopCount())
	assert.Equal(t, 8, board.Adjacent(board.D4).PopCount())

	assert.True(t, board.Adjacent(board.A1).IsSet(board.B2))
	assert.False(t, board.Adjacent(board.A1).IsSet(board.C3))
}

func TestLeaps(t *testing.T) {
	// The leap ring has 16 squares in the open, 5 in a corner.
	assert.Equal(t, 16, board.Leaps(board.D4).PopCount())
	assert.Equal(t, 5, board.Leaps(board.A1).PopCount())

	assert.True(t, board.Leaps(board.A1).IsSet(board.C3))
	assert.True(t, board.Leaps(board.A1).IsSet(board.C1))
	assert.False(t, board.Leaps(board.A1).IsSet(board.B2))

	// Adjacent and leap rings are disjoint.
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		assert.Equal(t, board.EmptyBitboard, board.Adjacent(sq)&board.Leaps(sq), "square %v", sq)
	}
}
