package nnue

import (
	"github.com/herohde/quax/pkg/board"
)

// Accumulator holds the hidden-layer sums for both perspectives. Each vector
// equals the feature biases plus the weight column of every piece index
// relative to that perspective, plus one shared column per blocker.
//
// The accumulator synchronizes itself against the board's piece bitboards:
// Update applies the set difference since the last synchronization, so each
// piece appearance or disappearance touches its weight row exactly once no
// matter how the search reached the position. Blockers never change after
// construction.
type Accumulator struct {
	net *Net

	red  [HiddenSize]int16
	blue [HiddenSize]int16

	lastRed, lastBlue board.Bitboard
}

// NewAccumulator returns an accumulator over the given piece and blocker
// bitboards.
func NewAccumulator(net *Net, red, blue, gaps board.Bitboard) *Accumulator {
	acc := &Accumulator{
		net:      net,
		lastRed:  red,
		lastBlue: blue,
	}
	copy(acc.red[:], net.FeatureBiases[:])
	copy(acc.blue[:], net.FeatureBiases[:])

	for bb := red; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopFirst()
		acc.addPiece(board.Red, sq)
	}
	for bb := blue; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopFirst()
		acc.addPiece(board.Blue, sq)
	}
	for bb := gaps; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopFirst()
		acc.activateBlocker(sq)
	}
	return acc
}

// Update synchronizes the accumulator with the given piece bitboards.
func (a *Accumulator) Update(red, blue board.Bitboard) {
	addRed := red &^ a.lastRed
	subRed := a.lastRed &^ red
	addBlue := blue &^ a.lastBlue
	subBlue := a.lastBlue &^ blue

	a.lastRed, a.lastBlue = red, blue

	for bb := addRed; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopFirst()
		a.addPiece(board.Red, sq)
	}
	for bb := subRed; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopFirst()
		a.subPiece(board.Red, sq)
	}
	for bb := addBlue; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopFirst()
		a.addPiece(board.Blue, sq)
	}
	for bb := subBlue; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopFirst()
		a.subPiece(board.Blue, sq)
	}
}

// Perspective returns the hidden-layer vector as seen by the given color.
func (a *Accumulator) Perspective(c board.Color) *[HiddenSize]int16 {
	if c == board.Red {
		return &a.red
	}
	return &a.blue
}

// A piece of color c on square sq activates input c*49+sq in the
// red-perspective vector and opp(c)*49+sq in the blue-perspective vector.
func (a *Accumulator) addPiece(c board.Color, sq board.Square) {
	addRow(&a.red, a.net.featureRow(int(c)*49+int(sq)))
	addRow(&a.blue, a.net.featureRow(int(c.Opponent())*49+int(sq)))
}

func (a *Accumulator) subPiece(c board.Color, sq board.Square) {
	subRow(&a.red, a.net.featureRow(int(c)*49+int(sq)))
	subRow(&a.blue, a.net.featureRow(int(c.Opponent())*49+int(sq)))
}

// Blocker columns are perspective-invariant and feed both vectors.
func (a *Accumulator) activateBlocker(sq board.Square) {
	row := a.net.featureRow(blockerOffset + int(sq))
	addRow(&a.red, row)
	addRow(&a.blue, row)
}

func addRow(acc *[HiddenSize]int16, row []int16) {
	for i := 0; i < HiddenSize; i++ {
		acc[i] += row[i]
	}
}

func subRow(acc *[HiddenSize]int16, row []int16) {
	for i := 0; i < HiddenSize; i++ {
		acc[i] -= row[i]
	}
}
