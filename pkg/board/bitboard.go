package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a bit-wise representation of the 7x7 board. Each bit represents
// the appearance of some piece on that square (bit 0 = A1, bit 48 = G7; the
// upper 15 bits are always zero). It relies on CPU support for popcount and
// bitscan.
type Bitboard uint64

const (
	EmptyBitboard Bitboard = 0
	FullBitboard  Bitboard = (1 << 49) - 1
)

func (b Bitboard) IsSet(sq Square) bool {
	return b&BitMask(sq) != 0
}

// PopCount returns the population count of the bitboard, i.e., number of 1s.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// FirstSquare returns the index of the least-significant 1. Returns 64 if zero.
func (b Bitboard) FirstSquare() Square {
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopFirst returns the least-significant 1 and the bitboard with it cleared.
func (b Bitboard) PopFirst() (Square, Bitboard) {
	return b.FirstSquare(), b & (b - 1)
}

func (b Bitboard) String() string {
	var sb strings.Builder
	for r := NumRanks; r > 0; r-- {
		for f := ZeroFile; f < NumFiles; f++ {
			if b.IsSet(NewSquare(f, r-1)) {
				sb.WriteRune('X')
			} else {
				sb.WriteRune('-')
			}
		}
		if r > 1 {
			sb.WriteRune('/')
		}
	}
	return sb.String()
}

// BitMask returns a bitboard with the given square populated.
func BitMask(sq Square) Bitboard {
	return Bitboard(1 << sq)
}

// Adjacent returns the mask of squares at Chebyshev distance 1 of sq, i.e.
// the up-to-eight growth targets of a piece on sq.
func Adjacent(sq Square) Bitboard {
	return adjacent[sq]
}

// Leaps returns the mask of squares at Chebyshev distance exactly 2 of sq,
// i.e. the up-to-sixteen jump targets of a piece on sq.
func Leaps(sq Square) Bitboard {
	return leaps[sq]
}

var (
	adjacent [NumSquares]Bitboard
	leaps    [NumSquares]Bitboard
)

func init() {
	// Build masks by walking the offset rings and cropping at the edges.

	adjacentOffsets := [8][2]int{
		{0, 1}, {0, -1}, {1, 0}, {-1, 0},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	leapOffsets := [16][2]int{
		{0, 2}, {0, -2}, {2, 0}, {-2, 0},
		{2, 2}, {2, -2}, {-2, 2}, {-2, -2},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	}

	for sq := ZeroSquare; sq < NumSquares; sq++ {
		r, f := sq.Rank().V(), sq.File().V()
		for _, o := range adjacentOffsets {
			if r2, f2 := r+o[0], f+o[1]; r2 >= 0 && r2 <= 6 && f2 >= 0 && f2 <= 6 {
				adjacent[sq] |= BitMask(NewSquare(File(f2), Rank(r2)))
			}
		}
		for _, o := range leapOffsets {
			if r2, f2 := r+o[0], f+o[1]; r2 >= 0 && r2 <= 6 && f2 >= 0 && f2 <= 6 {
				leaps[sq] |= BitMask(NewSquare(File(f2), Rank(r2)))
			}
		}
	}
}
