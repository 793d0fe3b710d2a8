package board

import "math/rand"

// ZobristHash is a position hash based on piece-squares and the side to move.
// Blocked squares never change and contribute nothing.
//
// See also: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristHash uint64

// zobristSeed fixes the key tables so positions hash identically across runs.
const zobristSeed = 0

var (
	zobristPieces [NumColors][NumSquares]ZobristHash
	zobristTurn   [NumColors]ZobristHash
)

func init() {
	r := rand.New(rand.NewSource(zobristSeed))

	for c := ZeroColor; c < NumColors; c++ {
		for sq := ZeroSquare; sq < NumSquares; sq++ {
			zobristPieces[c][sq] = ZobristHash(r.Uint64())
		}
		zobristTurn[c] = ZobristHash(r.Uint64())
	}
}

// zobristHash computes the hash for the given pieces and side to move from
// scratch: XOR over all (color, square) keys XOR the side-to-move key.
func zobristHash(red, blue Bitboard, turn Color) ZobristHash {
	var hash ZobristHash

	for bb := red; bb != 0; {
		var sq Square
		sq, bb = bb.PopFirst()
		hash ^= zobristPieces[Red][sq]
	}
	for bb := blue; bb != 0; {
		var sq Square
		sq, bb = bb.PopFirst()
		hash ^= zobristPieces[Blue][sq]
	}
	return hash ^ zobristTurn[turn]
}
