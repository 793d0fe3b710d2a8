// Package fen contains utilities for reading and writing Ataxx positions in
// FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/herohde/quax/pkg/board"
)

const (
	Initial = "x5o/7/7/7/7/7/o5x x 0 1"
)

// Decode returns a new board from a FEN description.
//
// Example:
//
//	"x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1"
func Decode(fen string) (*board.Board, error) {
	// A record contains four fields separated by spaces: piece placement,
	// side to move, plies since the last single move, and full move number.

	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid number of sections in FEN: '%v'", fen)
	}

	// (1) Piece placement. Each rank is described starting with rank 7 and
	// ending with rank 1; within each rank, squares run from file a through
	// file g. 'x'/'r' is a red piece, 'o'/'b' a blue piece, '-' a blocker
	// and digits 1..7 denote runs of empty squares.

	rows := strings.Split(parts[0], "/")
	if len(rows) != int(board.NumRanks) {
		return nil, fmt.Errorf("invalid number of ranks in FEN: '%v'", fen)
	}

	var red, blue, gaps board.Bitboard
	for i, row := range rows {
		r := board.Rank(int(board.NumRanks) - 1 - i)
		f := board.ZeroFile
		for _, ch := range row {
			if f > board.FileG {
				return nil, fmt.Errorf("rank overflow in FEN: '%v'", fen)
			}
			sq := board.NewSquare(f, r)
			switch {
			case ch == 'x' || ch == 'r' || ch == 'X' || ch == 'R':
				red |= board.BitMask(sq)
				f++
			case ch == 'o' || ch == 'b' || ch == 'O' || ch == 'B':
				blue |= board.BitMask(sq)
				f++
			case ch == '-':
				gaps |= board.BitMask(sq)
				f++
			case unicode.IsDigit(ch):
				n := int(ch - '0')
				if n < 1 || n > 7 {
					return nil, fmt.Errorf("invalid empty run '%v' in FEN: '%v'", string(ch), fen)
				}
				f += board.File(n)
			default:
				return nil, fmt.Errorf("invalid character '%v' in FEN: '%v'", string(ch), fen)
			}
		}
		if f != board.NumFiles {
			return nil, fmt.Errorf("invalid number of squares on rank %v in FEN: '%v'", r, fen)
		}
	}

	// (2) Side to move: 'x' or 'r' is red, 'o' or 'b' is blue.

	var turn board.Color
	switch parts[1] {
	case "x", "r":
		turn = board.Red
	case "o", "b":
		turn = board.Blue
	default:
		return nil, fmt.Errorf("invalid side to move in FEN: '%v'", fen)
	}

	// (3) Plies since the last single move, for the 100-ply draw rule.

	plies, err := strconv.Atoi(parts[2])
	if err != nil || plies < 0 {
		return nil, fmt.Errorf("invalid halfmove clock in FEN: '%v'", fen)
	}

	// (4) Full move number. Starts at 1 and increments after blue moves.

	moves, err := strconv.Atoi(parts[3])
	if err != nil || moves < 0 {
		return nil, fmt.Errorf("invalid full moves in FEN: '%v'", fen)
	}

	return board.NewBoard(red, blue, gaps, turn, plies, moves), nil
}

// Encode encodes the board in FEN notation.
func Encode(b *board.Board) string {
	var sb strings.Builder

	for r := board.NumRanks; r > 0; r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			sq := board.NewSquare(f, r-1)

			var piece rune
			switch {
			case b.IsBlocked(sq):
				piece = '-'
			case b.Red().IsSet(sq):
				piece = 'x'
			case b.Blue().IsSet(sq):
				piece = 'o'
			default:
				blanks++
				continue
			}

			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(piece)
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > 1 {
			sb.WriteString("/")
		}
	}

	return fmt.Sprintf("%v %v %v %v", sb.String(), b.Turn(), b.PliesSinceSingle(), b.FullMoves())
}
