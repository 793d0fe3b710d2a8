package search

import (
	"github.com/herohde/quax/pkg/board"
)

// ttMoveScore orders the transposition-table move before everything else.
const ttMoveScore = int64(1) << 60

// historyTable holds per-move butterfly history, indexed by side to move,
// origin and destination. Values stay within [-HistoryMax, HistoryMax] by the
// gravity update. Pass never enters the table.
type historyTable [board.NumColors][board.NumSquares][board.NumSquares]int32

func (h *historyTable) get(c board.Color, m board.Move) int32 {
	return h[c][m.From][m.To]
}

// bonus rewards a cutoff move, gravitating toward +max.
func (h *historyTable) bonus(c board.Color, m board.Move, depth int, p *Params) {
	bonus := int32(min(depth*p.BonusMul, p.BonusMax))
	v := h[c][m.From][m.To]
	h[c][m.From][m.To] = v + bonus - bonus*v/int32(p.HistoryMax)
}

// malus punishes a move tried before the cutoff, gravitating toward -max.
func (h *historyTable) malus(c board.Color, m board.Move, depth int, p *Params) {
	malus := int32(min(depth*p.MalusMul, p.MalusMax))
	v := h[c][m.From][m.To]
	h[c][m.From][m.To] = v - malus - malus*v/int32(p.HistoryMax)
}

func (h *historyTable) clear() {
	*h = historyTable{}
}

// scoreMoves assigns ordering scores: the TT move first, then captures and
// growth moves scaled far above history, then killer, then per-move history.
func (s *Searcher) scoreMoves(list *board.MoveList, scores *[board.MaxMoves]int64, ttMove board.Move, ply int) {
	stm := s.b.Turn()

	for i := 0; i < list.Size(); i++ {
		m := list.Get(i)
		switch {
		case m == ttMove:
			scores[i] = ttMoveScore
		case m == board.Pass:
			scores[i] = 0
		default:
			good := s.b.NumAdjacentEnemies(m.To)
			if m.IsSingle() {
				good += s.params.BonusSingle
			}
			score := int64(good)*int64(s.params.GoodMoveScale) + int64(s.history.get(stm, m))
			if m == s.killers[ply] {
				score += int64(s.params.KillerBonus)
			}
			scores[i] = score
		}
	}
}

// pickMove selects the max-scoring remaining move and swaps it into slot i.
// Incremental selection sort: the list stays partially sorted so early
// cutoffs never pay for a full sort.
func pickMove(list *board.MoveList, scores *[board.MaxMoves]int64, i int) (board.Move, int64) {
	for j := i + 1; j < list.Size(); j++ {
		if scores[j] > scores[i] {
			list.Swap(i, j)
			scores[i], scores[j] = scores[j], scores[i]
		}
	}
	return list.Get(i), scores[i]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
