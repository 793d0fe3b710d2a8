// Package search contains the iterative-deepening principal-variation search
// with its move ordering, pruning heuristics, transposition table and time
// management.
package search

import (
	"fmt"
	"time"

	"github.com/herohde/quax/pkg/board"
)

// PV represents the result of one completed search iteration.
type PV struct {
	Depth    int
	SelDepth int
	Score    int
	Nodes    uint64
	Time     time.Duration
	Move     board.Move
}

// NPS returns the nodes-per-second rate of the iteration.
func (p PV) NPS() uint64 {
	ms := p.Time.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	return p.Nodes * 1000 / uint64(ms)
}

func (p PV) String() string {
	// "info depth 8 seldepth 14 score cp 23 time 42 nodes 65043 nps 1548642 pv g1f3"
	return fmt.Sprintf("info depth %v seldepth %v score cp %v time %v nodes %v nps %v pv %v",
		p.Depth, p.SelDepth, p.Score, p.Time.Milliseconds(), p.Nodes, p.NPS(), p.Move)
}
