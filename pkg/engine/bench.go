package engine

import (
	"context"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/herohde/quax/pkg/search"
)

// DefaultBenchDepth is the bench depth when none is given.
const DefaultBenchDepth = 16

// benchFENs is the fixed position suite the bench searches. Both sides of
// each shape are present so the node count is color-symmetric.
var benchFENs = []string{
	"7/7/7/7/-------/-------/x5o x 0 1",
	"7/7/7/7/-------/-------/x5o o 0 1",
	"x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1",
	"x5o/7/2-1-2/7/2-1-2/7/o5x o 0 1",
	"x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1",
	"x5o/7/2-1-2/3-3/2-1-2/7/o5x o 0 1",
	"x5o/7/2-1-2/3-3/2-1-2/7/o5x x 0 1",
	"x5o/7/3-3/2-1-2/3-3/7/o5x o 0 1",
	"x5o/7/3-3/2-1-2/3-3/7/o5x x 0 1",
	"x5o/7/7/7/7/7/o5x x 0 1",
	"x5o/7/7/7/7/7/o5x o 0 1",
	"7/7/7/2x1o2/7/7/7 x 0 1",
	"7/7/7/2x1o2/7/7/7 o 0 1",
	"7/7/7/7/ooooooo/ooooooo/xxxxxxx x 0 1",
	"7/7/7/7/xxxxxxx/xxxxxxx/ooooooo o 0 1",
	"7/7/7/7/ooooooo/ooooooo/xxxxxxx o 0 1",
	"7/7/7/7/xxxxxxx/xxxxxxx/ooooooo x 0 1",
}

// BenchResult summarizes a bench run.
type BenchResult struct {
	Depth int
	Nodes uint64
	Time  time.Duration
}

// NPS returns the nodes-per-second rate of the run.
func (r BenchResult) NPS() uint64 {
	ms := r.Time.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	return r.Nodes * 1000 / uint64(ms)
}

// Bench searches the fixed suite to the given depth with a cleared state
// between positions and returns the summed node count. The count depends
// only on the search and tables, so it is stable across pure refactors.
func (e *Engine) Bench(ctx context.Context, depth int) (BenchResult, error) {
	logw.Infof(ctx, "Running bench depth %v", depth)

	limits := search.Limits{Depth: lang.Some(depth)}
	ret := BenchResult{Depth: depth}

	for _, position := range benchFENs {
		if err := e.Reset(ctx, position); err != nil {
			return BenchResult{}, err
		}

		start := time.Now()
		e.Search(ctx, limits, nil)
		ret.Time += time.Since(start)
		ret.Nodes += e.Nodes()

		e.NewGame(ctx)
	}
	return ret, nil
}
