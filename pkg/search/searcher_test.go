package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/herohde/quax/pkg/board"
	"github.com/herohde/quax/pkg/board/fen"
	"github.com/herohde/quax/pkg/nnue"
	"github.com/herohde/quax/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearcher(t *testing.T) *search.Searcher {
	t.Helper()

	tt := search.NewTranspositionTable(context.Background(), 8)
	return search.NewSearcher(tt, search.NewParams(), nnue.NewDefaultNet())
}

func position(t *testing.T, position string) *board.Board {
	t.Helper()

	b, err := fen.Decode(position)
	require.NoError(t, err, position)
	return b
}

func isLegal(b *board.Board, m board.Move) bool {
	var list board.MoveList
	b.Generate(&list)
	for i := 0; i < list.Size(); i++ {
		if list.Get(i) == m {
			return true
		}
	}
	return false
}

func TestSearchFindsWipeout(t *testing.T) {
	// Blue has a single piece within leaping reach of red; any conversion
	// wins on the spot.
	s := newSearcher(t)
	b := position(t, "7/7/7/2o4/7/7/x6 x 0 1")

	move, score := s.Search(context.Background(), b, search.Limits{Depth: lang.Some(4)})

	require.True(t, isLegal(b, move))
	b.Make(move)
	assert.Equal(t, board.Result{Outcome: board.Won, Winner: board.Red}, b.Result())
	assert.GreaterOrEqual(t, score, search.MinWinScore)
}

func TestSearchInitialScoreNotDecisive(t *testing.T) {
	s := newSearcher(t)
	b := position(t, fen.Initial)

	move, score := s.Search(context.Background(), b, search.Limits{Depth: lang.Some(5)})

	assert.True(t, isLegal(b, move))
	assert.Less(t, score, search.MinWinScore)
	assert.Greater(t, score, -search.MinWinScore)
}

func TestSearchRestoresBoard(t *testing.T) {
	s := newSearcher(t)
	b := position(t, "x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1")
	hash := b.Hash()
	ply := b.Ply()

	s.Search(context.Background(), b, search.Limits{Depth: lang.Some(5)})

	assert.Equal(t, hash, b.Hash())
	assert.Equal(t, ply, b.Ply())
}

func TestSearchDeterministic(t *testing.T) {
	s := newSearcher(t)
	limits := search.Limits{Depth: lang.Some(6)}

	b1 := position(t, "x5o/7/3-3/2-1-2/3-3/7/o5x x 0 1")
	m1, score1 := s.Search(context.Background(), b1, limits)
	nodes1 := s.Nodes()

	s.NewGame()

	b2 := position(t, "x5o/7/3-3/2-1-2/3-3/7/o5x x 0 1")
	m2, score2 := s.Search(context.Background(), b2, limits)

	assert.Equal(t, m1, m2)
	assert.Equal(t, score1, score2)
	assert.Equal(t, nodes1, s.Nodes())
}

func TestSearchMoveTime(t *testing.T) {
	s := newSearcher(t)
	b := position(t, fen.Initial)

	start := time.Now()
	move, _ := s.Search(context.Background(), b, search.Limits{
		MoveTime: lang.Some(200 * time.Millisecond),
	})
	elapsed := time.Since(start)

	assert.True(t, isLegal(b, move))
	assert.Less(t, elapsed, 300*time.Millisecond)
}

func TestSearchHardNodes(t *testing.T) {
	s := newSearcher(t)
	b := position(t, fen.Initial)

	move, _ := s.Search(context.Background(), b, search.Limits{
		HardNodes: lang.Some(uint64(2000)),
	})

	assert.True(t, isLegal(b, move))
	// The cap is checked at every node once a root move exists.
	assert.LessOrEqual(t, s.Nodes(), uint64(2100))
}

func TestSearchSoftNodes(t *testing.T) {
	s := newSearcher(t)
	b := position(t, fen.Initial)

	move, _ := s.Search(context.Background(), b, search.Limits{
		SoftNodes: lang.Some(uint64(5000)),
		HardNodes: lang.Some(uint64(1000000)),
	})

	assert.True(t, isLegal(b, move))
}

func TestSearchCancelled(t *testing.T) {
	s := newSearcher(t)
	b := position(t, fen.Initial)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context still yields a legal move: depth 1 always
	// completes before aborts are honored.
	move, _ := s.Search(ctx, b, search.Limits{})
	assert.True(t, isLegal(b, move))
}

func TestSearchHalt(t *testing.T) {
	s := newSearcher(t)
	b := position(t, fen.Initial)

	done := make(chan board.Move, 1)
	go func() {
		move, _ := s.Search(context.Background(), b, search.Limits{})
		done <- move
	}()

	time.Sleep(50 * time.Millisecond)
	s.Halt()

	select {
	case move := <-done:
		assert.True(t, isLegal(b, move))
	case <-time.After(5 * time.Second):
		t.Fatal("halt did not stop the search")
	}
}

func TestSearchOnlyPass(t *testing.T) {
	// Red is walled in while blue is still mobile: the game is ongoing and
	// the only legal move is a pass.
	s := newSearcher(t)
	b := position(t, "6o/7/7/7/-------/-------/x------ x 0 1")
	require.Equal(t, board.Ongoing, b.Result().Outcome)

	move, _ := s.Search(context.Background(), b, search.Limits{Depth: lang.Some(3)})
	assert.Equal(t, board.Pass, move)
}

func TestSearchInfoCallback(t *testing.T) {
	s := newSearcher(t)
	b := position(t, fen.Initial)

	var pvs []search.PV
	s.Info = func(pv search.PV) { pvs = append(pvs, pv) }
	defer func() { s.Info = nil }()

	s.Search(context.Background(), b, search.Limits{Depth: lang.Some(5)})

	require.Len(t, pvs, 5)
	for i, pv := range pvs {
		assert.Equal(t, i+1, pv.Depth)
		assert.True(t, isLegal(b, pv.Move))
		assert.Contains(t, pv.String(), "info depth")
	}
	// Node counts are cumulative across iterations.
	for i := 1; i < len(pvs); i++ {
		assert.GreaterOrEqual(t, pvs[i].Nodes, pvs[i-1].Nodes)
	}
}
