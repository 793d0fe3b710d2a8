package uai_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/herohde/quax/pkg/board"
	"github.com/herohde/quax/pkg/engine"
	"github.com/herohde/quax/pkg/engine/uai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// session drives the protocol loop with scripted input and collects output
// until the driver closes.
func session(t *testing.T, commands ...string) []string {
	t.Helper()

	ctx := context.Background()
	e, err := engine.New(ctx, "quax", "test", engine.WithHash(8))
	require.NoError(t, err)

	in := make(chan string, len(commands))
	for _, cmd := range commands {
		in <- cmd
	}
	close(in)

	driver, out := uai.NewDriver(ctx, e, in)

	var lines []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		for line := range out {
			lines = append(lines, line)
		}
	}()

	select {
	case <-driver.Closed():
	case <-time.After(30 * time.Second):
		t.Fatal("driver did not close")
	}
	<-done

	return lines
}

func find(lines []string, prefix string) (string, bool) {
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return line, true
		}
	}
	return "", false
}

func TestDriverHandshake(t *testing.T) {
	lines := session(t, "isready", "quit")

	_, ok := find(lines, "id name quax")
	assert.True(t, ok)
	_, ok = find(lines, "id author test")
	assert.True(t, ok)
	_, ok = find(lines, "option name Hash type spin")
	assert.True(t, ok)
	_, ok = find(lines, "uaiok")
	assert.True(t, ok)
	_, ok = find(lines, "readyok")
	assert.True(t, ok)
}

func TestDriverGo(t *testing.T) {
	lines := session(t, "position startpos", "go depth 3", "quit")

	info, ok := find(lines, "info depth 3")
	require.True(t, ok)
	assert.Contains(t, info, "score cp")
	assert.Contains(t, info, "pv")

	best, ok := find(lines, "bestmove ")
	require.True(t, ok)

	m, err := board.ParseMove(strings.TrimPrefix(best, "bestmove "))
	require.NoError(t, err)
	assert.NotEqual(t, board.Pass, m)
}

func TestDriverPositionMoves(t *testing.T) {
	lines := session(t,
		"position fen x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1 moves f1 f7",
		"d",
		"quit")

	_, ok := find(lines, "x4oo/7/2-1-2/7/2-1-2/7/o4xx x 0 2")
	assert.True(t, ok)
}

func TestDriverGameResult(t *testing.T) {
	lines := session(t,
		"position fen x6/7/7/7/7/7/7 x 0 1",
		"gameresult",
		"quit")

	_, ok := find(lines, "won(x)")
	assert.True(t, ok)
}

func TestDriverPerft(t *testing.T) {
	lines := session(t,
		"position fen 7/7/7/7/-------/-------/x5o x 0 1",
		"perft 3",
		"quit")

	_, ok := find(lines, "perft depth 3 nodes 13")
	assert.True(t, ok)
}

func TestDriverSetOptionAndBench(t *testing.T) {
	lines := session(t,
		"setoption name Hash value 4",
		"setoption name tunable_rfp_margin value 60",
		"bench 1",
		"quit")

	line, ok := find(lines, "bench depth 1 nodes ")
	require.True(t, ok)
	assert.Contains(t, line, "nps")
}

func TestDriverUnknownCommandIgnored(t *testing.T) {
	lines := session(t, "frobnicate", "isready", "quit")

	_, ok := find(lines, "readyok")
	assert.True(t, ok, "unknown commands are skipped silently")
}

func TestDriverEval(t *testing.T) {
	lines := session(t, "position startpos", "eval", "quit")

	line, ok := find(lines, "eval ")
	require.True(t, ok)
	assert.Contains(t, line, "cp")
}
