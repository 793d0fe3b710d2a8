// Package engine encapsulates game-playing logic: board, evaluator and search
// behind a single facade the protocol drivers talk to.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/herohde/quax/pkg/board"
	"github.com/herohde/quax/pkg/board/fen"
	"github.com/herohde/quax/pkg/nnue"
	"github.com/herohde/quax/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 4, 1)

// Options are engine creation options.
type Options struct {
	// Hash is the transposition table size in MB.
	Hash int
	// NetPath is an optional network file. If empty, the built-in network
	// is used.
	NetPath string
}

func (o Options) String() string {
	return fmt.Sprintf("{hash=%vMB, net=%v}", o.Hash, o.NetPath)
}

// Option is an engine creation option.
type Option func(*Options)

// WithHash sets the transposition table size in MB.
func WithHash(mb int) Option {
	return func(o *Options) {
		o.Hash = mb
	}
}

// WithNet configures the engine to load the given network file.
func WithNet(path string) Option {
	return func(o *Options) {
		o.NetPath = path
	}
}

// Engine drives the search over the current game position. Not safe for
// concurrent searches; the single driver goroutine issues one command at a
// time.
type Engine struct {
	name, author string
	opts         Options

	params   *search.Params
	net      *nnue.Net
	tt       *search.TranspositionTable
	searcher *search.Searcher

	b  *board.Board
	mu sync.Mutex
}

// New creates an engine at the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) (*Engine, error) {
	opt := Options{Hash: search.DefaultHashMB}
	for _, fn := range opts {
		fn(&opt)
	}

	net := nnue.NewDefaultNet()
	if opt.NetPath != "" {
		f, err := os.Open(opt.NetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open network: %v", err)
		}
		defer f.Close()

		net, err = nnue.Load(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load network '%v': %v", opt.NetPath, err)
		}
		logw.Infof(ctx, "Loaded network: %v", opt.NetPath)
	}

	e := &Engine{
		name:   name,
		author: author,
		opts:   opt,
		params: search.NewParams(),
		net:    net,
		tt:     search.NewTranspositionTable(ctx, opt.Hash),
	}
	e.searcher = search.NewSearcher(e.tt, e.params, e.net)

	if err := e.Reset(ctx, fen.Initial); err != nil {
		return nil, err
	}

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e, nil
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

// Params returns the tunable parameter registry.
func (e *Engine) Params() *search.Params {
	return e.params
}

// Net returns the loaded network.
func (e *Engine) Net() *nnue.Net {
	return e.net
}

// Board returns the current board.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.b)
}

// Reset resets the engine to a new starting position in FEN format.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.b = b

	logw.Debugf(ctx, "New board: %v", e.b)
	return nil
}

// Move applies the given move in UAI notation, usually an opponent move.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %v", err)
	}

	var list board.MoveList
	e.b.Generate(&list)
	for i := 0; i < list.Size(); i++ {
		if list.Get(i) == candidate {
			e.b.Make(candidate)
			return nil
		}
	}
	return fmt.Errorf("illegal move: %v", candidate)
}

// NewGame clears the transposition table, killers and history for a fresh
// game. Allocations are retained.
func (e *Engine) NewGame(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.searcher.NewGame()
	logw.Debugf(ctx, "New game")
}

// SetOption updates a named option: "Hash" resizes the transposition table
// and tunable parameters update the registry.
func (e *Engine) SetOption(ctx context.Context, name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.EqualFold(name, "Hash") {
		var mb int
		if _, err := fmt.Sscanf(value, "%d", &mb); err != nil || mb < 1 {
			return fmt.Errorf("invalid Hash value: '%v'", value)
		}
		e.tt.Resize(ctx, mb)
		return nil
	}
	return e.params.Set(name, value)
}

// Search runs a synchronous search over the current position within the
// given limits, invoking info with each completed iteration. It returns the
// best move and its score.
func (e *Engine) Search(ctx context.Context, limits search.Limits, info func(search.PV)) (board.Move, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Debugf(ctx, "Search %v, limits=%v", e.b, limits)

	e.searcher.Info = info
	defer func() { e.searcher.Info = nil }()

	return e.searcher.Search(ctx, e.b, limits)
}

// Halt aborts a running search at its next clock probe. Safe to call from
// another goroutine.
func (e *Engine) Halt() {
	e.searcher.Halt()
}

// Nodes returns the node count of the last search.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// Evaluate returns the static evaluation of the current position from the
// side to move's point of view.
func (e *Engine) Evaluate() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc := nnue.NewAccumulator(e.net, e.b.Red(), e.b.Blue(), e.b.Gaps())
	return nnue.Evaluate(acc, e.b)
}

// Result returns the terminal classification of the current position.
func (e *Engine) Result() board.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Result()
}
