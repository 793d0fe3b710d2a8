// Package datagen generates NNUE training data by self-play from randomized
// openings. The search does no I/O of its own; this package owns the output
// files.
package datagen

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/herohde/quax/pkg/board"
	"github.com/herohde/quax/pkg/board/fen"
	"github.com/herohde/quax/pkg/nnue"
	"github.com/herohde/quax/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

const (
	minRandomPlies = 14
	maxRandomPlies = 17

	softNodes = 5000
	hardNodes = 1000000

	// Openings searched as more lopsided than this are discarded.
	maxOpeningScore = 200
	// Games are adjudicated once one side is winning by this much.
	adjudicationScore = 4000
)

// Options configure a data-generation run.
type Options struct {
	// Dir is the output directory. Created if absent.
	Dir string
	// Games caps the number of games. Zero means run until cancelled.
	Games int
	// Seed fixes the opening randomization.
	Seed int64
}

// Run plays self-play games from random openings and appends one line per
// position to a randomly named file under the output directory:
//
//	<fen> | <move> | <score red pov> | <wdl red pov>
//
// Runs until the context is cancelled or the game cap is reached.
func Run(ctx context.Context, params *search.Params, net *nnue.Net, opt Options) error {
	if opt.Dir == "" {
		opt.Dir = "data"
	}
	if err := os.MkdirAll(opt.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %v", err)
	}

	rnd := rand.New(rand.NewSource(opt.Seed))
	path := filepath.Join(opt.Dir, fmt.Sprintf("%08x.txt", rnd.Uint32()))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %v", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	tt := search.NewTranspositionTable(ctx, search.DefaultHashMB)
	searcher := search.NewSearcher(tt, params, net)
	limits := search.Limits{
		SoftNodes: lang.Some(uint64(softNodes)),
		HardNodes: lang.Some(uint64(hardNodes)),
	}

	var positions, games uint64
	start := time.Now()

	for !contextx.IsCancelled(ctx) {
		if opt.Games > 0 && int(games) >= opt.Games {
			break
		}

		b, ok := randomOpening(ctx, searcher, rnd)
		if !ok {
			continue
		}

		searcher.NewGame()

		type record struct {
			fen   string
			move  board.Move
			score int
		}
		var lines []record
		var result board.Result

		for {
			move, score := searcher.Search(ctx, b, limits)

			if score >= adjudicationScore || score <= -adjudicationScore {
				winner := b.Turn()
				if score < 0 {
					winner = winner.Opponent()
				}
				result = board.Result{Outcome: board.Won, Winner: winner}
				break
			}

			redScore := score
			if b.Turn() == board.Blue {
				redScore = -score
			}
			lines = append(lines, record{fen: fen.Encode(b), move: move, score: redScore})

			b.Make(move)
			if result = b.Result(); result.Outcome != board.Ongoing {
				break
			}
		}

		// 100-ply draws are noise, not signal.
		if result.Outcome == board.Draw && b.PliesSinceSingle() >= 100 {
			continue
		}

		wdl := "0.5"
		switch result.Winner {
		case board.Red:
			wdl = "1.0"
		case board.Blue:
			wdl = "0.0"
		}

		for _, l := range lines {
			fmt.Fprintf(w, "%v | %v | %v | %v\n", l.fen, l.move, l.score, wdl)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("failed to write %v: %v", path, err)
		}

		games++
		positions += uint64(len(lines))
		elapsed := time.Since(start).Seconds()
		if elapsed > 0 {
			logw.Infof(ctx, "%v | games: %v | positions: %v | positions/sec: %.0f",
				path, games, positions, float64(positions)/elapsed)
		}
	}
	return nil
}

// randomOpening plays random moves from the start position and keeps the
// result only if it is quiet, ongoing and roughly balanced.
func randomOpening(ctx context.Context, searcher *search.Searcher, rnd *rand.Rand) (*board.Board, bool) {
	b, err := fen.Decode(fen.Initial)
	if err != nil {
		panic(err)
	}

	plies := minRandomPlies + rnd.Intn(maxRandomPlies-minRandomPlies+1)
	var list board.MoveList

	for i := 0; i < plies; i++ {
		b.Generate(&list)
		m := list.Get(rnd.Intn(list.Size()))
		if m == board.Pass {
			return nil, false
		}
		b.Make(m)
		if b.Result().Outcome != board.Ongoing {
			return nil, false
		}
	}

	searcher.NewGame()
	_, score := searcher.Search(ctx, b, search.Limits{
		SoftNodes: lang.Some(uint64(softNodes)),
		HardNodes: lang.Some(uint64(hardNodes)),
	})
	if score > maxOpeningScore || score < -maxOpeningScore {
		return nil, false
	}
	return b, true
}

// GenerateOpenings writes balanced unique opening FENs of the given ply depth
// to a file, one per line.
func GenerateOpenings(ctx context.Context, params *search.Params, net *nnue.Net, path string, plies, count int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %v: %v", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	tt := search.NewTranspositionTable(ctx, search.DefaultHashMB)
	searcher := search.NewSearcher(tt, params, net)
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	seen := make(map[board.ZobristHash]bool)

	for len(seen) < count && !contextx.IsCancelled(ctx) {
		b, err := fen.Decode(fen.Initial)
		if err != nil {
			panic(err)
		}

		var list board.MoveList
		ok := true
		for i := 0; i < plies; i++ {
			b.Generate(&list)
			m := list.Get(rnd.Intn(list.Size()))
			if m == board.Pass {
				ok = false
				break
			}
			b.Make(m)
			if b.Result().Outcome != board.Ongoing {
				ok = false
				break
			}
		}
		if !ok || !b.HasMove() || seen[b.Hash()] {
			continue
		}

		searcher.NewGame()
		_, score := searcher.Search(ctx, b, search.Limits{
			SoftNodes: lang.Some(uint64(softNodes)),
			HardNodes: lang.Some(uint64(hardNodes)),
		})
		if score > maxOpeningScore || score < -maxOpeningScore {
			continue
		}

		seen[b.Hash()] = true
		fmt.Fprintln(w, fen.Encode(b))
		logw.Infof(ctx, "%v | openings written: %v", path, len(seen))
	}
	return w.Flush()
}
