package search

import (
	"context"
	"math"
	"time"

	"github.com/herohde/quax/pkg/board"
	"github.com/herohde/quax/pkg/nnue"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"go.uber.org/atomic"
)

const (
	// Infinity and MinWinScore bound the score range, shared with the
	// evaluator: static evaluations never reach the win range.
	Infinity    = nnue.Infinity
	MinWinScore = nnue.MinWinScore

	// MaxPly bounds the search stack depth.
	MaxPly = 128

	// MaxDepth is the iterative-deepening cap when no depth limit is given.
	MaxDepth = 100

	// stopCheckInterval is how many nodes pass between clock inspections.
	stopCheckInterval = 1024
)

// Searcher runs a single-threaded principal-variation search over a board.
// It owns the transposition table, killer and history tables across searches;
// NewGame resets them.
type Searcher struct {
	tt     *TranspositionTable
	params *Params
	net    *nnue.Net

	// Info, if set, is invoked with each completed iteration.
	Info func(PV)

	b   *board.Board
	acc *nnue.Accumulator

	history historyTable
	killers [MaxPly + 1]board.Move
	evals   [MaxPly + 1]int

	lmr             *lmrTable
	lmrBase, lmrMul float64

	nodes     uint64
	seldepth  int
	rootMove  board.Move
	rootNodes [1 << 12]uint64

	start     time.Time
	hardTime  time.Duration
	useHard   bool
	hardNodes uint64
	stopped   bool

	// halt is the asynchronous stop flag for embedding hosts; the clock
	// probe inspects it alongside the context.
	halt *atomic.Bool
}

// NewSearcher returns a searcher over the given table, parameters and
// network.
func NewSearcher(tt *TranspositionTable, params *Params, net *nnue.Net) *Searcher {
	s := &Searcher{
		tt:     tt,
		params: params,
		net:    net,
		halt:   atomic.NewBool(false),
	}
	s.clearKillers()
	return s
}

// TT returns the transposition table.
func (s *Searcher) TT() *TranspositionTable {
	return s.tt
}

// Nodes returns the node count of the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Halt asynchronously aborts a running search at its next clock probe.
// Idempotent and safe from other goroutines.
func (s *Searcher) Halt() {
	s.halt.Store(true)
}

// NewGame zeroes the transposition table, killers and history. It does not
// reallocate.
func (s *Searcher) NewGame() {
	s.tt.Clear()
	s.history.clear()
	s.clearKillers()
}

// The zero Move is a real move, so empty killer slots hold NoMove.
func (s *Searcher) clearKillers() {
	for i := range s.killers {
		s.killers[i] = board.NoMove
	}
}

// Search runs iterative deepening over the board within the given limits and
// returns the best move with its score. The board is restored to its entry
// state. The returned move is from the deepest fully completed iteration; if
// depth 1 itself is aborted (only a hard node limit can trip that early), the
// first generated move is returned instead.
func (s *Searcher) Search(ctx context.Context, b *board.Board, limits Limits) (board.Move, int) {
	s.b = b
	s.acc = nnue.NewAccumulator(s.net, b.Red(), b.Blue(), b.Gaps())
	s.nodes = 0
	s.seldepth = 0
	s.rootMove = board.NoMove
	s.rootNodes = [1 << 12]uint64{}
	s.stopped = false
	s.halt.Store(false)
	s.start = time.Now()

	bgt := limits.derive(s.params)
	s.hardTime, s.useHard = bgt.hard.V()
	s.hardNodes, _ = limits.HardNodes.V()

	maxDepth := MaxDepth
	if d, ok := limits.Depth.V(); ok && d > 0 && d < MaxDepth {
		maxDepth = d
	}

	if s.lmr == nil || s.lmrBase != s.params.LMRBase || s.lmrMul != s.params.LMRMul {
		s.lmr = newLMRTable(s.params.LMRBase, s.params.LMRMul)
		s.lmrBase, s.lmrMul = s.params.LMRBase, s.params.LMRMul
	}

	bestMove := board.NoMove
	bestScore := 0

	for depth := 1; depth <= maxDepth; depth++ {
		score := s.pvs(ctx, depth, 0, -Infinity, Infinity, false)

		if s.stopped {
			break // discard the partial iteration
		}

		bestMove, bestScore = s.rootMove, score

		if s.Info != nil {
			s.Info(PV{
				Depth:    depth,
				SelDepth: s.seldepth,
				Score:    score,
				Nodes:    s.nodes,
				Time:     time.Since(s.start),
				Move:     bestMove,
			})
		}

		if soft, ok := limits.SoftNodes.V(); ok && s.nodes >= soft {
			break
		}
		if soft, ok := bgt.soft.V(); ok {
			fraction := 1.0
			if bestMove != board.Pass && s.nodes > 0 {
				fraction = float64(s.rootNodes[bestMove.Pack()]) / float64(s.nodes)
			}
			if time.Since(s.start) >= scaledSoft(soft, depth, fraction) {
				break
			}
		}
	}

	if bestMove == board.NoMove {
		// The very first iteration was aborted before it completed. Fall
		// back to the first generated move so a legal move is always played.
		logw.Warningf(ctx, "Search aborted before completing depth 1; falling back to first move")
		var list board.MoveList
		b.Generate(&list)
		bestMove = list.Get(0)
	}

	return bestMove, bestScore
}

// shouldStop is the hard-limit probe run at the top of every node. Node
// limits are exact; clock, context and halt-flag checks run every
// stopCheckInterval nodes. Nothing aborts until a root best move exists.
func (s *Searcher) shouldStop(ctx context.Context) bool {
	if s.stopped {
		return true
	}
	if s.rootMove == board.NoMove {
		return false
	}
	if s.hardNodes > 0 && s.nodes >= s.hardNodes {
		s.stopped = true
		return true
	}
	if s.nodes%stopCheckInterval == 0 {
		if s.halt.Load() || contextx.IsCancelled(ctx) {
			s.stopped = true
			return true
		}
		if s.useHard && time.Since(s.start) >= s.hardTime {
			s.stopped = true
			return true
		}
	}
	return false
}

func (s *Searcher) evaluate() int {
	return nnue.Evaluate(s.acc, s.b)
}

// pvs is the principal-variation search. Callers discard the return value
// when the search was aborted. The singular flag marks the reduced
// verification search of a singular-extension probe, which excludes the TT
// move and must not touch terminal detection, TT cutoffs or the TT store.
func (s *Searcher) pvs(ctx context.Context, depth, ply, alpha, beta int, singular bool) int {
	if s.shouldStop(ctx) {
		return 0
	}
	s.nodes++

	if ply > s.seldepth {
		s.seldepth = ply
	}

	pvNode := beta-alpha > 1

	if ply > 0 && !singular {
		switch result := s.b.Result(); result.Outcome {
		case board.Draw:
			return 0
		case board.Won:
			if result.Winner == s.b.Turn() {
				return Infinity - ply
			}
			return -(Infinity - ply)
		}
	}

	if depth <= 0 || ply >= MaxPly {
		return s.evaluate()
	}

	ttBound, ttDepth, ttScore, ttMove, ttHit := s.tt.Probe(s.b.Hash(), ply)
	if ttHit && ply > 0 && !singular && ttDepth >= depth {
		switch ttBound {
		case ExactBound:
			return ttScore
		case LowerBound:
			if ttScore >= beta {
				return ttScore
			}
		case UpperBound:
			if ttScore <= alpha {
				return ttScore
			}
		}
	}

	// The static eval of the node is saved per ply so the singular
	// verification search reuses it instead of re-running the network.
	var eval int
	if singular {
		eval = s.evals[ply]
	} else {
		eval = s.evaluate()
		s.evals[ply] = eval
	}

	// Reverse futility pruning: a shallow node comfortably above beta is
	// assumed to hold.
	if !pvNode && !singular && depth <= 6 && eval >= beta+depth*s.params.RFPMargin {
		return eval
	}

	// Internal iterative reduction: without a TT move, deep nodes are cheaper
	// to re-search later than to order blindly now.
	if (!ttHit || ttMove == board.NoMove) && depth >= 3 {
		depth--
	}

	var list board.MoveList
	var scores [board.MaxMoves]int64
	s.b.Generate(&list)
	s.scoreMoves(&list, &scores, ttMove, ply)

	stm := s.b.Turn()
	bestScore := -Infinity
	bestMove := board.NoMove
	bound := UpperBound

	var tried [board.MaxMoves]board.Move
	numTried := 0

	for i := 0; i < list.Size(); i++ {
		m, mScore := pickMove(&list, &scores, i)

		if singular && m == ttMove {
			continue
		}

		if ply > 0 && bestScore > -MinWinScore {
			// Late move pruning: remaining moves carry no ordering bonus
			// beyond history.
			if i >= 2 && mScore < int64(s.params.HistoryMax) {
				break
			}
			// Futility pruning: a shallow node too far below alpha will not
			// recover on late moves.
			if depth <= 6 && alpha < MinWinScore && i >= 3 &&
				eval+s.params.FPBase+depth*s.params.FPMul <= alpha {
				break
			}
		}

		extension := 0
		if m == ttMove && !singular && !pvNode && depth >= 6 && ttHit &&
			abs(ttScore) < MinWinScore && ttDepth >= depth-3 && ttBound != UpperBound {
			// Singular extension probe: search the remaining moves against a
			// lowered bound. If none comes close, the TT move is singular and
			// deserves an extra ply; if the reduced search already beats beta,
			// the node is a multicut.
			singularBeta := max(ttScore-depth, -Infinity)
			verification := s.pvs(ctx, (depth-1)/2, ply, singularBeta-1, singularBeta, true)

			switch {
			case verification < singularBeta:
				extension = 1
			case verification >= beta:
				return singularBeta
			case ttScore >= beta:
				extension = -1
			}
		}

		nodesBefore := s.nodes
		s.b.Make(m)

		newDepth := depth - 1 + extension
		var score int
		if i == 0 {
			score = -s.pvs(ctx, newDepth, ply+1, -beta, -alpha, false)
		} else {
			// Late move reduction: null-window probe at reduced depth,
			// re-search at full depth only on promise.
			r := 0
			if depth >= 3 && i >= 2 {
				r = int(s.lmr[min(depth, MaxPly-1)][min(i+1, board.MaxMoves-1)])
				if pvNode {
					r--
				}
				r -= int(math.Round(float64(s.history.get(stm, m)) / float64(s.params.LMRHistoryDiv)))
				r = clamp(r, 0, depth-2)
			}

			score = -s.pvs(ctx, newDepth-r, ply+1, -alpha-1, -alpha, false)
			if score > alpha && (pvNode || r > 0) {
				score = -s.pvs(ctx, newDepth, ply+1, -beta, -alpha, false)
			}
		}

		s.b.Undo()

		if ply == 0 && m != board.Pass {
			s.rootNodes[m.Pack()] += s.nodes - nodesBefore
		}
		if s.stopped {
			return 0
		}

		tried[numTried] = m
		numTried++

		if score > bestScore {
			bestScore = score
		}
		if score <= alpha {
			continue
		}

		alpha = score
		bestMove = m
		bound = ExactBound
		if ply == 0 {
			s.rootMove = m
		}

		if score < beta {
			continue
		}

		// Beta cutoff: remember the killer and shift history toward the
		// cutoff move and away from the moves tried before it.
		bound = LowerBound
		if m != board.Pass {
			s.killers[ply] = m
			s.history.bonus(stm, m, depth, s.params)
			for j := 0; j < numTried-1; j++ {
				if tried[j] != board.Pass {
					s.history.malus(stm, tried[j], depth, s.params)
				}
			}
		}
		break
	}

	if !singular {
		s.tt.Store(s.b.Hash(), ply, depth, bestScore, bestMove, bound)
	}
	return bestScore
}
