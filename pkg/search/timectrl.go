package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
)

// Limits hold the budget for a single search. Absent optionals mean no limit
// of that kind.
type Limits struct {
	// Depth, if set, caps the iterative-deepening depth.
	Depth lang.Optional[int]
	// MoveTime, if set, spends (almost) exactly this long on the move.
	MoveTime lang.Optional[time.Duration]
	// Remaining, if set, is the game clock for the side to move. Increment
	// is added per move.
	Remaining lang.Optional[time.Duration]
	Increment time.Duration
	// SoftNodes stops iterating once exceeded between iterations; HardNodes
	// aborts the search outright.
	SoftNodes lang.Optional[uint64]
	HardNodes lang.Optional[uint64]
}

func (l Limits) String() string {
	var ret []string
	if v, ok := l.Depth.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := l.MoveTime.V(); ok {
		ret = append(ret, fmt.Sprintf("movetime=%v", v))
	}
	if v, ok := l.Remaining.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v+%v", v, l.Increment))
	}
	if v, ok := l.SoftNodes.V(); ok {
		ret = append(ret, fmt.Sprintf("softnodes=%v", v))
	}
	if v, ok := l.HardNodes.V(); ok {
		ret = append(ret, fmt.Sprintf("hardnodes=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// budget is the derived time allocation: the hard limit aborts the search
// mid-iteration, the soft limit only stops new iterations from starting.
type budget struct {
	hard lang.Optional[time.Duration]
	soft lang.Optional[time.Duration]
}

const clockOverhead = 10 * time.Millisecond

// derive computes the time budget from the limits. With an exact move time
// the whole allotment minus overhead is hard and there is no soft limit;
// with a game clock a fraction of the remainder is hard and a smaller
// increment-aware fraction is soft.
func (l Limits) derive(p *Params) budget {
	if mt, ok := l.MoveTime.V(); ok {
		hard := mt - clockOverhead
		if hard < 0 {
			hard = 0
		}
		return budget{hard: lang.Some(hard)}
	}

	remaining, ok := l.Remaining.V()
	if !ok {
		return budget{}
	}

	hard := time.Duration(float64(remaining-clockOverhead) * p.HardTimePct)
	if hard < 0 {
		hard = 0
	}
	soft := time.Duration((float64(remaining)*p.SoftTimePct + float64(l.Increment)*0.6666) * p.SoftTimeScale)
	if soft > hard {
		soft = hard
	}
	return budget{hard: lang.Some(hard), soft: lang.Some(soft)}
}

// scaledSoft scales the soft limit by how concentrated the search effort is
// on the best root move: a search convinced of one move stops early, a
// flip-flopping one keeps thinking. Applied from depth 7 on.
func scaledSoft(soft time.Duration, depth int, fraction float64) time.Duration {
	if depth < 7 {
		return soft
	}
	return time.Duration(float64(soft) * (1.55 - fraction) * 1.5)
}
