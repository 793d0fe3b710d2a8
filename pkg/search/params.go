package search

import (
	"fmt"
	"strconv"
	"strings"
)

// Params is the registry of tunable search parameters. Defaults are set at
// construction; values are written only via Set (driven by "setoption") and
// read by the searcher at call sites.
type Params struct {
	// Reverse futility pruning margin per remaining depth.
	RFPMargin int
	// Futility pruning base and per-depth margin.
	FPBase int
	FPMul  int

	// Late move reduction table shape and the history divisor that adjusts
	// the reduction per move.
	LMRBase       float64
	LMRMul        float64
	LMRHistoryDiv int

	// Move ordering: bonus for growth moves, the scale separating capture
	// scores from history scores, and the killer move bonus.
	BonusSingle   int
	GoodMoveScale int
	KillerBonus   int

	// History gravity: cutoff bonus and sibling malus caps.
	BonusMul   int
	BonusMax   int
	MalusMul   int
	MalusMax   int
	HistoryMax int

	// Time management fractions.
	HardTimePct   float64
	SoftTimePct   float64
	SoftTimeScale float64
}

// NewParams returns the registry with default values.
func NewParams() *Params {
	return &Params{
		RFPMargin:     50,
		FPBase:        150,
		FPMul:         60,
		LMRBase:       0.8,
		LMRMul:        0.4,
		LMRHistoryDiv: 8192,
		BonusSingle:   1,
		GoodMoveScale: 1000000,
		KillerBonus:   50000,
		BonusMul:      300,
		BonusMax:      2500,
		MalusMul:      300,
		MalusMax:      2500,
		HistoryMax:    16384,
		HardTimePct:   0.5,
		SoftTimePct:   0.04,
		SoftTimeScale: 0.6,
	}
}

// Spec describes one tunable parameter for option listings.
type Spec struct {
	Name     string
	Float    bool
	Default  float64
	Min, Max float64
	Step     float64

	get func(*Params) float64
	set func(*Params, float64)
}

// specs lists every tunable with its bounds. The names are the "setoption"
// names.
var specs = []Spec{
	{Name: "tunable_rfp_margin", Default: 50, Min: 20, Max: 120, Step: 10,
		get: func(p *Params) float64 { return float64(p.RFPMargin) },
		set: func(p *Params, v float64) { p.RFPMargin = int(v) }},
	{Name: "tunable_fp_base", Default: 150, Min: 40, Max: 300, Step: 20,
		get: func(p *Params) float64 { return float64(p.FPBase) },
		set: func(p *Params, v float64) { p.FPBase = int(v) }},
	{Name: "tunable_fp_mul", Default: 60, Min: 20, Max: 160, Step: 10,
		get: func(p *Params) float64 { return float64(p.FPMul) },
		set: func(p *Params, v float64) { p.FPMul = int(v) }},
	{Name: "tunable_lmr_base", Float: true, Default: 0.8, Min: 0.3, Max: 1.5, Step: 0.1,
		get: func(p *Params) float64 { return p.LMRBase },
		set: func(p *Params, v float64) { p.LMRBase = v }},
	{Name: "tunable_lmr_mul", Float: true, Default: 0.4, Min: 0.2, Max: 0.8, Step: 0.05,
		get: func(p *Params) float64 { return p.LMRMul },
		set: func(p *Params, v float64) { p.LMRMul = v }},
	{Name: "tunable_lmr_history_div", Default: 8192, Min: 1024, Max: 32768, Step: 1024,
		get: func(p *Params) float64 { return float64(p.LMRHistoryDiv) },
		set: func(p *Params, v float64) { p.LMRHistoryDiv = int(v) }},
	{Name: "tunable_bonus_single", Default: 1, Min: 0, Max: 4, Step: 1,
		get: func(p *Params) float64 { return float64(p.BonusSingle) },
		set: func(p *Params, v float64) { p.BonusSingle = int(v) }},
	{Name: "tunable_killer_bonus", Default: 50000, Min: 0, Max: 500000, Step: 10000,
		get: func(p *Params) float64 { return float64(p.KillerBonus) },
		set: func(p *Params, v float64) { p.KillerBonus = int(v) }},
	{Name: "tunable_history_bonus_mul", Default: 300, Min: 50, Max: 800, Step: 50,
		get: func(p *Params) float64 { return float64(p.BonusMul) },
		set: func(p *Params, v float64) { p.BonusMul = int(v) }},
	{Name: "tunable_history_bonus_max", Default: 2500, Min: 500, Max: 8000, Step: 250,
		get: func(p *Params) float64 { return float64(p.BonusMax) },
		set: func(p *Params, v float64) { p.BonusMax = int(v) }},
	{Name: "tunable_history_malus_mul", Default: 300, Min: 50, Max: 800, Step: 50,
		get: func(p *Params) float64 { return float64(p.MalusMul) },
		set: func(p *Params, v float64) { p.MalusMul = int(v) }},
	{Name: "tunable_history_malus_max", Default: 2500, Min: 500, Max: 8000, Step: 250,
		get: func(p *Params) float64 { return float64(p.MalusMax) },
		set: func(p *Params, v float64) { p.MalusMax = int(v) }},
	{Name: "tunable_history_max", Default: 16384, Min: 4096, Max: 32768, Step: 4096,
		get: func(p *Params) float64 { return float64(p.HistoryMax) },
		set: func(p *Params, v float64) { p.HistoryMax = int(v) }},
	{Name: "tunable_hard_time_pct", Float: true, Default: 0.5, Min: 0.1, Max: 0.9, Step: 0.05,
		get: func(p *Params) float64 { return p.HardTimePct },
		set: func(p *Params, v float64) { p.HardTimePct = v }},
	{Name: "tunable_soft_time_pct", Float: true, Default: 0.04, Min: 0.01, Max: 0.2, Step: 0.01,
		get: func(p *Params) float64 { return p.SoftTimePct },
		set: func(p *Params, v float64) { p.SoftTimePct = v }},
	{Name: "tunable_soft_time_scale", Float: true, Default: 0.6, Min: 0.2, Max: 2, Step: 0.1,
		get: func(p *Params) float64 { return p.SoftTimeScale },
		set: func(p *Params, v float64) { p.SoftTimeScale = v }},
}

// Specs returns the tunable parameter descriptions in registration order.
func Specs() []Spec {
	return specs
}

// Set updates the named parameter from its string form. Returns an error for
// unknown names, unparsable values or out-of-range values.
func (p *Params) Set(name, value string) error {
	for _, s := range specs {
		if !strings.EqualFold(s.Name, name) {
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %v: %v", name, err)
		}
		if v < s.Min || v > s.Max {
			return fmt.Errorf("value for %v out of range [%v;%v]: %v", name, s.Min, s.Max, v)
		}
		s.set(p, v)
		return nil
	}
	return fmt.Errorf("unknown parameter: %v", name)
}

// Get returns the current value of the named parameter.
func (p *Params) Get(name string) (float64, bool) {
	for _, s := range specs {
		if strings.EqualFold(s.Name, name) {
			return s.get(p), true
		}
	}
	return 0, false
}
