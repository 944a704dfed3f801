package mcts

import (
	"encoding/json"
	"fmt"
	"time"
)

// SelectionType names a backup/selection strategy the search loop can
// run, resolving spec.md §9's open question ("the source contains two
// definitions of MCTS, one with TRPG+STN, one older without... a
// reimplementation should expose it behind a configuration switch"):
// Plain is that older, heuristic-free variant kept as a documented,
// selectable mode rather than dead code.
type SelectionType string

const (
	// Avg backs up a running average per node (node.py's Node.update,
	// read back as Value/Count), the default behaviour described in
	// spec.md §4.4's "Search loop".
	Avg SelectionType = "Avg"
	// Max additionally tracks, at each SNode, the maximum of its
	// children's averages, per spec.md §4.4's "Max-backup variant".
	Max SelectionType = "Max"
	// Plain is the older MCTS definition found alongside the TRPG/STN
	// one in original_source: no heuristic bootstrap at newly-expanded
	// leaves and no STN-consistency filtering, a pure UCT/rollout
	// search. Selection and backup otherwise match Avg.
	Plain SelectionType = "Plain"
)

func (t SelectionType) valid() bool {
	switch t {
	case Avg, Max, Plain:
		return true
	default:
		return false
	}
}

// Config holds the knobs for one Engine: the teacher's solver package
// names its analogous Type+Config pair per solver, validating the pair
// via Config.ValidType in UnmarshalJSON; here every SelectionType
// shares one flat parameter set, so unmarshalling checks the decoded
// Config with Validate rather than dispatching to a distinct config
// shape.
type Config struct {
	Selection    SelectionType
	SearchDepth  int
	Exploration  float64
	Discount     float64
	SearchBudget time.Duration

	// Temporal enables the C_MCTS variant: every SNode carries an STN
	// snapshot and actions are pruned when their STN extension would be
	// inconsistent (spec.md §4.4). It has no effect under Plain, whose
	// nodes never carry an STN snapshot.
	Temporal bool
}

// DefaultConfig returns reasonable defaults: average backup, a
// search depth of 50, UCT exploration constant sqrt(2), discount 0.95,
// a 1-second search budget, temporal filtering enabled.
func DefaultConfig() Config {
	return Config{
		Selection:    Avg,
		SearchDepth:  50,
		Exploration:  1.4142135623730951,
		Discount:     0.95,
		SearchBudget: time.Second,
		Temporal:     true,
	}
}

// Validate checks Config's tunables against spec.md §6's Configuration
// constraints (search_time > 0, search_depth >= 1,
// exploration_constant > 0, discount_factor in (0, 1]), plus a known
// Selection value, mirroring model.ProbabilisticEffect.Validate's
// constructor-time invariant check.
func (c Config) Validate() error {
	if !c.Selection.valid() {
		return fmt.Errorf("mcts.Config: unknown selection type %q", c.Selection)
	}
	if c.SearchBudget <= 0 {
		return fmt.Errorf("mcts.Config: SearchBudget must be > 0, got %v", c.SearchBudget)
	}
	if c.SearchDepth < 1 {
		return fmt.Errorf("mcts.Config: SearchDepth must be >= 1, got %d", c.SearchDepth)
	}
	if c.Exploration <= 0 {
		return fmt.Errorf("mcts.Config: Exploration must be > 0, got %v", c.Exploration)
	}
	if c.Discount <= 0 || c.Discount > 1 {
		return fmt.Errorf("mcts.Config: Discount must be in (0, 1], got %v", c.Discount)
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, rejecting an invalid
// Config the way solver.Solver.UnmarshalJSON rejects a Type with no
// matching Config.
func (c *Config) UnmarshalJSON(data []byte) error {
	type alias Config
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	cfg := Config(a)
	if err := cfg.Validate(); err != nil {
		return err
	}
	*c = cfg
	return nil
}
