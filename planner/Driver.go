// Package planner implements the outer loop (spec.md §4.6): build an
// MCTS rooted at the current state and STN, search within a time
// budget, commit the best action to both the world state and the STN,
// and repeat until the goal or the deadline is reached.
//
// The loop's shape - advance a world state, commit one decision per
// step, record a trace, stop on a terminal condition - mirrors the
// teacher's experiment.Online.RunEpisode driver; Trace plays the role
// of the teacher's experiment/tracker.Tracker, adapted from "record a
// timestep.TimeStep" to "record a committed (action, start, end)".
package planner

import (
	"fmt"

	"github.com/brannovich/tempoplan/mcts"
	"github.com/brannovich/tempoplan/mdp"
	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/rng"
	"github.com/brannovich/tempoplan/state"
	"github.com/brannovich/tempoplan/stn"
)

// Status is the outcome of a planning run.
type Status int

const (
	// Success means the goal was reached before the deadline.
	Success Status = iota
	// Fail means no plan was found, or the deadline was exceeded.
	Fail
)

func (s Status) String() string {
	if s == Success {
		return "Success"
	}
	return "Fail"
}

// Config holds the planner's tunables: the MCTS engine's
// configuration, a PRNG seed shared by the MDP and default-policy
// rollouts (spec.md §5: "a single seeded pseudo-random generator
// drives both"), and how often to rebuild versus reuse the search
// tree is governed entirely by Engine.Advance.
type Config struct {
	MCTS mcts.Config
	Seed uint64
}

// Plan searches problem p (which must already be
// grounded and compiled, see ground.Problem and compile.Problem) to a
// Result, or an error if a core invariant was violated.
func Plan(p *model.Problem, cfg Config) (Result, error) {
	if err := cfg.MCTS.Validate(); err != nil {
		return Result{Status: Fail}, fmt.Errorf("planner.Plan: %w", err)
	}

	r := rng.New(cfg.Seed)
	m := mdp.New(p, cfg.MCTS.Discount, r)
	trace := &Trace{}
	m.Warn = trace.warn

	engine := mcts.New(m, cfg.MCTS, r)
	timeline := stn.CreateInit(p.Deadline)
	deadline := mdp.DeadlineTerminator{Deadline: p.Deadline}

	s := m.InitialState()
	var root *mcts.SNode

	for {
		end, err := timeline.GetCurrentEndTime()
		if err != nil {
			return Result{Status: Fail, Trace: *trace}, &Error{Kind: InconsistentSTN, Msg: err.Error()}
		}
		if deadline.Done(state.State{}, end) {
			return Result{Status: Fail, Makespan: end, Trace: *trace}, nil
		}

		if root == nil {
			root = engine.NewRoot(s, timeline)
		}

		action, ok := engine.Search(cfg.MCTS.SearchBudget)
		if !ok {
			return Result{Status: Fail, Trace: *trace}, nil
		}

		terminal, next, _, err := m.Step(s, action)
		if err != nil {
			return Result{Status: Fail, Trace: *trace}, &Error{Kind: PreconditionViolation, Msg: err.Error()}
		}

		start, endT, consistent := mcts.Commit(timeline, p, action)
		if !consistent {
			return Result{Status: Fail, Trace: *trace}, &Error{
				Kind: InconsistentSTN,
				Msg:  fmt.Sprintf("committing %q broke STN consistency", p.Action(action).Name),
			}
		}
		trace.record(Step{Action: action, Name: p.Action(action).Name, Start: int(start), End: int(endT)})

		if terminal {
			makespan, err := timeline.GetCurrentEndTime()
			if err != nil {
				return Result{Status: Fail, Trace: *trace}, &Error{Kind: InconsistentSTN, Msg: err.Error()}
			}
			if deadline.Done(state.State{}, makespan) {
				return Result{Status: Fail, Makespan: makespan, Trace: *trace}, nil
			}
			return Result{Status: Success, Makespan: makespan, Trace: *trace}, nil
		}

		root = engine.Advance(action, next, timeline)
		s = next
	}
}
