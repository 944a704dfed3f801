// Package heuristic implements the Temporal Relaxed Planning Graph
// estimator (spec.md §4.5): a delete-relaxed reachability analysis
// that time-stamps when each fact first becomes available, used by
// MCTS to bootstrap leaf values instead of rolling out to the horizon.
//
// There is no relaxed-planning-graph library anywhere in the corpus;
// this is hand-rolled fixpoint computation over the compiled problem's
// own GroundFluentSets (see DESIGN.md).
package heuristic

import (
	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/state"
)

// Unreachable is returned when the goal is not reachable under the
// delete relaxation at all; a large negative value so MCTS selection
// penalises such branches without mistaking them for a merely
// low-value dead end (spec.md §4.4's -100 dead-end penalty is distinct
// from this).
const Unreachable = -1000.0

// TerminalReward mirrors mdp.TerminalReward: the heuristic estimates a
// reward on the same scale MDP.Step awards on reaching the goal, so
// the two compose under the MCTS backup's discounting.
const TerminalReward = 10.0

// Estimate returns an admissible-style estimate of the reward
// obtainable from s at clock, by building a relaxed planning graph
// (ignoring delete effects) and reading off the time-stamp at which
// every goal fluent first becomes true.
func Estimate(p *model.Problem, s state.State, clock int) float64 {
	t, ok := goalTime(p, s, clock)
	if !ok {
		return Unreachable
	}
	return TerminalReward - float64(t-clock)
}

// goalTime runs the relaxed fixpoint and returns the time-stamp at
// which the last goal fluent first appears.
func goalTime(p *model.Problem, s state.State, clock int) (int, bool) {
	firstTime := make(map[model.GroundFluentID]int, len(s.P)+16)
	for _, f := range s.P {
		firstTime[f] = clock
	}

	if t, ok := allSatisfiedAt(firstTime, p.Goals); ok {
		return t, true
	}

	applied := make([]bool, len(p.Actions))
	for {
		changed := false
		for i := range p.Actions {
			if applied[i] {
				continue
			}
			a := &p.Actions[i]
			t, ok := allSatisfiedAt(firstTime, a.PosPre[model.Overall])
			if !ok {
				continue
			}
			applied[i] = true

			effTime := t + delayOf(p, a)
			if advance(firstTime, a.AddEff, effTime) {
				changed = true
			}
			for _, pe := range a.ProbEffects {
				for _, o := range pe.Outcomes {
					if advance(firstTime, o.Add, effTime) {
						changed = true
					}
				}
			}
		}

		if t, ok := allSatisfiedAt(firstTime, p.Goals); ok {
			return t, true
		}
		if !changed {
			return 0, false
		}
	}
}

// allSatisfiedAt returns the latest first-appearance time among set's
// members, or ok=false if any member has not yet appeared.
func allSatisfiedAt(firstTime map[model.GroundFluentID]int, set model.GroundFluentSet) (int, bool) {
	latest := 0
	for _, f := range set {
		t, ok := firstTime[f]
		if !ok {
			return 0, false
		}
		if t > latest {
			latest = t
		}
	}
	return latest, true
}

// advance records that every fluent in add first appears at effTime,
// if it has not already appeared earlier, reporting whether anything
// changed.
func advance(firstTime map[model.GroundFluentID]int, add model.GroundFluentSet, effTime int) bool {
	changed := false
	for _, f := range add {
		if t, ok := firstTime[f]; !ok || t > effTime {
			firstTime[f] = effTime
			changed = true
		}
	}
	return changed
}

// delayOf returns how long after its preconditions are satisfied an
// action's effects become available under the relaxation. Instantaneous
// and StartAction effects are immediate; an EndAction's effects are
// delayed by its paired StartAction's duration, since that is the time
// that must elapse between the two under the full (non-relaxed)
// semantics.
func delayOf(p *model.Problem, a *model.Action) int {
	if a.Kind == model.EndAction && a.Paired != model.NoAction {
		return p.Action(a.Paired).Duration
	}
	return 0
}
