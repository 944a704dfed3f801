package mdp

import (
	"fmt"

	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/rng"
	"github.com/brannovich/tempoplan/state"
	"gonum.org/v1/gonum/stat/distuv"
)

// TerminalReward is the reward given for a transition into a terminal
// state; all other transitions reward 0 (spec.md §4.2: "deliberately
// sparse; the TRPG heuristic densifies the signal").
const TerminalReward = 10.0

// MDP wraps a compiled model.Problem as a stochastic transition
// system.
type MDP struct {
	Problem  *model.Problem
	Discount float64
	RNG      *rng.Source

	// Warn, if set, is called when a probabilistic effect has zero
	// support at the state it is applied in (spec.md §7: "evaluated as
	// 'no outcome'; the effect is a no-op and a warning is raised").
	// Logging infrastructure is out of scope (spec.md §1), so the
	// default is to drop the warning.
	Warn func(string)

	term Terminator
}

// New returns an MDP over the compiled problem p.
func New(p *model.Problem, discount float64, r *rng.Source) *MDP {
	return &MDP{
		Problem:  p,
		Discount: discount,
		RNG:      r,
		term:     GoalTerminator{Goals: p.Goals},
	}
}

// InitialState returns the State containing every ground fluent whose
// initial value is true.
func (m *MDP) InitialState() state.State {
	return state.Of(m.Problem.InitialTrue)
}

// IsTerminal reports whether the goal set is a subset of s.P.
func (m *MDP) IsTerminal(s state.State) bool {
	return m.term.Done(s, 0)
}

// Deadline returns the problem's integer time bound.
func (m *MDP) Deadline() int {
	return m.Problem.Deadline
}

// LegalActions returns every action whose positive preconditions hold
// in s and whose negative preconditions are disjoint from s.
func (m *MDP) LegalActions(s state.State) []model.ActionID {
	var out []model.ActionID
	for i := range m.Problem.Actions {
		a := &m.Problem.Actions[i]
		if a.Legal(s.P) {
			out = append(out, a.ID)
		}
	}
	return out
}

// Step applies action a to state s, sampling any probabilistic
// effects, and returns whether the successor is terminal, the
// successor state, and the reward earned.
//
// Step is undefined unless a is legal in s (spec.md §8); rather than
// silently misbehaving, that precondition violation is reported as an
// error (spec.md §7: "treated as a programming error, aborts the
// search").
func (m *MDP) Step(s state.State, a model.ActionID) (terminal bool, next state.State, reward float64, err error) {
	act := m.Problem.Action(a)
	if !act.Legal(s.P) {
		return false, state.State{}, 0, fmt.Errorf("mdp.Step: action %q is not legal in the given state", act.Name)
	}

	p := s.P.Union(act.AddEff).Without(act.DelEff)

	add, del, err := m.sampleProbabilisticEffects(s, act)
	if err != nil {
		return false, state.State{}, 0, fmt.Errorf("mdp.Step: %w", err)
	}
	p = p.Union(add).Without(del)

	next = state.Of(p)
	terminal = m.IsTerminal(next)
	if terminal {
		reward = TerminalReward
	}
	return terminal, next, reward, nil
}

// sampleProbabilisticEffects draws one outcome from each of act's
// probabilistic effect bundles, evaluated against s, and returns the
// union of their add/delete assignments.
//
// Sampling uses gonum's distuv.Categorical seeded from the shared
// rng.Source, mirroring agent/linear/policy.EGreedy.SelectAction's use
// of distuv.NewCategorical for action sampling.
func (m *MDP) sampleProbabilisticEffects(s state.State, act *model.Action) (add, del model.GroundFluentSet, err error) {
	for _, pe := range act.ProbEffects {
		outcomes, err := pe.Resolve(s)
		if err != nil {
			return nil, nil, err
		}
		if len(outcomes) == 0 {
			if m.Warn != nil {
				m.Warn(fmt.Sprintf("probabilistic effect of %q has zero support in this state; treated as a no-op", act.Name))
			}
			continue
		}

		weights := make([]float64, len(outcomes))
		for i, o := range outcomes {
			weights[i] = o.Prob
		}
		dist := distuv.NewCategorical(weights, m.RNG.Rand)
		chosen := outcomes[int(dist.Rand())]

		add = add.Union(chosen.Add)
		del = del.Union(chosen.Del)
	}
	return add, del, nil
}
