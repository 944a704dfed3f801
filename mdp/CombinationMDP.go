package mdp

import (
	"fmt"

	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/rng"
	"github.com/brannovich/tempoplan/state"
)

// CombinationMDP is the uncompiled variant of the MDP (spec.md §4.2,
// grounded on original_source's combinationMDP): it steps directly
// over Durative actions instead of the Compiler's start/end split,
// tracking in-flight actions on a state.ActiveQueue and advancing the
// clock by the minimum remaining duration whenever the explicit wait
// action (model.NoAction) is taken.
type CombinationMDP struct {
	Problem  *model.Problem
	Discount float64
	RNG      *rng.Source
	Warn     func(string)

	// combos caches synthesised Combination actions by their negative
	// ActionID (see internCombo), keyed so that the same pair of
	// simultaneously-starting Durative actions always maps to the same
	// ActionID across calls within this CombinationMDP's lifetime.
	combos   map[model.ActionID]model.Action
	comboIDs map[[2]model.ActionID]model.ActionID
	nextID   model.ActionID
}

// NewCombination returns a CombinationMDP over the uncompiled problem
// p (i.e. one that has been through ground.Problem but not
// compile.Problem).
func NewCombination(p *model.Problem, discount float64, r *rng.Source) *CombinationMDP {
	return &CombinationMDP{Problem: p, Discount: discount, RNG: r}
}

// InitialState returns a CombinationState at time 0 with no in-flight
// actions and every initially-true ground fluent set.
func (m *CombinationMDP) InitialState() state.CombinationState {
	return state.CombinationState{State: state.Of(m.Problem.InitialTrue)}
}

// IsTerminal reports whether the goal holds and no action is still
// executing, composed from two independent Terminators per spec.md
// §4.2's "goal AND no active actions" (planner.Plan, by contrast, uses
// a lone mdp.DeadlineTerminator for its deadline check).
func (m *CombinationMDP) IsTerminal(c state.CombinationState) bool {
	noActive := FunctionTerminator(func(_ state.State, _ int) bool {
		return !c.IsActiveActions()
	})
	all := All{GoalTerminator{Goals: m.Problem.Goals}, noActive}
	return all.Done(c.State, c.CurrentTime)
}

// action resolves id to its Action record, checking the synthesised
// Combination cache before falling back to m.Problem.Action, since
// Combination IDs are negative and Problem.Action indexes p.Actions
// directly.
func (m *CombinationMDP) action(id model.ActionID) *model.Action {
	if id < model.NoAction {
		act := m.combos[id]
		return &act
	}
	return m.Problem.Action(id)
}

// internCombo returns the (possibly cached) Combination action
// starting both x and y together, allocating a new negative ActionID
// the first time this pair is seen. Negative IDs are used so
// Combination actions never collide with the non-negative indices
// Problem.Action relies on.
func (m *CombinationMDP) internCombo(x, y model.ActionID) model.ActionID {
	if m.comboIDs == nil {
		m.comboIDs = map[[2]model.ActionID]model.ActionID{}
		m.combos = map[model.ActionID]model.Action{}
		m.nextID = model.NoAction - 1
	}
	key := [2]model.ActionID{x, y}
	if id, ok := m.comboIDs[key]; ok {
		return id
	}
	xa, ya := m.Problem.Action(x), m.Problem.Action(y)
	id := m.nextID
	m.nextID--
	m.comboIDs[key] = id
	m.combos[id] = model.Action{
		ID:      id,
		Name:    fmt.Sprintf("combo(%s,%s)", xa.Name, ya.Name),
		Kind:    model.Combination,
		Members: []model.ActionID{x, y},
	}
	return id
}

// combinationConflicts reports whether a and b cannot legally start
// simultaneously because one's start effects would stomp the other's,
// mirroring compile.hardMutex's effect-conflict check without
// importing the compile package (that package operates on compiled
// Start/EndAction pairs, not raw Durative actions).
func combinationConflicts(a, b *model.Action) bool {
	return a.StartAddEff.Intersects(b.StartDelEff) ||
		b.StartAddEff.Intersects(a.StartDelEff) ||
		a.StartDelEff.Intersects(b.StartAddEff) ||
		b.StartDelEff.Intersects(a.StartAddEff)
}

// combinationActions enumerates Combination actions over pairs of
// simultaneously-startable Durative actions in startable (spec.md
// §4.2's "combination actions (tuples of simultaneous durative
// actions)"). Only pairs are offered, not every subset size, to bound
// the combinatorial blow-up of larger tuples; see DESIGN.md.
func (m *CombinationMDP) combinationActions(startable []model.ActionID) []model.ActionID {
	var out []model.ActionID
	for i := 0; i < len(startable); i++ {
		for j := i + 1; j < len(startable); j++ {
			x, y := m.Problem.Action(startable[i]), m.Problem.Action(startable[j])
			if combinationConflicts(x, y) {
				continue
			}
			out = append(out, m.internCombo(startable[i], startable[j]))
		}
	}
	return out
}

// Deadline returns the problem's integer time bound.
func (m *CombinationMDP) Deadline() int {
	return m.Problem.Deadline
}

// LegalActions returns every Instantaneous action legal in c.P, every
// Durative action eligible to start in c.P, and every Combination of
// two simultaneously-startable Durative actions whose start effects
// don't conflict. model.NoAction is always included, standing for
// "wait": let the in-flight queue advance without starting anything
// new.
func (m *CombinationMDP) LegalActions(c state.CombinationState) []model.ActionID {
	out := []model.ActionID{model.NoAction}
	var startable []model.ActionID
	for i := range m.Problem.Actions {
		a := &m.Problem.Actions[i]
		switch a.Kind {
		case model.Instantaneous:
			if a.Legal(c.P) {
				out = append(out, a.ID)
			}
		case model.Durative:
			if a.LegalStart(c.P) {
				out = append(out, a.ID)
				startable = append(startable, a.ID)
			}
		}
	}
	out = append(out, m.combinationActions(startable)...)
	return out
}

// Step applies action a to c. If a is model.NoAction, the clock is
// advanced by the minimum remaining duration across the active queue
// and every action due at that instant has its end effects applied;
// waiting with an empty queue is an error. Otherwise a is started
// without advancing the clock: an Instantaneous action's effects apply
// immediately, and a Durative action's start effects apply immediately
// while its completion is enqueued. An action that is not legal (or
// not eligible to start) in c is an error.
func (m *CombinationMDP) Step(c state.CombinationState, a model.ActionID) (terminal bool, next state.CombinationState, reward float64, err error) {
	next = c.Clone()

	if a != model.NoAction {
		act := m.action(a)
		switch act.Kind {
		case model.Instantaneous:
			if !act.Legal(c.P) {
				return false, state.CombinationState{}, 0, fmt.Errorf("mdp.CombinationMDP.Step: action %q is not legal in the given state", act.Name)
			}
			add, del, err := sampleOutcomes(m.RNG, m.Warn, act, c.State)
			if err != nil {
				return false, state.CombinationState{}, 0, fmt.Errorf("mdp.CombinationMDP.Step: %w", err)
			}
			next.P = next.P.Union(act.AddEff).Union(add).Without(act.DelEff).Without(del)

		case model.Durative:
			if !act.LegalStart(c.P) {
				return false, state.CombinationState{}, 0, fmt.Errorf("mdp.CombinationMDP.Step: durative action %q is not eligible to start in the given state", act.Name)
			}
			next.P = next.P.Union(act.StartAddEff).Without(act.StartDelEff)
			next.Queue.Add(state.QueueNode{EndAction: act.ID, Remaining: act.Duration})

		case model.Combination:
			for _, id := range act.Members {
				member := m.Problem.Action(id)
				if !member.LegalStart(c.P) {
					return false, state.CombinationState{}, 0, fmt.Errorf("mdp.CombinationMDP.Step: combination member %q is not eligible to start in the given state", member.Name)
				}
			}
			for _, id := range act.Members {
				member := m.Problem.Action(id)
				next.P = next.P.Union(member.StartAddEff).Without(member.StartDelEff)
				next.Queue.Add(state.QueueNode{EndAction: member.ID, Remaining: member.Duration})
			}

		default:
			return false, state.CombinationState{}, 0, fmt.Errorf("mdp.CombinationMDP.Step: action %q has kind %v, not valid pre-compilation", act.Name, act.Kind)
		}

		terminal = m.IsTerminal(next)
		if terminal {
			reward = TerminalReward
		}
		return terminal, next, reward, nil
	}

	if !next.IsActiveActions() {
		return false, state.CombinationState{}, 0, fmt.Errorf("mdp.CombinationMDP.Step: no in-flight actions to wait on")
	}

	delta, due := next.Queue.Drain()
	next.CurrentTime += delta
	for _, node := range due {
		end := m.Problem.Action(node.EndAction)
		add, del, err := sampleOutcomes(m.RNG, m.Warn, end, next.State)
		if err != nil {
			return false, state.CombinationState{}, 0, fmt.Errorf("mdp.CombinationMDP.Step: %w", err)
		}
		next.P = next.P.Union(end.EndAddEff).Union(add).Without(end.EndDelEff).Without(del)
	}

	terminal = m.IsTerminal(next)
	if terminal {
		reward = TerminalReward
	}
	return terminal, next, reward, nil
}

// sampleOutcomes draws one outcome from each of act's probabilistic
// effect bundles, evaluated against s, shared between MDP and
// CombinationMDP.
func sampleOutcomes(r *rng.Source, warn func(string), act *model.Action, s state.State) (add, del model.GroundFluentSet, err error) {
	m := &MDP{RNG: r, Warn: warn}
	return m.sampleProbabilisticEffects(s, act)
}
