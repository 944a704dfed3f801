// Package mdp wraps a compiled model.Problem as a stochastic
// transition system (spec.md §4.2): legal actions, stochastic step,
// terminal test, reward.
package mdp

import (
	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/state"
)

// Terminator decides whether a state is terminal at a given clock
// value. It is a small composable interface grounded on the teacher's
// environment.Ender family (StepLimitEnder, FunctionEnder,
// IntervalLimitEnder): instead of one monolithic is_terminal function,
// termination conditions are built from independent, combinable
// pieces.
type Terminator interface {
	Done(s state.State, clock int) bool
}

// GoalTerminator is done once every goal fluent holds.
type GoalTerminator struct {
	Goals model.GroundFluentSet
}

// Done implements Terminator.
func (g GoalTerminator) Done(s state.State, _ int) bool {
	return s.Terminal(g.Goals)
}

// DeadlineTerminator is done once the clock has passed a fixed
// deadline.
type DeadlineTerminator struct {
	Deadline int
}

// Done implements Terminator.
func (d DeadlineTerminator) Done(_ state.State, clock int) bool {
	return clock > d.Deadline
}

// FunctionTerminator adapts an arbitrary predicate to the Terminator
// interface, mirroring the teacher's environment.FunctionEnder (a
// func(*timestep.TimeStep) bool wrapped to satisfy Ender). It exists
// so conditions that don't fit the fixed state.State+clock shape -
// such as CombinationState's "no action in flight" - can still be
// composed with All/Any.
type FunctionTerminator func(s state.State, clock int) bool

// Done implements Terminator.
func (f FunctionTerminator) Done(s state.State, clock int) bool {
	return f(s, clock)
}

// All combines Terminators so that Done reports true only once every
// one of them does, matching combinationMDP.is_terminal's "goal holds
// AND no action is still executing".
type All []Terminator

// Done implements Terminator.
func (a All) Done(s state.State, clock int) bool {
	for _, t := range a {
		if !t.Done(s, clock) {
			return false
		}
	}
	return true
}

// Any combines Terminators so that Done reports true as soon as any
// one of them does.
type Any []Terminator

// Done implements Terminator.
func (a Any) Done(s state.State, clock int) bool {
	for _, t := range a {
		if t.Done(s, clock) {
			return true
		}
	}
	return false
}
