// Package state implements State and CombinationState (spec.md §3):
// an immutable-by-convention set of currently-true ground fluents,
// with the CombinationState variant additionally carrying the queue of
// in-flight durative actions and a monotone clock.
package state

import "github.com/brannovich/tempoplan/model"

// State is a set P of ground fluents that currently hold; any fluent
// not in P is false, by the closed-world assumption.
type State struct {
	P model.GroundFluentSet
}

// New returns a State containing exactly the given ground fluents.
func New(ids ...model.GroundFluentID) State {
	return State{P: model.NewGroundFluentSet(ids...)}
}

// Of returns a State wrapping an already-built GroundFluentSet.
func Of(p model.GroundFluentSet) State {
	return State{P: p}
}

// Holds reports whether the ground fluent id is true in s. State
// satisfies model.FluentHolder so probabilistic effects can be
// resolved against it without model depending on state.
func (s State) Holds(id model.GroundFluentID) bool {
	return s.P.Contains(id)
}

// Terminal reports whether every fluent in goals holds in s.
func (s State) Terminal(goals model.GroundFluentSet) bool {
	return goals.Subset(s.P)
}

// Key returns a string uniquely identifying s's membership, used as a
// map key in ANode.children.
func (s State) Key() string {
	return s.P.Key()
}

// Equal reports whether s and other contain exactly the same ground
// fluents.
func (s State) Equal(other State) bool {
	return s.P.Equal(other.P)
}
