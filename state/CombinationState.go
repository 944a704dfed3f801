package state

import "github.com/brannovich/tempoplan/model"

// CombinationState extends State with a queue of currently-executing
// durative actions and a monotone clock, for the CombinationMDP
// variant that operates directly on uncompiled durative actions
// (spec.md §3, §4.2).
type CombinationState struct {
	State
	Queue       ActiveQueue
	CurrentTime int
}

// NewCombination returns a CombinationState with no in-flight actions.
func NewCombination(ids ...model.GroundFluentID) CombinationState {
	return CombinationState{State: New(ids...)}
}

// IsActiveActions reports whether any durative action is still in
// flight.
func (c CombinationState) IsActiveActions() bool {
	return c.Queue.Len() > 0
}

// Terminal reports whether the goal holds and no action remains
// in-flight, per spec.md §4.2's combinationMDP.is_terminal.
func (c CombinationState) Terminal(goals model.GroundFluentSet) bool {
	return c.State.Terminal(goals) && !c.IsActiveActions()
}

// Clone returns an independent copy of c, safe to mutate while
// stepping from a shared parent.
func (c CombinationState) Clone() CombinationState {
	return CombinationState{
		State:       Of(append(model.GroundFluentSet(nil), c.P...)),
		Queue:       c.Queue.Clone(),
		CurrentTime: c.CurrentTime,
	}
}

// Key uniquely identifies c's membership, queue contents and clock.
func (c CombinationState) Key() string {
	key := c.State.Key()
	for _, n := range c.Queue.nodes {
		key += "|" + itoa(int(n.EndAction)) + ":" + itoa(n.Remaining)
	}
	key += "@" + itoa(c.CurrentTime)
	return key
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
