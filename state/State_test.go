package state

import (
	"testing"

	"github.com/brannovich/tempoplan/model"
)

func TestState_HoldsReflectsMembership(t *testing.T) {
	s := New(model.GroundFluentID(1), model.GroundFluentID(3))
	if !s.Holds(1) || !s.Holds(3) {
		t.Error("State.Holds should be true for every member passed to New")
	}
	if s.Holds(2) {
		t.Error("State.Holds should be false for a fluent never added")
	}
}

func TestState_TerminalRequiresEveryGoalFluent(t *testing.T) {
	s := New(1, 2)
	if !s.Terminal(model.NewGroundFluentSet(1, 2)) {
		t.Error("Terminal should hold when every goal fluent is in P")
	}
	if s.Terminal(model.NewGroundFluentSet(1, 2, 3)) {
		t.Error("Terminal should not hold when a goal fluent is missing")
	}
}

func TestState_EqualComparesMembership(t *testing.T) {
	a := New(1, 2, 3)
	b := New(3, 2, 1)
	c := New(1, 2)
	if !a.Equal(b) {
		t.Error("two States built from the same members in different order must be Equal")
	}
	if a.Equal(c) {
		t.Error("States with different membership must not be Equal")
	}
}

func TestState_KeyIsStableUnderMemberOrder(t *testing.T) {
	a := New(5, 1, 3)
	b := New(3, 1, 5)
	if a.Key() != b.Key() {
		t.Error("Key() must be identical for two States with the same membership")
	}
}
