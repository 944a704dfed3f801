package mdp

import (
	"testing"

	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/state"
)

func TestGoalTerminator_DoneReflectsGoalSubset(t *testing.T) {
	g := GoalTerminator{Goals: model.NewGroundFluentSet(1, 2)}
	if g.Done(state.New(1), 0) {
		t.Error("GoalTerminator should not be Done while a goal fluent is missing")
	}
	if !g.Done(state.New(1, 2), 0) {
		t.Error("GoalTerminator should be Done once every goal fluent holds")
	}
}

func TestDeadlineTerminator_DoneOnceClockPassesDeadline(t *testing.T) {
	d := DeadlineTerminator{Deadline: 10}
	if d.Done(state.State{}, 10) {
		t.Error("DeadlineTerminator should not be Done exactly at the deadline")
	}
	if !d.Done(state.State{}, 11) {
		t.Error("DeadlineTerminator should be Done once the clock passes the deadline")
	}
}

func TestAll_RequiresEveryTerminatorDone(t *testing.T) {
	goal := GoalTerminator{Goals: model.NewGroundFluentSet(1)}
	deadline := DeadlineTerminator{Deadline: 5}
	all := All{goal, deadline}

	if all.Done(state.New(1), 3) {
		t.Error("All should not be Done when the deadline terminator alone isn't")
	}
	if all.Done(state.State{}, 6) {
		t.Error("All should not be Done when the goal terminator alone isn't")
	}
	if !all.Done(state.New(1), 6) {
		t.Error("All should be Done once every member terminator is")
	}
}

func TestAny_RequiresOneTerminatorDone(t *testing.T) {
	goal := GoalTerminator{Goals: model.NewGroundFluentSet(1)}
	deadline := DeadlineTerminator{Deadline: 5}
	any := Any{goal, deadline}

	if any.Done(state.State{}, 3) {
		t.Error("Any should not be Done when neither terminator is")
	}
	if !any.Done(state.New(1), 3) {
		t.Error("Any should be Done once the goal terminator is, regardless of the clock")
	}
	if !any.Done(state.State{}, 6) {
		t.Error("Any should be Done once the deadline terminator is, regardless of the goal")
	}
}
