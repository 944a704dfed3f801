package state

import (
	"testing"

	"github.com/brannovich/tempoplan/model"
)

func TestActiveQueue_DrainReturnsOnlyTheMinimumRemaining(t *testing.T) {
	var q ActiveQueue
	q.Add(QueueNode{EndAction: 0, Remaining: 5})
	q.Add(QueueNode{EndAction: 1, Remaining: 2})
	q.Add(QueueNode{EndAction: 2, Remaining: 2})

	delta, due := q.Drain()
	if delta != 2 {
		t.Fatalf("Drain delta = %d, want 2 (the minimum remaining duration)", delta)
	}
	if len(due) != 2 {
		t.Fatalf("Drain due = %v, want exactly the two actions with Remaining=2", due)
	}
	if q.Len() != 1 {
		t.Fatalf("ActiveQueue.Len() after Drain = %d, want 1 (the still-active action)", q.Len())
	}
	if q.MinRemaining() != 3 {
		t.Errorf("remaining action's duration = %d, want 3 (5 - delta 2)", q.MinRemaining())
	}
}

func TestActiveQueue_DrainOnEmptyQueueIsANoOp(t *testing.T) {
	var q ActiveQueue
	delta, due := q.Drain()
	if delta != 0 || due != nil {
		t.Errorf("Drain on an empty queue = (%d, %v), want (0, nil)", delta, due)
	}
}

func TestActiveQueue_CloneIsIndependent(t *testing.T) {
	var q ActiveQueue
	q.Add(QueueNode{EndAction: 0, Remaining: 4})

	clone := q.Clone()
	clone.Add(QueueNode{EndAction: 1, Remaining: 1})

	if q.Len() != 1 {
		t.Errorf("mutating the clone must not affect the original: original Len() = %d, want 1", q.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("clone.Len() = %d, want 2", clone.Len())
	}
}

func TestCombinationState_TerminalRequiresEmptyQueue(t *testing.T) {
	goal := model.NewGroundFluentSet(1)
	c := NewCombination(1)
	if !c.Terminal(goal) {
		t.Fatal("with the goal true and nothing in flight, CombinationState must be terminal")
	}

	c.Queue.Add(QueueNode{EndAction: 0, Remaining: 2})
	if c.Terminal(goal) {
		t.Error("CombinationState must not be terminal while an action is still in flight")
	}
}

func TestCombinationState_CloneIsIndependent(t *testing.T) {
	c := NewCombination(1)
	c.Queue.Add(QueueNode{EndAction: 0, Remaining: 3})
	c.CurrentTime = 5

	clone := c.Clone()
	clone.Queue.Add(QueueNode{EndAction: 1, Remaining: 1})
	clone.CurrentTime = 9

	if c.Queue.Len() != 1 {
		t.Errorf("mutating the clone's queue must not affect the original, got Len() = %d", c.Queue.Len())
	}
	if c.CurrentTime != 5 {
		t.Errorf("mutating the clone's CurrentTime must not affect the original, got %d", c.CurrentTime)
	}
}
