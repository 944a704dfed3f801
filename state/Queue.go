package state

import (
	"container/heap"

	"github.com/brannovich/tempoplan/model"
)

// QueueNode is one in-flight durative action: the end action that will
// fire when it completes, and how much longer it has to run.
//
// No package in the corpus implements a priority queue; this is built
// directly from spec.md §3's description ("a min-priority queue of
// in-flight durative actions, each entry = (end-action,
// remaining-duration)") using the stdlib container/heap, the one place
// in this module a stdlib container substitutes for a missing
// ecosystem dependency (see DESIGN.md).
type QueueNode struct {
	EndAction model.ActionID
	Remaining int
}

// ActiveQueue is a min-priority queue of QueueNodes ordered by
// Remaining, backing CombinationState's in-flight durative actions.
type ActiveQueue struct {
	nodes nodeHeap
}

// Len returns the number of in-flight actions.
func (q *ActiveQueue) Len() int { return len(q.nodes) }

// Add enqueues a newly-started durative action.
func (q *ActiveQueue) Add(n QueueNode) {
	heap.Push(&q.nodes, n)
}

// MinRemaining returns the smallest Remaining duration among all
// in-flight actions. It panics if the queue is empty.
func (q *ActiveQueue) MinRemaining() int {
	return q.nodes[0].Remaining
}

// Drain removes and returns every QueueNode whose Remaining duration
// equals delta (the minimum across the queue), and decrements the
// Remaining duration of every node left behind by delta. This
// implements the combination-MDP step semantics from spec.md §4.2:
// "advance the clock by the minimum remaining duration delta ...
// applies the effects of every action whose remaining duration becomes
// 0, and decrements the rest by delta."
func (q *ActiveQueue) Drain() (delta int, due []QueueNode) {
	if q.Len() == 0 {
		return 0, nil
	}
	delta = q.MinRemaining()
	for q.Len() > 0 && q.nodes[0].Remaining == delta {
		due = append(due, heap.Pop(&q.nodes).(QueueNode))
	}
	for i := range q.nodes {
		q.nodes[i].Remaining -= delta
	}
	return delta, due
}

// Clone returns an independent copy of q, so that stepping the MDP
// from a shared parent state never mutates another branch's queue.
func (q *ActiveQueue) Clone() ActiveQueue {
	cp := make(nodeHeap, len(q.nodes))
	copy(cp, q.nodes)
	return ActiveQueue{nodes: cp}
}

// nodeHeap implements container/heap.Interface over QueueNode, ordered
// by Remaining (min-heap).
type nodeHeap []QueueNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].Remaining < h[j].Remaining }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(QueueNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
