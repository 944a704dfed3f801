// Package mcts implements the online Monte-Carlo Tree Search engine
// (spec.md §4.4): an alternating SNode/ANode tree searched under a
// wall-clock budget, selecting via UCT and backing up either average
// or max values, optionally filtering actions by STN consistency.
//
// The bipartite node shape and the count-starts-at-1/value-accumulates
// update rule follow original_source's node.py Node/SNode/ANode
// classes; the arena-free pointer tree mirrors how the teacher keeps
// its experiment trackers and environment wrappers as plain Go structs
// rather than introducing handle tables (spec.md §9 notes cyclic
// back-references could use arena+index handles, but this tree's
// parent/child edges are a strict DAG from root down plus one parent
// pointer back up, which Go's garbage collector handles natively).
package mcts

import (
	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/state"
	"github.com/brannovich/tempoplan/stn"
)

// Node is the visit-count/value bookkeeping shared by SNode and ANode.
type Node struct {
	Count int
	Value float64
}

// newNode returns a Node with the count-starts-at-1, value-starts-at-0
// initialisation from original_source's Node.__init__.
func newNode() Node {
	return Node{Count: 1, Value: 0}
}

// Update accumulates reward into Value and increments Count, matching
// node.py's Node.update (a running sum, not a running average; UCT and
// the average backup divide by Count themselves).
func (n *Node) Update(reward float64) {
	n.Value += reward
	n.Count++
}

// SNode is a state node: one per (state, position-in-tree) pair, never
// shared across ANode subtrees.
type SNode struct {
	Node
	State    state.State
	Depth    int
	Parent   *ANode
	Children map[model.ActionID]*ANode
	Possible []model.ActionID

	// STN is this node's temporal snapshot, populated only when the
	// engine is constructed with Config.Temporal set (spec.md §4.4's
	// C_MCTS variant).
	STN *stn.STN
}

// ANode is an action node: one per legal action of its parent SNode,
// branching stochastically over successor states.
type ANode struct {
	Node
	Action   model.ActionID
	Parent   *SNode
	Children map[string]*SNode

	STN *stn.STN
}

// newSNode builds an SNode for state s at depth with possible actions
// legal, one ANode child per action, per node.py's SNode._add_children.
func newSNode(s state.State, depth int, legal []model.ActionID, parent *ANode, snapshot *stn.STN) *SNode {
	n := &SNode{
		Node:     newNode(),
		State:    s,
		Depth:    depth,
		Parent:   parent,
		Children: make(map[model.ActionID]*ANode, len(legal)),
		Possible: legal,
		STN:      snapshot,
	}
	for _, a := range legal {
		n.Children[a] = &ANode{Node: newNode(), Action: a, Parent: n}
	}
	return n
}

// removeAction drops action from n's possible-action set, used by the
// temporal variant to prune STN-inconsistent actions so they are never
// selected again.
func (n *SNode) removeAction(action model.ActionID) {
	for i, a := range n.Possible {
		if a == action {
			n.Possible = append(n.Possible[:i], n.Possible[i+1:]...)
			return
		}
	}
}

// addChild records that taking a's action leads to child, keyed by the
// child's state.
func (a *ANode) addChild(child *SNode) {
	if a.Children == nil {
		a.Children = make(map[string]*SNode, 1)
	}
	a.Children[child.State.Key()] = child
}
