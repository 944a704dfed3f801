// Package stn implements the Simple Temporal Network (spec.md §4.3):
// a directed weighted graph of time-point nodes with difference
// constraints t_j - t_i <= w, consistent iff it contains no negative
// cycle. Built on gonum/graph/simple for the weighted graph and
// gonum/graph/path's Bellman-Ford for the consistency check.
package stn

import (
	"fmt"

	"github.com/brannovich/tempoplan/model"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// noUpperBound stands in for "no constraint" edges: it is the weight
// simple.WeightedDirectedGraph reports for an absent edge, and is never
// used as a real edge weight.
const noUpperBound = 1e18

// STN is a Simple Temporal Network: time-point nodes plus upper-bound
// difference constraints between them.
type STN struct {
	g        *simple.WeightedDirectedGraph
	origin   int64
	horizon  int64
	deadline int

	// lastEnd is the time-point the next committed action chains after:
	// an instantaneous action's own node, or a start action's start node
	// (not its end - other actions may be committed while it is still
	// in flight).
	lastEnd int64

	// ends collects every committed representative node so
	// GetCurrentEndTime can find the latest one in the earliest
	// schedule.
	ends []int64

	// pendingEnd maps a StartAction's paired EndAction ID to the end
	// time-point reserved for it when the start was committed, so that
	// committing the matching end reuses that duration-constrained node
	// instead of allocating a fresh, unconstrained one.
	pendingEnd map[model.ActionID]int64
}

// CreateInit returns an STN with just an origin node z and a horizon
// node h constrained by h - z <= deadline.
func CreateInit(deadline int) *STN {
	g := simple.NewWeightedDirectedGraph(0, noUpperBound)
	z := g.NewNode()
	g.AddNode(z)
	h := g.NewNode()
	g.AddNode(h)
	g.SetWeightedEdge(simple.WeightedEdge{F: z, T: h, W: float64(deadline)})

	return &STN{
		g:          g,
		origin:     z.ID(),
		horizon:    h.ID(),
		deadline:   deadline,
		lastEnd:    z.ID(),
		ends:       []int64{z.ID()},
		pendingEnd: map[model.ActionID]int64{},
	}
}

// AddAction commits one compiled action to the timeline and re-checks
// consistency:
//   - a StartAction gets a fresh start node chained after the
//     previously committed point, plus a reserved end node fixed at
//     exactly a.Duration after it; the chain advances to the start
//     node, since other actions may be committed while a is in flight.
//   - the matching EndAction reuses the end node its StartAction
//     reserved, rather than allocating an unconstrained one.
//   - an Instantaneous action gets a single new node.
//
// It returns the new action's start and end time-point IDs (equal,
// except for a StartAction) together with whether the STN remains
// consistent.
func (s *STN) AddAction(a *model.Action) (start, end int64, consistent bool) {
	switch a.Kind {
	case model.EndAction:
		if reserved, ok := s.pendingEnd[a.ID]; ok {
			delete(s.pendingEnd, a.ID)
			// reserved may already carry its paired start's duration
			// edge to whatever lastEnd was at start-commit time (when
			// nothing else was committed in between); tightenOrAdd keeps
			// that bound instead of overwriting it with a weaker one.
			s.tightenOrAdd(reserved, s.lastEnd, 0)
			s.lastEnd = reserved
			s.ends = append(s.ends, reserved)
			return reserved, reserved, s.IsConsistent()
		}
		// No matching start was committed through this STN (e.g. a
		// standalone test committing only the end action): fall back to
		// treating it like an instantaneous commit.
		fallthrough

	case model.Instantaneous:
		node := s.g.NewNode()
		s.g.AddNode(node)
		s.g.SetWeightedEdge(simple.WeightedEdge{F: node, T: s.g.Node(s.lastEnd), W: 0})
		s.lastEnd = node.ID()
		s.ends = append(s.ends, node.ID())
		return node.ID(), node.ID(), s.IsConsistent()

	case model.StartAction:
		startNode := s.g.NewNode()
		s.g.AddNode(startNode)
		s.g.SetWeightedEdge(simple.WeightedEdge{F: startNode, T: s.g.Node(s.lastEnd), W: 0})

		endNode := s.g.NewNode()
		s.g.AddNode(endNode)
		d := float64(a.Duration)
		s.g.SetWeightedEdge(simple.WeightedEdge{F: startNode, T: endNode, W: d})
		s.g.SetWeightedEdge(simple.WeightedEdge{F: endNode, T: startNode, W: -d})
		if a.Paired != model.NoAction {
			s.pendingEnd[a.Paired] = endNode.ID()
		}

		s.lastEnd = startNode.ID()
		s.ends = append(s.ends, startNode.ID())
		return startNode.ID(), endNode.ID(), s.IsConsistent()

	default:
		return 0, 0, false
	}
}

// tightenOrAdd sets the edge f->t to weight w, unless an edge between
// them already exists with a weight at least as tight (simple.Graph
// holds one edge per ordered pair, so a second difference constraint
// on the same pair must keep whichever bound is stronger rather than
// silently replace it).
func (s *STN) tightenOrAdd(f, t int64, w float64) {
	if e := s.g.WeightedEdge(f, t); e != nil && e.Weight() <= w {
		return
	}
	s.g.SetWeightedEdge(simple.WeightedEdge{F: s.g.Node(f), T: s.g.Node(t), W: w})
}

// IsConsistent reports whether the network has no negative cycle.
//
// A difference constraint t_j - t_i <= w is stored as an edge i->j.
// The ordering constraints that chain each committed point after its
// predecessor are therefore edges from the later point back to the
// earlier one, so every committed node, every reserved end node and
// the origin are reachable from the most recently committed point,
// while the origin itself reaches only the horizon node. Running
// Bellman-Ford from s.lastEnd instead of s.origin is what lets it see
// the entire committed timeline.
func (s *STN) IsConsistent() bool {
	_, ok := path.BellmanFordFrom(s.g.Node(s.lastEnd), s.g)
	return ok
}

// GetCurrentEndTime returns the largest earliest-schedule time among
// the committed nodes in s.ends, or an error if the network is
// inconsistent. The reserved end node of a StartAction whose EndAction
// has not been committed yet is not in s.ends and is not counted.
//
// A node's earliest time is -shortestPath(node, origin): the ordering
// edges point from each committed point back to its predecessor (see
// IsConsistent), so the distance a single-source search needs is the
// one measured FROM each node TO the origin, not from the origin
// outward. Negating that distance turns the upper bound it gives on
// "origin minus node" back into the node's own earliest schedule time.
func (s *STN) GetCurrentEndTime() (int, error) {
	latest := 0.0
	for _, e := range s.ends {
		shortest, ok := path.BellmanFordFrom(s.g.Node(e), s.g)
		if !ok {
			return 0, fmt.Errorf("stn.GetCurrentEndTime: network is inconsistent")
		}
		if d := -shortest.WeightTo(s.origin); d > latest {
			latest = d
		}
	}
	return int(latest), nil
}

// Deadline returns the fixed horizon deadline the network was created
// with.
func (s *STN) Deadline() int {
	return s.deadline
}

// Snapshot returns an independent copy of s, for carrying one STN
// state per MCTS SNode (spec.md §4.4's temporal variant).
func (s *STN) Snapshot() *STN {
	cp := simple.NewWeightedDirectedGraph(0, noUpperBound)
	nodes := s.g.Nodes()
	for nodes.Next() {
		cp.AddNode(nodes.Node())
	}
	edges := s.g.WeightedEdges()
	for edges.Next() {
		e := edges.WeightedEdge()
		cp.SetWeightedEdge(simple.WeightedEdge{F: e.From(), T: e.To(), W: e.Weight()})
	}
	pendingEnd := make(map[model.ActionID]int64, len(s.pendingEnd))
	for k, v := range s.pendingEnd {
		pendingEnd[k] = v
	}

	return &STN{
		g:          cp,
		origin:     s.origin,
		horizon:    s.horizon,
		deadline:   s.deadline,
		lastEnd:    s.lastEnd,
		ends:       append([]int64(nil), s.ends...),
		pendingEnd: pendingEnd,
	}
}
