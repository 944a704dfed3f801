package mcts

import (
	"math"
	"time"

	"github.com/brannovich/tempoplan/heuristic"
	"github.com/brannovich/tempoplan/mdp"
	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/rng"
	"github.com/brannovich/tempoplan/state"
	"github.com/brannovich/tempoplan/stn"
)

// Engine drives one rooted search over the compiled problem's MDP,
// grounded on original_source's MCTS class: selection descends the
// tree along UCT-chosen actions, expanding one new SNode per
// trajectory and bootstrapping its value from either a rollout
// (default_policy/simulate) or the TRPG heuristic, then backs the
// reward up to the root.
type Engine struct {
	MDP    *mdp.MDP
	Config Config
	RNG    *rng.Source

	root *SNode
}

// New returns an Engine over m configured by cfg.
func New(m *mdp.MDP, cfg Config, r *rng.Source) *Engine {
	return &Engine{MDP: m, Config: cfg, RNG: r}
}

// Root returns the engine's current root, or nil before the first
// NewRoot/Advance call.
func (e *Engine) Root() *SNode {
	return e.root
}

// NewRoot discards any existing tree and builds a fresh root SNode for
// state s, at clock time the given STN snapshot currently reports.
func (e *Engine) NewRoot(s state.State, snapshot *stn.STN) *SNode {
	legal := e.MDP.LegalActions(s)
	var snap *stn.STN
	if e.Config.Temporal && e.Config.Selection != Plain {
		snap = snapshot
	}
	e.root = newSNode(s, 0, legal, nil, snap)
	if e.Config.Temporal {
		e.prune(e.root)
	}
	e.maybeSeedMax(e.root)
	return e.root
}

// Advance reuses the ANode subtree already grown under action at the
// previous root, if the resulting state s was already expanded there;
// otherwise it builds a fresh root, per spec.md §4.4's "root advance &
// reuse".
func (e *Engine) Advance(action model.ActionID, s state.State, snapshot *stn.STN) *SNode {
	if e.root != nil {
		if anode, ok := e.root.Children[action]; ok {
			if child, ok := anode.Children[s.Key()]; ok {
				child.Depth = 0
				child.Parent = nil
				e.root = child
				return e.root
			}
		}
	}
	return e.NewRoot(s, snapshot)
}

// Search runs selection trajectories from the root until budget
// elapses, then returns the root's best action by UCT's "highest
// value, not average" rule (spec.md §4.4). ok is false if the root has
// no possible actions.
func (e *Engine) Search(budget time.Duration) (action model.ActionID, ok bool) {
	if e.root == nil || len(e.root.Possible) == 0 {
		return model.NoAction, false
	}

	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		e.selection(e.root)
	}

	return e.bestAction(e.root)
}

// deadPenalty is returned from a selection trajectory that hits a
// state with no possible actions or, when the node carries an STN
// snapshot, whose current end time is past the deadline - a dead end,
// not a merely low-value outcome (spec.md §4.4 step 1).
const deadPenalty = -100.0

// selection descends one trajectory from n: selects an action via
// UCT, steps the MDP, recurses into (or creates) the successor SNode,
// and backs the resulting reward up through n and the chosen ANode.
// Below Config.SearchDepth it stops and returns n's leaf estimate.
func (e *Engine) selection(n *SNode) float64 {
	if len(n.Possible) == 0 {
		return deadPenalty
	}
	if n.STN != nil {
		if end, err := n.STN.GetCurrentEndTime(); err != nil || end > e.MDP.Deadline() {
			return deadPenalty
		}
	}
	if n.Depth > e.Config.SearchDepth {
		if e.Config.Selection == Plain {
			return e.rollout(n.State, n.Depth)
		}
		return heuristic.Estimate(e.MDP.Problem, n.State, n.Depth)
	}

	action := e.uct(n)
	terminal, next, r, err := e.MDP.Step(n.State, action)
	if err != nil {
		return deadPenalty
	}
	anode := n.Children[action]

	if !terminal {
		if child, ok := anode.Children[next.Key()]; ok {
			r += e.Config.Discount * e.selection(child)
		} else {
			var bootstrap float64
			if e.Config.Selection == Plain {
				bootstrap = e.rollout(next, n.Depth)
			} else {
				bootstrap = heuristic.Estimate(e.MDP.Problem, next, n.Depth+1)
			}
			r += e.Config.Discount * bootstrap
			snap := e.extendSnapshot(anode, action)
			child := newSNode(next, n.Depth+1, e.MDP.LegalActions(next), anode, snap)
			if e.Config.Temporal {
				e.prune(child)
			}
			e.maybeSeedMax(child)
			anode.addChild(child)
		}
	}

	n.Update(r)
	anode.Update(r)
	if e.Config.Selection == Max {
		e.maxUpdate(n)
	}

	return r
}

// uct selects an action from n's possible set: an action with zero
// visits is chosen immediately (forcing every child sampled once
// before any is revisited), else the action with the highest UCB1
// score, ties broken by first-encountered order (spec.md §4.4).
func (e *Engine) uct(n *SNode) model.ActionID {
	best := model.NoAction
	bestUB := math.Inf(-1)

	for _, action := range n.Possible {
		a := n.Children[action]
		if a.Count == 0 {
			return action
		}
		ub := a.Value/float64(a.Count) + e.Config.Exploration*math.Sqrt(math.Log(float64(n.Count))/float64(a.Count))
		if ub > bestUB {
			bestUB = ub
			best = action
		}
	}
	return best
}

// rollout performs a default-policy simulation from state to either a
// terminal state, the search depth, or a state with no legal actions,
// matching original_source's MCTS.simulate. It is the Plain variant's
// leaf bootstrap (spec.md §9's older, heuristic-free definition); Avg
// and Max bootstrap from the TRPG heuristic instead.
func (e *Engine) rollout(s state.State, depth int) float64 {
	cumulative := 0.0
	terminal := false
	for !terminal && depth < e.Config.SearchDepth {
		legal := e.MDP.LegalActions(s)
		if len(legal) == 0 {
			break
		}
		action := legal[e.RNG.Choice(len(legal))]

		var r float64
		var err error
		terminal, s, r, err = e.MDP.Step(s, action)
		if err != nil {
			break
		}
		cumulative += math.Pow(e.Config.Discount, float64(depth)) * r
		depth++
	}
	return cumulative
}

// bestAction returns the possible action at n with the highest raw
// Value (spec.md §4.4: "not average, not most-visited").
func (e *Engine) bestAction(n *SNode) (model.ActionID, bool) {
	best := model.NoAction
	bestValue := math.Inf(-1)
	for _, action := range n.Possible {
		if v := n.Children[action].Value; v > bestValue {
			bestValue = v
			best = action
		}
	}
	return best, best != model.NoAction
}

// maxUpdate recomputes n's Value as the maximum of its children's
// running averages, per spec.md §4.4's max-backup variant.
func (e *Engine) maxUpdate(n *SNode) {
	best := math.Inf(-1)
	for _, a := range n.Children {
		if a.Count == 0 {
			continue
		}
		if avg := a.Value / float64(a.Count); avg > best {
			best = avg
		}
	}
	if !math.IsInf(best, -1) {
		n.Value = best
	}
}

// maybeSeedMax, for the Max selection variant, eagerly evaluates every
// action's immediate r + gamma*heuristic(s') as its ANode's initial
// value and sets n's own value to the maximum, per spec.md §4.4.
func (e *Engine) maybeSeedMax(n *SNode) {
	if e.Config.Selection != Max {
		return
	}
	best := math.Inf(-1)
	for _, action := range n.Possible {
		terminal, next, r, err := e.MDP.Step(n.State, action)
		if err != nil {
			continue
		}
		v := r
		if !terminal {
			v += e.Config.Discount * heuristic.Estimate(e.MDP.Problem, next, n.Depth+1)
		}
		n.Children[action].Value = v
		if v > best {
			best = v
		}
	}
	if !math.IsInf(best, -1) {
		n.Value = best
	}
}

// extendSnapshot returns parent's STN snapshot extended by action's
// temporal footprint, or nil if the engine is not running the temporal
// variant.
func (e *Engine) extendSnapshot(parent *ANode, action model.ActionID) *stn.STN {
	if !e.Config.Temporal || parent.STN == nil {
		return nil
	}
	return parent.STN
}

// prune checks, for every possible action at n, whether extending n's
// STN snapshot by that action's temporal footprint stays consistent;
// inconsistent actions are removed from n's possible-action set and
// their ANode is deleted from n.Children, so they are never selected
// again (spec.md §4.4's C_MCTS variant).
func (e *Engine) prune(n *SNode) {
	if n.STN == nil {
		return
	}
	for _, action := range append([]model.ActionID(nil), n.Possible...) {
		act := e.MDP.Problem.Action(action)
		candidate := n.STN.Snapshot()
		if _, _, ok := candidate.AddAction(act); ok {
			n.Children[action].STN = candidate
			continue
		}
		n.removeAction(action)
		delete(n.Children, action)
	}
}

// Commit extends the driver's own STN (not a search-time snapshot) by
// action, returning its start/end time-points and the resulting
// consistency. It is the STN counterpart to MDP.Step in the planner
// driver's outer loop.
func Commit(s *stn.STN, p *model.Problem, action model.ActionID) (start, end int64, consistent bool) {
	start, end, ok := s.AddAction(p.Action(action))
	return start, end, ok
}
