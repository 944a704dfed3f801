package heuristic

import (
	"testing"

	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/state"
)

// driveProblem builds the compiled shape of spec.md §8 scenario 1: a
// start_drive (Overall precondition at_a, effect moving and an
// inExecution-style sentinel) paired with end_drive (Overall
// precondition on that sentinel, effect at_b, delayed by
// start_drive's duration) - the same anchoring the compile package's
// buildEnd always injects, so the relaxed graph
// can't mark end_drive reachable before start_drive actually applies.
func driveProblem(t *testing.T, duration int) (*model.Problem, model.GroundFluentID, model.GroundFluentID) {
	t.Helper()
	p := model.NewProblem()
	atAID, _ := p.AddFluent("at_a")
	atBID, _ := p.AddFluent("at_b")
	movingID, _ := p.AddFluent("moving")
	executingID, _ := p.AddFluent("executing")
	atA, _ := p.Ground(atAID)
	atB, _ := p.Ground(atBID)
	moving, _ := p.Ground(movingID)
	executing, _ := p.Ground(executingID)

	p.Actions = []model.Action{
		{
			ID:       0,
			Name:     "start_drive",
			Kind:     model.StartAction,
			Paired:   1,
			Duration: duration,
			PosPre:   map[model.TimingTag]model.GroundFluentSet{model.Overall: model.NewGroundFluentSet(atA)},
			AddEff:   model.NewGroundFluentSet(moving, executing),
		},
		{
			ID:     1,
			Name:   "end_drive",
			Kind:   model.EndAction,
			Paired: 0,
			PosPre: map[model.TimingTag]model.GroundFluentSet{model.Overall: model.NewGroundFluentSet(executing)},
			AddEff: model.NewGroundFluentSet(atB),
		},
	}
	p.IndexActions()
	p.AddGoal(atB)
	p.Deadline = 10
	return p, atA, atB
}

func TestEstimate_ReachableGoalDiscountsByElapsedTime(t *testing.T) {
	p, atA, _ := driveProblem(t, 3)
	s := state.New(atA)

	got := Estimate(p, s, 0)
	want := TerminalReward - 3
	if got != want {
		t.Errorf("Estimate() = %v, want %v (goal reachable in 3 = start_drive's paired duration)", got, want)
	}
}

func TestEstimate_DelaysEndActionByPairedStartDuration(t *testing.T) {
	p, atA, atB := driveProblem(t, 5)
	s := state.New(atA)

	gt, ok := goalTime(p, s, 0)
	if !ok {
		t.Fatal("goalTime reported the goal unreachable")
	}
	if gt != 5 {
		t.Errorf("goalTime() = %d, want 5 (end_drive's effects delayed by start_drive.Duration)", gt)
	}
	_ = atB
}

func TestEstimate_UnreachableGoalReturnsSentinel(t *testing.T) {
	p := model.NewProblem()
	goalID, _ := p.AddFluent("unreachable_fact")
	goal, _ := p.Ground(goalID)
	p.AddGoal(goal)
	p.Deadline = 10
	// No actions at all produce the goal fluent.

	got := Estimate(p, state.New(), 0)
	if got != Unreachable {
		t.Errorf("Estimate() = %v, want Unreachable (%v)", got, Unreachable)
	}
}

func TestEstimate_AlreadySatisfiedGoalCostsNothing(t *testing.T) {
	p, _, atB := driveProblem(t, 3)
	s := state.New(atB)

	got := Estimate(p, s, 4)
	if got != TerminalReward {
		t.Errorf("Estimate() with the goal already true = %v, want %v", got, TerminalReward)
	}
}

func TestEstimate_RespectsClockOffset(t *testing.T) {
	p, atA, _ := driveProblem(t, 2)
	s := state.New(atA)

	got := Estimate(p, s, 7)
	want := TerminalReward - 2
	if got != want {
		t.Errorf("Estimate() at clock=7 = %v, want %v (delay is relative to clock, not absolute)", got, want)
	}
}
