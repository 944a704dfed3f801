package mdp

import (
	"testing"

	"github.com/brannovich/tempoplan/model"
	"github.com/brannovich/tempoplan/rng"
)

// combinationDrive builds the uncompiled (pre-Compiler) shape of
// spec.md §8 scenario 1: a single Durative drive(d=3) action with a
// Start precondition at_a, a start effect moving, and an end effect
// at_b - exercised directly by CombinationMDP instead of through
// compile.Problem's start/end split.
func combinationDrive(t *testing.T) (*model.Problem, model.GroundFluentID, model.GroundFluentID) {
	t.Helper()
	p := model.NewProblem()
	atAID, _ := p.AddFluent("at_a")
	atBID, _ := p.AddFluent("at_b")
	movingID, _ := p.AddFluent("moving")
	atA, _ := p.Ground(atAID)
	atB, _ := p.Ground(atBID)
	moving, _ := p.Ground(movingID)

	p.Actions = []model.Action{{
		ID:       0,
		Name:     "drive",
		Kind:     model.Durative,
		Duration: 3,
		Paired:   model.NoAction,
		PosPre: map[model.TimingTag]model.GroundFluentSet{
			model.Start: model.NewGroundFluentSet(atA),
		},
		NegPre:      map[model.TimingTag]model.GroundFluentSet{},
		StartAddEff: model.NewGroundFluentSet(moving),
		EndAddEff:   model.NewGroundFluentSet(atB),
	}}
	p.IndexActions()
	p.SetInitialValue(atA)
	p.AddGoal(atB)
	p.Deadline = 10
	return p, atA, atB
}

func TestCombinationMDP_StartingThenWaitingCompletesTheAction(t *testing.T) {
	p, _, atB := combinationDrive(t)
	m := NewCombination(p, 0.95, rng.New(1))

	c := m.InitialState()
	driveID, ok := p.ActionByName("drive")
	if !ok {
		t.Fatal("problem missing drive action")
	}

	_, afterStart, _, err := m.Step(c, driveID)
	if err != nil {
		t.Fatalf("Step(drive): %v", err)
	}
	if !afterStart.IsActiveActions() {
		t.Fatal("starting a durative action must enqueue it on the active queue")
	}
	if afterStart.Holds(atB) {
		t.Error("at_b must not hold immediately after starting drive")
	}

	terminal, afterWait, reward, err := m.Step(afterStart, model.NoAction)
	if err != nil {
		t.Fatalf("Step(wait): %v", err)
	}
	if afterWait.IsActiveActions() {
		t.Error("the queue should be drained once the single in-flight action completes")
	}
	if !afterWait.Holds(atB) {
		t.Error("at_b should hold once drive's end effect has fired")
	}
	if afterWait.CurrentTime != 3 {
		t.Errorf("CurrentTime = %d, want 3 (drive's duration)", afterWait.CurrentTime)
	}
	if !terminal {
		t.Error("reaching the goal with no in-flight actions should be terminal")
	}
	if reward != TerminalReward {
		t.Errorf("reward = %v, want %v on the terminal transition", reward, TerminalReward)
	}
}

func TestCombinationMDP_LegalActionsAlwaysIncludesWait(t *testing.T) {
	p, _, _ := combinationDrive(t)
	m := NewCombination(p, 0.95, rng.New(1))

	legal := m.LegalActions(m.InitialState())
	found := false
	for _, a := range legal {
		if a == model.NoAction {
			found = true
		}
	}
	if !found {
		t.Error("LegalActions must always include model.NoAction (\"wait\")")
	}
}

func TestCombinationMDP_WaitWithNothingInFlightErrors(t *testing.T) {
	p, _, _ := combinationDrive(t)
	m := NewCombination(p, 0.95, rng.New(1))

	if _, _, _, err := m.Step(m.InitialState(), model.NoAction); err == nil {
		t.Error("waiting with an empty active queue should be an error, not a silent no-op")
	}
}

// TestCombinationMDP_QueueDrainsMinimumFirst checks that two
// overlapping durative actions of different durations resolve in
// remaining-duration order, draining only the action(s) due at each
// step (spec.md §4.2's minimum-remaining-duration advance).
func TestCombinationMDP_QueueDrainsMinimumFirst(t *testing.T) {
	p := model.NewProblem()
	longDoneID, _ := p.AddFluent("long_done")
	shortDoneID, _ := p.AddFluent("short_done")
	longDone, _ := p.Ground(longDoneID)
	shortDone, _ := p.Ground(shortDoneID)

	p.Actions = []model.Action{
		{ID: 0, Name: "long", Kind: model.Durative, Duration: 5, Paired: model.NoAction,
			PosPre: map[model.TimingTag]model.GroundFluentSet{}, NegPre: map[model.TimingTag]model.GroundFluentSet{},
			EndAddEff: model.NewGroundFluentSet(longDone)},
		{ID: 1, Name: "short", Kind: model.Durative, Duration: 2, Paired: model.NoAction,
			PosPre: map[model.TimingTag]model.GroundFluentSet{}, NegPre: map[model.TimingTag]model.GroundFluentSet{},
			EndAddEff: model.NewGroundFluentSet(shortDone)},
	}
	p.IndexActions()
	p.Deadline = 10

	m := NewCombination(p, 0.95, rng.New(1))
	c := m.InitialState()

	longID, _ := p.ActionByName("long")
	shortID, _ := p.ActionByName("short")

	_, c, _, err := m.Step(c, longID)
	if err != nil {
		t.Fatalf("Step(long): %v", err)
	}
	_, c, _, err = m.Step(c, shortID)
	if err != nil {
		t.Fatalf("Step(short): %v", err)
	}

	_, c, _, err = m.Step(c, model.NoAction)
	if err != nil {
		t.Fatalf("Step(wait) first drain: %v", err)
	}
	if !c.Holds(shortDone) {
		t.Error("the first drain should complete the shorter action")
	}
	if c.Holds(longDone) {
		t.Error("the first drain must not complete the longer action yet")
	}
	if !c.IsActiveActions() {
		t.Error("the longer action should still be in flight after the first drain")
	}
	if c.CurrentTime != 2 {
		t.Errorf("CurrentTime after first drain = %d, want 2", c.CurrentTime)
	}

	_, c, _, err = m.Step(c, model.NoAction)
	if err != nil {
		t.Fatalf("Step(wait) second drain: %v", err)
	}
	if !c.Holds(longDone) {
		t.Error("the second drain should complete the longer action")
	}
	if c.IsActiveActions() {
		t.Error("no actions should remain in flight after the second drain")
	}
	if c.CurrentTime != 5 {
		t.Errorf("CurrentTime after second drain = %d, want 5", c.CurrentTime)
	}
}
