package compile

import (
	"testing"

	"github.com/brannovich/tempoplan/ground"
	"github.com/brannovich/tempoplan/model"
)

// literal builds a zero-arity Literal for fluent id.
func literal(id model.FluentID, value bool) model.Literal {
	return model.Literal{Ref: model.FluentRef{Fluent: id}, Value: value}
}

// groundedDrive builds the single-durative-action problem from spec.md
// §8 scenario 1: drive(d=3), START-precondition at_a=true,
// START-effect moving=true, END-effect at_b=true.
func groundedDrive(t *testing.T, deadline int) *model.Problem {
	t.Helper()
	p := model.NewProblem()
	atA, _ := p.AddFluent("at_a")
	atB, _ := p.AddFluent("at_b")
	moving, _ := p.AddFluent("moving")

	p.AddLiftedAction(model.LiftedAction{
		Name:     "drive",
		Kind:     model.LiftedDurative,
		Duration: 3,
		Pre: map[model.TimingTag][]model.Literal{
			model.Start: {literal(atA, true)},
		},
		StartEff: []model.Literal{literal(moving, true)},
		EndEff:   []model.Literal{literal(atB, true)},
	})

	atAGF, _ := p.Ground(atA)
	p.SetInitialValue(atAGF)
	atBGF, _ := p.Ground(atB)
	p.AddGoal(atBGF)
	p.Deadline = deadline

	if err := ground.Problem(p); err != nil {
		t.Fatalf("ground.Problem: %v", err)
	}
	return p
}

func TestProblem_SplitsDurativeAction(t *testing.T) {
	orig := groundedDrive(t, 10)
	compiled, err := Problem(orig)
	if err != nil {
		t.Fatalf("Problem: %v", err)
	}

	startID, ok := compiled.ActionByName("start_drive")
	if !ok {
		t.Fatal("compiled problem missing start_drive")
	}
	endID, ok := compiled.ActionByName("end_drive")
	if !ok {
		t.Fatal("compiled problem missing end_drive")
	}

	start := compiled.Action(startID)
	end := compiled.Action(endID)

	if start.Kind != model.StartAction || end.Kind != model.EndAction {
		t.Fatalf("unexpected kinds: start=%v end=%v", start.Kind, end.Kind)
	}
	if start.Paired != endID {
		t.Errorf("start.Paired = %v, want %v", start.Paired, endID)
	}
	if end.Paired != startID {
		t.Errorf("end.Paired = %v, want %v", end.Paired, startID)
	}
	if start.Duration != 3 {
		t.Errorf("start.Duration = %d, want 3", start.Duration)
	}

	// Every original durative action must be gone.
	if _, ok := compiled.ActionByName("drive"); ok {
		t.Error("compiled problem still has the original durative action")
	}
}

func TestProblem_PosNegDisjoint(t *testing.T) {
	orig := groundedDrive(t, 10)
	compiled, err := Problem(orig)
	if err != nil {
		t.Fatalf("Problem: %v", err)
	}

	for i := range compiled.Actions {
		a := &compiled.Actions[i]
		for tag, pos := range a.PosPre {
			if pos.Intersects(a.NegPre[tag]) {
				t.Errorf("action %q: PosPre/NegPre[%v] not disjoint", a.Name, tag)
			}
		}
		if a.AddEff.Intersects(a.DelEff) {
			t.Errorf("action %q: AddEff/DelEff not disjoint", a.Name)
		}
	}
}

// hardMutexProblem builds spec.md §8 scenario 2: paint(d=2) with
// during-effect wet=true, and sand(d=1) with OVERALL precondition
// wet=false.
func hardMutexProblem(t *testing.T) *model.Problem {
	t.Helper()
	p := model.NewProblem()
	wet, _ := p.AddFluent("wet")

	p.AddLiftedAction(model.LiftedAction{
		Name:     "paint",
		Kind:     model.LiftedDurative,
		Duration: 2,
		StartEff: []model.Literal{literal(wet, true)},
	})
	p.AddLiftedAction(model.LiftedAction{
		Name:     "sand",
		Kind:     model.LiftedDurative,
		Duration: 1,
		Pre: map[model.TimingTag][]model.Literal{
			model.Overall: {literal(wet, false)},
		},
	})
	p.Deadline = 10

	if err := ground.Problem(p); err != nil {
		t.Fatalf("ground.Problem: %v", err)
	}
	return p
}

// TestProblem_HardMutexInjectsPrecondition checks the hard-mutex
// direction against paint (START-effect wet:=true) and sand (OVERALL
// precondition wet=false): sand's OVERALL precondition is what's
// checked against paint's positive start assignment, so sand is the
// "action" side and paint is the "conflicting" side - the injected
// precondition uses sand's sentinel and lands on start_paint, not
// start_sand.
func TestProblem_HardMutexInjectsPrecondition(t *testing.T) {
	orig := hardMutexProblem(t)
	compiled, err := Problem(orig)
	if err != nil {
		t.Fatalf("Problem: %v", err)
	}

	startPaintID, ok := compiled.ActionByName("start_paint")
	if !ok {
		t.Fatal("compiled problem missing start_paint")
	}
	startSandSentinel, ok := compiled.ObjectByName("start-sand")
	if !ok {
		t.Fatal("compiled problem missing start-sand sentinel object")
	}
	inExec, ok := compiled.FluentByName("inExecution")
	if !ok {
		t.Fatal("compiled problem missing inExecution fluent")
	}
	inExecGF, err := compiled.Ground(inExec, startSandSentinel)
	if err != nil {
		t.Fatalf("Ground: %v", err)
	}

	startPaint := compiled.Action(startPaintID)
	if !startPaint.NegPre[model.Overall].Contains(inExecGF) {
		t.Error("start_paint is missing precondition inExecution(start-sand)=false")
	}
}

// softMutexProblem builds spec.md §8 scenario 4: A(d=3, OVERALL
// f=true), B(d=1, END f:=false).
func softMutexProblem(t *testing.T) *model.Problem {
	t.Helper()
	p := model.NewProblem()
	f, _ := p.AddFluent("f")

	p.AddLiftedAction(model.LiftedAction{
		Name:     "A",
		Kind:     model.LiftedDurative,
		Duration: 3,
		Pre: map[model.TimingTag][]model.Literal{
			model.Overall: {literal(f, true)},
		},
	})
	p.AddLiftedAction(model.LiftedAction{
		Name:     "B",
		Kind:     model.LiftedDurative,
		Duration: 1,
		EndEff:   []model.Literal{literal(f, false)},
	})
	p.Deadline = 10

	if err := ground.Problem(p); err != nil {
		t.Fatalf("ground.Problem: %v", err)
	}
	return p
}

// TestProblem_SoftMutexCoversStartAndEnd checks two distinct
// injections from the same A/B pair: the soft mutex itself (A's
// OVERALL f=true conflicts with B's END effect f:=false) puts A's
// sentinel on end_B; and since A outlasts B (duration 3 > 1), the
// duration-ordering hard mutex puts B's sentinel on start_A, so A
// cannot begin while B (which would end it early) is already running.
func TestProblem_SoftMutexCoversStartAndEnd(t *testing.T) {
	orig := softMutexProblem(t)
	compiled, err := Problem(orig)
	if err != nil {
		t.Fatalf("Problem: %v", err)
	}

	sentinelA, ok := compiled.ObjectByName("start-A")
	if !ok {
		t.Fatal("compiled problem missing start-A sentinel object")
	}
	sentinelB, ok := compiled.ObjectByName("start-B")
	if !ok {
		t.Fatal("compiled problem missing start-B sentinel object")
	}
	inExec, _ := compiled.FluentByName("inExecution")
	inExecA, err := compiled.Ground(inExec, sentinelA)
	if err != nil {
		t.Fatalf("Ground: %v", err)
	}
	inExecB, err := compiled.Ground(inExec, sentinelB)
	if err != nil {
		t.Fatalf("Ground: %v", err)
	}

	startA, _ := compiled.ActionByName("start_A")
	endB, _ := compiled.ActionByName("end_B")

	if !compiled.Action(startA).NegPre[model.Overall].Contains(inExecB) {
		t.Error("start_A is missing precondition inExecution(start-B)=false (duration-ordering hard mutex)")
	}
	if !compiled.Action(endB).NegPre[model.Overall].Contains(inExecA) {
		t.Error("end_B is missing precondition inExecution(start-A)=false (soft mutex)")
	}
}
