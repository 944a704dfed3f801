package model

// LiftedKind distinguishes the two action shapes a problem author can
// write directly (spec.md §3): a single-step Instantaneous action, or
// a phased Durative action with a fixed integer duration.
type LiftedKind int

const (
	LiftedInstantaneous LiftedKind = iota
	LiftedDurative
)

// LiftedAction is an action as written by the problem author, with
// free parameter variables the Grounder later substitutes with
// concrete objects.
//
// For a LiftedInstantaneous action, Pre[Overall] and Eff are used.
// For a LiftedDurative action, Pre is keyed by Start/Overall/End,
// StartEff holds the during-effects applied when the action begins,
// EndEff holds the completion effects applied when it ends, and
// ProbEffects holds the end-phase probabilistic effects.
type LiftedAction struct {
	ID         ActionID
	Name       string
	Kind       LiftedKind
	ParamTypes []TypeID
	Duration   int // only meaningful for LiftedDurative

	Pre map[TimingTag][]Literal

	Eff []Literal // LiftedInstantaneous only

	StartEff []Literal // LiftedDurative only
	EndEff   []Literal // LiftedDurative only

	ProbEffects []LiftedProbEffect
}

// LiftedProbEffect is a ProbabilisticEffect whose outcomes are still
// expressed over FluentRefs containing free variables.
type LiftedProbEffect struct {
	Outcomes []LiftedOutcome
}

// LiftedOutcome is one outcome of a LiftedProbEffect.
type LiftedOutcome struct {
	Prob   float64
	Assign []Literal
}
