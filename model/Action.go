package model

// Kind is a tagged sum type over the shapes an action can take once
// grounded, per the design note in spec.md §9 ("runtime polymorphism
// over action variants maps to a tagged sum type").
type Kind int

const (
	// Instantaneous is a single-step ground action: AddEff/DelEff and
	// ProbEffects apply atomically, gated by PosPre/NegPre[Overall].
	Instantaneous Kind = iota
	// Durative is a ground action with a fixed duration and phased
	// preconditions/effects, prior to compilation.
	Durative
	// StartAction is the instantaneous action a Durative action is
	// split into at compile time, covering its START/OVERALL
	// preconditions and during-effects.
	StartAction
	// EndAction is the instantaneous action a Durative action is split
	// into at compile time, covering its END preconditions, completion
	// effects and probabilistic effects.
	EndAction
	// Combination is a synthesised tuple of simultaneously-starting
	// Durative actions (spec.md §4.2's CombinationMDP: "combination
	// actions (tuples of simultaneous durative actions)"). Members
	// names the underlying Durative actions started together; a
	// Combination action carries no preconditions/effects of its own -
	// CombinationMDP.Step starts every member directly.
	Combination
)

func (k Kind) String() string {
	switch k {
	case Instantaneous:
		return "Instantaneous"
	case Durative:
		return "Durative"
	case StartAction:
		return "StartAction"
	case EndAction:
		return "EndAction"
	case Combination:
		return "Combination"
	default:
		return "Unknown"
	}
}

// Action is a fully-grounded action: every fluent reference has been
// resolved to a GroundFluentID and every set is stored as a
// GroundFluentSet for fast legality checks (spec.md §4.1 step 3).
type Action struct {
	ID        ActionID
	Name      string
	Kind      Kind
	ParamObjs []ObjectID
	Duration  int // Durative, StartAction

	// Preconditions keyed by timing tag. Instantaneous, StartAction and
	// EndAction actions use only the Overall key.
	PosPre map[TimingTag]GroundFluentSet
	NegPre map[TimingTag]GroundFluentSet

	// AddEff/DelEff are the effects applied atomically by Instantaneous,
	// StartAction and EndAction actions.
	AddEff GroundFluentSet
	DelEff GroundFluentSet

	// StartAddEff/StartDelEff/EndAddEff/EndDelEff are populated only on
	// Durative actions, prior to compilation, distinguishing the
	// during-effects from the completion effects.
	StartAddEff GroundFluentSet
	StartDelEff GroundFluentSet
	EndAddEff   GroundFluentSet
	EndDelEff   GroundFluentSet

	ProbEffects []ProbabilisticEffect

	// Paired is the cross-referenced StartAction/EndAction of a
	// compiled durative action, or NoAction.
	Paired ActionID

	// Sentinel is the start-A sentinel object inExecution is indexed
	// by, set on StartAction/EndAction actions after compilation.
	Sentinel ObjectID

	// Members holds the underlying Durative ActionIDs a Combination
	// action starts simultaneously. Unused by every other Kind.
	Members []ActionID
}

// PosPreconditions returns the positive preconditions of a at tag,
// defaulting to an empty set if none were set for that tag.
func (a *Action) PosPreconditions(tag TimingTag) GroundFluentSet {
	return a.PosPre[tag]
}

// NegPreconditions returns the negative preconditions of a at tag.
func (a *Action) NegPreconditions(tag TimingTag) GroundFluentSet {
	return a.NegPre[tag]
}

// AddPrecondition adds a precondition fluent=value to a at tag. It is
// used by the compiler to inject mutex/soft-mutex preconditions.
func (a *Action) AddPrecondition(tag TimingTag, fluent GroundFluentID, value bool) {
	if a.PosPre == nil {
		a.PosPre = map[TimingTag]GroundFluentSet{}
	}
	if a.NegPre == nil {
		a.NegPre = map[TimingTag]GroundFluentSet{}
	}
	if value {
		a.PosPre[tag] = a.PosPre[tag].Union(NewGroundFluentSet(fluent))
	} else {
		a.NegPre[tag] = a.NegPre[tag].Union(NewGroundFluentSet(fluent))
	}
}

// Legal reports whether a's Overall preconditions hold in p (a set of
// currently-true ground fluents).
func (a *Action) Legal(p GroundFluentSet) bool {
	return a.PosPre[Overall].Subset(p) && a.NegPre[Overall].Disjoint(p)
}

// LegalStart reports whether a pre-compilation Durative action is
// eligible to begin in p: its Start and Overall preconditions must
// both hold, per spec.md §4.2's uncompiled CombinationMDP variant.
func (a *Action) LegalStart(p GroundFluentSet) bool {
	return a.PosPre[Start].Subset(p) && a.NegPre[Start].Disjoint(p) &&
		a.PosPre[Overall].Subset(p) && a.NegPre[Overall].Disjoint(p)
}
