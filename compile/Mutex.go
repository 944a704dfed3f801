package compile

import "github.com/brannovich/tempoplan/model"

// hardMutex reports whether a and b are mutex: either their effects
// conflict outright, or a has an OVERALL precondition that b's
// start-phase assignment clobbers (spec.md §4.1 step 4).
func hardMutex(a, b model.Action) bool {
	posA, negA := allEffects(a)
	posB, negB := allEffects(b)
	if negB.Intersects(posA) || posB.Intersects(negA) {
		return true
	}

	overallPos, overallNeg := a.PosPre[model.Overall], a.NegPre[model.Overall]
	if len(overallPos) == 0 && len(overallNeg) == 0 {
		return false
	}

	startPos, startNeg := startAssignment(b)
	return overallPos.Intersects(startNeg) || overallNeg.Intersects(startPos)
}

// softMutex reports whether a has an OVERALL precondition that b's
// end-phase assignment (including probabilistic outcomes) clobbers.
// Following original_source, this is only meaningful when b is itself
// durative: an instantaneous action has no separate end phase to
// check.
func softMutex(a, b model.Action) bool {
	overallPos, overallNeg := a.PosPre[model.Overall], a.NegPre[model.Overall]
	if len(overallPos) == 0 && len(overallNeg) == 0 {
		return false
	}

	endPos, endNeg, ok := endAssignment(b)
	if !ok {
		return false
	}
	return overallPos.Intersects(endNeg) || overallNeg.Intersects(endPos)
}

// allEffects returns every fluent a sets true and every fluent a sets
// false, across its full execution (during + end for a durative
// action, or its single atomic step otherwise).
func allEffects(a model.Action) (pos, neg model.GroundFluentSet) {
	if a.Kind == model.Durative {
		return a.StartAddEff.Union(a.EndAddEff).Union(probAdd(a)),
			a.StartDelEff.Union(a.EndDelEff).Union(probDel(a))
	}
	return a.AddEff.Union(probAdd(a)), a.DelEff.Union(probDel(a))
}

// startAssignment returns the fluents a sets true/false at the instant
// it starts: its during-effects if durative, or its whole effect set
// otherwise.
func startAssignment(a model.Action) (pos, neg model.GroundFluentSet) {
	if a.Kind == model.Durative {
		return a.StartAddEff, a.StartDelEff
	}
	return a.AddEff.Union(probAdd(a)), a.DelEff.Union(probDel(a))
}

// endAssignment returns the fluents a sets true/false at the instant it
// completes. ok is false unless a is durative.
func endAssignment(a model.Action) (pos, neg model.GroundFluentSet, ok bool) {
	if a.Kind != model.Durative {
		return nil, nil, false
	}
	return a.EndAddEff.Union(probAdd(a)), a.EndDelEff.Union(probDel(a)), true
}

func probAdd(a model.Action) model.GroundFluentSet {
	var out model.GroundFluentSet
	for _, pe := range a.ProbEffects {
		for _, o := range pe.Outcomes {
			out = out.Union(o.Add)
		}
	}
	return out
}

func probDel(a model.Action) model.GroundFluentSet {
	var out model.GroundFluentSet
	for _, pe := range a.ProbEffects {
		for _, o := range pe.Outcomes {
			out = out.Union(o.Del)
		}
	}
	return out
}
