// Package ground implements the Grounder (spec.md §2): given a lifted
// action with typed parameters, it produces every ground instance of
// that action over the problem's typed objects, ready for the
// Compiler and, eventually, the MDP.
package ground

import (
	"fmt"

	"github.com/brannovich/tempoplan/model"
)

// Problem grounds every lifted action in p and replaces p.Actions with
// the resulting ground actions. It is safe to call once per problem,
// before compilation.
func Problem(p *model.Problem) error {
	var actions []model.Action
	for _, lifted := range p.Lifted {
		grounded, err := action(p, lifted)
		if err != nil {
			return fmt.Errorf("ground.Problem: grounding %q: %w", lifted.Name, err)
		}
		actions = append(actions, grounded...)
	}
	for i := range actions {
		actions[i].ID = model.ActionID(i)
	}
	p.Actions = actions
	p.IndexActions()
	return nil
}

// action returns every ground instance of lifted, one per binding of
// its parameters to objects of matching type.
func action(p *model.Problem, lifted model.LiftedAction) ([]model.Action, error) {
	bindings := bindings(p, lifted.ParamTypes)

	out := make([]model.Action, 0, len(bindings))
	for _, binding := range bindings {
		a := model.Action{
			Name:      instanceName(p, lifted.Name, binding),
			ParamObjs: binding,
			Duration:  lifted.Duration,
			Paired:    model.NoAction,
		}

		switch lifted.Kind {
		case model.LiftedInstantaneous:
			a.Kind = model.Instantaneous
			pos, neg, err := literalSets(p, lifted.Pre[model.Overall], binding)
			if err != nil {
				return nil, err
			}
			a.PosPre = map[model.TimingTag]model.GroundFluentSet{model.Overall: pos}
			a.NegPre = map[model.TimingTag]model.GroundFluentSet{model.Overall: neg}

			add, del, err := literalSets(p, lifted.Eff, binding)
			if err != nil {
				return nil, err
			}
			a.AddEff, a.DelEff = add, del

			probs, err := probEffects(p, lifted.ProbEffects, binding)
			if err != nil {
				return nil, err
			}
			a.ProbEffects = probs

		case model.LiftedDurative:
			a.Kind = model.Durative
			a.PosPre = map[model.TimingTag]model.GroundFluentSet{}
			a.NegPre = map[model.TimingTag]model.GroundFluentSet{}
			for _, tag := range []model.TimingTag{model.Start, model.Overall, model.End} {
				pos, neg, err := literalSets(p, lifted.Pre[tag], binding)
				if err != nil {
					return nil, err
				}
				a.PosPre[tag], a.NegPre[tag] = pos, neg
			}

			startAdd, startDel, err := literalSets(p, lifted.StartEff, binding)
			if err != nil {
				return nil, err
			}
			a.StartAddEff, a.StartDelEff = startAdd, startDel

			endAdd, endDel, err := literalSets(p, lifted.EndEff, binding)
			if err != nil {
				return nil, err
			}
			a.EndAddEff, a.EndDelEff = endAdd, endDel

			probs, err := probEffects(p, lifted.ProbEffects, binding)
			if err != nil {
				return nil, err
			}
			a.ProbEffects = probs

		default:
			return nil, fmt.Errorf("action: unknown lifted kind %v", lifted.Kind)
		}

		out = append(out, a)
	}
	return out, nil
}

// bindings returns the cartesian product of objects of each type in
// paramTypes, one []ObjectID per combination.
func bindings(p *model.Problem, paramTypes []model.TypeID) [][]model.ObjectID {
	if len(paramTypes) == 0 {
		return [][]model.ObjectID{{}}
	}
	rest := bindings(p, paramTypes[1:])
	objs := p.ObjectsOfType(paramTypes[0])

	out := make([][]model.ObjectID, 0, len(objs)*len(rest))
	for _, o := range objs {
		for _, r := range rest {
			combo := make([]model.ObjectID, 0, len(paramTypes))
			combo = append(combo, o)
			combo = append(combo, r...)
			out = append(out, combo)
		}
	}
	return out
}

// resolve substitutes a ParamRef's variable (if any) with the bound
// object at that position.
func resolve(ref model.ParamRef, binding []model.ObjectID) model.ObjectID {
	if !ref.IsVar {
		return ref.Obj
	}
	return binding[ref.Var]
}

// literalSets grounds a list of lifted Literals against binding,
// splitting them into positive and negative GroundFluentSets.
func literalSets(p *model.Problem, lits []model.Literal, binding []model.ObjectID) (pos, neg model.GroundFluentSet, err error) {
	var posIDs, negIDs []model.GroundFluentID
	for _, l := range lits {
		args := make([]model.ObjectID, len(l.Ref.Args))
		for i, a := range l.Ref.Args {
			args[i] = resolve(a, binding)
		}
		id, err := p.Ground(l.Ref.Fluent, args...)
		if err != nil {
			return nil, nil, err
		}
		if l.Value {
			posIDs = append(posIDs, id)
		} else {
			negIDs = append(negIDs, id)
		}
	}
	return model.NewGroundFluentSet(posIDs...), model.NewGroundFluentSet(negIDs...), nil
}

// probEffects grounds a list of LiftedProbEffects against binding.
func probEffects(p *model.Problem, lifted []model.LiftedProbEffect, binding []model.ObjectID) ([]model.ProbabilisticEffect, error) {
	if len(lifted) == 0 {
		return nil, nil
	}
	out := make([]model.ProbabilisticEffect, 0, len(lifted))
	for _, pe := range lifted {
		outcomes := make([]model.Outcome, 0, len(pe.Outcomes))
		for _, o := range pe.Outcomes {
			add, del, err := literalSets(p, o.Assign, binding)
			if err != nil {
				return nil, err
			}
			outcomes = append(outcomes, model.Outcome{Prob: o.Prob, Add: add, Del: del})
		}
		ground := model.ProbabilisticEffect{Outcomes: outcomes}
		if err := ground.Validate(); err != nil {
			return nil, fmt.Errorf("probEffects: %w", err)
		}
		out = append(out, ground)
	}
	return out, nil
}

// instanceName renders a lifted action's name applied to a binding,
// e.g. drive(truck1,a,b), used as the ground action's diagnostic name
// and as the basis for the compiler's start-/end- synthesised names.
// An action with no parameters keeps its bare name (drive, not
// drive()).
func instanceName(p *model.Problem, name string, binding []model.ObjectID) string {
	if len(binding) == 0 {
		return name
	}
	s := name + "("
	for i, o := range binding {
		if i > 0 {
			s += ","
		}
		s += p.Object(o).Name
	}
	return s + ")"
}
