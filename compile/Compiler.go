// Package compile implements the Durative-Action Compiler (spec.md
// §4.1): it lowers a grounded problem containing durative actions into
// an equivalent problem over instantaneous actions plus an
// inExecution fluent, synthesising the mutex and soft-mutex
// preconditions that keep parallel executions sound.
//
// The four-pass structure (add inExecution, split durative actions,
// normalise instantaneous actions, mutex analysis) follows
// original_source's Convert_problem.__init__ line for line; "normalise
// instantaneous actions" needs no extra pass here because ground.Problem
// already stores every action's preconditions/effects as split
// positive/negative GroundFluentSets.
package compile

import (
	"fmt"

	"github.com/brannovich/tempoplan/model"
)

// Problem compiles orig, whose p.Actions must already be grounded
// (see ground.Problem), and returns a new, independent Problem in
// which every Durative action has been replaced by a start/end
// InstantaneousAction pair.
func Problem(orig *model.Problem) (*model.Problem, error) {
	compiled := orig.Clone()
	original := append([]model.Action(nil), compiled.Actions...)

	sentinelType := compiled.AddType("DurativeAction")
	inExec, err := compiled.AddFluent("inExecution", sentinelType)
	if err != nil {
		return nil, fmt.Errorf("compile.Problem: %w", err)
	}

	sentinelOf := make(map[string]model.ObjectID, len(original))
	startOf := make(map[string]model.ActionID, len(original))
	endOf := make(map[string]model.ActionID, len(original))

	var actions []model.Action
	for _, a := range original {
		if a.Kind != model.Durative {
			a.ID = model.ActionID(len(actions))
			// Copy the precondition maps so that mutex injection below
			// never writes into orig's actions.
			pos := make(map[model.TimingTag]model.GroundFluentSet, len(a.PosPre))
			for tag, set := range a.PosPre {
				pos[tag] = set
			}
			neg := make(map[model.TimingTag]model.GroundFluentSet, len(a.NegPre))
			for tag, set := range a.NegPre {
				neg[tag] = set
			}
			a.PosPre, a.NegPre = pos, neg
			actions = append(actions, a)
			continue
		}

		sentinel, err := compiled.AddObject("start-"+a.Name, sentinelType)
		if err != nil {
			return nil, fmt.Errorf("compile.Problem: %w", err)
		}
		sentinelOf[a.Name] = sentinel

		inExecGF, err := compiled.Ground(inExec, sentinel)
		if err != nil {
			return nil, fmt.Errorf("compile.Problem: %w", err)
		}

		startID := model.ActionID(len(actions))
		endID := startID + 1

		start := buildStart(a, inExecGF, sentinel)
		start.ID, start.Paired = startID, endID
		end := buildEnd(a, inExecGF, sentinel)
		end.ID, end.Paired = endID, startID

		actions = append(actions, start, end)
		startOf[a.Name] = startID
		endOf[a.Name] = endID
	}

	compiled.Actions = actions
	compiled.IndexActions()

	for _, a := range original {
		if a.Kind != model.Durative {
			continue
		}
		for _, b := range original {
			if b.Name == a.Name {
				continue
			}
			if hardMutex(a, b) {
				if err := applyMutex(compiled, a, b, sentinelOf, startOf, inExec); err != nil {
					return nil, fmt.Errorf("compile.Problem: %w", err)
				}
			}
			if softMutex(a, b) {
				if err := applySoftMutex(compiled, a, b, sentinelOf, endOf, inExec); err != nil {
					return nil, fmt.Errorf("compile.Problem: %w", err)
				}
				if b.Kind == model.Durative && a.Duration > b.Duration {
					if err := applyMutex(compiled, b, a, sentinelOf, startOf, inExec); err != nil {
						return nil, fmt.Errorf("compile.Problem: %w", err)
					}
				}
			}
		}
	}

	return compiled, nil
}

// buildStart synthesises the start_A instantaneous action for a
// durative action a, per spec.md §4.1 step 2.
func buildStart(a model.Action, inExecGF model.GroundFluentID, sentinel model.ObjectID) model.Action {
	filteredOverallPos := a.PosPre[model.Overall].Without(a.StartAddEff)
	filteredOverallNeg := a.NegPre[model.Overall].Without(a.StartDelEff)

	pos := a.PosPre[model.Start].Union(filteredOverallPos)
	neg := a.NegPre[model.Start].Union(filteredOverallNeg).Union(model.NewGroundFluentSet(inExecGF))

	return model.Action{
		Name:      "start_" + a.Name,
		Kind:      model.StartAction,
		ParamObjs: a.ParamObjs,
		Duration:  a.Duration,
		Sentinel:  sentinel,
		PosPre:    map[model.TimingTag]model.GroundFluentSet{model.Overall: pos},
		NegPre:    map[model.TimingTag]model.GroundFluentSet{model.Overall: neg},
		AddEff:    a.StartAddEff.Union(model.NewGroundFluentSet(inExecGF)),
		DelEff:    a.StartDelEff,
	}
}

// buildEnd synthesises the end_A instantaneous action for a durative
// action a, per spec.md §4.1 step 2.
func buildEnd(a model.Action, inExecGF model.GroundFluentID, sentinel model.ObjectID) model.Action {
	pos := a.PosPre[model.End].Union(model.NewGroundFluentSet(inExecGF))
	neg := a.NegPre[model.End]

	return model.Action{
		Name:        "end_" + a.Name,
		Kind:        model.EndAction,
		ParamObjs:   a.ParamObjs,
		Sentinel:    sentinel,
		PosPre:      map[model.TimingTag]model.GroundFluentSet{model.Overall: pos},
		NegPre:      map[model.TimingTag]model.GroundFluentSet{model.Overall: neg},
		AddEff:      a.EndAddEff,
		DelEff:      a.EndDelEff.Union(model.NewGroundFluentSet(inExecGF)),
		ProbEffects: a.ProbEffects,
	}
}

// applyMutex adds the precondition inExecution(start-action)=false to
// conflicting (or its start action, if conflicting is durative).
func applyMutex(compiled *model.Problem, action, conflicting model.Action,
	sentinelOf map[string]model.ObjectID, startOf map[string]model.ActionID, inExec model.FluentID) error {

	inExecGF, err := compiled.Ground(inExec, sentinelOf[action.Name])
	if err != nil {
		return err
	}

	var id model.ActionID
	if conflicting.Kind == model.Durative {
		id = startOf[conflicting.Name]
	} else {
		var ok bool
		id, ok = compiled.ActionByName(conflicting.Name)
		if !ok {
			return fmt.Errorf("applyMutex: no compiled action named %q", conflicting.Name)
		}
	}
	compiled.Action(id).AddPrecondition(model.Overall, inExecGF, false)
	return nil
}

// applySoftMutex adds the precondition inExecution(start-action)=false
// to conflicting's end action; conflicting must be durative (see
// softMutex).
func applySoftMutex(compiled *model.Problem, action, conflicting model.Action,
	sentinelOf map[string]model.ObjectID, endOf map[string]model.ActionID, inExec model.FluentID) error {

	inExecGF, err := compiled.Ground(inExec, sentinelOf[action.Name])
	if err != nil {
		return err
	}
	id := endOf[conflicting.Name]
	compiled.Action(id).AddPrecondition(model.Overall, inExecGF, false)
	return nil
}
