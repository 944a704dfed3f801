package model

import "fmt"

// groundFluentRecord is the interning record behind a GroundFluentID.
type groundFluentRecord struct {
	fluent FluentID
	args   []ObjectID
}

// Problem is the read-only data model the planning core consumes
// (spec.md §6): typed objects, Boolean fluents, lifted and grounded
// actions, an initial state, goals and a deadline. It owns the
// interning tables that hand out stable integer identifiers for
// fluents, objects and ground fluents, per the design note in spec.md
// §9 favouring integer handles over string-based lookups; a name
// table is kept alongside purely for diagnostics.
type Problem struct {
	types      []Type
	typeByName map[string]TypeID

	objects       []Object
	objectByName  map[string]ObjectID
	objectsByType map[TypeID][]ObjectID

	fluents      []Fluent
	fluentByName map[string]FluentID

	groundFluents []groundFluentRecord
	internTable   map[string]GroundFluentID

	Lifted  []LiftedAction
	Actions []Action // populated once the problem has been grounded

	actionByName map[string]ActionID

	InitialTrue GroundFluentSet
	Goals       GroundFluentSet
	Deadline    int
}

// NewProblem returns an empty Problem ready for AddType/AddObject/
// AddFluent/AddLiftedAction calls.
func NewProblem() *Problem {
	return &Problem{
		typeByName:    map[string]TypeID{},
		objectByName:  map[string]ObjectID{},
		objectsByType: map[TypeID][]ObjectID{},
		fluentByName:  map[string]FluentID{},
		internTable:   map[string]GroundFluentID{},
		actionByName:  map[string]ActionID{},
	}
}

// AddType declares a new user type and returns its TypeID. Adding a
// type with a name that already exists returns the existing TypeID.
func (p *Problem) AddType(name string) TypeID {
	if id, ok := p.typeByName[name]; ok {
		return id
	}
	id := TypeID(len(p.types))
	p.types = append(p.types, Type{ID: id, Name: name})
	p.typeByName[name] = id
	return id
}

// TypeByName returns the TypeID previously registered for name.
func (p *Problem) TypeByName(name string) (TypeID, bool) {
	id, ok := p.typeByName[name]
	return id, ok
}

// AddObject declares a new object of the given type and returns its
// ObjectID.
func (p *Problem) AddObject(name string, t TypeID) (ObjectID, error) {
	if _, ok := p.objectByName[name]; ok {
		return 0, fmt.Errorf("addObject: object %q already exists", name)
	}
	id := ObjectID(len(p.objects))
	p.objects = append(p.objects, Object{ID: id, Name: name, Type: t})
	p.objectByName[name] = id
	p.objectsByType[t] = append(p.objectsByType[t], id)
	return id, nil
}

// ObjectByName looks up an object by its diagnostic name.
func (p *Problem) ObjectByName(name string) (ObjectID, bool) {
	id, ok := p.objectByName[name]
	return id, ok
}

// Object returns the Object record for id.
func (p *Problem) Object(id ObjectID) Object {
	return p.objects[id]
}

// ObjectsOfType returns every object declared with type t, in
// declaration order. The Grounder iterates this slice when expanding a
// lifted action's parameters.
func (p *Problem) ObjectsOfType(t TypeID) []ObjectID {
	return p.objectsByType[t]
}

// AddFluent declares a new fluent and returns its FluentID.
func (p *Problem) AddFluent(name string, paramTypes ...TypeID) (FluentID, error) {
	if _, ok := p.fluentByName[name]; ok {
		return 0, fmt.Errorf("addFluent: fluent %q already exists", name)
	}
	id := FluentID(len(p.fluents))
	p.fluents = append(p.fluents, Fluent{ID: id, Name: name, ParamTypes: paramTypes})
	p.fluentByName[name] = id
	return id, nil
}

// FluentByName looks up a fluent by its diagnostic name.
func (p *Problem) FluentByName(name string) (FluentID, bool) {
	id, ok := p.fluentByName[name]
	return id, ok
}

// Fluent returns the Fluent declaration for id.
func (p *Problem) Fluent(id FluentID) Fluent {
	return p.fluents[id]
}

// Ground interns (fluent, args) into a stable GroundFluentID, creating
// one if this is the first time the combination has been seen.
func (p *Problem) Ground(fluent FluentID, args ...ObjectID) (GroundFluentID, error) {
	decl := p.fluents[fluent]
	if len(args) != decl.Arity() {
		return 0, fmt.Errorf("ground: fluent %q takes %d arguments, got %d",
			decl.Name, decl.Arity(), len(args))
	}
	key := internKey(fluent, args)
	if id, ok := p.internTable[key]; ok {
		return id, nil
	}
	id := GroundFluentID(len(p.groundFluents))
	cp := make([]ObjectID, len(args))
	copy(cp, args)
	p.groundFluents = append(p.groundFluents, groundFluentRecord{fluent: fluent, args: cp})
	p.internTable[key] = id
	return id, nil
}

// GroundInfo returns the fluent and argument objects a GroundFluentID
// was interned from, for diagnostics.
func (p *Problem) GroundInfo(id GroundFluentID) (FluentID, []ObjectID) {
	rec := p.groundFluents[id]
	return rec.fluent, rec.args
}

// GroundName renders a GroundFluentID as fluent(arg1,arg2,...) for
// diagnostics and test failure messages.
func (p *Problem) GroundName(id GroundFluentID) string {
	fluent, args := p.GroundInfo(id)
	name := p.fluents[fluent].Name
	s := name + "("
	for i, a := range args {
		if i > 0 {
			s += ","
		}
		s += p.objects[a].Name
	}
	return s + ")"
}

func internKey(fluent FluentID, args []ObjectID) string {
	buf := make([]byte, 0, 4+4*len(args))
	buf = appendInt(buf, int(fluent))
	for _, a := range args {
		buf = append(buf, '|')
		buf = appendInt(buf, int(a))
	}
	return string(buf)
}

func appendInt(buf []byte, v int) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	start := len(buf)
	if v == 0 {
		return append(buf, '0')
	}
	for v > 0 {
		buf = append(buf, byte('0'+v%10))
		v /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}

// AddLiftedAction registers a lifted action. It is used before
// grounding by problem authors and by test fixtures.
func (p *Problem) AddLiftedAction(a LiftedAction) ActionID {
	id := ActionID(len(p.Lifted))
	a.ID = id
	p.Lifted = append(p.Lifted, a)
	return id
}

// SetInitialValue marks a ground fluent true in the initial state.
// Fluents not marked are false by the closed-world assumption.
func (p *Problem) SetInitialValue(id GroundFluentID) {
	p.InitialTrue = p.InitialTrue.Union(NewGroundFluentSet(id))
}

// AddGoal adds a ground fluent to the goal set.
func (p *Problem) AddGoal(id GroundFluentID) {
	p.Goals = p.Goals.Union(NewGroundFluentSet(id))
}

// ActionByName looks up a ground/compiled action by name, used by the
// compiler's mutex pass instead of repeated linear scans.
func (p *Problem) ActionByName(name string) (ActionID, bool) {
	id, ok := p.actionByName[name]
	return id, ok
}

// IndexActions rebuilds the name -> ActionID index over p.Actions. It
// must be called whenever p.Actions is replaced wholesale (by the
// Grounder or the Compiler).
func (p *Problem) IndexActions() {
	p.actionByName = make(map[string]ActionID, len(p.Actions))
	for _, a := range p.Actions {
		p.actionByName[a.Name] = a.ID
	}
}

// Action returns the ground/compiled action with id.
func (p *Problem) Action(id ActionID) *Action {
	return &p.Actions[id]
}

// Clone returns a deep-enough copy of p suitable for the Compiler to
// mutate independently of the original lifted problem (mirroring
// original_source's Convert_problem cloning the problem it is given
// before mutating it).
func (p *Problem) Clone() *Problem {
	cp := *p
	cp.types = append([]Type(nil), p.types...)
	cp.typeByName = copyStringTypeMap(p.typeByName)
	cp.objects = append([]Object(nil), p.objects...)
	cp.objectByName = copyStringObjMap(p.objectByName)
	cp.objectsByType = map[TypeID][]ObjectID{}
	for k, v := range p.objectsByType {
		cp.objectsByType[k] = append([]ObjectID(nil), v...)
	}
	cp.fluents = append([]Fluent(nil), p.fluents...)
	cp.fluentByName = copyStringFluentMap(p.fluentByName)
	cp.groundFluents = append([]groundFluentRecord(nil), p.groundFluents...)
	cp.internTable = map[string]GroundFluentID{}
	for k, v := range p.internTable {
		cp.internTable[k] = v
	}
	cp.Lifted = append([]LiftedAction(nil), p.Lifted...)
	cp.Actions = append([]Action(nil), p.Actions...)
	cp.IndexActions()
	return &cp
}

func copyStringTypeMap(m map[string]TypeID) map[string]TypeID {
	cp := make(map[string]TypeID, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func copyStringObjMap(m map[string]ObjectID) map[string]ObjectID {
	cp := make(map[string]ObjectID, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func copyStringFluentMap(m map[string]FluentID) map[string]FluentID {
	cp := make(map[string]FluentID, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
