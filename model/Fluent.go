package model

// Fluent declares a named Boolean-valued function over typed
// parameters, e.g. at(?loc) or inExecution(?a : DurativeAction).
type Fluent struct {
	ID         FluentID
	Name       string
	ParamTypes []TypeID
}

// Arity returns the number of parameters the fluent takes.
func (f Fluent) Arity() int {
	return len(f.ParamTypes)
}

// ParamRef refers to one argument position of a FluentRef, either a
// variable bound by an enclosing lifted action's parameter list, or a
// concrete object already resolved (used directly by ground actions,
// and by compiler-synthesised references such as inExecution(s_A)).
type ParamRef struct {
	IsVar bool
	Var   int
	Obj   ObjectID
}

// Bound returns a ParamRef to a concrete object.
func Bound(o ObjectID) ParamRef { return ParamRef{Obj: o} }

// VarRef returns a ParamRef to the i-th parameter of the enclosing
// lifted action.
func VarRef(i int) ParamRef { return ParamRef{IsVar: true, Var: i} }

// FluentRef names a fluent applied to a tuple of arguments, each of
// which may be a free variable (pre-grounding) or a bound object
// (post-grounding, or compiler-synthesised).
type FluentRef struct {
	Fluent FluentID
	Args   []ParamRef
}

// Grounded reports whether every argument of r is already bound to a
// concrete object.
func (r FluentRef) Grounded() bool {
	for _, a := range r.Args {
		if a.IsVar {
			return false
		}
	}
	return true
}
