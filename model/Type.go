package model

// Type describes a user-defined object type by name. The compiler adds
// one synthetic Type, named DurativeAction (see compile.Problem), per
// compiled problem to hold the start-A sentinel objects it creates for
// durative actions.
type Type struct {
	ID   TypeID
	Name string
}

// Object is a named instance of a Type.
type Object struct {
	ID   ObjectID
	Name string
	Type TypeID
}
