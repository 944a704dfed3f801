package model

// Literal is a fluent reference together with the Boolean value it
// must take (in a precondition) or is assigned (in an effect). It is
// the lifted-level building block the Grounder substitutes variables
// out of; grounded actions store plain GroundFluentSets instead.
type Literal struct {
	Ref   FluentRef
	Value bool
}
