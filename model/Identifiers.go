// Package model implements the read-only data model that the planning
// core consumes: types, objects, fluents, actions and problems. It
// assigns small integer identifiers to every named entity at
// construction time so that the rest of the engine can avoid
// string-based lookups.
package model

// TypeID identifies a user-defined object type.
type TypeID int

// ObjectID identifies an object of some TypeID.
type ObjectID int

// FluentID identifies a fluent declaration (name + parameter types).
type FluentID int

// GroundFluentID identifies a fluent applied to a specific tuple of
// objects. GroundFluentIDs are interned by a Problem so that two
// occurrences of the same (fluent, args) pair always compare equal.
type GroundFluentID int

// ActionID identifies an action, lifted or ground, original or
// compiled.
type ActionID int

// NoAction is the sentinel value used where an ActionID is optional
// (for example, an action with no paired start/end action). It is not
// ActionID's zero value: 0 is a valid action index.
const NoAction ActionID = -1
