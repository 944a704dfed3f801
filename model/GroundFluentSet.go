package model

import "sort"

// GroundFluentSet is an immutable-by-convention set of interned ground
// fluent identifiers, stored as a sorted slice rather than a map.
//
// Design note: the source material's state comparisons are defined
// over Python sets of ground-fluent objects; here, per the
// stable-integer-identifier design note, membership is on small ints
// and the set itself is a sorted vector, so that two sets with the
// same members always produce an identical slice and can be compared
// with reflect-free equality and used as map keys via Key().
type GroundFluentSet []GroundFluentID

// NewGroundFluentSet builds a GroundFluentSet from ids, sorting and
// de-duplicating them.
func NewGroundFluentSet(ids ...GroundFluentID) GroundFluentSet {
	if len(ids) == 0 {
		return nil
	}
	cp := make([]GroundFluentID, len(ids))
	copy(cp, ids)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:0]
	for i, id := range cp {
		if i == 0 || id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return GroundFluentSet(out)
}

// Contains reports whether id is a member of s.
func (s GroundFluentSet) Contains(id GroundFluentID) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= id })
	return i < len(s) && s[i] == id
}

// Subset reports whether every member of s is also a member of other.
func (s GroundFluentSet) Subset(other GroundFluentSet) bool {
	for _, id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Disjoint reports whether s and other share no members.
func (s GroundFluentSet) Disjoint(other GroundFluentSet) bool {
	for _, id := range s {
		if other.Contains(id) {
			return false
		}
	}
	return true
}

// Intersects reports whether s and other share at least one member.
func (s GroundFluentSet) Intersects(other GroundFluentSet) bool {
	return !s.Disjoint(other)
}

// Union returns a new set containing every member of s and other.
func (s GroundFluentSet) Union(other GroundFluentSet) GroundFluentSet {
	merged := make([]GroundFluentID, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return NewGroundFluentSet(merged...)
}

// Without returns a new set containing every member of s that is not a
// member of remove.
func (s GroundFluentSet) Without(remove GroundFluentSet) GroundFluentSet {
	if len(remove) == 0 {
		return s
	}
	out := make([]GroundFluentID, 0, len(s))
	for _, id := range s {
		if !remove.Contains(id) {
			out = append(out, id)
		}
	}
	return GroundFluentSet(out)
}

// Equal reports whether s and other contain exactly the same members.
func (s GroundFluentSet) Equal(other GroundFluentSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Key returns a string usable as a map key, unique to the set's
// membership. It is used wherever a ground fluent set (a State) must
// be used as a map key, such as ANode.children in the MCTS tree.
func (s GroundFluentSet) Key() string {
	buf := make([]byte, 0, len(s)*5)
	for _, id := range s {
		buf = append(buf, byte(id), byte(id>>8), byte(id>>16), byte(id>>24), ',')
	}
	return string(buf)
}
