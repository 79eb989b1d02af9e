package registration

import (
	"encoding/json"
	"slices"
	"strings"
)

// SkillSet is an insertion-ordered set of catalog values.
// Every method returns a fresh slice and leaves the receiver untouched.
type SkillSet []string

// Has reports whether v is in the set.
func (s SkillSet) Has(v string) bool {
	return slices.Contains(s, v)
}

// Add appends v unless it is already present.
func (s SkillSet) Add(v string) SkillSet {
	if s.Has(v) {
		return s.Clone()
	}
	return append(s.Clone(), v)
}

// Remove filters v out of the set.
func (s SkillSet) Remove(v string) SkillSet {
	return slices.DeleteFunc(s.Clone(), func(item string) bool { return item == v })
}

// Toggle adds v when checked and removes it otherwise.
func (s SkillSet) Toggle(v string, checked bool) SkillSet {
	if checked {
		return s.Add(v)
	}
	return s.Remove(v)
}

// Clone copies the set. A nil set stays nil.
func (s SkillSet) Clone() SkillSet {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// String joins the set for display.
func (s SkillSet) String() string {
	return strings.Join(s, ", ")
}

// MarshalJSON encodes an empty set as [] so the server always sees an array.
func (s SkillSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// normalize drops blanks and duplicates, keeping first occurrences.
func (s SkillSet) normalize() SkillSet {
	if s == nil {
		return nil
	}
	out := make(SkillSet, 0, len(s))
	for _, v := range s {
		v = strings.TrimSpace(v)
		if v == "" || out.Has(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
