// Package skills holds the data model shared by every assessment stage:
// skill names and sets, the comparison partition, difficulty tiers and the
// deterministic confidence arithmetic.
package skills

import (
	"encoding/json"
	"strings"
)

// Name is a normalized label for a technology, framework or competency.
// Equality is textual and case-sensitive. A valid Name is never empty.
type Name string

// NormalizeName trims the label and collapses internal whitespace.
// The second result is false when nothing is left.
func NormalizeName(s string) (Name, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}
	return Name(strings.Join(fields, " ")), true
}

func (n Name) String() string { return string(n) }

// Set is a duplicate-free collection of skill names. Iteration follows the
// order of first insertion so reports and prompts are stable between runs.
type Set struct {
	names []Name
	index map[Name]struct{}
}

// NewSet builds a set from raw labels, dropping blanks and duplicates.
func NewSet(labels ...string) *Set {
	s := &Set{}
	for _, label := range labels {
		s.AddLabel(label)
	}
	return s
}

// SetOf builds a set from already normalized names.
func SetOf(names ...Name) *Set {
	s := &Set{}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// AddLabel normalizes label and adds it. It reports whether the set changed.
func (s *Set) AddLabel(label string) bool {
	name, ok := NormalizeName(label)
	if !ok {
		return false
	}
	return s.Add(name)
}

// Add inserts name unless it is empty or already present.
func (s *Set) Add(name Name) bool {
	if name == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[Name]struct{})
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

func (s *Set) Contains(name Name) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns a copy of the members in insertion order.
func (s *Set) Names() []Name {
	if s == nil {
		return []Name{}
	}
	out := make([]Name, len(s.names))
	copy(out, s.names)
	return out
}

// Strings returns the members as plain strings in insertion order.
func (s *Set) Strings() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, string(n))
	}
	return out
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return SetOf(s.Names()...)
}

// Union returns members of s followed by members of other not already in s.
func (s *Set) Union(other *Set) *Set {
	out := s.Clone()
	for _, n := range other.Names() {
		out.Add(n)
	}
	return out
}

// Intersect returns members of s that are also in other, in s order.
func (s *Set) Intersect(other *Set) *Set {
	out := &Set{}
	for _, n := range s.Names() {
		if other.Contains(n) {
			out.Add(n)
		}
	}
	return out
}

// Difference returns members of s that are not in other, in s order.
func (s *Set) Difference(other *Set) *Set {
	out := &Set{}
	for _, n := range s.Names() {
		if !other.Contains(n) {
			out.Add(n)
		}
	}
	return out
}

func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*s = *NewSet(labels...)
	return nil
}
