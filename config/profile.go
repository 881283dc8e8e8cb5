package config

import "strings"

// Profile identifies a named configuration variant. The zero value is not
// a valid profile; use NewProfile or NewDefaultProfile.
//
// Default profiles participate in the work-list exactly like named
// profiles, except they are dropped as soon as any profile is activated
// via a property or a document, matching the semantics of the system this
// loader is modeled on: defaults are a fallback, not a real selection.
type Profile struct {
	Name    string
	Default bool
}

// NewProfile returns a non-default profile with the given name.
func NewProfile(name string) Profile { return Profile{Name: name} }

// NewDefaultProfile returns a default profile with the given name.
func NewDefaultProfile(name string) Profile { return Profile{Name: name, Default: true} }

// Equal reports whether two profiles share the same identity. Identity is
// by name only — a default and non-default profile with the same name are
// considered equal, matching how the work-list dedupes by name.
func (p Profile) Equal(o Profile) bool { return p.Name == o.Name }

// ProfileSet is an insertion-ordered collection of uniquely-named profiles.
type ProfileSet struct {
	order []string
	items map[string]Profile
}

// NewProfileSet returns an empty ProfileSet.
func NewProfileSet() *ProfileSet {
	return &ProfileSet{items: map[string]Profile{}}
}

// Add inserts p if no profile with the same name is already present.
// Reports whether the profile was newly added.
func (s *ProfileSet) Add(p Profile) bool {
	if _, ok := s.items[p.Name]; ok {
		return false
	}
	s.items[p.Name] = p
	s.order = append(s.order, p.Name)
	return true
}

// Contains reports whether a profile with the given name is present.
func (s *ProfileSet) Contains(name string) bool {
	_, ok := s.items[name]
	return ok
}

// Names returns the profile names in insertion order.
func (s *ProfileSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Profiles returns the profiles in insertion order.
func (s *ProfileSet) Profiles() []Profile {
	out := make([]Profile, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.items[n])
	}
	return out
}

// Len returns the number of profiles in the set.
func (s *ProfileSet) Len() int { return len(s.order) }

// splitProfileNames splits a comma-separated list of profile names,
// trimming whitespace and dropping empty entries. Used for the simple
// (non-expression) case of parsing profiles.active/profiles.include.
func splitProfileNames(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
