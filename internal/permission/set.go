package permission

import "sort"

// Set is an unordered collection of permissions. The zero value is an
// empty set ready for reads; use NewSet before Add.
type Set map[Permission]struct{}

func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Add(perms ...Permission) {
	for _, p := range perms {
		s[p] = struct{}{}
	}
}

func (s Set) Remove(p Permission) {
	delete(s, p)
}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// HasAny reports whether s holds at least one of required. An empty
// requirement list is never satisfied.
func (s Set) HasAny(required ...Permission) bool {
	for _, p := range required {
		if s.Has(p) {
			return true
		}
	}
	return false
}

func (s Set) HasAll(required ...Permission) bool {
	for _, p := range required {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Union returns a new set holding the members of s and every other set.
func (s Set) Union(others ...Set) Set {
	out := make(Set, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	for _, o := range others {
		for p := range o {
			out[p] = struct{}{}
		}
	}
	return out
}

func (s Set) Len() int {
	return len(s)
}

// Names returns the members sorted, for stable output.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for p := range s {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}
