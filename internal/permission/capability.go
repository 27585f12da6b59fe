// Package permission implements capability-based access control for address
// books: a capability lattice with implication closure, an evaluator that
// combines capabilities with ownership and default-address status, and role
// grant sources.
package permission

// Capability is one grantable address-book permission.
type Capability string

// The capability lattice. "Own" capabilities apply to a user's own book,
// "all" capabilities to every book. The defaults-only view capabilities are
// weaker forms of their full counterparts.
const (
	ViewOwnDefault  Capability = "view own default addresses"
	ViewOwn         Capability = "view own addresses"
	ViewAllDefaults Capability = "view all default addresses"
	ViewAll         Capability = "view all addresses"
	EditOwn         Capability = "add/edit own addresses"
	EditAll         Capability = "add/edit all addresses"
	DeleteOwn       Capability = "delete own addresses"
	DeleteAll       Capability = "delete all addresses"
)

// implications lists, per capability, the weaker capabilities it carries.
// Expand applies these transitively.
var implications = map[Capability][]Capability{
	EditAll:         {ViewAll, EditOwn},
	DeleteAll:       {ViewAll, DeleteOwn},
	EditOwn:         {ViewOwn},
	DeleteOwn:       {ViewOwn},
	ViewAll:         {ViewAllDefaults, ViewOwn},
	ViewAllDefaults: {ViewOwnDefault},
	ViewOwn:         {ViewOwnDefault},
}

// Set is an unordered collection of capabilities.
type Set map[Capability]struct{}

// NewSet builds a set from the given capabilities.
func NewSet(caps ...Capability) Set {
	s := make(Set, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether the set contains a capability.
func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Add inserts a capability.
func (s Set) Add(c Capability) {
	s[c] = struct{}{}
}

// List returns the set's capabilities in unspecified order.
func (s Set) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	return out
}

// Expand returns a new set with every implied capability added, applied to a
// fixpoint. A stronger grant always carries its weaker forms, so callers can
// test for exactly the capability an operation needs.
func (s Set) Expand() Set {
	out := make(Set, len(s))
	var walk func(c Capability)
	walk = func(c Capability) {
		if out.Has(c) {
			return
		}
		out.Add(c)
		for _, implied := range implications[c] {
			walk(implied)
		}
	}
	for c := range s {
		walk(c)
	}
	return out
}
