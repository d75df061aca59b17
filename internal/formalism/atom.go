package formalism

import "github.com/mimirplan/mimir/internal/repo"

// Atom is a lifted predicate application: a predicate handle and a term
// list whose length equals the predicate's arity.
type Atom struct {
	Predicate repo.Index
	Terms     []Term
}

func (a Atom) key() string {
	return a.Predicate.String() + "(" + termsKey(a.Terms) + ")"
}

// EqualityName is the reserved name of the equality predicate. It is
// recognized by name and is never asserted or denied by any effect (§3).
const EqualityName = "="

// IsEqualityPredicate reports whether predicate is the reserved equality
// predicate. Equality literals are resolved as a native two-argument
// identity filter during clique enumeration rather than reified as an
// ordinary Static predicate backed by an assignment-set table (the source
// code was inconsistent about this; the spec settles on the native route
// to avoid O(|objects|) bloat in the static assignment sets) — see
// DESIGN.md's Open Question record.
func IsEqualityPredicate(repoRef *Repository, predicate repo.Index) bool {
	return repoRef.Predicate(predicate).Name == EqualityName
}

// EqualityHolds evaluates an equality/inequality literal's two argument
// terms against a partial binding. decided is false if either argument
// position is not yet resolved.
func EqualityHolds(polarity bool, terms []Term, binding map[int]int) (decided, holds bool) {
	if len(terms) != 2 {
		return false, false
	}
	resolve := func(t Term) (int, bool) {
		if t.IsObject() {
			return int(t.Object()), true
		}
		o, ok := binding[t.Variable().ParameterIndex]
		return o, ok
	}
	a, ok1 := resolve(terms[0])
	b, ok2 := resolve(terms[1])
	if !ok1 || !ok2 {
		return false, false
	}
	return true, (a == b) == polarity
}
