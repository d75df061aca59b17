package formalism

import "github.com/mimirplan/mimir/internal/repo"

// Axiom is `(conjunctive_condition, head_literal)` where head_literal's
// predicate is Derived and its polarity is positive (§3). Parameters is
// exactly the head atom's parameters extended with any additional
// variables appearing only in the body, in canonical order (the order
// translator.EncodeAxiom builds).
type Axiom struct {
	Parameters []Variable
	Condition  repo.Index // index into Repository.Conditions
	Head       repo.Index // index into Repository.Atoms; predicate must be Derived
}

// Arity returns the axiom's parameter count.
func (a *Axiom) Arity() int { return len(a.Parameters) }

// HeadPredicate is set by whoever constructs the Axiom to the predicate
// Index of the head atom, duplicated here for O(1) access by the
// stratifier without dereferencing through the Repository's Atom table.
type AxiomRef struct {
	Axiom         *Axiom
	HeadPredicate repo.Index
}
