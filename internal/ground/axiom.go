package ground

import (
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// GroundAxiom is the fully ground instance of an Axiom under one binding:
// the derived head atom it would assert. No precondition atoms are kept —
// the axiom evaluator only needs Head, since the binding that produced
// this instance already satisfied the full condition.
type GroundAxiom struct {
	Axiom   int // index of the Axiom in Domain.Axioms
	Binding []repo.Index
	Head    repo.Index // index into Repository.GroundAtoms
}

func axiomKey(axiomIdx int, b []repo.Index) string { return key(axiomIdx, b) }

// GroundAxiomInstance builds (or returns the interned) GroundAxiom for
// axiom under a complete binding.
func (s *Store) GroundAxiomInstance(repoRef *formalism.Repository, axiomIdx int, ax *formalism.Axiom, b []repo.Index) *GroundAxiom {
	k := axiomKey(axiomIdx, b)
	if g, ok := s.axioms[k]; ok {
		return g
	}
	head := repoRef.Atom(ax.Head)
	objects := make([]repo.Index, len(head.Terms))
	for i, t := range head.Terms {
		if t.IsObject() {
			objects[i] = t.Object()
			continue
		}
		objects[i] = b[t.Variable().ParameterIndex]
	}
	gaIdx := repoRef.GetOrCreateGroundAtom(head.Predicate, objects)

	g := &GroundAxiom{Axiom: axiomIdx, Binding: b, Head: gaIdx}
	s.axioms[k] = g
	s.axiomList = append(s.axiomList, g)
	return g
}

// Actions returns every ground action interned so far, in interning order.
func (s *Store) Actions() []*GroundAction { return s.actionList }

// Axioms returns every ground axiom interned so far, in interning order.
func (s *Store) Axioms() []*GroundAxiom { return s.axiomList }
