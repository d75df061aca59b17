package formalism

import (
	"fmt"

	"github.com/mimirplan/mimir/internal/repo"
)

// Repository is the content-addressed interning store (§4.1): every
// syntactic entity is created through a GetOrCreate* method and returns a
// stable, dense Index; structurally identical entities share one handle.
//
// A Repository is populated monotonically during parse/translate. Once a
// Domain/Problem finalizes, the Repository is treated as read-only for the
// rest of the process's life (§3 "Lifecycle").
type Repository struct {
	Objects    *repo.Table[string, Object]
	Predicates *repo.Table[string, *Predicate]
	Functions  *repo.Table[string, *FunctionSkeleton]

	Atoms    *repo.Table[string, *Atom]
	Literals *repo.Table[string, *Literal]

	NumericConstraints *repo.Table[string, *NumericConstraint]
	Conditions         *repo.Table[string, *ConjunctiveCondition]

	GroundAtoms     *repo.Table[string, *GroundAtom]
	GroundLiterals  *repo.Table[string, *GroundLiteral]
	GroundFunctions *repo.Table[string, *GroundFunction]
}

// NewRepository creates an empty, ready-to-populate Repository.
func NewRepository() *Repository {
	return &Repository{
		Objects:            repo.NewTable[string, Object](),
		Predicates:         repo.NewTable[string, *Predicate](),
		Functions:          repo.NewTable[string, *FunctionSkeleton](),
		Atoms:              repo.NewTable[string, *Atom](),
		Literals:            repo.NewTable[string, *Literal](),
		NumericConstraints: repo.NewTable[string, *NumericConstraint](),
		Conditions:         repo.NewTable[string, *ConjunctiveCondition](),
		GroundAtoms:        repo.NewTable[string, *GroundAtom](),
		GroundLiterals:     repo.NewTable[string, *GroundLiteral](),
		GroundFunctions:    repo.NewTable[string, *GroundFunction](),
	}
}

// GetOrCreateObject interns a constant by name.
func (r *Repository) GetOrCreateObject(name string) repo.Index {
	return r.Objects.GetOrCreate(name, func() Object { return Object{Name: name} })
}

// GetOrCreatePredicate interns a predicate skeleton by name, recording its
// arity on first creation.
func (r *Repository) GetOrCreatePredicate(name string, arity int) repo.Index {
	return r.Predicates.GetOrCreate(name, func() *Predicate { return &Predicate{Name: name, Arity: arity} })
}

// GetOrCreateFunction interns a numeric function skeleton by name.
func (r *Repository) GetOrCreateFunction(name string, arity int) repo.Index {
	return r.Functions.GetOrCreate(name, func() *FunctionSkeleton { return &FunctionSkeleton{Name: name, Arity: arity} })
}

// GetOrCreateAtom interns a lifted atom.
func (r *Repository) GetOrCreateAtom(predicate repo.Index, terms []Term) repo.Index {
	a := Atom{Predicate: predicate, Terms: terms}
	return r.Atoms.GetOrCreate(a.key(), func() *Atom { return &a })
}

// GetOrCreateLiteral interns a literal over an already-interned atom.
func (r *Repository) GetOrCreateLiteral(polarity bool, atom repo.Index) repo.Index {
	l := Literal{Polarity: polarity, Atom: atom}
	return r.Literals.GetOrCreate(l.key(), func() *Literal { return &l })
}

// GetOrCreateNumericConstraint interns a numeric constraint. TermList must
// already be populated (call BuildTermList first).
func (r *Repository) GetOrCreateNumericConstraint(nc *NumericConstraint) repo.Index {
	return r.NumericConstraints.GetOrCreate(nc.key(), func() *NumericConstraint { return nc })
}

// GetOrCreateCondition interns a conjunctive condition.
func (r *Repository) GetOrCreateCondition(cc *ConjunctiveCondition) repo.Index {
	return r.Conditions.GetOrCreate(cc.key(), func() *ConjunctiveCondition { return cc })
}

// GetOrCreateGroundAtom interns a ground atom.
func (r *Repository) GetOrCreateGroundAtom(predicate repo.Index, objects []repo.Index) repo.Index {
	g := GroundAtom{Predicate: predicate, Objects: objects}
	return r.GroundAtoms.GetOrCreate(g.key(), func() *GroundAtom { return &g })
}

// GetOrCreateGroundLiteral interns a ground literal.
func (r *Repository) GetOrCreateGroundLiteral(polarity bool, atom repo.Index) repo.Index {
	key := fmt.Sprintf("%v:%v", polarity, atom)
	g := GroundLiteral{Polarity: polarity, Atom: atom}
	return r.GroundLiterals.GetOrCreate(key, func() *GroundLiteral { return &g })
}

// GetOrCreateGroundFunction interns a ground function application.
func (r *Repository) GetOrCreateGroundFunction(skeleton repo.Index, objects []repo.Index) repo.Index {
	g := GroundFunction{Skeleton: skeleton, Objects: objects}
	return r.GroundFunctions.GetOrCreate(g.key(), func() *GroundFunction { return &g })
}

// Predicate dereferences a predicate Index.
func (r *Repository) Predicate(idx repo.Index) *Predicate { return r.Predicates.Get(idx) }

// Function dereferences a function-skeleton Index.
func (r *Repository) Function(idx repo.Index) *FunctionSkeleton { return r.Functions.Get(idx) }

// Atom dereferences an atom Index.
func (r *Repository) Atom(idx repo.Index) *Atom { return r.Atoms.Get(idx) }

// Literal dereferences a literal Index.
func (r *Repository) Literal(idx repo.Index) *Literal { return r.Literals.Get(idx) }

// Condition dereferences a condition Index.
func (r *Repository) Condition(idx repo.Index) *ConjunctiveCondition { return r.Conditions.Get(idx) }

// NumericConstraint dereferences a numeric-constraint Index.
func (r *Repository) NumericConstraint(idx repo.Index) *NumericConstraint {
	return r.NumericConstraints.Get(idx)
}

// GroundAtom dereferences a ground-atom Index.
func (r *Repository) GroundAtom(idx repo.Index) *GroundAtom { return r.GroundAtoms.Get(idx) }

// GroundLiteral dereferences a ground-literal Index.
func (r *Repository) GroundLiteral(idx repo.Index) *GroundLiteral { return r.GroundLiterals.Get(idx) }

// GroundFunction dereferences a ground-function Index.
func (r *Repository) GroundFunction(idx repo.Index) *GroundFunction { return r.GroundFunctions.Get(idx) }

// Object dereferences an object Index.
func (r *Repository) Object(idx repo.Index) Object { return r.Objects.Get(idx) }

// ObjectCount returns the number of interned objects.
func (r *Repository) ObjectCount() int { return r.Objects.Count() }
