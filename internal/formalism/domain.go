package formalism

import (
	"sort"

	"github.com/mimirplan/mimir/internal/mimirerr"
	"github.com/mimirplan/mimir/internal/repo"
)

// Domain is the immutable, finalized aggregate of predicates, function
// skeletons, action schemas, and axioms sharing one Repository (§3 "Domain
// / Problem").
type Domain struct {
	Repo *Repository
	Name string

	Constants []repo.Index // repo.Index into Repo.Objects, domain-level :constants

	StaticPredicates  []repo.Index
	FluentPredicates  []repo.Index
	DerivedPredicates []repo.Index

	StaticFunctions []repo.Index
	FluentFunctions []repo.Index
	AuxiliaryFunction repo.Index // index of the single total-cost skeleton, or repo.MaxIndex

	Actions []*ActionSchema
	Axioms  []*Axiom
}

// DomainBuilder accumulates a Domain's mutable lists before Finalize seals
// them into an immutable Domain value (§4.2).
type DomainBuilder struct {
	repo *Repository
	name string

	constants []repo.Index

	staticPredicates  []repo.Index
	fluentPredicates  []repo.Index
	derivedPredicates []repo.Index

	staticFunctions   []repo.Index
	fluentFunctions   []repo.Index
	auxiliaryFunction repo.Index

	actions []*ActionSchema
	axioms  []*Axiom
}

// NewDomainBuilder starts a builder over a fresh Repository.
func NewDomainBuilder(name string) *DomainBuilder {
	return &DomainBuilder{repo: NewRepository(), name: name, auxiliaryFunction: repo.MaxIndex}
}

// Repository exposes the builder's backing Repository so callers can intern
// entities before attaching their handles to the builder.
func (b *DomainBuilder) Repository() *Repository { return b.repo }

func (b *DomainBuilder) AddConstant(idx repo.Index) { b.constants = append(b.constants, idx) }

// AddPredicate registers a predicate under its tag-specific list. The tag
// must already be assigned (by the translator's static analysis) before
// calling this.
func (b *DomainBuilder) AddPredicate(idx repo.Index) {
	switch b.repo.Predicate(idx).Tag {
	case Static:
		b.staticPredicates = append(b.staticPredicates, idx)
	case Fluent:
		b.fluentPredicates = append(b.fluentPredicates, idx)
	case Derived:
		b.derivedPredicates = append(b.derivedPredicates, idx)
	}
}

// AddFunction registers a function skeleton under its tag-specific list.
func (b *DomainBuilder) AddFunction(idx repo.Index) {
	switch b.repo.Function(idx).Tag {
	case FuncStatic:
		b.staticFunctions = append(b.staticFunctions, idx)
	case FuncFluent:
		b.fluentFunctions = append(b.fluentFunctions, idx)
	case FuncAuxiliary:
		b.auxiliaryFunction = idx
	}
}

func (b *DomainBuilder) AddAction(a *ActionSchema) { b.actions = append(b.actions, a) }
func (b *DomainBuilder) AddAxiom(a *Axiom)         { b.axioms = append(b.axioms, a) }

// dense checks that indices forms exactly {0,...,n-1} once sorted.
func dense(indices []repo.Index, n int) bool {
	if len(indices) != n {
		return false
	}
	cp := append([]repo.Index(nil), indices...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	for i, v := range cp {
		if int(v) != i {
			return false
		}
	}
	return true
}

// Finalize sorts each entity list by Index, verifies dense 0-based
// indexing per entity kind, and seals the builder into an immutable Domain
// (§4.2). It fails with InvariantViolation if any kind is not densely
// indexed by the Repository, or if a predicate/function never received a
// tag from the translator.
func (b *DomainBuilder) Finalize() (*Domain, error) {
	all := append(append(append([]repo.Index(nil), b.staticPredicates...), b.fluentPredicates...), b.derivedPredicates...)
	if !dense(all, b.repo.Predicates.Count()) {
		return nil, mimirerr.Invariant("predicate indices are not densely 0-based (got %d predicates, %d tagged)", b.repo.Predicates.Count(), len(all))
	}
	fns := append(append([]repo.Index(nil), b.staticFunctions...), b.fluentFunctions...)
	if b.auxiliaryFunction.Valid() {
		fns = append(fns, b.auxiliaryFunction)
	}
	if !dense(fns, b.repo.Functions.Count()) {
		return nil, mimirerr.Invariant("function indices are not densely 0-based (got %d functions, %d tagged)", b.repo.Functions.Count(), len(fns))
	}
	sort.Slice(b.staticPredicates, func(i, j int) bool { return b.staticPredicates[i] < b.staticPredicates[j] })
	sort.Slice(b.fluentPredicates, func(i, j int) bool { return b.fluentPredicates[i] < b.fluentPredicates[j] })
	sort.Slice(b.derivedPredicates, func(i, j int) bool { return b.derivedPredicates[i] < b.derivedPredicates[j] })
	sort.Slice(b.staticFunctions, func(i, j int) bool { return b.staticFunctions[i] < b.staticFunctions[j] })
	sort.Slice(b.fluentFunctions, func(i, j int) bool { return b.fluentFunctions[i] < b.fluentFunctions[j] })

	return &Domain{
		Repo:              b.repo,
		Name:              b.name,
		Constants:         b.constants,
		StaticPredicates:  b.staticPredicates,
		FluentPredicates:  b.fluentPredicates,
		DerivedPredicates: b.derivedPredicates,
		StaticFunctions:   b.staticFunctions,
		FluentFunctions:   b.fluentFunctions,
		AuxiliaryFunction: b.auxiliaryFunction,
		Actions:           b.actions,
		Axioms:            b.axioms,
	}, nil
}
