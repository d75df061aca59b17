package formalism

import (
	"sort"

	"github.com/mimirplan/mimir/internal/mimirerr"
	"github.com/mimirplan/mimir/internal/repo"
)

// InitialFunctionValue pairs a ground function application with its value
// at the initial state.
type InitialFunctionValue struct {
	Function repo.Index // into Repo.GroundFunctions
	Value    float64
}

// Problem is the immutable, finalized aggregate of objects, an initial
// state, a goal, and an optional optimization metric, sharing the Domain's
// Repository (§3 "Domain / Problem", §4.2).
type Problem struct {
	Domain *Domain
	Name   string

	Objects []repo.Index // problem-level objects, in addition to Domain.Constants

	InitialFluentLiterals []repo.Index // into Repo.GroundLiterals, all positive
	StaticFacts           []repo.Index // into Repo.GroundLiterals, all positive, predicate tag == Static
	InitialFunctionValues []InitialFunctionValue

	// Goal is a zero-parameter ConjunctiveCondition: every literal/
	// constraint it references is ground (stored in the Nullary* fields).
	Goal repo.Index

	// Metric, if non-nil, is the expression to minimize (e.g. total-cost).
	Metric *Expression
}

// AllObjects returns the domain's constants followed by the problem's own
// objects — the full universe the binding generator and consistency graphs
// range over.
func (p *Problem) AllObjects() []repo.Index {
	out := make([]repo.Index, 0, len(p.Domain.Constants)+len(p.Objects))
	out = append(out, p.Domain.Constants...)
	out = append(out, p.Objects...)
	return out
}

// ProblemBuilder accumulates a Problem's mutable lists. It is parameterized
// by the Domain whose Repository it extends, so objects/atoms it interns
// are visible to the Domain's action schemas and axioms too (§4.2).
type ProblemBuilder struct {
	domain *Domain
	name   string

	objects []repo.Index

	initialFluentLiterals []repo.Index
	staticFacts           []repo.Index
	initialFunctionValues []InitialFunctionValue

	goal   *ConjunctiveCondition
	metric *Expression
}

// NewProblemBuilder starts a builder that extends domain's Repository.
func NewProblemBuilder(domain *Domain, name string) *ProblemBuilder {
	return &ProblemBuilder{domain: domain, name: name, goal: &ConjunctiveCondition{}}
}

// Repository returns the shared Repository (the Domain's).
func (b *ProblemBuilder) Repository() *Repository { return b.domain.Repo }

func (b *ProblemBuilder) AddObject(idx repo.Index) { b.objects = append(b.objects, idx) }

// AddInitialFluentLiteral records a positive initial fluent literal
// (negative initial literals are rejected — InvalidInitialState — by
// Finalize per §4.9 "Failure semantics").
func (b *ProblemBuilder) AddInitialFluentLiteral(idx repo.Index) {
	b.initialFluentLiterals = append(b.initialFluentLiterals, idx)
}

// AddStaticFact records a ground fact about a Static-tagged predicate,
// declared once in :init and frozen for the life of the problem (static
// predicates never appear in any fluent-atom-set, §3 "State").
func (b *ProblemBuilder) AddStaticFact(idx repo.Index) {
	b.staticFacts = append(b.staticFacts, idx)
}

func (b *ProblemBuilder) AddInitialFunctionValue(f InitialFunctionValue) {
	b.initialFunctionValues = append(b.initialFunctionValues, f)
}

func (b *ProblemBuilder) AddGoalStaticLiteral(idx repo.Index)  { b.goal.NullaryStaticGroundLiterals = append(b.goal.NullaryStaticGroundLiterals, idx) }
func (b *ProblemBuilder) AddGoalFluentLiteral(idx repo.Index)  { b.goal.NullaryFluentGroundLiterals = append(b.goal.NullaryFluentGroundLiterals, idx) }
func (b *ProblemBuilder) AddGoalDerivedLiteral(idx repo.Index) { b.goal.NullaryDerivedGroundLiterals = append(b.goal.NullaryDerivedGroundLiterals, idx) }
func (b *ProblemBuilder) AddGoalNumericConstraint(idx repo.Index) {
	b.goal.NullaryNumericConstraints = append(b.goal.NullaryNumericConstraints, idx)
}

func (b *ProblemBuilder) SetMetric(e *Expression) { b.metric = e }

// Finalize validates that every ground literal referenced by the initial
// state is positive, sorts the accumulated lists, interns the goal
// condition, and seals an immutable Problem.
func (b *ProblemBuilder) Finalize() (*Problem, error) {
	repoRef := b.domain.Repo
	for _, idx := range b.initialFluentLiterals {
		lit := repoRef.GroundLiteral(idx)
		if !lit.Polarity {
			return nil, mimirerr.InvalidInitial("negative literal in initial state (ground atom %v)", repoRef.GroundAtom(lit.Atom))
		}
	}

	sort.Slice(b.initialFluentLiterals, func(i, j int) bool { return b.initialFluentLiterals[i] < b.initialFluentLiterals[j] })
	sort.Slice(b.staticFacts, func(i, j int) bool { return b.staticFacts[i] < b.staticFacts[j] })
	sort.Slice(b.objects, func(i, j int) bool { return b.objects[i] < b.objects[j] })

	goalIdx := repoRef.GetOrCreateCondition(b.goal)

	return &Problem{
		Domain:                b.domain,
		Name:                  b.name,
		Objects:               b.objects,
		InitialFluentLiterals: b.initialFluentLiterals,
		StaticFacts:           b.staticFacts,
		InitialFunctionValues: b.initialFunctionValues,
		Goal:                  goalIdx,
		Metric:                b.metric,
	}, nil
}
