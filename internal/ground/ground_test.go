package ground_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/binding"
	"github.com/mimirplan/mimir/internal/consistency"
	"github.com/mimirplan/mimir/internal/ground"
	"github.com/mimirplan/mimir/internal/loader"
	"github.com/mimirplan/mimir/internal/repo"
)

// undefinedNumericView is a StateView whose numeric lookups are always
// undefined, used to exercise evaluateCost's NaN -> action_cost_default
// fallback without needing a fully interned state.
type undefinedNumericView struct{}

func (undefinedNumericView) HasStatic(repo.Index) bool      { return false }
func (undefinedNumericView) HasFluent(repo.Index) bool      { return false }
func (undefinedNumericView) HasDerived(repo.Index) bool     { return false }
func (undefinedNumericView) NumericValue(repo.Index) float64 { return math.NaN() }

// costDomain has one schema ("act") whose cost reads a function that is
// never the target of any numeric effect, plus one derived predicate
// ("free") so GroundAxiomInstance has a real axiom to ground.
func costDomain() (*ast.Domain, *ast.Problem) {
	dom := &ast.Domain{
		Name: "costly",
		Actions: []ast.Action{
			{
				Name:       "act",
				Parameters: []string{"?x"},
				Condition: ast.Condition{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "p", Terms: []ast.Term{"?x"}}},
					},
				},
				Effect: ast.Effect{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "holding", Terms: []ast.Term{"?x"}}},
					},
				},
				Cost: &ast.Expression{
					Op:       "func",
					Function: &ast.FunctionTerm{Function: "cost-fn", Terms: []ast.Term{"?x"}},
				},
			},
		},
		Axioms: []ast.Axiom{
			{
				Parameters: []string{"?x"},
				Head:       ast.Atom{Predicate: "free", Terms: []ast.Term{"?x"}},
				Condition: ast.Condition{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "p", Terms: []ast.Term{"?x"}}},
					},
				},
			},
		},
	}
	prob := &ast.Problem{
		Name:    "costly-instance",
		Domain:  "costly",
		Objects: []string{"a"},
		InitialLiterals: []ast.Literal{
			{Positive: true, Atom: ast.Atom{Predicate: "p", Terms: []ast.Term{"a"}}},
		},
		Goal: ast.Condition{},
	}
	return dom, prob
}

func buildContext(t *testing.T, loaded *loader.Loaded, arity int, condition repo.Index) *binding.Context {
	t.Helper()
	repoRef := loaded.Domain.Repo
	objects := loaded.Problem.AllObjects()

	staticTbl := assignment.NewSet(len(objects))
	fluentTbl := assignment.NewSet(len(objects))
	for _, idx := range loaded.Problem.InitialFluentLiterals {
		gl := repoRef.GroundLiteral(idx)
		ga := repoRef.GroundAtom(gl.Atom)
		fluentTbl.Insert(ga.Predicate, len(ga.Objects), ga.Objects)
	}

	graph := consistency.Build(repoRef, arity, condition, objects, staticTbl)
	return &binding.Context{
		Repo:          repoRef,
		StaticGraph:   graph,
		StaticTables:  staticTbl,
		FluentTables:  fluentTbl,
		DerivedTables: assignment.NewSet(len(objects)),
		NumericTables: assignment.NewNumericSet(len(objects)),
		Objects:       objects,
		View:          undefinedNumericView{},
	}
}

func TestGroundActionInstanceFallsBackOnUndefinedCost(t *testing.T) {
	dom, prob := costDomain()
	loaded, err := loader.Load(dom, prob)
	require.NoError(t, err)

	repoRef := loaded.Domain.Repo
	act := loaded.Domain.Actions[0]
	ctx := buildContext(t, loaded, act.Arity(), act.Condition)

	aIdx, ok := repoRef.Objects.Lookup("a")
	require.True(t, ok)

	store := ground.NewStore()
	ga, err := store.GroundActionInstance(ctx, 0, act, []repo.Index{aIdx}, binding.NewWorkspace(), nil, 7.0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, ga.Cost, "cost-fn(a) is never asserted, so evaluateCost must fall back to action_cost_default")
}

func TestGroundActionInstanceInternsByBinding(t *testing.T) {
	dom, prob := costDomain()
	loaded, err := loader.Load(dom, prob)
	require.NoError(t, err)

	repoRef := loaded.Domain.Repo
	act := loaded.Domain.Actions[0]
	ctx := buildContext(t, loaded, act.Arity(), act.Condition)

	aIdx, _ := repoRef.Objects.Lookup("a")
	store := ground.NewStore()
	first, err := store.GroundActionInstance(ctx, 0, act, []repo.Index{aIdx}, binding.NewWorkspace(), nil, 1)
	require.NoError(t, err)
	second, err := store.GroundActionInstance(ctx, 0, act, []repo.Index{aIdx}, binding.NewWorkspace(), nil, 1)
	require.NoError(t, err)

	assert.Same(t, first, second, "repeated groundings of the same (schema, binding) must return the interned instance")
	assert.Len(t, store.Actions(), 1)
}

func TestGroundAxiomInstanceBuildsHeadAtom(t *testing.T) {
	dom, prob := costDomain()
	loaded, err := loader.Load(dom, prob)
	require.NoError(t, err)

	repoRef := loaded.Domain.Repo
	axiom := loaded.Domain.Axioms[0]
	aIdx, _ := repoRef.Objects.Lookup("a")

	store := ground.NewStore()
	gx := store.GroundAxiomInstance(repoRef, 0, axiom, []repo.Index{aIdx})

	freePred, ok := repoRef.Predicates.Lookup("free")
	require.True(t, ok)
	headGA := repoRef.GroundAtom(gx.Head)
	assert.Equal(t, freePred, headGA.Predicate)
	require.Len(t, headGA.Objects, 1)
	assert.Equal(t, aIdx, headGA.Objects[0])

	again := store.GroundAxiomInstance(repoRef, 0, axiom, []repo.Index{aIdx})
	assert.Same(t, gx, again, "repeated groundings of the same (axiom, binding) must return the interned instance")
}
