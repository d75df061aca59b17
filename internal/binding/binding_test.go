package binding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/binding"
	"github.com/mimirplan/mimir/internal/consistency"
	"github.com/mimirplan/mimir/internal/loader"
	"github.com/mimirplan/mimir/internal/repo"
)

// pairDomain builds a domain with a binary schema (combine), a unary one
// (solo) and a nullary one, all with static preconditions, so the clique
// enumerator's arity-0/1/2 branches can be exercised directly against a
// known object universe.
func pairDomain() (*ast.Domain, *ast.Problem) {
	dom := &ast.Domain{
		Name: "pairs",
		Actions: []ast.Action{
			{
				Name:       "combine",
				Parameters: []string{"?x", "?y"},
				Condition: ast.Condition{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "p", Terms: []ast.Term{"?x"}}},
						{Positive: true, Atom: ast.Atom{Predicate: "q", Terms: []ast.Term{"?y"}}},
					},
				},
			},
			{
				Name:       "solo",
				Parameters: []string{"?x"},
				Condition: ast.Condition{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "p", Terms: []ast.Term{"?x"}}},
					},
				},
			},
			{
				Name:       "nullary",
				Parameters: nil,
				Condition: ast.Condition{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "ready", Terms: nil}},
					},
				},
			},
		},
	}

	prob := &ast.Problem{
		Name:    "pairs-instance",
		Domain:  "pairs",
		Objects: []string{"a", "b", "c"},
		InitialLiterals: []ast.Literal{
			{Positive: true, Atom: ast.Atom{Predicate: "p", Terms: []ast.Term{"a"}}},
			{Positive: true, Atom: ast.Atom{Predicate: "p", Terms: []ast.Term{"b"}}},
			{Positive: true, Atom: ast.Atom{Predicate: "q", Terms: []ast.Term{"c"}}},
		},
		Goal: ast.Condition{},
	}
	return dom, prob
}

// schemaContext mirrors internal/grounder's contextFor: it builds a
// binding.Context for one action schema against the problem's initial
// state, without requiring a full Grounder.
func schemaContext(t *testing.T, loaded *loader.Loaded, schemaIdx int) (*binding.Context, binding.Schema) {
	t.Helper()
	repoRef := loaded.Domain.Repo
	objects := loaded.Problem.AllObjects()
	act := loaded.Domain.Actions[schemaIdx]

	staticTbl := assignment.NewSet(len(objects))
	for _, idx := range loaded.Problem.StaticFacts {
		gl := repoRef.GroundLiteral(idx)
		ga := repoRef.GroundAtom(gl.Atom)
		staticTbl.Insert(ga.Predicate, len(ga.Objects), ga.Objects)
	}
	fluentTbl := assignment.NewSet(len(objects))
	for _, idx := range loaded.Problem.InitialFluentLiterals {
		gl := repoRef.GroundLiteral(idx)
		ga := repoRef.GroundAtom(gl.Atom)
		fluentTbl.Insert(ga.Predicate, len(ga.Objects), ga.Objects)
	}
	derivedTbl := assignment.NewSet(len(objects))
	numericTbl := assignment.NewNumericSet(len(objects))

	graph := consistency.Build(repoRef, act.Arity(), act.Condition, objects, staticTbl)

	ctx := &binding.Context{
		Repo:          repoRef,
		StaticGraph:   graph,
		StaticTables:  staticTbl,
		FluentTables:  fluentTbl,
		DerivedTables: derivedTbl,
		NumericTables: numericTbl,
		Objects:       objects,
		View:          loadedInitialView(t, loaded),
	}
	return ctx, binding.Schema{Arity: act.Arity(), Condition: act.Condition}
}

// loadedInitialView builds the problem's initial state so Generate's full
// re-verification step has a real StateView to query.
func loadedInitialView(t *testing.T, loaded *loader.Loaded) binding.StateView {
	t.Helper()
	// p and q are both static here (no effect or axiom head names them), so
	// their initial literals land in StaticFacts and HasStatic answers from
	// that list; no grounder needed.
	return initialStateView{loaded: loaded}
}

type initialStateView struct{ loaded *loader.Loaded }

func (v initialStateView) HasStatic(idx repo.Index) bool {
	return v.contains(v.loaded.Problem.StaticFacts, idx)
}
func (v initialStateView) HasFluent(idx repo.Index) bool {
	return v.contains(v.loaded.Problem.InitialFluentLiterals, idx)
}
func (v initialStateView) HasDerived(repo.Index) bool { return false }
func (v initialStateView) NumericValue(repo.Index) float64 {
	return 0
}

func (v initialStateView) contains(literals []repo.Index, atom repo.Index) bool {
	repoRef := v.loaded.Domain.Repo
	for _, idx := range literals {
		gl := repoRef.GroundLiteral(idx)
		if gl.Atom == atom {
			return true
		}
	}
	return false
}

func findSchema(t *testing.T, loaded *loader.Loaded, name string) int {
	t.Helper()
	for i, act := range loaded.Domain.Actions {
		if act.Name == name {
			return i
		}
	}
	t.Fatalf("no schema named %q", name)
	return -1
}

func TestGenerateArityTwoEnumeratesCrossProduct(t *testing.T) {
	dom, prob := pairDomain()
	loaded, err := loader.Load(dom, prob)
	require.NoError(t, err)

	ctx, schema := schemaContext(t, loaded, findSchema(t, loaded, "combine"))
	bindings, err := binding.GenerateAll(ctx, schema, binding.NewWorkspace(), nil)
	require.NoError(t, err)

	repoRef := loaded.Domain.Repo
	aIdx, _ := repoRef.Objects.Lookup("a")
	bIdx, _ := repoRef.Objects.Lookup("b")
	cIdx, _ := repoRef.Objects.Lookup("c")

	require.Len(t, bindings, 2, "p holds for a and b, q holds only for c: 2 candidate pairs")
	got := map[[2]repo.Index]bool{}
	for _, b := range bindings {
		got[[2]repo.Index{b[0], b[1]}] = true
	}
	assert.True(t, got[[2]repo.Index{aIdx, cIdx}])
	assert.True(t, got[[2]repo.Index{bIdx, cIdx}])
}

func TestGenerateAritySingleFiltersByUnaryCondition(t *testing.T) {
	dom, prob := pairDomain()
	loaded, err := loader.Load(dom, prob)
	require.NoError(t, err)

	ctx, schema := schemaContext(t, loaded, findSchema(t, loaded, "solo"))
	bindings, err := binding.GenerateAll(ctx, schema, binding.NewWorkspace(), nil)
	require.NoError(t, err)
	require.Len(t, bindings, 2, "p holds for a and b only")
}

func TestGenerateNullarySkipsWhenGuardFails(t *testing.T) {
	dom, prob := pairDomain()
	loaded, err := loader.Load(dom, prob)
	require.NoError(t, err)

	ctx, schema := schemaContext(t, loaded, findSchema(t, loaded, "nullary"))
	bindings, err := binding.GenerateAll(ctx, schema, binding.NewWorkspace(), nil)
	require.NoError(t, err)
	assert.Empty(t, bindings, "ready() is never asserted, so the nullary guard must short-circuit")
}

func TestGenerateStopsEarlyWhenYieldReturnsFalse(t *testing.T) {
	dom, prob := pairDomain()
	loaded, err := loader.Load(dom, prob)
	require.NoError(t, err)

	ctx, schema := schemaContext(t, loaded, findSchema(t, loaded, "combine"))
	count := 0
	err = binding.Generate(ctx, schema, binding.NewWorkspace(), nil, func(_ []repo.Index) bool {
		count++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "yield returning false must stop enumeration after the first match")
}

func TestGenerateReturnsCancelledOnDeadline(t *testing.T) {
	dom, prob := pairDomain()
	loaded, err := loader.Load(dom, prob)
	require.NoError(t, err)

	ctx, schema := schemaContext(t, loaded, findSchema(t, loaded, "combine"))
	fired := false
	deadline := func() bool {
		fired = true
		return true
	}
	_, err = binding.GenerateAll(ctx, schema, binding.NewWorkspace(), deadline)
	require.Error(t, err)
	assert.True(t, fired)
}
