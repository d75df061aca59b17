package grounder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/ground"
	"github.com/mimirplan/mimir/internal/grounder"
	"github.com/mimirplan/mimir/internal/loader"
)

// blocksProblem builds a minimal two-block pickup/putdown domain with one
// derived predicate (free(?x) <- clear(?x)) so the test exercises binding
// generation, grounding, axiom evaluation, and the successor function
// together, end to end.
func blocksProblem() (*ast.Domain, *ast.Problem) {
	dom := &ast.Domain{
		Name: "blocks-mini",
		Actions: []ast.Action{
			{
				Name:       "pickup",
				Parameters: []string{"?x"},
				Condition: ast.Condition{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "clear", Terms: []ast.Term{"?x"}}},
						{Positive: true, Atom: ast.Atom{Predicate: "handempty", Terms: nil}},
					},
				},
				Effect: ast.Effect{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "holding", Terms: []ast.Term{"?x"}}},
						{Positive: false, Atom: ast.Atom{Predicate: "clear", Terms: []ast.Term{"?x"}}},
						{Positive: false, Atom: ast.Atom{Predicate: "handempty", Terms: nil}},
					},
				},
			},
			{
				Name:       "putdown",
				Parameters: []string{"?x"},
				Condition: ast.Condition{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "holding", Terms: []ast.Term{"?x"}}},
					},
				},
				Effect: ast.Effect{
					Literals: []ast.Literal{
						{Positive: false, Atom: ast.Atom{Predicate: "holding", Terms: []ast.Term{"?x"}}},
						{Positive: true, Atom: ast.Atom{Predicate: "clear", Terms: []ast.Term{"?x"}}},
						{Positive: true, Atom: ast.Atom{Predicate: "handempty", Terms: nil}},
					},
				},
			},
		},
		Axioms: []ast.Axiom{
			{
				Parameters: []string{"?x"},
				Head:       ast.Atom{Predicate: "free", Terms: []ast.Term{"?x"}},
				Condition: ast.Condition{
					Literals: []ast.Literal{
						{Positive: true, Atom: ast.Atom{Predicate: "clear", Terms: []ast.Term{"?x"}}},
					},
				},
			},
		},
	}

	prob := &ast.Problem{
		Name:    "two-blocks",
		Domain:  "blocks-mini",
		Objects: []string{"a", "b"},
		InitialLiterals: []ast.Literal{
			{Positive: true, Atom: ast.Atom{Predicate: "clear", Terms: []ast.Term{"a"}}},
			{Positive: true, Atom: ast.Atom{Predicate: "clear", Terms: []ast.Term{"b"}}},
			{Positive: true, Atom: ast.Atom{Predicate: "handempty", Terms: nil}},
		},
		Goal: ast.Condition{
			Literals: []ast.Literal{
				{Positive: true, Atom: ast.Atom{Predicate: "holding", Terms: []ast.Term{"a"}}},
			},
		},
	}
	return dom, prob
}

func buildGrounder(t *testing.T) (*grounder.Grounder, *loader.Loaded) {
	t.Helper()
	dom, prob := blocksProblem()
	loaded, err := loader.Load(dom, prob)
	require.NoError(t, err)
	g, err := grounder.New(loaded.Problem, grounder.Options{
		ActionCostDefault: 1,
		Deadline:          func() bool { return false },
	})
	require.NoError(t, err)
	return g, loaded
}

func TestInitialStateDerivesFreeFromClear(t *testing.T) {
	g, loaded := buildGrounder(t)
	s, err := g.InitialState()
	require.NoError(t, err)

	repoRef := loaded.Domain.Repo
	_, ok := repoRef.Predicates.Lookup("free")
	require.True(t, ok, "the derived predicate must have been interned by translation")

	derivedPredicates := map[string]int{}
	for _, idx := range s.DerivedAtoms() {
		derivedPredicates[repoRef.Predicate(repoRef.GroundAtom(idx).Predicate).Name]++
	}
	assert.Equal(t, 2, derivedPredicates["free"], "both a and b start clear, so both should be free")

	assert.False(t, g.IsGoal(s), "holding(a) does not hold in the initial state")
}

func TestApplicableActionsInInitialState(t *testing.T) {
	g, _ := buildGrounder(t)
	s, err := g.InitialState()
	require.NoError(t, err)

	count := 0
	err = g.ApplicableActions(s, func(_ *ground.GroundAction) bool {
		count++
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count, "pickup(a) and pickup(b) are applicable; putdown is not (nothing is held)")
}

func TestSuccessorReflectsPickupEffectsAndGoal(t *testing.T) {
	g, loaded := buildGrounder(t)
	s, err := g.InitialState()
	require.NoError(t, err)

	repoRef := loaded.Domain.Repo
	aIdx, ok := repoRef.Objects.Lookup("a")
	require.True(t, ok)

	var pickupA *ground.GroundAction
	err = g.ApplicableActions(s, func(ga *ground.GroundAction) bool {
		if ga.Binding[0] == aIdx {
			pickupA = ga
			return false
		}
		return true
	})
	require.NoError(t, err)
	require.NotNil(t, pickupA)

	next, err := g.Successor(s, pickupA)
	require.NoError(t, err)

	assert.True(t, g.IsGoal(next), "picking up a should satisfy holding(a)")

	freeCount := 0
	for _, idx := range next.DerivedAtoms() {
		if repoRef.Predicate(repoRef.GroundAtom(idx).Predicate).Name == "free" {
			freeCount++
		}
	}
	assert.Equal(t, 1, freeCount, "a is no longer clear, so only b remains free")
}

func TestGoalRelevantPredicatesIncludesHolding(t *testing.T) {
	g, loaded := buildGrounder(t)
	var names []string
	for _, idx := range g.GoalRelevantPredicates() {
		names = append(names, loaded.Domain.Repo.Predicate(idx).Name)
	}
	assert.Contains(t, names, "holding")
}
