package axiom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/axiom"
	"github.com/mimirplan/mimir/internal/mimirerr"
	"github.com/mimirplan/mimir/internal/repo"
	"github.com/mimirplan/mimir/internal/translator"
)

// purelyPositiveDomain builds p(?x) <- q(?x) <- r(?x), a chain of
// non-strict (positive) dependencies with r static. Nothing here forces a
// stratum boundary, so a correct minimal stratification co-locates both
// axioms in one stratum rather than splitting them needlessly.
func purelyPositiveDomain() *ast.Domain {
	return &ast.Domain{
		Name: "strata",
		Axioms: []ast.Axiom{
			{
				Parameters: []string{"?x"},
				Head:       ast.Atom{Predicate: "q", Terms: []ast.Term{"?x"}},
				Condition: ast.Condition{
					Literals: []ast.Literal{{Positive: true, Atom: ast.Atom{Predicate: "r", Terms: []ast.Term{"?x"}}}},
				},
			},
			{
				Parameters: []string{"?x"},
				Head:       ast.Atom{Predicate: "p", Terms: []ast.Term{"?x"}},
				Condition: ast.Condition{
					Literals: []ast.Literal{{Positive: true, Atom: ast.Atom{Predicate: "q", Terms: []ast.Term{"?x"}}}},
				},
			},
		},
	}
}

// mixedDomain builds the reviewer-reported co-location scenario: r(?x) is
// its own base stratum, q(?x) strictly (negatively) depends on r, and
// p(?x) depends on q only positively. p's positive edge into q must not
// let p land in an earlier stratum than q: both belong in stratum 1.
func mixedDomain() *ast.Domain {
	return &ast.Domain{
		Name: "mixed-strata",
		Axioms: []ast.Axiom{
			{
				Parameters: []string{"?x"},
				Head:       ast.Atom{Predicate: "r", Terms: []ast.Term{"?x"}},
				Condition: ast.Condition{
					Literals: []ast.Literal{{Positive: true, Atom: ast.Atom{Predicate: "base", Terms: []ast.Term{"?x"}}}},
				},
			},
			{
				Parameters: []string{"?x"},
				Head:       ast.Atom{Predicate: "q", Terms: []ast.Term{"?x"}},
				Condition: ast.Condition{
					Literals: []ast.Literal{{Positive: false, Atom: ast.Atom{Predicate: "r", Terms: []ast.Term{"?x"}}}},
				},
			},
			{
				Parameters: []string{"?x"},
				Head:       ast.Atom{Predicate: "p", Terms: []ast.Term{"?x"}},
				Condition: ast.Condition{
					Literals: []ast.Literal{{Positive: true, Atom: ast.Atom{Predicate: "q", Terms: []ast.Term{"?x"}}}},
				},
			},
		},
	}
}

// cyclicDomain builds s(?x) <- not t(?x) and t(?x) <- not s(?x), a strict
// dependency cycle that cannot be stratified.
func cyclicDomain() *ast.Domain {
	return &ast.Domain{
		Name: "cycle",
		Axioms: []ast.Axiom{
			{
				Parameters: []string{"?x"},
				Head:       ast.Atom{Predicate: "s", Terms: []ast.Term{"?x"}},
				Condition: ast.Condition{
					Literals: []ast.Literal{{Positive: false, Atom: ast.Atom{Predicate: "t", Terms: []ast.Term{"?x"}}}},
				},
			},
			{
				Parameters: []string{"?x"},
				Head:       ast.Atom{Predicate: "t", Terms: []ast.Term{"?x"}},
				Condition: ast.Condition{
					Literals: []ast.Literal{{Positive: false, Atom: ast.Atom{Predicate: "s", Terms: []ast.Term{"?x"}}}},
				},
			},
		},
	}
}

func TestStratifyCoLocatesPurelyPositiveChain(t *testing.T) {
	dom, _, err := translator.Domain(purelyPositiveDomain())
	require.NoError(t, err)

	strat, err := axiom.Stratify(dom.Repo, dom.Axioms)
	require.NoError(t, err)
	require.Len(t, strat.Partitions, 1, "no strict edge anywhere in the chain, so p and q need no separate strata")

	qIdx, ok := dom.Repo.Predicates.Lookup("q")
	require.True(t, ok)
	pIdx, ok := dom.Repo.Predicates.Lookup("p")
	require.True(t, ok)

	require.Len(t, strat.Partitions[0].Axioms, 2)
	assert.Equal(t, qIdx, dom.Repo.Atom(strat.Partitions[0].Axioms[0].Head).Predicate)
	assert.Equal(t, pIdx, dom.Repo.Atom(strat.Partitions[0].Axioms[1].Head).Predicate)

	assert.Len(t, strat.Partitions[0].InitiallyRelevant, 1, "q has no same-stratum body dependency, but p's body (q) is in its own stratum so p isn't initially relevant")
	assert.Equal(t, qIdx, dom.Repo.Atom(strat.Partitions[0].InitiallyRelevant[0].Head).Predicate)
}

func TestStratifyCoLocatesPositiveDependencyWithItsStrictlyDependentPredicate(t *testing.T) {
	dom, _, err := translator.Domain(mixedDomain())
	require.NoError(t, err)

	strat, err := axiom.Stratify(dom.Repo, dom.Axioms)
	require.NoError(t, err)
	require.Len(t, strat.Partitions, 2)

	rIdx, ok := dom.Repo.Predicates.Lookup("r")
	require.True(t, ok)
	qIdx, ok := dom.Repo.Predicates.Lookup("q")
	require.True(t, ok)
	pIdx, ok := dom.Repo.Predicates.Lookup("p")
	require.True(t, ok)

	require.Len(t, strat.Partitions[0].Axioms, 1)
	assert.Equal(t, rIdx, dom.Repo.Atom(strat.Partitions[0].Axioms[0].Head).Predicate)

	require.Len(t, strat.Partitions[1].Axioms, 2, "q's strict dependency on r pulls q into stratum 1, and p's non-strict dependency on q must co-locate p there too rather than landing in stratum 0")
	heads := map[repo.Index]bool{}
	for _, ax := range strat.Partitions[1].Axioms {
		heads[dom.Repo.Atom(ax.Head).Predicate] = true
	}
	assert.True(t, heads[qIdx])
	assert.True(t, heads[pIdx])
}

func TestStratifyRejectsStrictCycle(t *testing.T) {
	dom, _, err := translator.Domain(cyclicDomain())
	require.NoError(t, err)

	_, err = axiom.Stratify(dom.Repo, dom.Axioms)
	require.Error(t, err)
	merr, ok := err.(*mimirerr.Error)
	require.True(t, ok)
	assert.Equal(t, mimirerr.UnstratifiableAxioms, merr.Kind)
	assert.NotEmpty(t, merr.Cycle)
}
