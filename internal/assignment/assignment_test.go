package assignment_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

func TestRankDistinctForDistinctVertices(t *testing.T) {
	seen := map[uint32]bool{}
	const arity, objects = 2, 3
	for i := 0; i < arity; i++ {
		for oi := 0; oi < objects; oi++ {
			r := assignment.Rank(arity, objects, i, oi, -1, -1)
			assert.False(t, seen[r], "vertex rank collision at (i=%d, oi=%d)", i, oi)
			seen[r] = true
		}
	}
}

func TestRankDistinctForDistinctEdges(t *testing.T) {
	seen := map[uint32]bool{}
	const arity, objects = 3, 2
	for i := 0; i < arity; i++ {
		for j := i + 1; j < arity; j++ {
			for oi := 0; oi < objects; oi++ {
				for oj := 0; oj < objects; oj++ {
					r := assignment.Rank(arity, objects, i, oi, j, oj)
					assert.False(t, seen[r], "edge rank collision at (i=%d,oi=%d,j=%d,oj=%d)", i, oi, j, oj)
					seen[r] = true
				}
			}
		}
	}
}

func unaryTerms(param int) []formalism.Term {
	return []formalism.Term{formalism.VariableTerm(formalism.Variable{Name: "x", ParameterIndex: param})}
}

func binaryTerms(pi, pj int) []formalism.Term {
	return []formalism.Term{
		formalism.VariableTerm(formalism.Variable{Name: "x", ParameterIndex: pi}),
		formalism.VariableTerm(formalism.Variable{Name: "y", ParameterIndex: pj}),
	}
}

func TestTableConsistentLiteralUnaryPositive(t *testing.T) {
	tbl := assignment.NewTable(1, 4)
	tbl.InsertGroundAtom([]repo.Index{2})

	assert.True(t, tbl.ConsistentLiteral(true, unaryTerms(0), map[int]int{0: 2}))
	assert.False(t, tbl.ConsistentLiteral(true, unaryTerms(0), map[int]int{0: 3}))
}

func TestTableConsistentLiteralUnaryNegativeArityOne(t *testing.T) {
	tbl := assignment.NewTable(1, 4)
	tbl.InsertGroundAtom([]repo.Index{2})

	// arity-1 predicate: a negative unary literal is fully decidable from
	// vertex membership alone.
	assert.False(t, tbl.ConsistentLiteral(false, unaryTerms(0), map[int]int{0: 2}))
	assert.True(t, tbl.ConsistentLiteral(false, unaryTerms(0), map[int]int{0: 3}))
}

func TestTableConsistentLiteralBinaryEdge(t *testing.T) {
	tbl := assignment.NewTable(2, 4)
	tbl.InsertGroundAtom([]repo.Index{1, 2})

	assert.True(t, tbl.ConsistentLiteral(true, binaryTerms(0, 1), map[int]int{0: 1, 1: 2}))
	assert.False(t, tbl.ConsistentLiteral(true, binaryTerms(0, 1), map[int]int{0: 1, 1: 3}))
	// binary edge query is symmetric regardless of which parameter is i/j.
	assert.True(t, tbl.ConsistentLiteral(true, binaryTerms(1, 0), map[int]int{0: 2, 1: 1}))
}

func TestTableRemoveGroundAtomClearsRanks(t *testing.T) {
	tbl := assignment.NewTable(1, 4)
	tbl.InsertGroundAtom([]repo.Index{2})
	tbl.RemoveGroundAtom([]repo.Index{2})
	assert.False(t, tbl.ConsistentLiteral(true, unaryTerms(0), map[int]int{0: 2}))
}

func TestSetTableForCreatesOncePerPredicate(t *testing.T) {
	set := assignment.NewSet(4)
	a := set.TableFor(repo.Index(1), 1)
	b := set.TableFor(repo.Index(1), 1)
	assert.Same(t, a, b)
	c := set.TableFor(repo.Index(2), 1)
	assert.NotSame(t, a, c)
}

func TestBoundsEmptyAndUnion(t *testing.T) {
	e := assignment.EmptyBounds()
	assert.True(t, e.IsEmpty())

	p := assignment.PointBounds(3)
	assert.False(t, p.IsEmpty())

	u := assignment.Union(e, p)
	assert.Equal(t, p, u, "union with the empty interval is the identity")

	u2 := assignment.Union(assignment.PointBounds(1), assignment.PointBounds(5))
	assert.Equal(t, assignment.Bounds{Lower: 1, Upper: 5}, u2)
}

func TestBoundsSaturatingArithmetic(t *testing.T) {
	a := assignment.Bounds{Lower: 1, Upper: 2}
	b := assignment.Bounds{Lower: 3, Upper: 4}

	assert.Equal(t, assignment.Bounds{Lower: 4, Upper: 6}, assignment.Add(a, b))
	assert.Equal(t, assignment.Bounds{Lower: -3, Upper: -1}, assignment.Sub(a, b))
	assert.Equal(t, assignment.Bounds{Lower: 3, Upper: 8}, assignment.Mul(a, b))
	assert.Equal(t, assignment.Bounds{Lower: -2, Upper: -1}, assignment.Negate(a))
}

func TestBoundsDivByIntervalStraddlingZeroIsUnbounded(t *testing.T) {
	a := assignment.Bounds{Lower: 1, Upper: 2}
	b := assignment.Bounds{Lower: -1, Upper: 1}
	got := assignment.Div(a, b)
	assert.True(t, math.IsInf(got.Lower, -1))
	assert.True(t, math.IsInf(got.Upper, 1))
}

func TestBoundsEmptyOperandPropagatesEmpty(t *testing.T) {
	e := assignment.EmptyBounds()
	a := assignment.PointBounds(1)
	assert.True(t, assignment.Add(e, a).IsEmpty())
	assert.True(t, assignment.Mul(e, a).IsEmpty())
}

func TestNumericTableExcludesNaNAndLooksUpByRank(t *testing.T) {
	nt := assignment.NewNumericTable(1, 4)
	nt.InsertGroundFunctionValue([]repo.Index{2}, math.NaN())
	assert.True(t, nt.Lookup(0, 2, -1, -1).IsEmpty(), "NaN values must never widen a bound")

	nt.InsertGroundFunctionValue([]repo.Index{2}, 5)
	nt.InsertGroundFunctionValue([]repo.Index{2}, 9)
	got := nt.Lookup(0, 2, -1, -1)
	assert.Equal(t, assignment.Bounds{Lower: 5, Upper: 9}, got, "repeated inserts widen to the union")
}

func TestEvaluateExpressionConstantAndBinaryOp(t *testing.T) {
	set := assignment.NewNumericSet(4)
	repoRef := formalism.NewRepository()

	c1 := formalism.Constant(2)
	c2 := formalism.Constant(3)
	sum := formalism.BinaryExpr(formalism.OpAdd, c1, c2)

	got := assignment.EvaluateExpression(set, repoRef, sum, map[int]int{})
	assert.Equal(t, assignment.PointBounds(5), got)
}
