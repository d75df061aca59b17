package binding

import (
	"math"

	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// groundLiteralHolds tests one already-resolved ground literal against the
// given membership predicate (HasStatic/HasFluent/HasDerived).
func groundLiteralHolds(repoRef *formalism.Repository, idx repo.Index, present func(repo.Index) bool) bool {
	gl := repoRef.GroundLiteral(idx)
	got := present(gl.Atom)
	if gl.Polarity {
		return got
	}
	return !got
}

// EvaluateGroundExpression computes the exact scalar value of a fully
// ground numeric expression (every function-term argument is an Object
// term) against view. Matches the "Undefined = NaN" rule of §3.
func EvaluateGroundExpression(repoRef *formalism.Repository, view StateView, e *formalism.Expression) float64 {
	if e == nil {
		return math.NaN()
	}
	switch e.Kind {
	case formalism.ExprConstant:
		return e.Constant
	case formalism.ExprBinaryOp:
		l := EvaluateGroundExpression(repoRef, view, e.Left)
		r := EvaluateGroundExpression(repoRef, view, e.Right)
		switch e.BinOp {
		case formalism.OpAdd:
			return l + r
		case formalism.OpSub:
			return l - r
		case formalism.OpMul:
			return l * r
		case formalism.OpDiv:
			if r == 0 {
				return math.NaN()
			}
			return l / r
		}
		return math.NaN()
	case formalism.ExprMultiOp:
		if len(e.Operands) == 0 {
			return math.NaN()
		}
		acc := EvaluateGroundExpression(repoRef, view, e.Operands[0])
		for _, o := range e.Operands[1:] {
			v := EvaluateGroundExpression(repoRef, view, o)
			if e.MultiOp == formalism.MultiAdd {
				acc += v
			} else {
				acc *= v
			}
		}
		return acc
	case formalism.ExprNegate:
		return -EvaluateGroundExpression(repoRef, view, e.Negated)
	case formalism.ExprFunctionTerm:
		objects := make([]repo.Index, len(e.Function.Terms))
		for i, t := range e.Function.Terms {
			if !t.IsObject() {
				return math.NaN()
			}
			objects[i] = t.Object()
		}
		gfIdx := repoRef.GetOrCreateGroundFunction(e.Function.Skeleton, objects)
		return view.NumericValue(gfIdx)
	default:
		return math.NaN()
	}
}

// EvaluateNullaryGuards is §4.6 step 1, split out as an independently
// testable unit: every arity-0 static/fluent/derived literal and numeric
// constraint of cc must hold against view, or the schema yields nothing
// for this state regardless of its bindable parameters.
func EvaluateNullaryGuards(repoRef *formalism.Repository, cc *formalism.ConjunctiveCondition, view StateView) bool {
	for _, idx := range cc.NullaryStaticGroundLiterals {
		if !groundLiteralHolds(repoRef, idx, view.HasStatic) {
			return false
		}
	}
	for _, idx := range cc.NullaryFluentGroundLiterals {
		if !groundLiteralHolds(repoRef, idx, view.HasFluent) {
			return false
		}
	}
	for _, idx := range cc.NullaryDerivedGroundLiterals {
		if !groundLiteralHolds(repoRef, idx, view.HasDerived) {
			return false
		}
	}
	for _, idx := range cc.NullaryNumericConstraints {
		nc := repoRef.NumericConstraint(idx)
		lhs := EvaluateGroundExpression(repoRef, view, nc.Lhs)
		rhs := EvaluateGroundExpression(repoRef, view, nc.Rhs)
		if math.IsNaN(lhs) || math.IsNaN(rhs) || !nc.Comparator.Holds(lhs, rhs) {
			return false
		}
	}
	return true
}
