package binding

import (
	"math"

	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// substitute resolves a lifted term list under a complete binding
// (paramIndex -> object), returning the ground object tuple. Every
// variable referenced must be present in binding — callers only invoke
// this once a binding is known-complete for the relevant parameters.
func substitute(terms []formalism.Term, binding map[int]int) []repo.Index {
	out := make([]repo.Index, len(terms))
	for i, t := range terms {
		if t.IsObject() {
			out[i] = t.Object()
			continue
		}
		out[i] = repo.Index(binding[t.Variable().ParameterIndex])
	}
	return out
}

func literalHolds(repoRef *formalism.Repository, view StateView, litIdx repo.Index, present func(repo.Index) bool, binding map[int]int) bool {
	lit := repoRef.Literal(litIdx)
	atom := repoRef.Atom(lit.Atom)
	if formalism.IsEqualityPredicate(repoRef, atom.Predicate) {
		_, holds := formalism.EqualityHolds(lit.Polarity, atom.Terms, binding)
		return holds
	}
	objects := substitute(atom.Terms, binding)
	gaIdx := repoRef.GetOrCreateGroundAtom(atom.Predicate, objects)
	got := present(gaIdx)
	if lit.Polarity {
		return got
	}
	return !got
}

func numericConstraintHolds(repoRef *formalism.Repository, view StateView, ncIdx repo.Index, binding map[int]int) bool {
	nc := repoRef.NumericConstraint(ncIdx)
	lhs := evaluateLiftedExpression(repoRef, view, nc.Lhs, binding)
	rhs := evaluateLiftedExpression(repoRef, view, nc.Rhs, binding)
	if math.IsNaN(lhs) || math.IsNaN(rhs) {
		return false
	}
	return nc.Comparator.Holds(lhs, rhs)
}

// evaluateLiftedExpression is EvaluateGroundExpression's lifted
// counterpart: function-term leaves may reference schema variables, which
// are resolved through binding before the ground-function lookup.
func evaluateLiftedExpression(repoRef *formalism.Repository, view StateView, e *formalism.Expression, binding map[int]int) float64 {
	if e == nil {
		return math.NaN()
	}
	switch e.Kind {
	case formalism.ExprConstant:
		return e.Constant
	case formalism.ExprBinaryOp:
		l := evaluateLiftedExpression(repoRef, view, e.Left, binding)
		r := evaluateLiftedExpression(repoRef, view, e.Right, binding)
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
		acc := evaluateLiftedExpression(repoRef, view, e.Operands[0], binding)
		for _, o := range e.Operands[1:] {
			v := evaluateLiftedExpression(repoRef, view, o, binding)
			if e.MultiOp == formalism.MultiAdd {
				acc += v
			} else {
				acc *= v
			}
		}
		return acc
	case formalism.ExprNegate:
		return -evaluateLiftedExpression(repoRef, view, e.Negated, binding)
	case formalism.ExprFunctionTerm:
		objects := substitute(e.Function.Terms, binding)
		gfIdx := repoRef.GetOrCreateGroundFunction(e.Function.Skeleton, objects)
		return view.NumericValue(gfIdx)
	default:
		return math.NaN()
	}
}

// VerifyFullCondition re-checks every literal and numeric constraint of cc
// (nullary and lifted alike) against a complete binding — §4.6 step 6,
// the pass that settles anything the 2-local assignment-set filter in
// internal/consistency and internal/assignment could not decide (≥3-ary
// literals/constraints, arity>1 negative literals tested only at a
// vertex).
func VerifyFullCondition(repoRef *formalism.Repository, cc *formalism.ConjunctiveCondition, view StateView, binding map[int]int) bool {
	if !EvaluateNullaryGuards(repoRef, cc, view) {
		return false
	}
	for _, idx := range cc.StaticLiterals {
		if !literalHolds(repoRef, view, idx, view.HasStatic, binding) {
			return false
		}
	}
	for _, idx := range cc.FluentLiterals {
		if !literalHolds(repoRef, view, idx, view.HasFluent, binding) {
			return false
		}
	}
	for _, idx := range cc.DerivedLiterals {
		if !literalHolds(repoRef, view, idx, view.HasDerived, binding) {
			return false
		}
	}
	for _, idx := range cc.NumericConstraints {
		if !numericConstraintHolds(repoRef, view, idx, binding) {
			return false
		}
	}
	return true
}
