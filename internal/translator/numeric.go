package translator

import (
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// buildFunctionTerm interns a function skeleton and resolves its term
// list against scope.
func buildFunctionTerm(repoRef *formalism.Repository, s scope, ft *ast.FunctionTerm) *formalism.FunctionTerm {
	terms, _ := s.terms(repoRef, ft.Terms)
	skel := repoRef.GetOrCreateFunction(ft.Function, len(ft.Terms))
	return &formalism.FunctionTerm{Skeleton: skel, Terms: terms}
}

// buildExpression recursively translates an ast.Expression tree.
func buildExpression(repoRef *formalism.Repository, s scope, e *ast.Expression) *formalism.Expression {
	if e == nil {
		return nil
	}
	switch e.Op {
	case "const":
		return formalism.Constant(e.Value)
	case "+":
		return formalism.BinaryExpr(formalism.OpAdd, buildExpression(repoRef, s, e.Left), buildExpression(repoRef, s, e.Right))
	case "-":
		return formalism.BinaryExpr(formalism.OpSub, buildExpression(repoRef, s, e.Left), buildExpression(repoRef, s, e.Right))
	case "*":
		return formalism.BinaryExpr(formalism.OpMul, buildExpression(repoRef, s, e.Left), buildExpression(repoRef, s, e.Right))
	case "/":
		return formalism.BinaryExpr(formalism.OpDiv, buildExpression(repoRef, s, e.Left), buildExpression(repoRef, s, e.Right))
	case "multi+":
		ops := make([]*formalism.Expression, len(e.Operands))
		for i, o := range e.Operands {
			ops[i] = buildExpression(repoRef, s, o)
		}
		return formalism.MultiExpr(formalism.MultiAdd, ops...)
	case "multi*":
		ops := make([]*formalism.Expression, len(e.Operands))
		for i, o := range e.Operands {
			ops[i] = buildExpression(repoRef, s, o)
		}
		return formalism.MultiExpr(formalism.MultiMul, ops...)
	case "neg":
		return formalism.NegateExpr(buildExpression(repoRef, s, e.Left))
	case "func":
		return formalism.FunctionExpr(buildFunctionTerm(repoRef, s, e.Function))
	default:
		return formalism.Constant(0)
	}
}

// buildFunctionRemaps populates nc.Remaps: one FunctionRemap per function
// term occurrence reachable from Lhs/Rhs, each a per-column index into
// nc.TermList (§4.3 pass 2). nc.TermList must already be built.
func buildFunctionRemaps(nc *formalism.NumericConstraint) {
	columnOf := make(map[string]int, len(nc.TermList))
	for i, t := range nc.TermList {
		columnOf[termKey(t)] = i
	}
	for _, ft := range append(nc.Lhs.CollectFunctionTerms(nil), nc.Rhs.CollectFunctionTerms(nil)...) {
		remap := make([]int, len(ft.Terms))
		for i, t := range ft.Terms {
			if col, ok := columnOf[termKey(t)]; ok {
				remap[i] = col
			} else {
				remap[i] = -1
			}
		}
		nc.Remaps = append(nc.Remaps, formalism.FunctionRemap{Function: ft, Remap: remap})
	}
}

// termKey mirrors formalism.Term's unexported canonicalization so the
// translator (a different package) can index terms by identity.
func termKey(t formalism.Term) string {
	if t.IsObject() {
		return "o:" + t.Object().String()
	}
	v := t.Variable()
	return "v:" + v.String()
}

// buildNumericConstraint translates one ast.NumericConstraint, computes
// its term list and remap vectors, and interns it. Returns the interned
// index and whether the constraint is nullary (depends on no parameter).
func buildNumericConstraint(repoRef *formalism.Repository, s scope, nc *ast.NumericConstraint) (repo.Index, bool) {
	fc := &formalism.NumericConstraint{
		Comparator: comparatorOf(nc.Comparator),
		Lhs:        buildExpression(repoRef, s, nc.Lhs),
		Rhs:        buildExpression(repoRef, s, nc.Rhs),
	}
	fc.BuildTermList()
	buildFunctionRemaps(fc)
	idx := repoRef.GetOrCreateNumericConstraint(fc)
	return idx, fc.Arity0()
}
