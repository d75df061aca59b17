package binding

import (
	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/consistency"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

func bindingOf(objects []repo.Index, picks []consistency.Vertex) map[int]int {
	m := make(map[int]int, len(picks))
	for _, p := range picks {
		m[p.Param] = int(objects[p.Object])
	}
	return m
}

func numericTermListMentionsParam(terms []formalism.Term, param int) bool {
	for _, t := range terms {
		if !t.IsObject() && t.Variable().ParameterIndex == param {
			return true
		}
	}
	return false
}

func boundsSatisfy(c formalism.Comparator, lhs, rhs assignment.Bounds) bool {
	if lhs.IsEmpty() || rhs.IsEmpty() {
		return false
	}
	switch c {
	case formalism.CmpLess:
		return lhs.Lower < rhs.Upper
	case formalism.CmpLessEqual:
		return lhs.Lower <= rhs.Upper
	case formalism.CmpEqual:
		return lhs.Lower <= rhs.Upper && rhs.Lower <= lhs.Upper
	case formalism.CmpGreaterEqual:
		return lhs.Upper >= rhs.Lower
	case formalism.CmpGreater:
		return lhs.Upper > rhs.Lower
	default:
		return false
	}
}

// dynamicEdgeConsistent is §4.6 step 4's per-edge filter: an edge of the
// static consistency graph survives into the dynamic graph only if every
// binary fluent/derived literal and binary numeric constraint the two
// vertices' parameters participate in is still locally consistent under
// the current state's fluent/derived/numeric assignment sets.
func dynamicEdgeConsistent(ctx *Context, cc *formalism.ConjunctiveCondition, vi, vj consistency.Vertex) bool {
	binding := map[int]int{vi.Param: int(ctx.Objects[vi.Object]), vj.Param: int(ctx.Objects[vj.Object])}

	checkLiteral := func(litIdx repo.Index, tables *assignment.Set) bool {
		lit := ctx.Repo.Literal(litIdx)
		atom := ctx.Repo.Atom(lit.Atom)
		if !consistency.AtomMentionsParam(atom, vi.Param) || !consistency.AtomMentionsParam(atom, vj.Param) {
			return true
		}
		if formalism.IsEqualityPredicate(ctx.Repo, atom.Predicate) {
			decided, holds := formalism.EqualityHolds(lit.Polarity, atom.Terms, binding)
			return !decided || holds
		}
		table := tables.TableFor(atom.Predicate, len(atom.Terms))
		return table.ConsistentLiteral(lit.Polarity, atom.Terms, binding)
	}

	for _, idx := range cc.FluentLiterals {
		if !checkLiteral(idx, ctx.FluentTables) {
			return false
		}
	}
	for _, idx := range cc.DerivedLiterals {
		if !checkLiteral(idx, ctx.DerivedTables) {
			return false
		}
	}
	for _, idx := range cc.NumericConstraints {
		nc := ctx.Repo.NumericConstraint(idx)
		if !numericTermListMentionsParam(nc.TermList, vi.Param) || !numericTermListMentionsParam(nc.TermList, vj.Param) {
			continue
		}
		lhs := assignment.EvaluateExpression(ctx.NumericTables, ctx.Repo, nc.Lhs, binding)
		rhs := assignment.EvaluateExpression(ctx.NumericTables, ctx.Repo, nc.Rhs, binding)
		if !boundsSatisfy(nc.Comparator, lhs, rhs) {
			return false
		}
	}
	return true
}
