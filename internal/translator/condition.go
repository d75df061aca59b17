package translator

import (
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// buildCondition translates an ast.Condition into an interned
// ConjunctiveCondition, routing each literal/constraint into its
// static/fluent/derived and lifted/nullary list per §3 and §4.6 step 1.
// DeterminePredicateTags/DetermineFunctionTags must have run first; a
// predicate still TagUnassigned here appears in no effect or axiom head, so
// its literals are routed to the static lists.
func buildCondition(repoRef *formalism.Repository, s scope, params []formalism.Variable, cond *ast.Condition) repo.Index {
	cc := &formalism.ConjunctiveCondition{Parameters: params}

	for _, lit := range cond.Literals {
		terms, nullary := s.terms(repoRef, lit.Atom.Terms)
		predIdx := repoRef.GetOrCreatePredicate(lit.Atom.Predicate, len(lit.Atom.Terms))
		tag := repoRef.Predicate(predIdx).Tag

		if nullary {
			objs := make([]repo.Index, len(terms))
			for i, t := range terms {
				objs[i] = t.Object()
			}
			gaIdx := repoRef.GetOrCreateGroundAtom(predIdx, objs)
			glIdx := repoRef.GetOrCreateGroundLiteral(lit.Positive, gaIdx)
			switch tag {
			case formalism.Static, formalism.TagUnassigned:
				cc.NullaryStaticGroundLiterals = append(cc.NullaryStaticGroundLiterals, glIdx)
			case formalism.Fluent:
				cc.NullaryFluentGroundLiterals = append(cc.NullaryFluentGroundLiterals, glIdx)
			case formalism.Derived:
				cc.NullaryDerivedGroundLiterals = append(cc.NullaryDerivedGroundLiterals, glIdx)
			}
			continue
		}

		atomIdx := repoRef.GetOrCreateAtom(predIdx, terms)
		litIdx := repoRef.GetOrCreateLiteral(lit.Positive, atomIdx)
		switch tag {
		case formalism.Static, formalism.TagUnassigned:
			cc.StaticLiterals = append(cc.StaticLiterals, litIdx)
		case formalism.Fluent:
			cc.FluentLiterals = append(cc.FluentLiterals, litIdx)
		case formalism.Derived:
			cc.DerivedLiterals = append(cc.DerivedLiterals, litIdx)
		}
	}

	for i := range cond.NumericConstraints {
		idx, nullary := buildNumericConstraint(repoRef, s, &cond.NumericConstraints[i])
		if nullary {
			cc.NullaryNumericConstraints = append(cc.NullaryNumericConstraints, idx)
		} else {
			cc.NumericConstraints = append(cc.NumericConstraints, idx)
		}
	}

	return repoRef.GetOrCreateCondition(cc)
}
