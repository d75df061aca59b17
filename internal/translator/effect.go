package translator

import (
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
)

// buildEffect translates an ast.Effect into a ConjunctiveEffect, splitting
// off the single auxiliary (total-cost) numeric effect if present (§3).
func buildEffect(repoRef *formalism.Repository, s scope, params []formalism.Variable, eff *ast.Effect) *formalism.ConjunctiveEffect {
	ce := &formalism.ConjunctiveEffect{Parameters: params}

	for _, lit := range eff.Literals {
		terms, _ := s.terms(repoRef, lit.Atom.Terms)
		predIdx := repoRef.GetOrCreatePredicate(lit.Atom.Predicate, len(lit.Atom.Terms))
		atomIdx := repoRef.GetOrCreateAtom(predIdx, terms)
		litIdx := repoRef.GetOrCreateLiteral(lit.Positive, atomIdx)
		ce.FluentLiteralEffects = append(ce.FluentLiteralEffects, litIdx)
	}

	for _, ne := range eff.NumericEffects {
		target := buildFunctionTerm(repoRef, s, &ne.Target)
		fe := formalism.NumericEffect{
			Op:     assignOpOf(ne.Op),
			Target: target,
			Rhs:    buildExpression(repoRef, s, ne.Rhs),
		}
		if repoRef.Function(target.Skeleton).Tag == formalism.FuncAuxiliary {
			aux := fe
			ce.AuxiliaryNumericEffect = &aux
		} else {
			ce.FluentNumericEffects = append(ce.FluentNumericEffects, fe)
		}
	}

	return ce
}

// buildConditionalEffect translates one ast.ConditionalEffect, extending
// the enclosing action's parameter scope with any variables the `forall`
// quantifies (§3).
func buildConditionalEffect(repoRef *formalism.Repository, s scope, baseParams []formalism.Variable, ce *ast.ConditionalEffect) formalism.ConditionalEffect {
	localScope, allParams := s.extend(baseParams, ce.Parameters)
	condIdx := buildCondition(repoRef, localScope, allParams, &ce.Condition)
	effect := buildEffect(repoRef, localScope, allParams, &ce.Effect)
	return formalism.ConditionalEffect{Condition: condIdx, Effect: effect}
}
