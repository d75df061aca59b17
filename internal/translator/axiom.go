package translator

import (
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/mimirerr"
)

// EncodeAxiom runs §4.3 over one ast.Axiom. Parameters is canonically the
// head atom's own variables, in their head-position order, followed by
// any body-only variables in first-occurrence order — the invariant the
// Axiom doc comment describes. The head predicate must already be tagged
// Derived by DeterminePredicateTags.
func EncodeAxiom(repoRef *formalism.Repository, ax *ast.Axiom) (*formalism.Axiom, error) {
	headVars := make([]string, 0, len(ax.Head.Terms))
	seen := map[string]bool{}
	for _, t := range ax.Head.Terms {
		name := string(t)
		if len(name) > 0 && name[0] == '?' && !seen[name] {
			seen[name] = true
			headVars = append(headVars, name)
		}
	}
	extra := make([]string, 0, len(ax.Parameters))
	for _, p := range ax.Parameters {
		if !seen[p] {
			seen[p] = true
			extra = append(extra, p)
		}
	}
	ordered := append(headVars, extra...) // body-only variables in first-occurrence order

	s, params := newScope(ordered)

	condIdx := buildCondition(repoRef, s, params, &ax.Condition)

	headTerms, _ := s.terms(repoRef, ax.Head.Terms)
	headPredIdx := repoRef.GetOrCreatePredicate(ax.Head.Predicate, len(ax.Head.Terms))
	if repoRef.Predicate(headPredIdx).Tag != formalism.Derived {
		return nil, mimirerr.Invariant("axiom head predicate %q was not classified as derived", ax.Head.Predicate)
	}
	headAtomIdx := repoRef.GetOrCreateAtom(headPredIdx, headTerms)

	return &formalism.Axiom{
		Parameters: params,
		Condition:  condIdx,
		Head:       headAtomIdx,
	}, nil
}
