package translator

import (
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
)

// Domain runs the full §4.3 pipeline over an ast.Domain: predicate/function
// tag classification, then parameter-index encoding and interning of every
// action schema and axiom, finalized into an immutable formalism.Domain.
// Returns one Statistics entry per action schema alongside (SPEC_FULL §C.2).
func Domain(dom *ast.Domain) (*formalism.Domain, []Statistics, error) {
	builder := formalism.NewDomainBuilder(dom.Name)
	repoRef := builder.Repository()

	for _, c := range dom.Constants {
		builder.AddConstant(repoRef.GetOrCreateObject(c))
	}

	DeterminePredicateTags(repoRef, dom)
	DetermineFunctionTags(repoRef, dom)

	stats := make([]Statistics, 0, len(dom.Actions)+len(dom.Axioms))

	for i := range dom.Actions {
		schema, st := EncodeAction(repoRef, &dom.Actions[i])
		builder.AddAction(schema)
		stats = append(stats, st)
	}

	for i := range dom.Axioms {
		axiom, err := EncodeAxiom(repoRef, &dom.Axioms[i])
		if err != nil {
			return nil, nil, err
		}
		builder.AddAxiom(axiom)
	}

	// Conditions can reference predicates/functions that never appear in an
	// effect or axiom head (e.g. a purely static precondition predicate);
	// DeterminePredicateTags/DetermineFunctionTags only classify names
	// reachable from effects and axiom heads, so anything still
	// TagUnassigned after encoding every schema/axiom defaults to Static.
	for _, p := range repoRef.Predicates.All() {
		if p.Tag == formalism.TagUnassigned {
			p.Tag = formalism.Static
		}
	}
	for _, f := range repoRef.Functions.All() {
		if f.Tag == formalism.FuncTagUnassigned {
			f.Tag = formalism.FuncStatic
		}
	}

	for _, p := range repoRef.Predicates.All() {
		idx, _ := repoRef.Predicates.Lookup(p.Name)
		builder.AddPredicate(idx)
	}
	for _, f := range repoRef.Functions.All() {
		idx, _ := repoRef.Functions.Lookup(f.Name)
		builder.AddFunction(idx)
	}

	d, err := builder.Finalize()
	if err != nil {
		return nil, nil, err
	}
	return d, stats, nil
}
