package translator

import (
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
)

// Problem runs §4.3's encoding over an ast.Problem against an already-
// translated Domain, extending the Domain's shared Repository with the
// problem's own objects, initial state, and goal.
func Problem(dom *formalism.Domain, prob *ast.Problem) (*formalism.Problem, error) {
	builder := formalism.NewProblemBuilder(dom, prob.Name)
	repoRef := builder.Repository()
	empty := scope{}

	for _, o := range prob.Objects {
		builder.AddObject(repoRef.GetOrCreateObject(o))
	}

	for _, lit := range prob.InitialLiterals {
		terms, nullary := empty.terms(repoRef, lit.Atom.Terms)
		predIdx := repoRef.GetOrCreatePredicate(lit.Atom.Predicate, len(lit.Atom.Terms))
		if !nullary {
			continue // a non-object term in the initial state cannot occur; skip defensively
		}
		gaIdx := repoRef.GetOrCreateGroundAtom(predIdx, termsToObjects(terms))
		glIdx := repoRef.GetOrCreateGroundLiteral(lit.Positive, gaIdx)
		switch repoRef.Predicate(predIdx).Tag {
		case formalism.Static:
			builder.AddStaticFact(glIdx)
		default:
			builder.AddInitialFluentLiteral(glIdx)
		}
	}

	for _, ifv := range prob.InitialFunctionValues {
		ft := buildFunctionTerm(repoRef, empty, &ifv.Function)
		gf := repoRef.GetOrCreateGroundFunction(ft.Skeleton, termsToObjects(ft.Terms))
		builder.AddInitialFunctionValue(formalism.InitialFunctionValue{Function: gf, Value: ifv.Value})
	}

	for _, lit := range prob.Goal.Literals {
		terms, _ := empty.terms(repoRef, lit.Atom.Terms)
		predIdx := repoRef.GetOrCreatePredicate(lit.Atom.Predicate, len(lit.Atom.Terms))
		gaIdx := repoRef.GetOrCreateGroundAtom(predIdx, termsToObjects(terms))
		glIdx := repoRef.GetOrCreateGroundLiteral(lit.Positive, gaIdx)
		switch repoRef.Predicate(predIdx).Tag {
		case formalism.Static:
			builder.AddGoalStaticLiteral(glIdx)
		case formalism.Fluent:
			builder.AddGoalFluentLiteral(glIdx)
		case formalism.Derived:
			builder.AddGoalDerivedLiteral(glIdx)
		}
	}

	for i := range prob.Goal.NumericConstraints {
		idx, _ := buildNumericConstraint(repoRef, empty, &prob.Goal.NumericConstraints[i])
		builder.AddGoalNumericConstraint(idx)
	}

	if prob.Metric != nil {
		builder.SetMetric(buildExpression(repoRef, empty, prob.Metric))
	}

	return builder.Finalize()
}
