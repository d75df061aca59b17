package translator

import (
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
)

// Statistics records, per action schema, the literal/constraint counts
// collected during translation — the supplementary `collect_statistics`
// feature (SPEC_FULL §C.2), exposed as loader.Loaded.Statistics for the
// CLI's `--stats` flag. Axioms get no Statistics entry.
type Statistics struct {
	Name                string
	StaticLiterals      int
	FluentLiterals      int
	DerivedLiterals     int
	NumericConstraints  int
	ConditionalEffects  int
}

// EncodeAction runs §4.3 passes 1-2 over one ast.Action: it assigns
// positional parameter indices, builds and interns the condition and
// effects, and appends any variables a conditional effect quantifies as
// extra (OriginalArity..) parameters.
func EncodeAction(repoRef *formalism.Repository, act *ast.Action) (*formalism.ActionSchema, Statistics) {
	s, params := newScope(act.Parameters)

	condIdx := buildCondition(repoRef, s, params, &act.Condition)
	effect := buildEffect(repoRef, s, params, &act.Effect)

	conditionalFx := make([]formalism.ConditionalEffect, 0, len(act.ConditionalEffects))
	for i := range act.ConditionalEffects {
		conditionalFx = append(conditionalFx, buildConditionalEffect(repoRef, s, params, &act.ConditionalEffects[i]))
	}

	var cost *formalism.Expression
	if act.Cost != nil {
		cost = buildExpression(repoRef, s, act.Cost)
	}

	schema := &formalism.ActionSchema{
		Name:           act.Name,
		OriginalArity:  len(params),
		Parameters:     params,
		Condition:      condIdx,
		Effect:         effect,
		ConditionalFx:  conditionalFx,
		CostExpression: cost,
	}

	cc := repoRef.Condition(condIdx)
	stats := Statistics{
		Name:                act.Name,
		StaticLiterals:      len(cc.StaticLiterals) + len(cc.NullaryStaticGroundLiterals),
		FluentLiterals:      len(cc.FluentLiterals) + len(cc.NullaryFluentGroundLiterals),
		DerivedLiterals:     len(cc.DerivedLiterals) + len(cc.NullaryDerivedGroundLiterals),
		NumericConstraints:  len(cc.NumericConstraints) + len(cc.NullaryNumericConstraints),
		ConditionalEffects:  len(conditionalFx),
	}

	return schema, stats
}
