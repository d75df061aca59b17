package formalism

import "github.com/mimirplan/mimir/internal/repo"

// ActionSchema is `(name, original_arity, parameters, conjunctive_condition,
// conjunctive_effect, conditional_effects)`. OriginalArity is the number of
// user-declared parameters before the translator appended extras for
// quantified conditional effects (§3).
type ActionSchema struct {
	Name           string
	OriginalArity  int
	Parameters     []Variable
	Condition      repo.Index // index into Repository.Conditions
	Effect         *ConjunctiveEffect
	ConditionalFx  []ConditionalEffect
	CostExpression *Expression // nil => cost is always action_cost_default
}

// Arity returns the schema's parameter count (== len(Parameters)).
func (a *ActionSchema) Arity() int { return len(a.Parameters) }
