package formalism

import "github.com/mimirplan/mimir/internal/repo"

// AssignOp enumerates the five numeric effect assignment operators.
type AssignOp int

const (
	AssignSet AssignOp = iota
	Increase
	Decrease
	ScaleUp
	ScaleDown
)

func (op AssignOp) String() string {
	return [...]string{"assign", "increase", "decrease", "scale-up", "scale-down"}[op]
}

// Apply computes the new value of a numeric variable currently at current
// after applying this op with the evaluated right-hand side rhs. Per §3,
// arithmetic involving NaN always yields NaN.
func (op AssignOp) Apply(current, rhs float64) float64 {
	switch op {
	case AssignSet:
		return rhs
	case Increase:
		return current + rhs
	case Decrease:
		return current - rhs
	case ScaleUp:
		return current * rhs
	case ScaleDown:
		return current / rhs
	default:
		return current
	}
}

// NumericEffect is `(assign_op, target_function, rhs_expr)`.
type NumericEffect struct {
	Op     AssignOp
	Target *FunctionTerm
	Rhs    *Expression
}

// ConjunctiveEffect is `(parameters, fluent_literal_effects,
// fluent_numeric_effects, optional auxiliary_numeric_effect)` (§3).
type ConjunctiveEffect struct {
	Parameters            []Variable
	FluentLiteralEffects   []repo.Index // indices into Repository.Literals (the effect atoms, polarity = assert/retract)
	FluentNumericEffects   []NumericEffect
	AuxiliaryNumericEffect *NumericEffect // nil if absent
}

// ConditionalEffect is `(conjunctive_condition, conjunctive_effect)`.
type ConditionalEffect struct {
	Condition repo.Index // index into Repository.Conditions
	Effect    *ConjunctiveEffect
}
