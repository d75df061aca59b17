// Package ground implements §4.7: turning a schema plus a complete binding
// into an interned ground action or ground axiom, including recursive
// grounding of conditional effects over their own static consistency
// subgraphs.
package ground

import (
	"math"

	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/binding"
	"github.com/mimirplan/mimir/internal/consistency"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// ConditionalEffectInstance is one conditional effect's ground outcome for
// one extension of the binding over its quantified variables: the positive/
// negative fluent-atom deltas and numeric effects it contributes once its
// own condition held against the source state.
type ConditionalEffectInstance struct {
	Positive []repo.Index // ground atoms to assert
	Negative []repo.Index // ground atoms to retract
	Numeric  []GroundNumericEffect
}

// GroundNumericEffect is a numeric effect with its target function already
// substituted to a concrete ground function handle.
type GroundNumericEffect struct {
	Op     formalism.AssignOp
	Target repo.Index // index into Repository.GroundFunctions
	Rhs    *formalism.Expression
	RhsSub map[int]int // binding in effect at grounding time, for lifted Rhs evaluation
}

// GroundAction is the fully ground instance of an ActionSchema under one
// binding (§4.7): static preconditions are discarded (already enforced by
// the consistency graph during binding generation), leaving only the
// fluent/derived precondition bitsets, ground numeric preconditions, the
// fluent effect bitsets, ground numeric effects, resolved conditional
// effects, and the evaluated cost.
type GroundAction struct {
	Schema  int // index of the ActionSchema in Domain.Actions
	Binding []repo.Index

	PositivePreconditionFluent  []repo.Index
	NegativePreconditionFluent  []repo.Index
	PositivePreconditionDerived []repo.Index
	NegativePreconditionDerived []repo.Index
	NumericPreconditions        []repo.Index // the schema's lifted NumericConstraint indices, copied unchanged; Binding supplies their parameters

	PositiveEffect []repo.Index
	NegativeEffect []repo.Index
	NumericEffects []GroundNumericEffect

	ConditionalEffects []ConditionalEffectInstance

	Cost float64
}

func key(schema int, b []repo.Index) string {
	s := ""
	for _, o := range b {
		s += o.String() + ","
	}
	return s + "#" + itoa(schema)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Store is the interning table of ground actions/axioms keyed by
// (schema_index, binding), per §4.7's "repeated groundings return the same
// handle."
type Store struct {
	actions    map[string]*GroundAction
	actionList []*GroundAction
	axioms     map[string]*GroundAxiom
	axiomList  []*GroundAxiom
}

// NewStore creates an empty ground-instance interning store.
func NewStore() *Store {
	return &Store{actions: make(map[string]*GroundAction), axioms: make(map[string]*GroundAxiom)}
}

func splitByPolarity(repoRef *formalism.Repository, literals []repo.Index, b map[int]int) (pos, neg []repo.Index) {
	for _, idx := range literals {
		lit := repoRef.Literal(idx)
		atom := repoRef.Atom(lit.Atom)
		objects := make([]repo.Index, len(atom.Terms))
		for i, t := range atom.Terms {
			if t.IsObject() {
				objects[i] = t.Object()
				continue
			}
			objects[i] = repo.Index(b[t.Variable().ParameterIndex])
		}
		gaIdx := repoRef.GetOrCreateGroundAtom(atom.Predicate, objects)
		if lit.Polarity {
			pos = append(pos, gaIdx)
		} else {
			neg = append(neg, gaIdx)
		}
	}
	return
}

func substituteGroundFunction(repoRef *formalism.Repository, ft *formalism.FunctionTerm, b map[int]int) repo.Index {
	objects := make([]repo.Index, len(ft.Terms))
	for i, t := range ft.Terms {
		if t.IsObject() {
			objects[i] = t.Object()
			continue
		}
		objects[i] = repo.Index(b[t.Variable().ParameterIndex])
	}
	return repoRef.GetOrCreateGroundFunction(ft.Skeleton, objects)
}

// evaluateCost computes an action schema's cost expression against the
// current state's static+fluent function values, falling back to
// defaultCost when the result is NaN (§4.7, the legacy no-`:action-costs`
// convention).
func evaluateCost(repoRef *formalism.Repository, view binding.StateView, costExpr *formalism.Expression, b map[int]int, defaultCost float64) float64 {
	if costExpr == nil {
		return defaultCost
	}
	v := evalLiftedScalar(repoRef, view, costExpr, b)
	if math.IsNaN(v) {
		return defaultCost
	}
	return v
}

func evalLiftedScalar(repoRef *formalism.Repository, view binding.StateView, e *formalism.Expression, b map[int]int) float64 {
	if e == nil {
		return math.NaN()
	}
	switch e.Kind {
	case formalism.ExprConstant:
		return e.Constant
	case formalism.ExprBinaryOp:
		l := evalLiftedScalar(repoRef, view, e.Left, b)
		r := evalLiftedScalar(repoRef, view, e.Right, b)
		switch e.BinOp {
		case formalism.OpAdd:
			return l + r
		case formalism.OpSub:
			return l - r
		case formalism.OpMul:
			return l * r
		case formalism.OpDiv:
			if r == 0 {
				return math.NaN()
			}
			return l / r
		}
		return math.NaN()
	case formalism.ExprMultiOp:
		if len(e.Operands) == 0 {
			return math.NaN()
		}
		acc := evalLiftedScalar(repoRef, view, e.Operands[0], b)
		for _, o := range e.Operands[1:] {
			v := evalLiftedScalar(repoRef, view, o, b)
			if e.MultiOp == formalism.MultiAdd {
				acc += v
			} else {
				acc *= v
			}
		}
		return acc
	case formalism.ExprNegate:
		return -evalLiftedScalar(repoRef, view, e.Negated, b)
	case formalism.ExprFunctionTerm:
		gfIdx := substituteGroundFunction(repoRef, e.Function, b)
		return view.NumericValue(gfIdx)
	default:
		return math.NaN()
	}
}

// groundNumericEffects substitutes the function targets of a
// ConjunctiveEffect's numeric effects (including its auxiliary total-cost
// effect, if present) for a concrete binding.
func groundNumericEffects(repoRef *formalism.Repository, ce *formalism.ConjunctiveEffect, b map[int]int) []GroundNumericEffect {
	var out []GroundNumericEffect
	for _, ne := range ce.FluentNumericEffects {
		out = append(out, GroundNumericEffect{
			Op:     ne.Op,
			Target: substituteGroundFunction(repoRef, ne.Target, b),
			Rhs:    ne.Rhs,
			RhsSub: b,
		})
	}
	if ce.AuxiliaryNumericEffect != nil {
		ne := ce.AuxiliaryNumericEffect
		out = append(out, GroundNumericEffect{
			Op:     ne.Op,
			Target: substituteGroundFunction(repoRef, ne.Target, b),
			Rhs:    ne.Rhs,
			RhsSub: b,
		})
	}
	return out
}

// objectOrdinal returns obj's position within objects, the ordinal a
// consistency.Vertex.Object field indexes by.
func objectOrdinal(objects []repo.Index, obj repo.Index) int {
	for i, o := range objects {
		if o == obj {
			return i
		}
	}
	return -1
}

// GroundConditionalEffect recursively grounds one conditional effect
// against a parent binding by clique-enumerating only its own quantified
// variables over a fresh static subgraph restricted to parentBinding for
// parameters 0..parentArity-1 (§4.7 "extending the binding with quantified
// variables by another clique enumeration" — the parent's own parameters
// are already resolved, not free), testing the extended condition against
// view, and emitting one ConditionalEffectInstance per satisfied extension.
func GroundConditionalEffect(ctx *binding.Context, ceSchema formalism.ConditionalEffect, parentArity int, parentBinding []repo.Index, ws *binding.Workspace, deadline binding.Deadline) ([]ConditionalEffectInstance, error) {
	repoRef := ctx.Repo
	cc := repoRef.Condition(ceSchema.Condition)
	arity := len(cc.Parameters)

	fixed := make(map[int]int, parentArity)
	for i := 0; i < parentArity; i++ {
		fixed[i] = objectOrdinal(ctx.Objects, parentBinding[i])
	}

	fullGraph := consistency.Build(repoRef, arity, ceSchema.Condition, ctx.Objects, ctx.StaticTables)
	subCtx := *ctx
	subCtx.StaticGraph = fullGraph.Restrict(fixed)

	var instances []ConditionalEffectInstance
	err := binding.Generate(&subCtx, binding.Schema{Arity: arity, Condition: ceSchema.Condition}, ws, deadline, func(full []repo.Index) bool {
		b := make(map[int]int, len(full))
		for i, o := range full {
			b[i] = int(o)
		}
		pos, neg := splitByPolarity(repoRef, ceSchema.Effect.FluentLiteralEffects, b)
		instances = append(instances, ConditionalEffectInstance{
			Positive: pos,
			Negative: neg,
			Numeric:  groundNumericEffects(repoRef, ceSchema.Effect, b),
		})
		return true
	})
	return instances, err
}

// GroundActionInstance builds (or returns the interned) GroundAction for
// schema under a complete binding, per §4.7.
func (s *Store) GroundActionInstance(ctx *binding.Context, schemaIdx int, schema *formalism.ActionSchema, b []repo.Index, ws *binding.Workspace, deadline binding.Deadline, defaultCost float64) (*GroundAction, error) {
	k := key(schemaIdx, b)
	if g, ok := s.actions[k]; ok {
		return g, nil
	}
	repoRef := ctx.Repo
	bind := make(map[int]int, len(b))
	for i, o := range b {
		bind[i] = int(o)
	}

	cc := repoRef.Condition(schema.Condition)
	posF, negF := splitByPolarity(repoRef, cc.FluentLiterals, bind)
	posD, negD := splitByPolarity(repoRef, cc.DerivedLiterals, bind)

	numericPre := append([]repo.Index(nil), cc.NumericConstraints...)

	posE, negE := splitByPolarity(repoRef, schema.Effect.FluentLiteralEffects, bind)
	numE := groundNumericEffects(repoRef, schema.Effect, bind)

	var condEffects []ConditionalEffectInstance
	for _, ceSchema := range schema.ConditionalFx {
		insts, err := GroundConditionalEffect(ctx, ceSchema, schema.Arity(), b, ws, deadline)
		if err != nil {
			return nil, err
		}
		condEffects = append(condEffects, insts...)
	}

	cost := evaluateCost(repoRef, ctx.View, schema.CostExpression, bind, defaultCost)

	g := &GroundAction{
		Schema:                      schemaIdx,
		Binding:                     b,
		PositivePreconditionFluent:  posF,
		NegativePreconditionFluent:  negF,
		PositivePreconditionDerived: posD,
		NegativePreconditionDerived: negD,
		NumericPreconditions:        numericPre,
		PositiveEffect:              posE,
		NegativeEffect:              negE,
		NumericEffects:              numE,
		ConditionalEffects:          condEffects,
		Cost:                        cost,
	}
	s.actions[k] = g
	s.actionList = append(s.actionList, g)
	return g, nil
}
