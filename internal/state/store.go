package state

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/axiom"
	"github.com/mimirplan/mimir/internal/binding"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/ground"
	"github.com/mimirplan/mimir/internal/mimirerr"
	"github.com/mimirplan/mimir/internal/repo"
)

// Store interns States by their non-derived projection and caches each
// projection's derived extension, per §4.9 steps 4-5: "Intern
// (fluent_atoms', numerics') -> handle h. If derived_cache[h] exists,
// return the cached full state. Else run the axiom evaluator..."
type Store struct {
	repoRef     *formalism.Repository
	problem     *formalism.Problem
	objects     []repo.Index
	staticBits  *roaring.Bitmap
	staticTbl   *assignment.Set
	strat       *axiom.Stratification
	axiomGraphs []*axiom.AxiomGraph
	groundStore *ground.Store

	byKey   map[string]Handle
	states  []*State
	ws      *binding.Workspace
	deadline binding.Deadline
}

// NewStore builds a Store for problem: precomputes the shared static-fact
// bitmap and propositional table, stratifies the domain's axioms, and
// builds one static consistency graph per axiom. Returns
// UnstratifiableAxioms if the axiom set has a strict dependency cycle.
func NewStore(problem *formalism.Problem, groundStore *ground.Store, deadline binding.Deadline) (*Store, error) {
	repoRef := problem.Domain.Repo
	objects := problem.AllObjects()

	staticBits := roaring.New()
	staticTbl := assignment.NewSet(repoRef.ObjectCount())
	for _, idx := range problem.StaticFacts {
		gl := repoRef.GroundLiteral(idx)
		ga := repoRef.GroundAtom(gl.Atom)
		staticBits.Add(uint32(gl.Atom))
		staticTbl.Insert(ga.Predicate, len(ga.Objects), ga.Objects)
	}

	strat, err := axiom.Stratify(repoRef, problem.Domain.Axioms)
	if err != nil {
		return nil, err
	}
	graphs := axiom.BuildGraphs(repoRef, problem.Domain.Axioms, objects, staticTbl)

	return &Store{
		repoRef:     repoRef,
		problem:     problem,
		objects:     objects,
		staticBits:  staticBits,
		staticTbl:   staticTbl,
		strat:       strat,
		axiomGraphs: graphs,
		groundStore: groundStore,
		byKey:       make(map[string]Handle),
		ws:          binding.NewWorkspace(),
		deadline:    deadline,
	}, nil
}

// StaticTables exposes the load-time static propositional Set, used by
// internal/grounder to build per-schema static consistency graphs.
func (st *Store) StaticTables() *assignment.Set { return st.staticTbl }

// Objects returns the problem's full object universe.
func (st *Store) Objects() []repo.Index { return st.objects }

func newFluentBitmap(literals []repo.Index, repoRef *formalism.Repository) *roaring.Bitmap {
	b := roaring.New()
	for _, idx := range literals {
		gl := repoRef.GroundLiteral(idx)
		b.Add(uint32(gl.Atom))
	}
	return b
}

// partialView is a minimal StateView used only during axiom evaluation
// seeding: static + fluent membership and numeric values, with derived
// membership always false (the evaluator supplies its own derived view).
type partialView struct {
	static  *roaring.Bitmap
	fluent  *roaring.Bitmap
	numeric map[repo.Index]float64
}

func (v *partialView) HasStatic(idx repo.Index) bool  { return v.static.Contains(uint32(idx)) }
func (v *partialView) HasFluent(idx repo.Index) bool   { return v.fluent.Contains(uint32(idx)) }
func (v *partialView) HasDerived(repo.Index) bool      { return false }
func (v *partialView) NumericValue(idx repo.Index) float64 {
	if val, ok := v.numeric[idx]; ok {
		return val
	}
	return math.NaN()
}

// intern finds or creates the State for (fluentBits, numeric), running the
// axiom evaluator on a cache miss.
func (st *Store) intern(fluentBits *roaring.Bitmap, numeric map[repo.Index]float64) (*State, error) {
	k := nonDerivedKey(fluentBits, numeric)
	if h, ok := st.byKey[k]; ok {
		return st.states[h], nil
	}

	view := &partialView{static: st.staticBits, fluent: fluentBits, numeric: numeric}
	fluentTbl := assignment.NewSet(len(st.objects))
	it := fluentBits.Iterator()
	for it.HasNext() {
		gaIdx := repo.Index(it.Next())
		ga := st.repoRef.GroundAtom(gaIdx)
		fluentTbl.Insert(ga.Predicate, len(ga.Objects), ga.Objects)
	}
	numericTbl := assignment.NewNumericSet(len(st.objects))
	for idx, v := range numeric {
		gf := st.repoRef.GroundFunction(idx)
		numericTbl.Insert(gf.Skeleton, len(gf.Objects), gf.Objects, v)
	}

	derivedSet, _, err := axiom.Evaluate(st.repoRef, st.strat, st.axiomGraphs, st.objects, st.staticTbl, fluentTbl, numericTbl, view, st.groundStore, st.ws, st.deadline)
	if err != nil {
		return nil, err
	}
	derivedBits := roaring.New()
	for idx := range derivedSet {
		derivedBits.Add(uint32(idx))
	}

	h := Handle(len(st.states))
	s := &State{handle: h, fluent: fluentBits, derived: derivedBits, numeric: numeric, static: st.staticBits}
	st.states = append(st.states, s)
	st.byKey[k] = h
	return s, nil
}

// Initial constructs the problem's fully-derived initial state (§6
// `initial_state`). Negative initial literals are rejected earlier by
// formalism.ProblemBuilder.Finalize; this only has to trust the Problem.
func (st *Store) Initial() (*State, error) {
	fluentBits := newFluentBitmap(st.problem.InitialFluentLiterals, st.repoRef)
	numeric := make(map[repo.Index]float64, len(st.problem.InitialFunctionValues))
	for _, fv := range st.problem.InitialFunctionValues {
		numeric[fv.Function] = fv.Value
	}
	return st.intern(fluentBits, numeric)
}

// Successor implements §4.9: applies a, then steps 3-5's numeric update,
// interning, and derived-extension (re-)computation.
func (st *Store) Successor(s *State, a *ground.GroundAction) (*State, error) {
	next := s.fluent.Clone()
	for _, idx := range a.NegativeEffect {
		next.Remove(uint32(idx))
	}
	for _, idx := range a.PositiveEffect {
		next.Add(uint32(idx))
	}

	numeric := make(map[repo.Index]float64, len(s.numeric))
	for k, v := range s.numeric {
		numeric[k] = v
	}
	applyNumericEffects(numeric, a.NumericEffects, st.repoRef, s)

	for _, ce := range a.ConditionalEffects {
		for _, idx := range ce.Negative {
			next.Remove(uint32(idx))
		}
		for _, idx := range ce.Positive {
			next.Add(uint32(idx))
		}
		applyNumericEffects(numeric, ce.Numeric, st.repoRef, s)
	}

	return st.intern(next, numeric)
}

// applyNumericEffects evaluates each effect's rhs against the running
// numeric map (left-to-right, so later effects on the same variable see
// earlier ones, §4.9 step 3) and applies its assign op. If the rhs is NaN,
// the target is left at NaN.
func applyNumericEffects(numeric map[repo.Index]float64, effects []ground.GroundNumericEffect, repoRef *formalism.Repository, base *State) {
	for _, ne := range effects {
		rhs := evalRhs(repoRef, numeric, base, ne.Rhs, ne.RhsSub)
		current, ok := numeric[ne.Target]
		if !ok {
			current = math.NaN()
		}
		if math.IsNaN(rhs) {
			numeric[ne.Target] = math.NaN()
			continue
		}
		numeric[ne.Target] = ne.Op.Apply(current, rhs)
	}
}

func evalRhs(repoRef *formalism.Repository, numeric map[repo.Index]float64, base *State, e *formalism.Expression, b map[int]int) float64 {
	if e == nil {
		return math.NaN()
	}
	lookup := func(idx repo.Index) float64 {
		if v, ok := numeric[idx]; ok {
			return v
		}
		return math.NaN()
	}
	var walk func(*formalism.Expression) float64
	walk = func(e *formalism.Expression) float64 {
		switch e.Kind {
		case formalism.ExprConstant:
			return e.Constant
		case formalism.ExprBinaryOp:
			l, r := walk(e.Left), walk(e.Right)
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
			acc := walk(e.Operands[0])
			for _, o := range e.Operands[1:] {
				v := walk(o)
				if e.MultiOp == formalism.MultiAdd {
					acc += v
				} else {
					acc *= v
				}
			}
			return acc
		case formalism.ExprNegate:
			return -walk(e.Negated)
		case formalism.ExprFunctionTerm:
			objects := make([]repo.Index, len(e.Function.Terms))
			for i, t := range e.Function.Terms {
				if t.IsObject() {
					objects[i] = t.Object()
					continue
				}
				objects[i] = repo.Index(b[t.Variable().ParameterIndex])
			}
			gfIdx := repoRef.GetOrCreateGroundFunction(e.Function.Skeleton, objects)
			return lookup(gfIdx)
		default:
			return math.NaN()
		}
	}
	return walk(e)
}

// IsGoal implements §6 `is_goal`: evaluates the problem's goal condition
// (already nullary — ground — since the goal is a zero-parameter
// ConjunctiveCondition) against s.
func (st *Store) IsGoal(s *State) bool {
	cc := st.repoRef.Condition(st.problem.Goal)
	return binding.EvaluateNullaryGuards(st.repoRef, cc, s)
}

// GroundCost evaluates a ground action's cost, falling back to
// mimirerr.Undefined only if the caller needs to distinguish "explicitly
// computed" from "defaulted" — GroundAction.Cost already carries the
// resolved value from grounding time (§4.7), so this is a passthrough kept
// for API symmetry with §6.
func GroundCost(a *ground.GroundAction) (float64, error) {
	if math.IsNaN(a.Cost) {
		return 0, mimirerr.Undefined("ground action cost is undefined")
	}
	return a.Cost, nil
}
