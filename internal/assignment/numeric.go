package assignment

import (
	"math"

	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// Bounds is a closed real interval [Lower, Upper]. The empty interval is
// represented as (+Inf, -Inf) per §4.4, which falsifies every comparator.
type Bounds struct {
	Lower, Upper float64
}

// EmptyBounds returns the falsifying empty interval.
func EmptyBounds() Bounds { return Bounds{Lower: math.Inf(1), Upper: math.Inf(-1)} }

// PointBounds returns the degenerate interval [v, v].
func PointBounds(v float64) Bounds { return Bounds{Lower: v, Upper: v} }

// IsEmpty reports whether b represents no value at all.
func (b Bounds) IsEmpty() bool { return b.Lower > b.Upper }

// Union returns the smallest interval containing both a and b.
func Union(a, b Bounds) Bounds {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	return Bounds{Lower: math.Min(a.Lower, b.Lower), Upper: math.Max(a.Upper, b.Upper)}
}

// Add, Sub, Mul, Div implement saturating interval arithmetic. Any operand
// involving NaN propagates NaN in both endpoints, matching the scalar rule
// "arithmetic involving NaN always yields NaN" extended pointwise (§3, §4.4).
func Add(a, b Bounds) Bounds {
	if a.IsEmpty() || b.IsEmpty() {
		return EmptyBounds()
	}
	return Bounds{Lower: a.Lower + b.Lower, Upper: a.Upper + b.Upper}
}

func Sub(a, b Bounds) Bounds {
	if a.IsEmpty() || b.IsEmpty() {
		return EmptyBounds()
	}
	return Bounds{Lower: a.Lower - b.Upper, Upper: a.Upper - b.Lower}
}

func Mul(a, b Bounds) Bounds {
	if a.IsEmpty() || b.IsEmpty() {
		return EmptyBounds()
	}
	candidates := [4]float64{a.Lower * b.Lower, a.Lower * b.Upper, a.Upper * b.Lower, a.Upper * b.Upper}
	lo, hi := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	return Bounds{Lower: lo, Upper: hi}
}

func Div(a, b Bounds) Bounds {
	if a.IsEmpty() || b.IsEmpty() {
		return EmptyBounds()
	}
	if b.Lower <= 0 && 0 <= b.Upper {
		// The divisor interval straddles zero: division by a value that
		// could be zero is undefined somewhere in range, so the result
		// bounds must cover everything (can't exclude NaN from the image).
		return Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
	}
	candidates := [4]float64{a.Lower / b.Lower, a.Lower / b.Upper, a.Upper / b.Lower, a.Upper / b.Upper}
	lo, hi := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	return Bounds{Lower: lo, Upper: hi}
}

func Negate(a Bounds) Bounds {
	if a.IsEmpty() {
		return EmptyBounds()
	}
	return Bounds{Lower: -a.Upper, Upper: -a.Lower}
}

// NumericTable is a numeric AssignmentSet<Kind> for one function skeleton:
// the same rank scheme as Table, but holding interval Bounds instead of
// bits.
type NumericTable struct {
	Arity       int
	ObjectCount int
	bounds      map[uint32]Bounds
}

func NewNumericTable(arity, objectCount int) *NumericTable {
	return &NumericTable{Arity: arity, ObjectCount: objectCount, bounds: make(map[uint32]Bounds)}
}

func (t *NumericTable) rank(i, oi, j, oj int) uint32 {
	if j >= 0 && i > j {
		i, oi, j, oj = j, oj, i, oi
	}
	return Rank(t.Arity, t.ObjectCount, i, oi, j, oj)
}

// InsertGroundFunctionValue widens every rank this ground function's
// argument tuple partially agrees with to include v. NaN values are
// excluded from the bounds per §4.4 ("undefined values are excluded").
func (t *NumericTable) InsertGroundFunctionValue(objects []repo.Index, v float64) {
	if math.IsNaN(v) {
		return
	}
	widen := func(r uint32) {
		t.bounds[r] = Union(t.bounds[r], PointBounds(v))
	}
	for i := 0; i < t.Arity; i++ {
		widen(t.rank(i, int(objects[i]), -1, -1))
	}
	for i := 0; i < t.Arity; i++ {
		for j := i + 1; j < t.Arity; j++ {
			widen(t.rank(i, int(objects[i]), j, int(objects[j])))
		}
	}
}

// Lookup returns the bounds at a vertex/edge rank, or the empty interval
// if nothing has ever been inserted there.
func (t *NumericTable) Lookup(i, oi, j, oj int) Bounds {
	b, ok := t.bounds[t.rank(i, oi, j, oj)]
	if !ok {
		return EmptyBounds()
	}
	return b
}

func (t *NumericTable) Reset() { t.bounds = make(map[uint32]Bounds) }

// NumericSet groups one NumericTable per function skeleton.
type NumericSet struct {
	objectCount int
	tables      map[repo.Index]*NumericTable
}

func NewNumericSet(objectCount int) *NumericSet {
	return &NumericSet{objectCount: objectCount, tables: make(map[repo.Index]*NumericTable)}
}

func (s *NumericSet) TableFor(f repo.Index, arity int) *NumericTable {
	t, ok := s.tables[f]
	if !ok {
		t = NewNumericTable(arity, s.objectCount)
		s.tables[f] = t
	}
	return t
}

func (s *NumericSet) Insert(skeleton repo.Index, arity int, objects []repo.Index, v float64) {
	s.TableFor(skeleton, arity).InsertGroundFunctionValue(objects, v)
}

func (s *NumericSet) Reset() {
	for _, t := range s.tables {
		t.Reset()
	}
}

// boundsOfFunctionTerm resolves a FunctionTerm's bounds at the given
// partial binding: determinedArgs maps each of the function's own terms
// that is an object or a bound variable to the (position, object) pair the
// NumericTable rank needs.
func boundsOfFunctionTerm(set *NumericSet, repoRef *formalism.Repository, ft *formalism.FunctionTerm, binding map[int]int) Bounds {
	skeleton := repoRef.Function(ft.Skeleton)
	table := set.TableFor(ft.Skeleton, skeleton.Arity)

	determined := determinedArgs(ft.Terms, binding)
	switch len(determined) {
	case 0:
		return EmptyBounds()
	case 1:
		return table.Lookup(determined[0].Position, determined[0].Object, -1, -1)
	default:
		// Intersect every pairwise-known bound; since a numeric table only
		// stores 2-local bounds, take the tightest pairwise lookup as the
		// conservative approximation (a superset of the true bounds).
		var acc Bounds
		first := true
		for i := 0; i < len(determined); i++ {
			for j := i + 1; j < len(determined); j++ {
				b := table.Lookup(determined[i].Position, determined[i].Object, determined[j].Position, determined[j].Object)
				if first {
					acc, first = b, false
				} else {
					acc = intersect(acc, b)
				}
			}
		}
		if first {
			return table.Lookup(determined[0].Position, determined[0].Object, -1, -1)
		}
		return acc
	}
}

func intersect(a, b Bounds) Bounds {
	lo := math.Max(a.Lower, b.Lower)
	hi := math.Min(a.Upper, b.Upper)
	if lo > hi {
		return EmptyBounds()
	}
	return Bounds{Lower: lo, Upper: hi}
}

// EvaluateExpression is the partial evaluator of §4.4: it walks a numeric
// expression tree, replacing function-term leaves with their bounds (via
// the binding in effect) and combining everything with saturating
// interval arithmetic.
func EvaluateExpression(set *NumericSet, repoRef *formalism.Repository, e *formalism.Expression, binding map[int]int) Bounds {
	if e == nil {
		return EmptyBounds()
	}
	switch e.Kind {
	case formalism.ExprConstant:
		return PointBounds(e.Constant)
	case formalism.ExprBinaryOp:
		l := EvaluateExpression(set, repoRef, e.Left, binding)
		r := EvaluateExpression(set, repoRef, e.Right, binding)
		switch e.BinOp {
		case formalism.OpAdd:
			return Add(l, r)
		case formalism.OpSub:
			return Sub(l, r)
		case formalism.OpMul:
			return Mul(l, r)
		case formalism.OpDiv:
			return Div(l, r)
		}
		return EmptyBounds()
	case formalism.ExprMultiOp:
		if len(e.Operands) == 0 {
			return EmptyBounds()
		}
		acc := EvaluateExpression(set, repoRef, e.Operands[0], binding)
		for _, o := range e.Operands[1:] {
			v := EvaluateExpression(set, repoRef, o, binding)
			if e.MultiOp == formalism.MultiAdd {
				acc = Add(acc, v)
			} else {
				acc = Mul(acc, v)
			}
		}
		return acc
	case formalism.ExprNegate:
		return Negate(EvaluateExpression(set, repoRef, e.Negated, binding))
	case formalism.ExprFunctionTerm:
		// remaps/termList are precomputed by the translator's pass 2 and
		// retained on the constraint for the grounder's own bookkeeping;
		// bounds lookup itself only needs the function term's own Terms
		// against the binding in effect, via determinedArgs.
		return boundsOfFunctionTerm(set, repoRef, e.Function, binding)
	default:
		return EmptyBounds()
	}
}
