package assignment

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// Table is a propositional AssignmentSet<Kind> for one predicate (§4.4): a
// roaring bitmap of set ranks, one bit per partial 1- or 2-argument-position
// assignment some currently-known ground atom of this predicate agrees
// with. Kind (static/fluent/derived) is a property of which Set a Table
// lives in, not of the Table itself.
type Table struct {
	Arity       int
	ObjectCount int
	bits        *roaring.Bitmap
}

// NewTable allocates an empty table for a predicate of the given arity
// over objectCount objects.
func NewTable(arity, objectCount int) *Table {
	return &Table{Arity: arity, ObjectCount: objectCount, bits: roaring.New()}
}

func (t *Table) rank(i, oi, j, oj int) uint32 {
	if j >= 0 && i > j {
		i, oi, j, oj = j, oj, i, oi
	}
	return Rank(t.Arity, t.ObjectCount, i, oi, j, oj)
}

// InsertGroundAtom flips on every rank this ground atom's argument tuple
// partially agrees with: one vertex rank per position, one edge rank per
// unordered pair of positions — up to `a + a*(a-1)` updates (§4.4).
func (t *Table) InsertGroundAtom(objects []repo.Index) {
	for i := 0; i < t.Arity; i++ {
		t.bits.Add(t.rank(i, int(objects[i]), -1, -1))
	}
	for i := 0; i < t.Arity; i++ {
		for j := i + 1; j < t.Arity; j++ {
			t.bits.Add(t.rank(i, int(objects[i]), j, int(objects[j])))
		}
	}
}

// RemoveGroundAtom clears the ranks InsertGroundAtom would have set for
// this atom. Safe to call even if other atoms still contribute the same
// rank — callers that need exact removal semantics (as opposed to
// over-approximate retraction) must rebuild the table instead; Mimir's own
// fluent tables are always rebuilt per state, never incrementally retracted
// (see internal/state), so this is provided for completeness and axiom
// rollback during non-monotonic re-evaluation experiments only.
func (t *Table) RemoveGroundAtom(objects []repo.Index) {
	for i := 0; i < t.Arity; i++ {
		t.bits.Remove(t.rank(i, int(objects[i]), -1, -1))
	}
	for i := 0; i < t.Arity; i++ {
		for j := i + 1; j < t.Arity; j++ {
			t.bits.Remove(t.rank(i, int(objects[i]), j, int(objects[j])))
		}
	}
}

func (t *Table) testVertex(i, oi int) bool { return t.bits.Contains(t.rank(i, oi, -1, -1)) }

func (t *Table) testEdge(i, oi, j, oj int) bool { return t.bits.Contains(t.rank(i, oi, j, oj)) }

// determinedArgs returns, for each argument position of terms, the
// position/object pair already resolved under the given partial schema
// binding (paramIndex -> object); positions bound to a still-free variable
// are omitted.
func determinedArgs(terms []formalism.Term, binding map[int]int) []DeterminedArg {
	var out []DeterminedArg
	for k, t := range terms {
		if t.IsObject() {
			out = append(out, DeterminedArg{Position: k, Object: int(t.Object())})
			continue
		}
		if obj, ok := binding[t.Variable().ParameterIndex]; ok {
			out = append(out, DeterminedArg{Position: k, Object: obj})
		}
	}
	return out
}

// ConsistentLiteral implements §4.4's `consistent(literal, vertex|edge)`:
// it decides, from the 1- or 2-local rank bits alone, whether polarity
// applied to this literal's atom can still hold given the partial binding.
// A false result is a proof of inconsistency; a true result means "not yet
// disproven" — full re-verification (§4.6 step 6) settles the remaining
// cases this local test cannot decide (e.g. negative literals of arity >
// 1 tested at a single vertex, or any literal with still-free argument
// positions).
func (t *Table) ConsistentLiteral(polarity bool, terms []formalism.Term, binding map[int]int) bool {
	determined := determinedArgs(terms, binding)
	switch {
	case len(determined) == 0:
		return true
	case len(determined) == 1:
		set := t.testVertex(determined[0].Position, determined[0].Object)
		if polarity {
			return set
		}
		if t.Arity > 1 {
			return true
		}
		return !set
	default:
		allSet := true
		for i := 0; i < len(determined); i++ {
			for j := i + 1; j < len(determined); j++ {
				if !t.testEdge(determined[i].Position, determined[i].Object, determined[j].Position, determined[j].Object) {
					allSet = false
				}
			}
		}
		if polarity {
			return allSet
		}
		if len(determined) < t.Arity || len(determined) > 2 {
			return true
		}
		return !allSet
	}
}

// Set groups one Table per predicate of a given kind (static, fluent, or
// derived), indexed by predicate repo.Index.
type Set struct {
	objectCount int
	tables      map[repo.Index]*Table
}

// NewSet creates an empty per-predicate table set over objectCount
// objects.
func NewSet(objectCount int) *Set {
	return &Set{objectCount: objectCount, tables: make(map[repo.Index]*Table)}
}

// TableFor returns (creating if absent) the Table for predicate p of the
// given arity.
func (s *Set) TableFor(p repo.Index, arity int) *Table {
	t, ok := s.tables[p]
	if !ok {
		t = NewTable(arity, s.objectCount)
		s.tables[p] = t
	}
	return t
}

// Insert records a ground atom into its predicate's table.
func (s *Set) Insert(predicate repo.Index, arity int, objects []repo.Index) {
	s.TableFor(predicate, arity).InsertGroundAtom(objects)
}

// Reset clears every table (used when rebuilding a Set for a fresh state).
func (s *Set) Reset() {
	for _, t := range s.tables {
		t.bits.Clear()
	}
}
