// Package repo implements the content-addressed interning slabs that back
// every syntactic entity in the formalism: objects, variables, predicates,
// atoms, literals, functions, conditions, effects, action schemas, axioms,
// and their ground counterparts. Structurally identical entities collapse
// onto a single dense Index; identity equality on an Index implies
// structural equality of whatever it denotes.
package repo

import "fmt"

// Index is a dense, zero-based handle into a Table. MaxIndex is reserved to
// mean "undefined" and is never a valid entry.
type Index int32

// MaxIndex is the sentinel for "no index" / "undefined".
const MaxIndex Index = -1

// Valid reports whether idx is a real, assigned index (not the sentinel).
func (idx Index) Valid() bool { return idx != MaxIndex }

func (idx Index) String() string {
	if idx == MaxIndex {
		return "<undefined>"
	}
	return fmt.Sprintf("#%d", int32(idx))
}

// Table is a generic content-addressed interning slab. Two GetOrCreate calls
// with equal keys return the same Index; values are stored contiguously so
// that hot paths (ground atoms, function values, objects) can iterate them
// as a dense slice.
//
// A Table is not safe for concurrent use; the Repository that owns it is
// mutated only during load/translate (§5 of the design), after which it is
// treated as read-only.
type Table[K comparable, V any] struct {
	byKey  map[K]Index
	values []V
}

// NewTable creates an empty interning table.
func NewTable[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{byKey: make(map[K]Index)}
}

// GetOrCreate returns the existing Index for key, or builds a new value via
// build, assigns it the next dense Index, and returns that. build is only
// invoked on a miss.
func (t *Table[K, V]) GetOrCreate(key K, build func() V) Index {
	if idx, ok := t.byKey[key]; ok {
		return idx
	}
	idx := Index(len(t.values))
	t.values = append(t.values, build())
	t.byKey[key] = idx
	return idx
}

// Lookup returns the Index already associated with key, if any, without
// creating a new entry.
func (t *Table[K, V]) Lookup(key K) (Index, bool) {
	idx, ok := t.byKey[key]
	return idx, ok
}

// Get dereferences idx. idx must be < Count(); violating this is a
// programming error (§4.1's InvariantViolation) and panics rather than
// silently returning a zero value, so it is caught immediately in tests
// rather than producing a corrupt ground instance downstream.
func (t *Table[K, V]) Get(idx Index) V {
	if idx < 0 || int(idx) >= len(t.values) {
		panic(fmt.Sprintf("repo: index %v out of range (count=%d)", idx, len(t.values)))
	}
	return t.values[idx]
}

// Count returns the number of interned values of this kind.
func (t *Table[K, V]) Count() int { return len(t.values) }

// All returns the dense, index-ordered slice of every interned value. The
// caller must not mutate the returned slice.
func (t *Table[K, V]) All() []V { return t.values }
