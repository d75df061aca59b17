// Package state implements §3's State: fluent-atom-set and derived-atom-set
// bitsets plus a fluent numeric variable vector, interned by their non-
// derived projection, with a derived-extension cache keyed by that same
// projection (§4.9).
package state

import (
	"math"
	"sort"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/mimirplan/mimir/internal/repo"
)

// State is one interned planning state: a fluent-atom bitmap, a derived-
// atom bitmap, and a fluent/auxiliary numeric function-value map. It
// implements binding.StateView.
type State struct {
	handle  Handle
	fluent  *roaring.Bitmap
	derived *roaring.Bitmap
	numeric map[repo.Index]float64
	static  *roaring.Bitmap // shared across every state of one problem; never mutated post-load
}

// Handle is a dense, zero-based index into a Store's interned state list.
type Handle int32

// HasStatic reports static-predicate ground-atom membership. Static facts
// never change across states so every State in one problem shares the same
// bitmap reference.
func (s *State) HasStatic(idx repo.Index) bool { return s.static != nil && s.static.Contains(uint32(idx)) }

// HasFluent reports fluent ground-atom membership.
func (s *State) HasFluent(idx repo.Index) bool { return s.fluent.Contains(uint32(idx)) }

// HasDerived reports derived ground-atom membership.
func (s *State) HasDerived(idx repo.Index) bool { return s.derived.Contains(uint32(idx)) }

// NumericValue returns the ground function's value, or NaN if undefined
// (§3 "Undefined = NaN").
func (s *State) NumericValue(idx repo.Index) float64 {
	if v, ok := s.numeric[idx]; ok {
		return v
	}
	return math.NaN()
}

// Handle returns the state's interned handle.
func (s *State) Handle() Handle { return s.handle }

// FluentAtoms returns the sorted list of ground-atom indices currently in
// the fluent-atom-set.
func (s *State) FluentAtoms() []repo.Index { return bitmapToIndices(s.fluent) }

// DerivedAtoms returns the sorted list of ground-atom indices currently in
// the derived-atom-set.
func (s *State) DerivedAtoms() []repo.Index { return bitmapToIndices(s.derived) }

// NumericValues returns the state's fluent/auxiliary numeric function
// values, keyed by ground-function index. Used to seed a binding.Context's
// numeric assignment table so dynamic numeric-constraint pruning (§4.6
// step 4) sees real bounds instead of falling through to full
// re-verification for every candidate.
func (s *State) NumericValues() map[repo.Index]float64 { return s.numeric }

func bitmapToIndices(b *roaring.Bitmap) []repo.Index {
	arr := b.ToArray()
	out := make([]repo.Index, len(arr))
	for i, v := range arr {
		out[i] = repo.Index(v)
	}
	return out
}

// nonDerivedKey computes the canonical interning key of (fluent-atom-set,
// fluent-numeric-vector) — the handle that drives Store's dedup and the
// derived-extension cache, per §4.9 "State equality is by interned handle
// of the non-derived projection."
func nonDerivedKey(fluent *roaring.Bitmap, numeric map[repo.Index]float64) string {
	keys := make([]int, 0, len(numeric))
	for k := range numeric {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)
	s := fluent.String() + "|"
	for _, k := range keys {
		s += itoa(k) + ":" + formatFloat(numeric[repo.Index(k)]) + ","
	}
	return s
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
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
