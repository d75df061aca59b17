package formalism

import "sort"

// Comparator enumerates the five numeric comparators.
type Comparator int

const (
	CmpLess Comparator = iota
	CmpLessEqual
	CmpEqual
	CmpGreaterEqual
	CmpGreater
)

func (c Comparator) String() string {
	return [...]string{"<", "<=", "=", ">=", ">"}[c]
}

// Holds reports whether lhs `c` rhs holds under the comparator.
func (c Comparator) Holds(lhs, rhs float64) bool {
	switch c {
	case CmpLess:
		return lhs < rhs
	case CmpLessEqual:
		return lhs <= rhs
	case CmpEqual:
		return lhs == rhs
	case CmpGreaterEqual:
		return lhs >= rhs
	case CmpGreater:
		return lhs > rhs
	default:
		return false
	}
}

// FunctionRemap records, for one function term appearing inside a numeric
// constraint's expressions, a per-column remapping vector from the
// constraint's own canonical term list to that function's term list
// (§4.3 pass 2). Remap[i] is the column in Function.Terms that constraint
// term-list column i corresponds to, or -1 if column i does not appear in
// this particular function application ("absent", §3 invariants).
type FunctionRemap struct {
	Function *FunctionTerm
	Remap    []int
}

// NumericConstraint is `(comparator, lhs, rhs, term_list)` plus, once the
// translator's pass 2 has run, one FunctionRemap per function term
// reachable from Lhs/Rhs.
type NumericConstraint struct {
	Comparator Comparator
	Lhs, Rhs   *Expression

	// TermList is the union of terms mentioned in Lhs/Rhs, deduplicated, in
	// canonical (first-occurrence) order. Populated by BuildTermList.
	TermList []Term

	// Remaps is populated by the translator's pass 2 (one entry per
	// function-term occurrence in Lhs/Rhs, in traversal order).
	Remaps []FunctionRemap
}

// BuildTermList computes and stores nc.TermList: the deduplicated union of
// every term appearing in Lhs and Rhs, terms ordered by first occurrence
// (Lhs before Rhs, left-to-right within each).
func (nc *NumericConstraint) BuildTermList() {
	seen := make(map[string]bool)
	var list []Term
	for _, t := range append(nc.Lhs.CollectTerms(nil), nc.Rhs.CollectTerms(nil)...) {
		k := t.key()
		if !seen[k] {
			seen[k] = true
			list = append(list, t)
		}
	}
	nc.TermList = list
}

// Arity0 reports whether the constraint mentions no parameters (i.e. is
// ground already at the lifted level — all terms are objects), letting
// nullary numeric constraints be evaluated once before binding enumeration
// (§3 "Conjunctive condition").
func (nc *NumericConstraint) Arity0() bool {
	for _, t := range nc.TermList {
		if !t.IsObject() {
			return false
		}
	}
	return true
}

func (nc *NumericConstraint) key() string {
	s := nc.Comparator.String() + "|" + nc.Lhs.String() + "|" + nc.Rhs.String()
	return s
}

// sortedTermsKey returns terms sorted by their canonical key, used when a
// parent entity wants an order-independent fingerprint of a literal/
// constraint set for canonicalization (§3: "Lists are sorted by handle
// index to make the condition itself interning-friendly").
func sortedIndexKey(indices []int) string {
	cp := append([]int(nil), indices...)
	sort.Ints(cp)
	s := ""
	for i, v := range cp {
		if i > 0 {
			s += ","
		}
		s += itoa(v)
	}
	return s
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
