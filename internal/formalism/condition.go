package formalism

import (
	"sort"

	"github.com/mimirplan/mimir/internal/repo"
)

// ConjunctiveCondition is `(parameters, static_literals, fluent_literals,
// derived_literals, nullary_*_ground_literals, numeric_constraints,
// nullary_numeric_constraints)` (§3). Arity-0 literals/constraints are
// split out so they can be evaluated once, in O(1), before binding
// enumeration (§4.6 step 1). Lists are sorted by handle index so that the
// condition itself is interning-friendly.
type ConjunctiveCondition struct {
	Parameters []Variable

	StaticLiterals  []repo.Index // indices into Repository.Literals, predicate tag == Static
	FluentLiterals  []repo.Index // predicate tag == Fluent
	DerivedLiterals []repo.Index // predicate tag == Derived

	NullaryStaticGroundLiterals  []repo.Index // indices into Repository.GroundLiterals
	NullaryFluentGroundLiterals  []repo.Index
	NullaryDerivedGroundLiterals []repo.Index

	NumericConstraints        []repo.Index // indices into Repository.NumericConstraints, arity >= 1
	NullaryNumericConstraints []repo.Index // arity 0, evaluated once against ground function values
}

// sortLists sorts every literal/constraint list by handle Index, matching
// the canonicalization rule of §3 so structurally equal conditions produce
// identical interning keys regardless of construction order.
func (cc *ConjunctiveCondition) sortLists() {
	sortIdx := func(s []repo.Index) {
		sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	}
	sortIdx(cc.StaticLiterals)
	sortIdx(cc.FluentLiterals)
	sortIdx(cc.DerivedLiterals)
	sortIdx(cc.NullaryStaticGroundLiterals)
	sortIdx(cc.NullaryFluentGroundLiterals)
	sortIdx(cc.NullaryDerivedGroundLiterals)
	sortIdx(cc.NumericConstraints)
	sortIdx(cc.NullaryNumericConstraints)
}

func (cc *ConjunctiveCondition) key() string {
	cc.sortLists()
	idxKey := func(s []repo.Index) string {
		str := ""
		for i, v := range s {
			if i > 0 {
				str += ","
			}
			str += v.String()
		}
		return str
	}
	return idxKey(cc.StaticLiterals) + "|" + idxKey(cc.FluentLiterals) + "|" + idxKey(cc.DerivedLiterals) + "|" +
		idxKey(cc.NullaryStaticGroundLiterals) + "|" + idxKey(cc.NullaryFluentGroundLiterals) + "|" + idxKey(cc.NullaryDerivedGroundLiterals) + "|" +
		idxKey(cc.NumericConstraints) + "|" + idxKey(cc.NullaryNumericConstraints)
}

// AllNonNullaryLiterals returns the concatenation of the static, fluent,
// and derived literal index lists (excludes nullary ground literals).
func (cc *ConjunctiveCondition) AllNonNullaryLiterals() []repo.Index {
	out := make([]repo.Index, 0, len(cc.StaticLiterals)+len(cc.FluentLiterals)+len(cc.DerivedLiterals))
	out = append(out, cc.StaticLiterals...)
	out = append(out, cc.FluentLiterals...)
	out = append(out, cc.DerivedLiterals...)
	return out
}
