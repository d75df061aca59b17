// Package assignment implements §4.4's propositional and numeric
// assignment sets: dense, rank-indexed lookup tables that answer "is some
// ground atom of predicate p consistent with this partial (one- or
// two-argument-position) binding" in O(1), without scanning the state.
package assignment

// Rank computes the §4.4 rank of a partial edge assignment (i, oi, j, oj)
// for a predicate of arity a over O objects. A single-vertex assignment
// uses j = -1, oj = -1 ("absent"). Canonical form requires i < j when both
// are present; callers query through Table, which enforces this.
func Rank(a, objectCount, i, oi, j, oj int) uint32 {
	ap1 := uint32(a + 1)
	Op1 := uint32(objectCount + 1)
	return uint32(i+1) + ap1*uint32(j+1) + ap1*ap1*uint32(oi+1) + ap1*ap1*Op1*uint32(oj+1)
}

// TableSize returns the number of distinct ranks the table must be able to
// address (§4.4: `R(a,O) = (a+1)^2 * (O+1)^2 - 1`) — informational only;
// the roaring-bitmap-backed Table never preallocates it, since the rank
// space is sparse in practice.
func TableSize(a, objectCount int) int {
	ap1 := a + 1
	Op1 := objectCount + 1
	return ap1*ap1*Op1*Op1 - 1
}

// DeterminedArg is one literal/function argument position already resolved
// to a concrete object, either because the literal's own term there is an
// Object term or because it is the schema variable a vertex/edge query is
// currently testing.
type DeterminedArg struct {
	Position int
	Object   int
}
