// Package axiom implements §4.8: stratifying a domain's derived predicates
// by their strict/non-strict dependency edges and evaluating each stratum
// to a semi-naive fixed point.
package axiom

import (
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/mimirerr"
	"github.com/mimirplan/mimir/internal/repo"
)

// Partition is one stratum: the axioms whose head predicate belongs to
// this stratum, the subset of those initially relevant (body mentions no
// derived predicate of this same stratum), and a body-predicate -> axioms
// index used to re-enable axioms once their body predicates gain new
// derivations (§4.8, "index: body-predicate -> axioms").
type Partition struct {
	Axioms            []*formalism.Axiom
	InitiallyRelevant []*formalism.Axiom
	Index             map[repo.Index][]*formalism.Axiom
}

// axiomBodyPredicates returns every derived predicate referenced in ax's
// body literals (the condition's DerivedLiterals and nullary derived ground
// literals), deduplicated.
func axiomBodyPredicates(repoRef *formalism.Repository, ax *formalism.Axiom) []repo.Index {
	cc := repoRef.Condition(ax.Condition)
	seen := make(map[repo.Index]bool)
	var out []repo.Index
	add := func(p repo.Index) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, idx := range cc.DerivedLiterals {
		lit := repoRef.Literal(idx)
		add(repoRef.Atom(lit.Atom).Predicate)
	}
	for _, idx := range cc.NullaryDerivedGroundLiterals {
		gl := repoRef.GroundLiteral(idx)
		add(repoRef.GroundAtom(gl.Atom).Predicate)
	}
	return out
}

// bodyLiteralPolarities returns, for each derived body predicate, whether
// ax's body references it with any negative-polarity literal (a strict
// dependency) as opposed to only positive ones (non-strict).
func bodyLiteralNegative(repoRef *formalism.Repository, ax *formalism.Axiom, predicate repo.Index) bool {
	cc := repoRef.Condition(ax.Condition)
	for _, idx := range cc.DerivedLiterals {
		lit := repoRef.Literal(idx)
		if repoRef.Atom(lit.Atom).Predicate == predicate && !lit.Polarity {
			return true
		}
	}
	for _, idx := range cc.NullaryDerivedGroundLiterals {
		gl := repoRef.GroundLiteral(idx)
		if repoRef.GroundAtom(gl.Atom).Predicate == predicate && !gl.Polarity {
			return true
		}
	}
	return false
}

// edge is one dependency-graph edge p -> q, strict if q appears negated in
// some axiom whose head is p.
type edge struct {
	from, to repo.Index
	strict   bool
}

// buildDependencyGraph computes, per §4.8, the edge set over derived
// predicates: p -> q (q in the body, p the head), labeled strict iff any
// axiom with head p references q negatively.
func buildDependencyGraph(repoRef *formalism.Repository, axioms []*formalism.Axiom) []edge {
	strict := make(map[[2]repo.Index]bool)
	nonStrict := make(map[[2]repo.Index]bool)
	for _, ax := range axioms {
		head := repoRef.Atom(ax.Head).Predicate
		for _, q := range axiomBodyPredicates(repoRef, ax) {
			k := [2]repo.Index{head, q}
			if bodyLiteralNegative(repoRef, ax, q) {
				strict[k] = true
			} else {
				nonStrict[k] = true
			}
		}
	}
	var edges []edge
	for k := range strict {
		edges = append(edges, edge{from: k[0], to: k[1], strict: true})
	}
	for k := range nonStrict {
		if !strict[k] {
			edges = append(edges, edge{from: k[0], to: k[1], strict: false})
		}
	}
	return edges
}

// Stratification is the domain's axioms partitioned into strata, in
// evaluation order: strata earlier in the slice must be fully evaluated
// before any stratum that strictly depends on them.
type Stratification struct {
	Partitions []Partition
}

// Stratify computes the stratification of domain's axioms (§4.8). Returns
// UnstratifiableAxioms if the strict-dependency graph has a cycle (a
// derived predicate strictly, even transitively, depends on itself).
func Stratify(repoRef *formalism.Repository, axioms []*formalism.Axiom) (*Stratification, error) {
	edges := buildDependencyGraph(repoRef, axioms)

	headOf := func(ax *formalism.Axiom) repo.Index { return repoRef.Atom(ax.Head).Predicate }

	predicates := make(map[repo.Index]bool)
	for _, ax := range axioms {
		predicates[headOf(ax)] = true
		for _, q := range axiomBodyPredicates(repoRef, ax) {
			predicates[q] = true
		}
	}

	rank, err := computeStrataRanks(repoRef, predicates, edges)
	if err != nil {
		return nil, err
	}

	maxRank := 0
	for _, r := range rank {
		if r > maxRank {
			maxRank = r
		}
	}
	partitions := make([]Partition, maxRank+1)
	for i := range partitions {
		partitions[i].Index = make(map[repo.Index][]*formalism.Axiom)
	}
	for _, ax := range axioms {
		r := rank[headOf(ax)]
		partitions[r].Axioms = append(partitions[r].Axioms, ax)
	}
	for i := range partitions {
		stratumHeads := make(map[repo.Index]bool)
		for _, ax := range partitions[i].Axioms {
			stratumHeads[headOf(ax)] = true
		}
		for _, ax := range partitions[i].Axioms {
			sameStratumBody := false
			for _, q := range axiomBodyPredicates(repoRef, ax) {
				if stratumHeads[q] {
					sameStratumBody = true
				}
				partitions[i].Index[q] = append(partitions[i].Index[q], ax)
			}
			if !sameStratumBody {
				partitions[i].InitiallyRelevant = append(partitions[i].InitiallyRelevant, ax)
			}
		}
	}
	return &Stratification{Partitions: partitions}, nil
}

// computeStrataRanks assigns each derived predicate a stratum rank: the
// length of the longest strict-edge chain reaching it, propagated across
// non-strict edges too so that a positive dependency never lands in a
// later stratum than what it depends on (stratum(p) >= stratum(q) for a
// non-strict p -> q edge, stratum(p) > stratum(q) for a strict one).
// Detects strict cycles via a standard DFS coloring walk and reports them
// through mimirerr.Unstratifiable.
func computeStrataRanks(repoRef *formalism.Repository, predicates map[repo.Index]bool, edges []edge) (map[repo.Index]int, error) {
	adj := make(map[repo.Index][]edge)
	for _, e := range edges {
		adj[e.from] = append(adj[e.from], e)
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[repo.Index]int)
	var cyclePath []repo.Index

	var dfs func(p repo.Index) bool
	dfs = func(p repo.Index) bool {
		color[p] = gray
		cyclePath = append(cyclePath, p)
		for _, e := range adj[p] {
			if e.strict {
				if color[e.to] == gray {
					cyclePath = append(cyclePath, e.to)
					return true
				}
				if color[e.to] == white && dfs(e.to) {
					return true
				}
			}
		}
		cyclePath = cyclePath[:len(cyclePath)-1]
		color[p] = black
		return false
	}
	for p := range predicates {
		if color[p] == white {
			cyclePath = nil
			if dfs(p) {
				names := make([]string, len(cyclePath))
				for i, idx := range cyclePath {
					names[i] = repoRef.Predicate(idx).Name
				}
				return nil, mimirerr.Unstratifiable(names)
			}
		}
	}

	rank := make(map[repo.Index]int)
	var assign func(p repo.Index) int
	visiting := make(map[repo.Index]bool)
	assign = func(p repo.Index) int {
		if r, ok := rank[p]; ok {
			return r
		}
		visiting[p] = true
		best := 0
		for _, e := range adj[p] {
			// A strict edge p -> q demands stratum(p) > stratum(q); a
			// non-strict edge only demands stratum(p) >= stratum(q), so it
			// folds q's rank in without the +1 (the DFS above already
			// ruled out a strict cycle, so a strict edge never re-enters
			// a predicate still "visiting"). A non-strict-only cycle is
			// legal (those predicates co-locate in one stratum); skip an
			// edge back into a predicate still being assigned rather than
			// recursing into it again, to avoid looping forever.
			if visiting[e.to] {
				continue
			}
			if e.strict {
				if r := assign(e.to) + 1; r > best {
					best = r
				}
			} else if r := assign(e.to); r > best {
				best = r
			}
		}
		rank[p] = best
		visiting[p] = false
		return best
	}
	for p := range predicates {
		assign(p)
	}
	return rank, nil
}
