// Package consistency builds and queries a schema's substitution
// consistency graph (§4.5): the k-partite graph of (parameter_index,
// object_index) vertices whose edges encode pairwise satisfiability of the
// schema's binary static conditions. Built once at load time per schema,
// it is the static backbone the binding generator filters dynamically
// per-state (internal/binding).
package consistency

import (
	"sort"

	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// Vertex is a (parameter_index, object_index) pair.
type Vertex struct {
	Param  int
	Object int
}

// Graph is one schema's static consistency graph: vertices partitioned by
// parameter position, plus an adjacency list keyed by vertex ordinal.
type Graph struct {
	Arity int
	// Partitions[i] lists every vertex of parameter position i, sorted by
	// object index (partition-lex order, §4.5/§4.6).
	Partitions [][]Vertex
	// ordinal maps a Vertex to its position within Partitions[v.Param], for
	// adjacency indexing.
	ordinal map[Vertex]int
	// adjacency[a][b] is true when the vertices with flat IDs a < b are
	// joined by an edge; see vertexID/Neighbors.
	adjacency map[int]map[int]bool
}

// vertexID assigns a single flat integer to every vertex across all
// partitions, in partition order, for adjacency storage.
func (g *Graph) vertexID(v Vertex) int {
	id := 0
	for p := 0; p < v.Param; p++ {
		id += len(g.Partitions[p])
	}
	return id + g.ordinal[v]
}

// AllVertices returns every vertex across all partitions, in flat-ID order.
func (g *Graph) AllVertices() []Vertex {
	out := make([]Vertex, 0)
	for _, part := range g.Partitions {
		out = append(out, part...)
	}
	return out
}

// Neighbors reports whether u and v are adjacent (always false if
// u.Param == v.Param, since edges only connect distinct partitions).
func (g *Graph) Neighbors(u, v Vertex) bool {
	if u.Param == v.Param {
		return false
	}
	a, b := g.vertexID(u), g.vertexID(v)
	if a > b {
		a, b = b, a
	}
	row, ok := g.adjacency[a]
	if !ok {
		return false
	}
	return row[b]
}

func (g *Graph) addEdge(u, v Vertex) {
	a, b := g.vertexID(u), g.vertexID(v)
	if a > b {
		a, b = b, a
	}
	if g.adjacency[a] == nil {
		g.adjacency[a] = make(map[int]bool)
	}
	g.adjacency[a][b] = true
}

// literalsByArity partitions a condition's StaticLiterals by arity,
// resolving each literal's atom so Build can test unary/binary terms.
func literalsByArity(repoRef *formalism.Repository, staticLiterals []repo.Index) (unary, binary []*formalism.Literal) {
	for _, idx := range staticLiterals {
		lit := repoRef.Literal(idx)
		atom := repoRef.Atom(lit.Atom)
		switch len(atom.Terms) {
		case 1:
			unary = append(unary, lit)
		case 2:
			binary = append(binary, lit)
		}
	}
	return
}

// Build constructs the static consistency graph for one schema (§4.5):
// vertices are parameter/object pairs consistent with every static unary
// condition, edges connect pairs consistent with every static binary
// condition. staticTables is the load-time Set of per-static-predicate
// propositional tables (already populated from every static ground atom
// the domain's objects admit — see internal/grounder for how it is seeded).
func Build(repoRef *formalism.Repository, arity int, condition repo.Index, objects []repo.Index, staticTables *assignment.Set) *Graph {
	cc := repoRef.Condition(condition)
	unary, binary := literalsByArity(repoRef, cc.StaticLiterals)

	g := &Graph{
		Arity:      arity,
		Partitions: make([][]Vertex, arity),
		ordinal:    make(map[Vertex]int),
		adjacency:  make(map[int]map[int]bool),
	}

	for p := 0; p < arity; p++ {
		for oi, obj := range objects {
			v := Vertex{Param: p, Object: oi}
			if vertexSatisfiesUnary(repoRef, staticTables, unary, p, obj) {
				g.ordinal[v] = len(g.Partitions[p])
				g.Partitions[p] = append(g.Partitions[p], v)
			}
		}
		sort.Slice(g.Partitions[p], func(i, j int) bool { return g.Partitions[p][i].Object < g.Partitions[p][j].Object })
		for oi, v := range g.Partitions[p] {
			g.ordinal[v] = oi
		}
	}

	for i := 0; i < arity; i++ {
		for j := i + 1; j < arity; j++ {
			for _, vi := range g.Partitions[i] {
				for _, vj := range g.Partitions[j] {
					if edgeSatisfiesBinary(repoRef, staticTables, binary, vi, objects[vi.Object], vj, objects[vj.Object]) {
						g.addEdge(vi, vj)
					}
				}
			}
		}
	}

	return g
}

func vertexSatisfiesUnary(repoRef *formalism.Repository, tables *assignment.Set, unary []*formalism.Literal, param int, obj repo.Index) bool {
	binding := map[int]int{param: int(obj)}
	for _, lit := range unary {
		atom := repoRef.Atom(lit.Atom)
		if !atomMentionsParam(atom, param) {
			continue
		}
		table := tables.TableFor(atom.Predicate, len(atom.Terms))
		if !table.ConsistentLiteral(lit.Polarity, atom.Terms, binding) {
			return false
		}
	}
	return true
}

func edgeSatisfiesBinary(repoRef *formalism.Repository, tables *assignment.Set, binary []*formalism.Literal, vi Vertex, oi repo.Index, vj Vertex, oj repo.Index) bool {
	binding := map[int]int{vi.Param: int(oi), vj.Param: int(oj)}
	for _, lit := range binary {
		atom := repoRef.Atom(lit.Atom)
		if !atomMentionsParam(atom, vi.Param) || !atomMentionsParam(atom, vj.Param) {
			continue
		}
		if formalism.IsEqualityPredicate(repoRef, atom.Predicate) {
			if decided, holds := formalism.EqualityHolds(lit.Polarity, atom.Terms, binding); decided && !holds {
				return false
			}
			continue
		}
		table := tables.TableFor(atom.Predicate, len(atom.Terms))
		if !table.ConsistentLiteral(lit.Polarity, atom.Terms, binding) {
			return false
		}
	}
	return true
}

// Restrict returns a new Graph with partition i narrowed to the single
// vertex for object ordinal fixed[i], for every parameter position named
// in fixed, keeping every other partition as-is and preserving the
// adjacency among all surviving vertices. Used to extend an
// already-resolved binding with additional (quantified) parameters
// without re-enumerating the positions that are already bound (§4.7's
// conditional-effect sub-enumeration).
func (g *Graph) Restrict(fixed map[int]int) *Graph {
	ng := &Graph{
		Arity:      g.Arity,
		Partitions: make([][]Vertex, g.Arity),
		ordinal:    make(map[Vertex]int),
		adjacency:  make(map[int]map[int]bool),
	}
	keep := make(map[Vertex]bool)
	for p := 0; p < g.Arity; p++ {
		if objOrdinal, ok := fixed[p]; ok {
			for _, v := range g.Partitions[p] {
				if v.Object == objOrdinal {
					ng.Partitions[p] = []Vertex{v}
					keep[v] = true
					break
				}
			}
			continue
		}
		ng.Partitions[p] = append([]Vertex(nil), g.Partitions[p]...)
		for _, v := range ng.Partitions[p] {
			keep[v] = true
		}
	}
	for p := range ng.Partitions {
		for oi, v := range ng.Partitions[p] {
			ng.ordinal[v] = oi
		}
	}
	for u := range keep {
		for v := range keep {
			if g.Neighbors(u, v) {
				ng.addEdge(u, v)
			}
		}
	}
	return ng
}

// AtomMentionsParam reports whether any of atom's terms is the schema
// variable at parameter position param. Exported for internal/binding's
// dynamic (state-dependent) edge filter, which needs the same test
// against fluent/derived literals that this package applies to static
// ones.
func AtomMentionsParam(atom *formalism.Atom, param int) bool { return atomMentionsParam(atom, param) }

func atomMentionsParam(atom *formalism.Atom, param int) bool {
	for _, t := range atom.Terms {
		if !t.IsObject() && t.Variable().ParameterIndex == param {
			return true
		}
	}
	return false
}
