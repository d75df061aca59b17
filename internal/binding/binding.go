package binding

import (
	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/consistency"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/mimirerr"
	"github.com/mimirplan/mimir/internal/repo"
)

// Deadline is a cooperative cancellation check, consulted at clique-search
// iteration boundaries (§5). A nil Deadline means "never cancel".
type Deadline func() bool

// Schema bundles what Generate needs from either an ActionSchema or an
// Axiom: its arity and precomputed condition handle.
type Schema struct {
	Arity     int
	Condition repo.Index
}

// Context is everything the binding generator reads for one schema's
// grounding: the shared Repository, the schema's static consistency
// graph, the per-kind assignment sets for the current state, the
// universe of objects the graph's vertex object-ordinals index into, and
// a StateView for full re-verification.
type Context struct {
	Repo          *formalism.Repository
	StaticGraph   *consistency.Graph
	StaticTables  *assignment.Set
	FluentTables  *assignment.Set
	DerivedTables *assignment.Set
	NumericTables *assignment.NumericSet
	Objects       []repo.Index
	View          StateView
}

// Workspace is the reusable scratch state the clique enumerator owns
// across Generate calls, per §5's "workspaces are owned by the caller,
// passed in by exclusive reference, and cleared-on-entry" discipline.
type Workspace struct {
	stack []frame
}

type frame struct {
	picks      []consistency.Vertex
	candidates []consistency.Vertex
	idx        int
}

// NewWorkspace allocates an empty Workspace.
func NewWorkspace() *Workspace { return &Workspace{} }

func (w *Workspace) reset() { w.stack = w.stack[:0] }

// Generate runs §4.6's algorithm for one schema against the current
// state, invoking yield once per fully verified binding (parameter index
// i -> object at Binding[i]) in partition-lex order, until yield returns
// false or the search is exhausted. Returns mimirerr's Cancelled sentinel
// if deadline fires mid-search.
func Generate(ctx *Context, schema Schema, ws *Workspace, deadline Deadline, yield func(binding []repo.Index) bool) error {
	repoRef := ctx.Repo
	cc := repoRef.Condition(schema.Condition)

	if !EvaluateNullaryGuards(repoRef, cc, ctx.View) {
		return nil
	}
	if schema.Arity == 0 {
		yield(nil)
		return nil
	}
	if schema.Arity == 1 {
		for _, v := range ctx.StaticGraph.Partitions[0] {
			obj := ctx.Objects[v.Object]
			b := map[int]int{0: int(obj)}
			if VerifyFullCondition(repoRef, cc, ctx.View, b) {
				if !yield([]repo.Index{obj}) {
					return nil
				}
			}
		}
		return nil
	}

	ws.reset()
	ws.stack = append(ws.stack, frame{candidates: ctx.StaticGraph.Partitions[0]})
	for len(ws.stack) > 0 {
		if deadline != nil && deadline() {
			return mimirerr.CancelledErr
		}
		top := &ws.stack[len(ws.stack)-1]
		if top.idx >= len(top.candidates) {
			ws.stack = ws.stack[:len(ws.stack)-1]
			continue
		}
		v := top.candidates[top.idx]
		top.idx++

		picks := make([]consistency.Vertex, len(top.picks)+1)
		copy(picks, top.picks)
		picks[len(picks)-1] = v

		if len(picks) == schema.Arity {
			b := bindingOf(ctx.Objects, picks)
			if VerifyFullCondition(repoRef, cc, ctx.View, b) {
				objs := make([]repo.Index, len(picks))
				for i, p := range picks {
					objs[i] = ctx.Objects[p.Object]
				}
				if !yield(objs) {
					return nil
				}
			}
			continue
		}

		nextDepth := len(picks)
		var next []consistency.Vertex
		for _, cand := range ctx.StaticGraph.Partitions[nextDepth] {
			ok := true
			for _, p := range picks {
				if !ctx.StaticGraph.Neighbors(p, cand) || !dynamicEdgeConsistent(ctx, cc, p, cand) {
					ok = false
					break
				}
			}
			if ok {
				next = append(next, cand)
			}
		}
		if len(next) > 0 {
			ws.stack = append(ws.stack, frame{picks: picks, candidates: next})
		}
	}
	return nil
}

// GenerateAll collects every binding Generate would yield, for callers
// that want an eager slice (tests, the CLI) rather than a callback.
func GenerateAll(ctx *Context, schema Schema, ws *Workspace, deadline Deadline) ([][]repo.Index, error) {
	var out [][]repo.Index
	err := Generate(ctx, schema, ws, deadline, func(b []repo.Index) bool {
		out = append(out, b)
		return true
	})
	return out, err
}
