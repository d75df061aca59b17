// Package grounder is the top-level public API of §6: initial_state,
// applicable_actions, successor, is_goal, cost, built on top of
// internal/binding, internal/ground, internal/axiom, and internal/state.
package grounder

import (
	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/binding"
	"github.com/mimirplan/mimir/internal/consistency"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/ground"
	"github.com/mimirplan/mimir/internal/repo"
	"github.com/mimirplan/mimir/internal/state"
)

// Options mirrors §6's recognized configuration: only the two fields the
// grounder itself consults. strict/quiet are parser/translator-facing
// (internal/config owns the full set); the grounder only needs the cost
// fallback and the cooperative cancellation token.
type Options struct {
	ActionCostDefault float64
	Deadline          binding.Deadline
}

// Grounder is one loaded problem's live grounding session: a state store,
// a ground-instance interning store, and one precomputed static
// consistency graph per action schema (§4.5 applies identically to
// actions).
type Grounder struct {
	problem     *formalism.Problem
	repoRef     *formalism.Repository
	opts        Options
	states      *state.Store
	groundStore *ground.Store
	ws          *binding.Workspace

	schemaGraphs []*consistency.Graph
}

// New builds a Grounder for problem. Returns an error (wrapping
// mimirerr.UnstratifiableAxioms) if the domain's axioms cannot be
// stratified.
func New(problem *formalism.Problem, opts Options) (*Grounder, error) {
	groundStore := ground.NewStore()
	states, err := state.NewStore(problem, groundStore, opts.Deadline)
	if err != nil {
		return nil, err
	}

	repoRef := problem.Domain.Repo
	objects := states.Objects()
	graphs := make([]*consistency.Graph, len(problem.Domain.Actions))
	for i, act := range problem.Domain.Actions {
		graphs[i] = consistency.Build(repoRef, act.Arity(), act.Condition, objects, states.StaticTables())
	}

	return &Grounder{
		problem:      problem,
		repoRef:      repoRef,
		opts:         opts,
		states:       states,
		groundStore:  groundStore,
		ws:           binding.NewWorkspace(),
		schemaGraphs: graphs,
	}, nil
}

// InitialState builds the problem's fully derived initial state.
func (g *Grounder) InitialState() (*state.State, error) { return g.states.Initial() }

// contextFor builds a binding.Context for one action schema against s,
// seeding fluent/derived assignment sets from s's current atom sets.
func (g *Grounder) contextFor(s *state.State, schemaIdx int) *binding.Context {
	fluentTbl := assignment.NewSet(len(g.states.Objects()))
	for _, idx := range s.FluentAtoms() {
		ga := g.repoRef.GroundAtom(idx)
		fluentTbl.Insert(ga.Predicate, len(ga.Objects), ga.Objects)
	}
	derivedTbl := assignment.NewSet(len(g.states.Objects()))
	for _, idx := range s.DerivedAtoms() {
		ga := g.repoRef.GroundAtom(idx)
		derivedTbl.Insert(ga.Predicate, len(ga.Objects), ga.Objects)
	}
	numericTbl := assignment.NewNumericSet(len(g.states.Objects()))
	for idx, v := range s.NumericValues() {
		gf := g.repoRef.GroundFunction(idx)
		numericTbl.Insert(gf.Skeleton, len(gf.Objects), gf.Objects, v)
	}

	return &binding.Context{
		Repo:          g.repoRef,
		StaticGraph:   g.schemaGraphs[schemaIdx],
		StaticTables:  g.states.StaticTables(),
		FluentTables:  fluentTbl,
		DerivedTables: derivedTbl,
		NumericTables: numericTbl,
		Objects:       g.states.Objects(),
		View:          s,
	}
}

// ApplicableActions yields every ground action applicable in s, one schema
// at a time, calling visit for each; visit returning false stops the whole
// enumeration early (§6 "lazy iterator").
func (g *Grounder) ApplicableActions(s *state.State, visit func(*ground.GroundAction) bool) error {
	for i, act := range g.problem.Domain.Actions {
		ctx := g.contextFor(s, i)
		stop := false
		var groundErr error
		err := binding.Generate(ctx, binding.Schema{Arity: act.Arity(), Condition: act.Condition}, g.ws, g.opts.Deadline, func(b []repo.Index) bool {
			ga, err := g.groundStore.GroundActionInstance(ctx, i, act, b, g.ws, g.opts.Deadline, g.opts.ActionCostDefault)
			if err != nil {
				groundErr = err
				stop = true
				return false
			}
			if !visit(ga) {
				stop = true
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		if groundErr != nil {
			return groundErr
		}
		if stop {
			return nil
		}
	}
	return nil
}

// Successor implements §6 `successor`.
func (g *Grounder) Successor(s *state.State, a *ground.GroundAction) (*state.State, error) {
	return g.states.Successor(s, a)
}

// IsGoal implements §6 `is_goal`.
func (g *Grounder) IsGoal(s *state.State) bool { return g.states.IsGoal(s) }

// Cost implements §6 `cost`.
func (g *Grounder) Cost(a *ground.GroundAction) float64 { return a.Cost }

// GoalRelevantPredicates is the supplemented goal-matcher debugging aid: the
// set of fluent/derived predicates mentioned anywhere in the problem's goal
// condition, purely informational (not used to prune grounding).
func (g *Grounder) GoalRelevantPredicates() []repo.Index {
	cc := g.repoRef.Condition(g.problem.Goal)
	seen := make(map[repo.Index]bool)
	var out []repo.Index
	add := func(p repo.Index) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, idx := range cc.NullaryFluentGroundLiterals {
		gl := g.repoRef.GroundLiteral(idx)
		add(g.repoRef.GroundAtom(gl.Atom).Predicate)
	}
	for _, idx := range cc.NullaryDerivedGroundLiterals {
		gl := g.repoRef.GroundLiteral(idx)
		add(g.repoRef.GroundAtom(gl.Atom).Predicate)
	}
	return out
}
