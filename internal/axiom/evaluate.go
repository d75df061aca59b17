package axiom

import (
	"github.com/mimirplan/mimir/internal/assignment"
	"github.com/mimirplan/mimir/internal/binding"
	"github.com/mimirplan/mimir/internal/consistency"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/ground"
	"github.com/mimirplan/mimir/internal/repo"
)

// AxiomGraph bundles one axiom's precomputed static consistency graph with
// its formalism.Axiom and the axiom's own index in Domain.Axioms, so the
// evaluator doesn't need to rebuild consistency.Graph per call.
type AxiomGraph struct {
	Axiom *formalism.Axiom
	Index int
	Graph *consistency.Graph
}

// BuildGraphs precomputes one static consistency graph per axiom, keyed by
// axiom index within partitions; called once at load time (§4.5 applies
// equally to axioms as to action schemas).
func BuildGraphs(repoRef *formalism.Repository, axioms []*formalism.Axiom, objects []repo.Index, staticTables *assignment.Set) []*AxiomGraph {
	out := make([]*AxiomGraph, len(axioms))
	for i, ax := range axioms {
		out[i] = &AxiomGraph{
			Axiom: ax,
			Index: i,
			Graph: consistency.Build(repoRef, len(ax.Parameters), ax.Condition, objects, staticTables),
		}
	}
	return out
}

// derivedStateView adapts a Evaluate-in-progress derived-atom-set onto
// binding.StateView, delegating Static/Fluent/Numeric to the base view and
// answering HasDerived from the evaluator's own working bitmap.
type derivedStateView struct {
	base    binding.StateView
	derived map[repo.Index]bool
}

func (v *derivedStateView) HasStatic(idx repo.Index) bool       { return v.base.HasStatic(idx) }
func (v *derivedStateView) HasFluent(idx repo.Index) bool       { return v.base.HasFluent(idx) }
func (v *derivedStateView) HasDerived(idx repo.Index) bool      { return v.derived[idx] }
func (v *derivedStateView) NumericValue(idx repo.Index) float64 { return v.base.NumericValue(idx) }

// Evaluate runs §4.8's stratified semi-naive fixed point over base (whose
// HasDerived is ignored — the evaluator starts from an empty derived-atom-
// set and builds it up stratum by stratum) and returns the full derived
// atom set plus every ground axiom instance fired along the way.
func Evaluate(
	repoRef *formalism.Repository,
	strat *Stratification,
	axiomGraphs []*AxiomGraph,
	objects []repo.Index,
	staticTables, fluentTables *assignment.Set,
	numericTables *assignment.NumericSet,
	base binding.StateView,
	store *ground.Store,
	ws *binding.Workspace,
	deadline binding.Deadline,
) (map[repo.Index]bool, []*ground.GroundAxiom, error) {
	derived := make(map[repo.Index]bool)
	derivedTables := assignment.NewSet(len(objects))
	view := &derivedStateView{base: base, derived: derived}

	byAxiom := make(map[*formalism.Axiom]*AxiomGraph, len(axiomGraphs))
	for _, ag := range axiomGraphs {
		byAxiom[ag.Axiom] = ag
	}

	var fired []*ground.GroundAxiom
	firedSeen := make(map[*ground.GroundAxiom]bool)

	for _, part := range strat.Partitions {
		relevant := append([]*formalism.Axiom(nil), part.InitiallyRelevant...)
		for len(relevant) > 0 {
			var newlyAdded []repo.Index
			changed := false

			for _, ax := range relevant {
				ag := byAxiom[ax]
				ctx := &binding.Context{
					Repo:          repoRef,
					StaticGraph:   ag.Graph,
					StaticTables:  staticTables,
					FluentTables:  fluentTables,
					DerivedTables: derivedTables,
					NumericTables: numericTables,
					Objects:       objects,
					View:          view,
				}
				err := binding.Generate(ctx, binding.Schema{Arity: len(ax.Parameters), Condition: ax.Condition}, ws, deadline, func(b []repo.Index) bool {
					ga := store.GroundAxiomInstance(repoRef, ag.Index, ax, b)
					if !firedSeen[ga] {
						firedSeen[ga] = true
						fired = append(fired, ga)
					}
					if !derived[ga.Head] {
						derived[ga.Head] = true
						newlyAdded = append(newlyAdded, ga.Head)
						changed = true
					}
					return true
				})
				if err != nil {
					return nil, nil, err
				}
			}

			if !changed {
				break
			}
			for _, h := range newlyAdded {
				ga := repoRef.GroundAtom(h)
				derivedTables.Insert(ga.Predicate, len(ga.Objects), ga.Objects)
			}
			relevant = nil
			seen := make(map[*formalism.Axiom]bool)
			for _, h := range newlyAdded {
				pred := repoRef.GroundAtom(h).Predicate
				for _, ax := range part.Index[pred] {
					if !seen[ax] {
						seen[ax] = true
						relevant = append(relevant, ax)
					}
				}
			}
		}
	}
	return derived, fired, nil
}
