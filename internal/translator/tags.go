// Package translator implements §4.3's two-pass translation: a static
// analysis pass that classifies every predicate/function skeleton as
// Static, Fluent, or Derived/Auxiliary by how it is used, followed by the
// parameter-index encoding and numeric-constraint term-list/remap passes
// that turn the name-based ast IR into interned, positionally-encoded
// formalism entities.
package translator

import (
	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
)

// DeterminePredicateTags performs §4.3's predicate classification: a
// predicate is Derived if any axiom's head names it, Fluent if any action
// effect (direct or conditional) asserts/retracts it, and Static
// otherwise. Derived takes priority in the unlikely case a name is used
// both ways, since a PDDL domain never legally does both. It registers the
// predicates of effects and axiom heads itself, but does not discover
// predicates from conditions: those are registered later, during encoding,
// and stay TagUnassigned until Domain's defaulting pass makes them Static.
func DeterminePredicateTags(repoRef *formalism.Repository, domain *ast.Domain) {
	fluent := map[string]bool{}
	derived := map[string]bool{}

	registerLiterals := func(lits []ast.Literal) {
		for _, l := range lits {
			repoRef.GetOrCreatePredicate(l.Atom.Predicate, len(l.Atom.Terms))
			fluent[l.Atom.Predicate] = true
		}
	}

	for _, act := range domain.Actions {
		registerLiterals(act.Effect.Literals)
		for _, ce := range act.ConditionalEffects {
			registerLiterals(ce.Effect.Literals)
		}
	}
	for _, ax := range domain.Axioms {
		repoRef.GetOrCreatePredicate(ax.Head.Predicate, len(ax.Head.Terms))
		derived[ax.Head.Predicate] = true
	}

	for _, idx := range repoRef.Predicates.All() {
		switch {
		case derived[idx.Name]:
			idx.Tag = formalism.Derived
		case fluent[idx.Name]:
			idx.Tag = formalism.Fluent
		default:
			idx.Tag = formalism.Static
		}
	}
}

// DetermineFunctionTags classifies every function skeleton as Auxiliary
// (the reserved total-cost accumulator), Fluent (target of some numeric
// effect), or Static otherwise.
func DetermineFunctionTags(repoRef *formalism.Repository, domain *ast.Domain) {
	fluent := map[string]bool{}

	registerNumericEffects := func(nes []ast.NumericEffect) {
		for _, ne := range nes {
			repoRef.GetOrCreateFunction(ne.Target.Function, len(ne.Target.Terms))
			fluent[ne.Target.Function] = true
		}
	}

	for _, act := range domain.Actions {
		registerNumericEffects(act.Effect.NumericEffects)
		for _, ce := range act.ConditionalEffects {
			registerNumericEffects(ce.Effect.NumericEffects)
		}
	}

	for _, f := range repoRef.Functions.All() {
		switch {
		case f.Name == formalism.TotalCostName:
			f.Tag = formalism.FuncAuxiliary
		case fluent[f.Name]:
			f.Tag = formalism.FuncFluent
		default:
			f.Tag = formalism.FuncStatic
		}
	}
}
