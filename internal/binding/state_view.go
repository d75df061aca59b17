// Package binding implements §4.6's per-state, per-schema binding
// generator: nullary-guard short-circuiting, the arity-0/1/≥2 cases, the
// dynamic consistency graph, explicit-stack clique enumeration, and final
// full re-verification.
package binding

import "github.com/mimirplan/mimir/internal/repo"

// StateView is the minimal read interface the binding generator needs
// from a state: ground-atom membership by kind, and ground-function
// values. internal/state's State implements this.
type StateView interface {
	HasStatic(groundAtom repo.Index) bool
	HasFluent(groundAtom repo.Index) bool
	HasDerived(groundAtom repo.Index) bool
	NumericValue(groundFunction repo.Index) float64 // NaN if undefined
}
