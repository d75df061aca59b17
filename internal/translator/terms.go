package translator

import (
	"strings"

	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/repo"
)

// termsToObjects unwraps an all-object term list into its object indices.
// Callers must only use this once s.terms has already confirmed every term
// is an object.
func termsToObjects(terms []formalism.Term) []repo.Index {
	out := make([]repo.Index, len(terms))
	for i, t := range terms {
		out[i] = t.Object()
	}
	return out
}

// scope maps a schema's (or axiom's) declared variable names to their
// positionally-encoded formalism.Variable, the product of §4.3 pass 1.
type scope map[string]formalism.Variable

// newScope assigns ParameterIndex = position in names, in declaration
// order, to each variable (§4.3 "Parameter-index encoding").
func newScope(names []string) (scope, []formalism.Variable) {
	s := make(scope, len(names))
	params := make([]formalism.Variable, len(names))
	for i, n := range names {
		v := formalism.Variable{Name: strings.TrimPrefix(n, "?"), ParameterIndex: i}
		params[i] = v
		s[n] = v
	}
	return s, params
}

// extend returns a new scope with additional names appended, continuing
// the parameter index sequence — used for the extra parameters a
// universally quantified conditional effect introduces on top of its
// action's own parameters (§3).
func (s scope) extend(existingParams []formalism.Variable, extra []string) (scope, []formalism.Variable) {
	out := make(scope, len(s)+len(extra))
	for k, v := range s {
		out[k] = v
	}
	params := append([]formalism.Variable(nil), existingParams...)
	base := len(existingParams)
	for i, n := range extra {
		v := formalism.Variable{Name: strings.TrimPrefix(n, "?"), ParameterIndex: base + i}
		params = append(params, v)
		out[n] = v
	}
	return out, params
}

// term resolves a single ast.Term against the scope: a "?"-prefixed name
// becomes a VariableTerm, anything else is interned as an Object and
// becomes an ObjectTerm.
func (s scope) term(repoRef *formalism.Repository, t ast.Term) formalism.Term {
	name := string(t)
	if strings.HasPrefix(name, "?") {
		if v, ok := s[name]; ok {
			return formalism.VariableTerm(v)
		}
	}
	return formalism.ObjectTerm(repoRef.GetOrCreateObject(name))
}

// terms resolves an ast.Term list and reports whether every resulting
// term is an object (i.e. the application does not depend on the
// enclosing schema's parameters at all — a "nullary" occurrence, §3).
func (s scope) terms(repoRef *formalism.Repository, ts []ast.Term) ([]formalism.Term, bool) {
	out := make([]formalism.Term, len(ts))
	allObjects := true
	for i, t := range ts {
		out[i] = s.term(repoRef, t)
		if !out[i].IsObject() {
			allObjects = false
		}
	}
	return out, allObjects
}

func comparatorOf(s string) formalism.Comparator {
	switch s {
	case "<":
		return formalism.CmpLess
	case "<=":
		return formalism.CmpLessEqual
	case "=":
		return formalism.CmpEqual
	case ">=":
		return formalism.CmpGreaterEqual
	case ">":
		return formalism.CmpGreater
	default:
		return formalism.CmpEqual
	}
}

func assignOpOf(s string) formalism.AssignOp {
	switch s {
	case "assign":
		return formalism.AssignSet
	case "increase":
		return formalism.Increase
	case "decrease":
		return formalism.Decrease
	case "scale-up":
		return formalism.ScaleUp
	case "scale-down":
		return formalism.ScaleDown
	default:
		return formalism.AssignSet
	}
}
