package formalism

import (
	"fmt"

	"github.com/mimirplan/mimir/internal/repo"
)

// Variable is a schema-local parameter. Unlike objects, predicates, and
// atoms, variables are not shared across action schemas or axioms, so they
// are not routed through the Repository's global interning tables: their
// identity is inherently scoped to the ActionSchema/Axiom that declares
// them. ParameterIndex is assigned by the translator's pass 1 (§4.3) and is
// -1 ("unencoded") before translation runs.
type Variable struct {
	Name           string
	ParameterIndex int
}

func (v Variable) String() string {
	if v.ParameterIndex < 0 {
		return "?" + v.Name
	}
	return fmt.Sprintf("?%s@%d", v.Name, v.ParameterIndex)
}

// Term is either an Object (bound to a concrete, interned Object by Index)
// or a Variable (bound to a schema parameter position once translated).
type Term struct {
	isObject bool
	object   repo.Index
	variable Variable
}

// ObjectTerm builds a ground term referencing the given interned object.
func ObjectTerm(obj repo.Index) Term { return Term{isObject: true, object: obj} }

// VariableTerm builds a lifted term referencing a schema variable.
func VariableTerm(v Variable) Term { return Term{isObject: false, variable: v} }

// IsObject reports whether the term is a bound object.
func (t Term) IsObject() bool { return t.isObject }

// Object returns the object Index. Only valid when IsObject() is true.
func (t Term) Object() repo.Index { return t.object }

// Variable returns the Variable. Only valid when IsObject() is false.
func (t Term) Variable() Variable { return t.variable }

// key returns a canonical, comparable representation used when packing a
// parent entity's identifying fields into a string key for interning.
func (t Term) key() string {
	if t.isObject {
		return fmt.Sprintf("o%d", t.object)
	}
	return fmt.Sprintf("v%s#%d", t.variable.Name, t.variable.ParameterIndex)
}

func (t Term) String() string {
	if t.isObject {
		return t.object.String()
	}
	return t.variable.String()
}

// termsKey packs a term list into a canonical interning key fragment.
func termsKey(terms []Term) string {
	s := ""
	for i, t := range terms {
		if i > 0 {
			s += ","
		}
		s += t.key()
	}
	return s
}
