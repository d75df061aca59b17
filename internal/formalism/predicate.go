package formalism

// PredicateTag partitions predicates into the three disjoint kinds of §3:
// a predicate is Static if it never appears in any effect head, Fluent if
// some action effect asserts/retracts it, and Derived if some axiom head
// names it. The tag is computed by static analysis during translation
// (translator.DeterminePredicateTags); before that it is TagUnassigned.
type PredicateTag int

const (
	TagUnassigned PredicateTag = iota
	Static
	Fluent
	Derived
)

func (t PredicateTag) String() string {
	switch t {
	case Static:
		return "static"
	case Fluent:
		return "fluent"
	case Derived:
		return "derived"
	default:
		return "unassigned"
	}
}

// Predicate is a predicate skeleton: a name, an arity, and (post-
// translation) a kind tag. Two predicates with the same name are the same
// predicate — PDDL predicate names are unique within a domain.
type Predicate struct {
	Name  string
	Arity int
	Tag   PredicateTag
}

// Object is a problem-level constant. Typing is compiled away into static
// unary predicates (one per declared type, e.g. `(block ?x)`) rather than
// modeled as a first-class attribute here, keeping the core untyped besides
// predicates — see DESIGN.md.
type Object struct {
	Name string
}
