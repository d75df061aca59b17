package formalism

import "github.com/mimirplan/mimir/internal/repo"

// FunctionTag partitions numeric function skeletons into Static (never
// changed by any effect), Fluent (changed by some numeric effect), and the
// single distinguished Auxiliary skeleton `total-cost` (§3).
type FunctionTag int

const (
	FuncTagUnassigned FunctionTag = iota
	FuncStatic
	FuncFluent
	FuncAuxiliary
)

func (t FunctionTag) String() string {
	switch t {
	case FuncStatic:
		return "static"
	case FuncFluent:
		return "fluent"
	case FuncAuxiliary:
		return "auxiliary"
	default:
		return "unassigned"
	}
}

// TotalCostName is the reserved name of the single Auxiliary function
// skeleton that accumulates plan cost.
const TotalCostName = "total-cost"

// FunctionSkeleton is a numeric function symbol: a name, arity, and
// (post-translation) a kind tag.
type FunctionSkeleton struct {
	Name  string
	Arity int
	Tag   FunctionTag
}

// FunctionTerm is a numeric-expression leaf: a reference to a function
// skeleton applied to a term list of matching arity.
type FunctionTerm struct {
	Skeleton repo.Index // index into Repository.Functions
	Terms    []Term
}

func (ft FunctionTerm) key() string {
	return "f" + ft.Skeleton.String() + "(" + termsKey(ft.Terms) + ")"
}
