// Package mimirerr defines the structured error taxonomy of the grounder's
// public API (§7): InvariantViolation, UnstratifiableAxioms,
// InvalidInitialState, UnsupportedConstruct, NumericUndefined, and
// Cancelled. Every fallible public operation returns one of these as a
// normal error value rather than panicking or using exceptional control
// flow in hot loops.
package mimirerr

import "fmt"

// Kind identifies one of the error taxonomy entries from spec §7.
type Kind int

const (
	// InvariantViolation: a builder's density check failed, or a handle
	// points out of range. Not recoverable; always bubbled.
	InvariantViolation Kind = iota
	// UnstratifiableAxioms: the derived-predicate dependency graph has a
	// negative (strict) cycle.
	UnstratifiableAxioms
	// InvalidInitialState: negative literals in the initial state, or a
	// ground atom mentions an undeclared object.
	InvalidInitialState
	// UnsupportedConstruct: a PDDL feature outside the non-goals slipped
	// through the parser (e.g. a durative action).
	UnsupportedConstruct
	// NumericUndefined: an expression evaluated to NaN where a defined
	// value was required.
	NumericUndefined
	// Cancelled: a caller-provided deadline token fired during a long
	// enumeration.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case InvariantViolation:
		return "InvariantViolation"
	case UnstratifiableAxioms:
		return "UnstratifiableAxioms"
	case InvalidInitialState:
		return "InvalidInitialState"
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	case NumericUndefined:
		return "NumericUndefined"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the concrete structured error value returned across the public
// grounder API. Fields beyond Kind/Message are optional context used by
// specific kinds (e.g. Cycle for UnstratifiableAxioms).
type Error struct {
	Kind    Kind
	Message string

	// Cycle holds the offending strict-dependency cycle, predicate names in
	// order, when Kind == UnstratifiableAxioms.
	Cycle []string
}

func (e *Error) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("%s: %s (cycle: %v)", e.Kind, e.Message, e.Cycle)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is supports errors.Is(err, mimirerr.KindInvariantViolation) style checks by
// comparing Kind when the target is itself a *Error with no message (used
// as a sentinel).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Invariant builds an InvariantViolation error.
func Invariant(format string, args ...any) *Error { return newf(InvariantViolation, format, args...) }

// Unstratifiable builds an UnstratifiableAxioms error carrying the cycle.
func Unstratifiable(cycle []string) *Error {
	return &Error{Kind: UnstratifiableAxioms, Message: "negative-dependency cycle among derived predicates", Cycle: cycle}
}

// InvalidInitial builds an InvalidInitialState error.
func InvalidInitial(format string, args ...any) *Error {
	return newf(InvalidInitialState, format, args...)
}

// Unsupported builds an UnsupportedConstruct error.
func Unsupported(format string, args ...any) *Error { return newf(UnsupportedConstruct, format, args...) }

// Undefined builds a NumericUndefined error.
func Undefined(format string, args ...any) *Error { return newf(NumericUndefined, format, args...) }

// CancelledErr is the sentinel instance returned when a deadline fires.
var CancelledErr = &Error{Kind: Cancelled, Message: "deadline exceeded"}

// Sentinels usable with errors.Is(err, mimirerr.KindInvariantViolation).
var (
	KindInvariantViolation  = &Error{Kind: InvariantViolation}
	KindUnstratifiableAxiom = &Error{Kind: UnstratifiableAxioms}
	KindInvalidInitialState = &Error{Kind: InvalidInitialState}
	KindUnsupportedConstruct = &Error{Kind: UnsupportedConstruct}
	KindNumericUndefined    = &Error{Kind: NumericUndefined}
	KindCancelled           = &Error{Kind: Cancelled}
)
