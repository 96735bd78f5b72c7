package tableau

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Kind classifies the five error kinds the engine surfaces to callers.
// Internal-only signals (pytableaux's TreePruningException family) never
// reach this taxonomy; they are handled inline as Go control flow instead.
type Kind int

const (
	// KindInput covers a malformed argument, an unknown logic, or an
	// out-of-range build option.
	KindInput Kind = iota
	// KindIllegalState covers mutating after start, building a trunk
	// without a logic or argument, or double-closing a branch.
	KindIllegalState
	// KindValueConflict covers inconsistent model values, redefining a
	// system predicate, or a predicate clashing on a lookup key.
	KindValueConflict
	// KindDenotation covers evaluating a predicate at a parameter the
	// model never introduced.
	KindDenotation
	// KindTimeout covers a build exceeding its wall-clock budget.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "InputError"
	case KindIllegalState:
		return "IllegalState"
	case KindValueConflict:
		return "ValueConflict"
	case KindDenotation:
		return "DenotationError"
	case KindTimeout:
		return "Timeout"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type for all five kinds. It wraps the
// originating error (if any) with github.com/pkg/errors so a stack trace
// survives the re-surfacing from a lower-level failure.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same Kind, so callers can
// do errors.Is(err, tableau.Timeout) style checks against the sentinels
// below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && t.msg == ""
}

// Sentinels for errors.Is comparisons against a bare kind, e.g.
// errors.Is(err, tableau.Timeout).
var (
	Timeout = &Error{Kind: KindTimeout}
)

func newKindError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func newInputError(format string, args ...interface{}) *Error {
	return newKindError(KindInput, format, args...)
}

func newIllegalState(format string, args ...interface{}) *Error {
	return newKindError(KindIllegalState, format, args...)
}

func newValueConflict(format string, args ...interface{}) *Error {
	return newKindError(KindValueConflict, format, args...)
}

func newDenotationError(format string, args ...interface{}) *Error {
	return newKindError(KindDenotation, format, args...)
}

func newTimeoutError(format string, args ...interface{}) *Error {
	return newKindError(KindTimeout, format, args...)
}

// wrapf re-surfaces a lower-level error as one of the five kinds, keeping
// its stack via github.com/pkg/errors.
func wrapf(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), err: errors.WithStack(err)}
}

// dispatchErrors aggregates errors raised by more than one event subscriber
// during a single synchronous dispatch. Helpers must not swallow; if two
// helpers both error on the same event, both are visible to the caller.
type dispatchErrors struct {
	merr *multierror.Error
}

func (d *dispatchErrors) add(err error) {
	if err == nil {
		return
	}
	d.merr = multierror.Append(d.merr, err)
}

func (d *dispatchErrors) errorOrNil() error {
	if d.merr == nil {
		return nil
	}
	return d.merr.ErrorOrNil()
}
