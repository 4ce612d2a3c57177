// Package errors defines the typed failures returned by taskgraph operations.
//
// Every business-rule violation is an *Error carrying one of the Kind
// sentinels below. Callers classify failures with the standard helpers:
//
//	if errors.Is(err, errors.ErrCircularDependency) { ... }
//
//	var tgErr *errors.Error
//	if errors.As(err, &tgErr) { fmt.Println(tgErr.Op) }
//
// ConsistencyViolation is special: it signals a defect (an internal invariant
// failed), not a caller mistake. Use IsConsistencyViolation to surface it
// separately from ordinary failures.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions so callers can import only this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Kind sentinels.
var (
	// ErrNotFound indicates a missing list, item or edge reference.
	ErrNotFound = New("not found")
	// ErrInvalidHierarchy indicates cross-list, self or cyclic parenting.
	ErrInvalidHierarchy = New("invalid hierarchy")
	// ErrCircularDependency indicates an edge that would close a cycle.
	ErrCircularDependency = New("circular dependency")
	// ErrDuplicateDependency indicates an existing edge or a self-loop.
	ErrDuplicateDependency = New("duplicate dependency")
	// ErrInvalidStatusTransition indicates a status update that cannot be applied.
	ErrInvalidStatusTransition = New("invalid status transition")
	// ErrConsistencyViolation indicates a broken internal invariant.
	ErrConsistencyViolation = New("consistency violation")
	// ErrAlreadyExists indicates a key collision within its scope.
	ErrAlreadyExists = New("already exists")
	// ErrValidation indicates malformed input.
	ErrValidation = New("validation failed")
)

var kinds = []error{
	ErrNotFound,
	ErrInvalidHierarchy,
	ErrCircularDependency,
	ErrDuplicateDependency,
	ErrInvalidStatusTransition,
	ErrConsistencyViolation,
	ErrAlreadyExists,
	ErrValidation,
}

// Error is a classified failure.
type Error struct {
	Kind error  // one of the Err* sentinels
	Op   string // operation that failed, e.g. "add_dependency"
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error's kind so errors.Is(err, ErrNotFound) works through wrapping.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// WithOp returns a copy of the error tagged with the given operation.
// An existing Op is kept.
func (e *Error) WithOp(op string) *Error {
	if e.Op != "" {
		return e
	}
	c := *e
	c.Op = op
	return &c
}

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds an ErrNotFound failure for the given resource.
func NotFound(resource, id string) *Error {
	return newf(ErrNotFound, "%s %s", resource, id)
}

// InvalidHierarchy builds an ErrInvalidHierarchy failure.
func InvalidHierarchy(format string, args ...any) *Error {
	return newf(ErrInvalidHierarchy, format, args...)
}

// CircularDependency builds an ErrCircularDependency failure with the offending path.
func CircularDependency(path []string) *Error {
	return newf(ErrCircularDependency, "%s", strings.Join(path, " -> "))
}

// DuplicateDependency builds an ErrDuplicateDependency failure.
func DuplicateDependency(format string, args ...any) *Error {
	return newf(ErrDuplicateDependency, format, args...)
}

// InvalidStatusTransition builds an ErrInvalidStatusTransition failure.
func InvalidStatusTransition(format string, args ...any) *Error {
	return newf(ErrInvalidStatusTransition, format, args...)
}

// ConsistencyViolation builds an ErrConsistencyViolation failure.
func ConsistencyViolation(format string, args ...any) *Error {
	return newf(ErrConsistencyViolation, format, args...)
}

// AlreadyExists builds an ErrAlreadyExists failure.
func AlreadyExists(resource, key string) *Error {
	return newf(ErrAlreadyExists, "%s %q", resource, key)
}

// Validation builds an ErrValidation failure.
func Validation(format string, args ...any) *Error {
	return newf(ErrValidation, format, args...)
}

// KindOf returns the kind sentinel of err, or nil for unclassified errors.
func KindOf(err error) error {
	for _, k := range kinds {
		if Is(err, k) {
			return k
		}
	}
	return nil
}

// IsConsistencyViolation reports whether err signals a broken invariant.
func IsConsistencyViolation(err error) bool {
	return Is(err, ErrConsistencyViolation)
}

// IsUserFacing reports whether err is a business-rule failure safe to show
// as-is, as opposed to a defect or an infrastructure error.
func IsUserFacing(err error) bool {
	k := KindOf(err)
	return k != nil && k != ErrConsistencyViolation
}
