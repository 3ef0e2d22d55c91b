// Package tastyerr implements the three error kinds of spec.md §7. It
// plays the role internal/types2/errors.go plays for the teacher's type
// checker, but splits what was one TypeError there into the three kinds
// spec.md distinguishes by recovery behavior.
package tastyerr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/tastyread/tasty/internal/tastybits"
)

// Location names the owner chain a diagnostic should report, computed by
// walking owners outward (spec.md §7: "a location computed by walking the
// owner chain").
type Location struct {
	Owners []string // innermost first
	Addr   tastybits.Addr
}

func (l Location) String() string {
	if len(l.Owners) == 0 {
		return l.Addr.String()
	}
	s := l.Owners[0]
	for _, o := range l.Owners[1:] {
		s += " in " + o
	}
	return fmt.Sprintf("%s (%s)", s, l.Addr)
}

// UnsupportedFeatureError is category 1: a dialect construct this reader
// refuses by design. It is expected, routinely handled control flow, so it
// deliberately carries no stack trace.
type UnsupportedFeatureError struct {
	Noun     string // human-readable name of the refused construct
	Where    Location
	InAnnot  bool // raised while reading an annotation thunk
}

func (e *UnsupportedFeatureError) Error() string {
	if e.InAnnot {
		return fmt.Sprintf("unsupported feature %q at %s (while reading an annotation)", e.Noun, e.Where)
	}
	return fmt.Sprintf("unsupported feature %q at %s", e.Noun, e.Where)
}

// NewUnsupported builds an UnsupportedFeatureError for noun at where.
func NewUnsupported(noun string, where Location) *UnsupportedFeatureError {
	return &UnsupportedFeatureError{Noun: noun, Where: where}
}

// InAnnotation returns a copy of e wrapped to note it was raised while
// reading an annotation thunk (spec.md §7: "wrapped to note the annotation
// context").
func (e *UnsupportedFeatureError) InAnnotation() *UnsupportedFeatureError {
	cp := *e
	cp.InAnnot = true
	return &cp
}

// TypeError is category 2: an assertion-level wire or shape violation —
// cursor not at the expected end, a missing symbol at an address that must
// already exist, a class parent that isn't a constructor application.
// These indicate a bug or corrupt input and abort unpickling the current
// artifact, so the stack trace at the point of construction matters.
type TypeError struct {
	cause error
	Where Location
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at %s: %s", e.Where, e.cause)
}

func (e *TypeError) Unwrap() error { return e.cause }

// NewTypeError wraps msg with a stack trace and a location.
func NewTypeError(where Location, format string, args ...any) *TypeError {
	return &TypeError{cause: pkgerrors.Errorf(format, args...), Where: where}
}

// WrapTypeError wraps an existing error (e.g. from Cursor.ExpectEnd) as a
// TypeError, attaching a stack trace at this call site.
func WrapTypeError(where Location, err error) *TypeError {
	return &TypeError{cause: pkgerrors.WithStack(err), Where: where}
}

// CyclicReferenceError is category 3: the cycle map held InProgress when a
// completer re-entered itself (spec.md §3 "cycle guard", §7). Fatal for
// the current artifact.
type CyclicReferenceError struct {
	cause error
	Addr  tastybits.Addr
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic reference at %s: %s", e.Addr, e.cause)
}

func (e *CyclicReferenceError) Unwrap() error { return e.cause }

// NewCyclicReference builds a CyclicReferenceError for a re-entrant
// completion at addr.
func NewCyclicReference(addr tastybits.Addr) *CyclicReferenceError {
	return &CyclicReferenceError{
		cause: pkgerrors.Errorf("completer for %s re-entered while still in progress", addr),
		Addr:  addr,
	}
}

// IsUnsupported reports whether err is (or wraps) an UnsupportedFeatureError.
func IsUnsupported(err error) bool {
	var target *UnsupportedFeatureError
	return errors.As(err, &target)
}

// IsCyclic reports whether err is (or wraps) a CyclicReferenceError.
func IsCyclic(err error) bool {
	var target *CyclicReferenceError
	return errors.As(err, &target)
}
