// Package interp is the CDDL schema interpreter itself: the tree walk that
// matches a parsed *ast.CDDL against a value.Value and reports conformance
// (spec.md §4). This is the ~3,400-line core the rest of the repository
// exists to feed.
//
// Grounded on _examples/original_source/src/validation/{mod,json/mod}.rs
// for the algorithm, and on the teacher's (goadesign-goa-ai)
// expr/agent/toolset.go `Validate() error` + accumulator idiom for the
// error-collection style — adapted into this package's own Error/MultiError
// rather than importing goa.design/goa/v3/eval directly, because that
// package's ValidationErrors is bound to eval.Expression/EvalName(), a
// DSL-definition-time contract that has no analog in a runtime value
// interpreter (see DESIGN.md).
package interp

import (
	"fmt"
	"strings"
)

// Kind enumerates the error taxonomy of spec.md §7.
type Kind int

const (
	SyntaxError Kind = iota
	CompilationError
	ValueMismatch
	StructureMismatch
	MissingKey
	UnexpectedKey
	OccurrenceError
	TagMismatch
	UnknownIdentifier
	UnwrapNotContainer
	PatternUnsupported
	RecursionLimit
	Cancelled
	NoEnumeratedMemberMatched
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case CompilationError:
		return "CompilationError"
	case ValueMismatch:
		return "ValueMismatch"
	case StructureMismatch:
		return "StructureMismatch"
	case MissingKey:
		return "MissingKey"
	case UnexpectedKey:
		return "UnexpectedKey"
	case OccurrenceError:
		return "OccurrenceError"
	case TagMismatch:
		return "TagMismatch"
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case UnwrapNotContainer:
		return "UnwrapNotContainer"
	case PatternUnsupported:
		return "PatternUnsupported"
	case RecursionLimit:
		return "RecursionLimit"
	case Cancelled:
		return "Cancelled"
	case NoEnumeratedMemberMatched:
		return "NoEnumeratedMemberMatched"
	}
	return "Unknown"
}

// Error is a single diagnostic: a failing expectation at a specific path
// into the instance (spec §7 "user-visible output").
type Error struct {
	Kind Kind
	// Path names the failing location in the instance, JSON-pointer style
	// for JSON targets and a "/"-joined CBOR path for CBOR targets.
	Path string
	// Expected is a rendering of the expected shape, drawn from the CDDL
	// source (a type name, a literal, a group summary).
	Expected string
	// Message is a human-readable description of the failure.
	Message string
}

func newError(kind Kind, path, expected, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Path:     path,
		Expected: expected,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Message)
}

// MultiError aggregates the diagnostics from every failed alternative
// within a Type/Group choice (spec §7 "Propagation"). Matchers build one
// before trying the alternatives but only return it when every alternative
// failed; a single successful alternative discards all sibling errors.
// Result.Errors is always a MultiError, empty when validation succeeded.
type MultiError struct {
	Errors []error
}

// Add appends an error, flattening nested MultiErrors so deduplication
// works over a flat list (spec §7 "Multi-errors are flattened and
// deduplicated").
func (m *MultiError) Add(err error) {
	if err == nil {
		return
	}
	if nested, ok := err.(*MultiError); ok {
		m.Errors = append(m.Errors, nested.Errors...)
		return
	}
	m.Errors = append(m.Errors, err)
}

// Empty reports whether no errors were collected.
func (m *MultiError) Empty() bool {
	return m == nil || len(m.Errors) == 0
}

// AsError returns nil if empty, the sole error if exactly one was
// collected, or the MultiError itself otherwise.
func (m *MultiError) AsError() error {
	if m.Empty() {
		return nil
	}
	if len(m.Errors) == 1 {
		return m.Errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	seen := make(map[string]bool, len(m.Errors))
	var parts []string
	for _, e := range m.Errors {
		s := e.Error()
		if seen[s] {
			continue
		}
		seen[s] = true
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// Flatten returns the deduplicated leaf errors, recursing through any
// nested MultiErrors (defensive; Add already flattens on construction).
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	me, ok := err.(*MultiError)
	if !ok {
		return []error{err}
	}
	seen := make(map[string]bool, len(me.Errors))
	var out []error
	for _, e := range me.Errors {
		for _, leaf := range Flatten(e) {
			s := leaf.Error()
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, leaf)
		}
	}
	return out
}

// Result is the outcome of a top-level Validate call (spec §6
// "Result = Ok | Err(ErrorTree)").
type Result struct {
	Errors *MultiError
}

// OK reports whether validation succeeded.
func (r *Result) OK() bool {
	return r == nil || r.Errors.Empty()
}
