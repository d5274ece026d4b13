// Package errors provides structured error types for the coroutine bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). All errors implement the standard error interface and
// support errors.Is/As; matching against an *Error target compares Phase
// and Kind, with the zero value acting as a wildcard.
package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // builtin and state-type registration
	PhaseCompile  Phase = "compile"  // script compilation and module load
	PhaseResolve  Phase = "resolve"  // function lookup in a module
	PhaseBind     Phase = "bind"     // argument binding into a context
	PhaseStep     Phase = "step"     // context execution/resume
)

// Kind categorizes the error
type Kind string

const (
	KindCompileFailed  Kind = "compile_failed"
	KindNotFound       Kind = "not_found"
	KindInvalidInput   Kind = "invalid_input"
	KindUnsupported    Kind = "unsupported"
	KindRegistration   Kind = "registration"
	KindRuntimeFault   Kind = "runtime_fault"
	KindNotInitialized Kind = "not_initialized"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target *Error with an
// empty Phase or Kind matches any value of that field.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	return true
}

// New creates an error with a formatted detail message
func New(phase Phase, kind Kind, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Compile creates a script compilation error
func Compile(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindCompileFailed,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a name lookup failure error
func NotFound(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%q not found", name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported construct error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotInitialized creates an error for use of an unready component
func NotInitialized(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", what),
	}
}

// RuntimeFault wraps a fault raised while script code was executing
func RuntimeFault(cause error, detail string) *Error {
	return &Error{
		Phase:  PhaseStep,
		Kind:   KindRuntimeFault,
		Detail: detail,
		Cause:  cause,
	}
}
