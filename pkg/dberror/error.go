package dberror

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorCategory classifies errors by their nature and appropriate handling strategy.
type ErrorCategory int

const (
	// ErrCategoryUser represents errors caused by invalid input: unknown
	// tables, mistyped predicates, oversized join graphs.
	ErrCategoryUser ErrorCategory = iota

	// ErrCategorySystem represents failures of the storage underneath the
	// optimizer, such as a scan that fails while histograms are built.
	ErrCategorySystem

	// ErrCategoryState represents calls that are invalid for the current
	// lifecycle state of an object, e.g. mutating a frozen registry.
	ErrCategoryState
)

func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryUser:
		return "user"
	case ErrCategorySystem:
		return "system"
	case ErrCategoryState:
		return "state"
	default:
		return "unknown"
	}
}

// Error codes surfaced by the statistics and optimizer packages.
const (
	CodeTableNotFound        = "TABLE_NOT_FOUND"
	CodeStatsMissing         = "STATS_MISSING"
	CodeTypeMismatch         = "TYPE_MISMATCH"
	CodeUnsupportedPredicate = "UNSUPPORTED_PREDICATE"
	CodeStatsBuildFailed     = "STATS_BUILD_FAILED"
	CodeRegistryFrozen       = "REGISTRY_FROZEN"
	CodeTooManyJoins         = "TOO_MANY_JOINS"
)

// DBError represents a structured database error with context information.
type DBError struct {
	// Code is a unique identifier for this error type (e.g., "TABLE_NOT_FOUND").
	Code string

	// Category classifies the error for appropriate handling strategy.
	Category ErrorCategory

	// Message is a human-readable description of what went wrong.
	Message string

	// Detail provides additional context about the specific error instance.
	Detail string

	// Hint suggests how the caller might fix or work around this error.
	Hint string

	// Operation identifies the operation that was being performed, e.g.
	// "OrderJoins" or "ComputeStatistics".
	Operation string

	// Component identifies where the error originated, e.g. "JoinOptimizer".
	Component string

	// Cause is the underlying error that triggered this one.
	Cause error

	// Stack contains the call stack where this error was created.
	Stack []uintptr
}

// New creates a new DBError with the specified code, category, and message.
func New(category ErrorCategory, code, message string) *DBError {
	return &DBError{
		Code:     code,
		Category: category,
		Message:  message,
		Stack:    captureStack(),
	}
}

// Wrap wraps an existing error with database-specific context information.
// If the error is already a DBError, it enriches the existing error with
// operation and component context (only if not already set).
func Wrap(err error, code, operation, component string) *DBError {
	if err == nil {
		return nil
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		if dbErr.Operation == "" {
			dbErr.Operation = operation
		}
		if dbErr.Component == "" {
			dbErr.Component = component
		}
		return dbErr
	}

	return &DBError{
		Code:      code,
		Category:  ErrCategorySystem,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
		Stack:     captureStack(),
	}
}

// WithDetail sets Detail and returns the receiver for chaining.
func (e *DBError) WithDetail(format string, args ...any) *DBError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHint sets Hint and returns the receiver for chaining.
func (e *DBError) WithHint(hint string) *DBError {
	e.Hint = hint
	return e
}

// WithOperation records the operation and component that produced the error.
func (e *DBError) WithOperation(operation, component string) *DBError {
	e.Operation = operation
	e.Component = component
	return e
}

// captureStack skips runtime.Callers, captureStack and the constructor.
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}

// Error implements the error interface.
//
// Format: [CODE] Message: Detail (operation: Op, component: Comp) caused by: cause
func (e *DBError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	if e.Operation != "" {
		b.WriteString(fmt.Sprintf(" (operation: %s", e.Operation))
		if e.Component != "" {
			b.WriteString(fmt.Sprintf(", component: %s", e.Component))
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error.
func (e *DBError) Unwrap() error {
	return e.Cause
}

// FormatStack returns a human-readable stack trace for debugging purposes.
func (e *DBError) FormatStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.Stack)

	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n",
			f.Function, f.File, f.Line))
		if !more {
			break
		}
	}

	return b.String()
}

// HasCode reports whether any DBError in err's chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var dbErr *DBError
		if !errors.As(err, &dbErr) {
			return false
		}
		if dbErr.Code == code {
			return true
		}
		err = dbErr.Cause
	}
	return false
}
