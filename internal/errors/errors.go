// Package errors provides a lightweight structured error type (SphinxKitError)
// for category-based classification in the CLI exit-code mapping.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a sphinxkit error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig   ErrorCategory = "config"
	CategoryNotFound ErrorCategory = "notfound"

	// Build and processing errors
	CategoryBuild      ErrorCategory = "build"
	CategorySphinx     ErrorCategory = "sphinx"
	CategoryFileSystem ErrorCategory = "filesystem"

	// External system integration errors
	CategoryGit   ErrorCategory = "git"
	CategoryServe ErrorCategory = "serve"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// SphinxKitError is a structured error with category, severity, and context
type SphinxKitError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SphinxKitError
type ContextFields map[string]any

// Error implements the error interface
func (e *SphinxKitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *SphinxKitError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SphinxKitError) WithContext(key string, value any) *SphinxKitError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SphinxKitError
func New(category ErrorCategory, severity ErrorSeverity, message string) *SphinxKitError {
	return &SphinxKitError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SphinxKitError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SphinxKitError {
	return &SphinxKitError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var ske *SphinxKitError
	if stderrors.As(err, &ske) {
		return ske.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a SphinxKitError
func GetCategory(err error) ErrorCategory {
	var ske *SphinxKitError
	if stderrors.As(err, &ske) {
		return ske.Category
	}
	return CategoryInternal
}

// ExitCode maps an error category to a process exit code. NotFound-class
// errors exit 2 so CI can distinguish "not a docs project" from a failed build.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCategory(err) == CategoryNotFound {
		return 2
	}
	return 1
}
