// pkg/commitor_err/classification.go
//
// Error classification with exit codes and remediation steps.

package commitor_err

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies errors for appropriate handling
type ErrorCategory int

const (
	// CategorySystem - OS/filesystem issues (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryValidation - Input or configuration validation failures (exit 2)
	CategoryValidation
	// CategoryNetwork - Provider connectivity issues (exit 1)
	CategoryNetwork
	// CategoryGit - Git-specific errors (exit 1)
	CategoryGit
	// CategoryUser - User cancelled/interrupted (exit 130)
	CategoryUser
	// CategoryInternal - Bugs in commitor itself (exit 3)
	CategoryInternal
	// CategoryProvider - Generation provider refused or failed (exit 1)
	CategoryProvider
)

func (c ErrorCategory) String() string {
	switch c {
	case CategorySystem:
		return "system"
	case CategoryValidation:
		return "validation"
	case CategoryNetwork:
		return "network"
	case CategoryGit:
		return "git"
	case CategoryUser:
		return "user"
	case CategoryInternal:
		return "internal"
	case CategoryProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// ClassifiedError wraps an error with category and remediation info
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

// Error implements the error interface
func (e *ClassifiedError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message)

	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(fmt.Sprintf("\n\nCause: %v", e.Cause))
	}

	if len(e.Remediation) > 0 {
		sb.WriteString("\n\nHow to fix:")
		for i, step := range e.Remediation {
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
		}
	}

	return sb.String()
}

// Unwrap returns the underlying error
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error category
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryUser:
		return 130 // Standard for SIGINT (Ctrl-C)
	case CategoryValidation:
		return 2
	case CategoryInternal:
		return 3
	default:
		return 1
	}
}

// GetExitCode extracts exit code from any error.
// Returns 0 for nil and for expected user errors, the category code for
// classified errors, 1 for everything else.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	if IsExpectedUserError(err) {
		return 0
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}

	var coded *Error
	if errors.As(err, &coded) {
		return (&ClassifiedError{Category: coded.Code.Category()}).ExitCode()
	}

	return 1
}

// NewValidationError creates an error for input validation failures
func NewValidationError(message string, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Remediation: remediation,
	}
}

// NewGitError creates an error for git-specific issues
func NewGitError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryGit,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewCancelledError reports that the user aborted an interactive flow.
func NewCancelledError(message string) error {
	return &ClassifiedError{
		Category: CategoryUser,
		Message:  message,
	}
}
