// pkg/commitor_err/codes.go

package commitor_err

import (
	"errors"
	"fmt"
)

// Code is a stable identifier for a failure the core can report.
type Code string

const (
	ConfigurationMissing  Code = "CONFIGURATION_MISSING"
	NotARepository        Code = "NOT_A_REPOSITORY"
	NoStagedChanges       Code = "NO_STAGED_CHANGES"
	GenerationAuthError   Code = "GENERATION_AUTH_ERROR"
	GenerationRateLimited Code = "GENERATION_RATE_LIMITED"
	GenerationServerError Code = "GENERATION_SERVER_ERROR"
	EmptyGeneratedMessage Code = "EMPTY_GENERATED_MESSAGE"
	DecryptionFailure     Code = "DECRYPTION_FAILURE"
)

// Category maps a code onto the exit-code classification.
func (c Code) Category() ErrorCategory {
	switch c {
	case ConfigurationMissing:
		return CategoryValidation
	case NotARepository, NoStagedChanges:
		return CategoryGit
	case GenerationAuthError, GenerationRateLimited, GenerationServerError, EmptyGeneratedMessage:
		return CategoryProvider
	case DecryptionFailure:
		return CategorySystem
	default:
		return CategoryInternal
	}
}

// Retryable reports whether the generation loop may spend another attempt.
func (c Code) Retryable() bool {
	return c == GenerationServerError || c == EmptyGeneratedMessage
}

// Error carries a Code, a human message and an optional cause.
type Error struct {
	Code        Code
	Message     string
	Cause       error
	Remediation []string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New builds a coded error.
func New(code Code, message string, remediation ...string) error {
	return &Error{Code: code, Message: message, Remediation: remediation}
}

// Wrap attaches a code to cause. A nil cause still produces an error.
func Wrap(code Code, cause error, message string, remediation ...string) error {
	return &Error{Code: code, Message: message, Cause: cause, Remediation: remediation}
}

// CodeOf returns the first code found in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries code anywhere in its chain.
func Is(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// RemediationOf returns the remediation steps attached to err, if any.
func RemediationOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Remediation
	}
	var c *ClassifiedError
	if errors.As(err, &c) {
		return c.Remediation
	}
	return nil
}
