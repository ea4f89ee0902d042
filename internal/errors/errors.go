// Package errors defines the application error taxonomy and the helpers that report,
// retry and short-circuit failing operations.
package errors

import (
	stderrors "errors"
	"fmt"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Error codes used across the client.
const (
	CodeValidation  = "E100"
	CodeStorage     = "E200"
	CodeExternalAPI = "E300"
	CodeState       = "E400"
	CodeSignIn      = "E410"
)

const defaultUserMessage = "Something went wrong. Please try again later."

// AppError carries a machine code, a log message and a message safe to show the user.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewValidationError reports user input that cannot be accepted.
func NewValidationError(msg, userMessage string) *AppError {
	return &AppError{
		Code:        CodeValidation,
		Message:     msg,
		UserMessage: userMessage,
		Severity:    SeverityLow,
	}
}

// NewStorageError wraps a local persistence failure.
func NewStorageError(op string, cause error) *AppError {
	return &AppError{
		Code:        CodeStorage,
		Message:     fmt.Sprintf("storage %s failed", op),
		UserMessage: defaultUserMessage,
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewExternalAPIError wraps a failed call to the backend.
func NewExternalAPIError(apiName string, cause error) *AppError {
	return &AppError{
		Code:        CodeExternalAPI,
		Message:     fmt.Sprintf("external api %s failed", apiName),
		UserMessage: "The service is temporarily unavailable.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewStateError reports an action that is not possible in the current state.
func NewStateError(msg string, cause error) *AppError {
	return &AppError{
		Code:        CodeState,
		Message:     msg,
		UserMessage: "That action is not available right now.",
		Severity:    SeverityMedium,
		cause:       cause,
	}
}

// NewSignInError reports that no existing user could be found locally.
func NewSignInError(userMessage string) *AppError {
	return &AppError{
		Code:        CodeSignIn,
		Message:     "no existing user found",
		UserMessage: userMessage,
		Severity:    SeverityLow,
	}
}

// UserMessage extracts the user-facing text of err, falling back to a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr != nil && appErr.UserMessage != "" {
		return appErr.UserMessage
	}

	return defaultUserMessage
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr != nil && appErr.Code == code
}
