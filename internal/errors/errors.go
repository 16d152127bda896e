package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an erde error code.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrUserExists          ErrorCode = "USER_EXISTS"          // 400
	ErrInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"  // 401
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrOptimizationBlocked ErrorCode = "OPTIMIZATION_BLOCKED" // 422
	ErrMissingCredential   ErrorCode = "MISSING_CREDENTIAL"   // 500
	ErrProviderExhausted   ErrorCode = "PROVIDER_EXHAUSTED"   // 500
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// ErdeError represents a structured error with code, status, and details.
type ErdeError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ErdeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ErdeError {
	return &ErdeError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUserExists creates a 400 error for a duplicate registration.
func NewUserExists(email string) *ErdeError {
	return &ErdeError{
		Code:    ErrUserExists,
		Status:  400,
		Message: "User already exists",
		Details: map[string]any{"email": email},
	}
}

// NewInvalidCredentials creates a 401 error for a failed login.
func NewInvalidCredentials() *ErdeError {
	return &ErdeError{
		Code:    ErrInvalidCredentials,
		Status:  401,
		Message: "Invalid credentials",
	}
}

// NewNotFound creates a 404 error for a missing saved prompt or history item.
func NewNotFound(identifier string) *ErdeError {
	return &ErdeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewOptimizationBlocked creates a 422 error carrying the gatekeeper's reason.
func NewOptimizationBlocked(reason string, warnings int) *ErdeError {
	return &ErdeError{
		Code:    ErrOptimizationBlocked,
		Status:  422,
		Message: reason,
		Details: map[string]any{"warnings": warnings},
	}
}

// NewMissingCredential creates a 500 error when no provider API key resolves.
func NewMissingCredential() *ErdeError {
	return &ErdeError{
		Code:    ErrMissingCredential,
		Status:  500,
		Message: "Gemini API Key missing. Please configure it in Settings.",
	}
}

// NewProviderExhausted creates a 500 error after every candidate model failed.
// The message is the last underlying error's message.
func NewProviderExhausted(lastErr error, candidates []string) *ErdeError {
	msg := "All available models failed to generate a response. Please check your API quota."
	if lastErr != nil && lastErr.Error() != "" {
		msg = lastErr.Error()
	}
	return &ErdeError{
		Code:    ErrProviderExhausted,
		Status:  500,
		Message: msg,
		Details: map[string]any{"candidates": candidates},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The cause is kept in Details for logging; Message stays generic.
func NewInternal(err error) *ErdeError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &ErdeError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is an ErdeError with the given code.
// Wrapped errors are unwrapped.
func Is(err error, code ErrorCode) bool {
	var eErr *ErdeError
	if stderrors.As(err, &eErr) {
		return eErr.Code == code
	}
	return false
}

// As extracts an ErdeError from err, falling back to an internal error.
func As(err error) *ErdeError {
	var eErr *ErdeError
	if stderrors.As(err, &eErr) {
		return eErr
	}
	return NewInternal(err)
}
