package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error. The set is closed:
// the identity adapter converts every transport outcome into exactly one of
// these codes, and the session store keys its transitions off them.
type ErrorCode string

const (
	// ErrCodeBadRequest indicates malformed input the user can correct.
	ErrCodeBadRequest ErrorCode = "bad_request"
	// ErrCodeUnauthorized indicates a missing or invalid session.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates an authenticated but insufficient principal.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., duplicate registration).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeNetworkUnreachable indicates no response was received from the backend.
	ErrCodeNetworkUnreachable ErrorCode = "network_unreachable"
	// ErrCodeServerFault indicates a non-2xx response outside the mapped statuses.
	ErrCodeServerFault ErrorCode = "server_fault"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message, surfaced verbatim to callers
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Status is the HTTP status that produced the error (set for server faults)
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// BadRequest creates a new BadRequest error.
func BadRequest(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
	}
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// Unauthorizedf creates a new Unauthorized error with formatted message.
func Unauthorizedf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: fmt.Sprintf(format, args...),
	}
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
	}
}

// Forbiddenf creates a new Forbidden error with formatted message.
func Forbiddenf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// NetworkUnreachable creates a new NetworkUnreachable error.
func NetworkUnreachable(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNetworkUnreachable,
		Message: message,
	}
}

// ServerFault creates a new ServerFault error carrying the HTTP status.
func ServerFault(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeServerFault,
		Message: message,
		Status:  status,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsBadRequest checks if an error is a BadRequest error.
func IsBadRequest(err error) bool {
	return isCode(err, ErrCodeBadRequest)
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsNetworkUnreachable checks if an error is a NetworkUnreachable error.
func IsNetworkUnreachable(err error) bool {
	return isCode(err, ErrCodeNetworkUnreachable)
}

// IsServerFault checks if an error is a ServerFault error.
func IsServerFault(err error) bool {
	return isCode(err, ErrCodeServerFault)
}

// IsSessionInvalid reports whether an error means the current session is
// invalid or insufficient. Both outcomes clear locally persisted hints.
func IsSessionInvalid(err error) bool {
	return IsUnauthorized(err) || IsForbidden(err)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetStatus returns the HTTP status from an error, or zero if not an AppError
// or no status was recorded.
func GetStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}
