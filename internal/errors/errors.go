package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalidScore     = "INVALID_SCORE"
	ErrCodeNotAuthenticated = "NOT_AUTHENTICATED"
	ErrCodeNetwork          = "NETWORK_ERROR"
	ErrCodeRemoteRejected   = "REMOTE_REJECTED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// SyncError represents an engine error with a machine-readable code
type SyncError struct {
	Code    string // Error code (e.g., "INVALID_SCORE", "NETWORK_ERROR")
	Message string // Human-readable error message
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewInvalidScoreError creates a new INVALID_SCORE error
func NewInvalidScoreError(field string, reason string) *SyncError {
	return &SyncError{
		Code:    ErrCodeInvalidScore,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
	}
}

// NewNotAuthenticatedError creates a new NOT_AUTHENTICATED error
func NewNotAuthenticatedError(reason string) *SyncError {
	return &SyncError{
		Code:    ErrCodeNotAuthenticated,
		Message: reason,
	}
}

// NewNetworkError creates a new NETWORK_ERROR wrapping a transport failure
func NewNetworkError(err error) *SyncError {
	return &SyncError{
		Code:    ErrCodeNetwork,
		Message: "remote call failed",
		Err:     err,
	}
}

// NewRemoteRejectedError creates a new REMOTE_REJECTED error for calls the
// remote service received but refused
func NewRemoteRejectedError(status int, body string) *SyncError {
	return &SyncError{
		Code:    ErrCodeRemoteRejected,
		Message: fmt.Sprintf("remote rejected submission: status=%d, body=%s", status, body),
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *SyncError {
	return &SyncError{
		Code:    ErrCodeInternal,
		Message: "internal engine error",
		Err:     err,
	}
}

// HasCode reports whether err is, or wraps, a *SyncError carrying the
// given code
func HasCode(err error, code string) bool {
	var se *SyncError
	if !stderrors.As(err, &se) {
		return false
	}
	return se.Code == code
}
