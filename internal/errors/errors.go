package errors

import "fmt"

// ErrorCode represents a journal error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrInvalidType    ErrorCode = "INVALID_TYPE"    // 400
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"    // 401
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404 (export paths)
	ErrConflict       ErrorCode = "CONFLICT"        // 409
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// JournalError represents a structured error with code, status, and details.
type JournalError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *JournalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *JournalError {
	return &JournalError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidType creates a 400 error for an unknown entry type.
func NewInvalidType(typ string) *JournalError {
	return &JournalError{
		Code:    ErrInvalidType,
		Status:  400,
		Message: fmt.Sprintf("unknown entry type: %q", typ),
		Details: map[string]any{"type": typ},
	}
}

// NewUnauthorized creates a 401 error for failed shared-password auth.
func NewUnauthorized() *JournalError {
	return &JournalError{
		Code:    ErrUnauthorized,
		Status:  401,
		Message: "unauthorized",
	}
}

// NewNotFound creates a 404 error for a missing entry or ritual.
func NewNotFound(identifier string) *JournalError {
	return &JournalError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing export file.
func NewFileNotFound(path string) *JournalError {
	return &JournalError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *JournalError {
	return &JournalError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewCancelled creates a 499 error for a context-cancelled operation.
func NewCancelled(operation string) *JournalError {
	return &JournalError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("operation cancelled: %s", operation),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *JournalError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &JournalError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a JournalError with the given code.
func Is(err error, code ErrorCode) bool {
	if jErr, ok := err.(*JournalError); ok {
		return jErr.Code == code
	}
	return false
}
