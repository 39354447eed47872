package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Taskbox error code.
type ErrorCode string

const (
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"       // 400
	ErrConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED" // 400
	ErrNotFound             ErrorCode = "NOT_FOUND"             // 404
	ErrIO                   ErrorCode = "IO_ERROR"              // 500
	ErrStorageUnavailable   ErrorCode = "STORAGE_UNAVAILABLE"   // 500
	ErrInternal             ErrorCode = "INTERNAL"              // 500
)

// Messages surfaced verbatim by the HTTP API.
const (
	MsgTaskFieldRequired = "Task field is required"
	MsgTaskTextRequired  = "Task text is required"
	MsgTaskNotFound      = "Task not found"
)

// TaskboxError represents a structured error with code, status, and details.
type TaskboxError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TaskboxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid caller input.
func NewInvalidRequest(msg string) *TaskboxError {
	return &TaskboxError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewConfirmationRequired creates a 400 error for destructive operations
// invoked without explicit confirmation.
func NewConfirmationRequired(action string) *TaskboxError {
	return &TaskboxError{
		Code:    ErrConfirmationRequired,
		Status:  400,
		Message: fmt.Sprintf("%s is destructive and requires confirm=true", action),
		Details: map[string]any{"action": action},
	}
}

// NewTaskNotFound creates a 404 error for a missing task id.
func NewTaskNotFound(id int64) *TaskboxError {
	return &TaskboxError{
		Code:    ErrNotFound,
		Status:  404,
		Message: MsgTaskNotFound,
		Details: map[string]any{"id": id},
	}
}

// NewNotFound creates a 404 error for any other missing entity
// (table, snapshot file, database file).
func NewNotFound(kind, identifier string) *TaskboxError {
	return &TaskboxError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewIO creates a 500 error for filesystem failures (snapshot copy, restore).
func NewIO(op string, err error) *TaskboxError {
	msg := op
	if err != nil {
		msg = fmt.Sprintf("%s: %v", op, err)
	}
	return &TaskboxError{
		Code:    ErrIO,
		Status:  500,
		Message: msg,
		Details: map[string]any{"op": op},
	}
}

// NewStorageUnavailable creates a 500 error when the store file cannot be opened.
func NewStorageUnavailable(err error) *TaskboxError {
	msg := "storage unavailable"
	if err != nil {
		msg = fmt.Sprintf("storage unavailable: %v", err)
	}
	return &TaskboxError{
		Code:    ErrStorageUnavailable,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *TaskboxError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &TaskboxError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// As extracts a *TaskboxError from err, following wrapped chains.
func As(err error) (*TaskboxError, bool) {
	var tbErr *TaskboxError
	if stderrors.As(err, &tbErr) {
		return tbErr, true
	}
	return nil, false
}

// Is checks if an error is (or wraps) a TaskboxError with the given code.
func Is(err error, code ErrorCode) bool {
	if tbErr, ok := As(err); ok {
		return tbErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	if tbErr, ok := As(err); ok && tbErr.Status != 0 {
		return tbErr.Status
	}
	return 500
}
