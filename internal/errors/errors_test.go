package errors

import (
	"fmt"
	"testing"
)

func TestTaskboxError_Error(t *testing.T) {
	err := &TaskboxError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "Task not found",
	}

	expected := "NOT_FOUND: Task not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest(MsgTaskTextRequired)

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "Task text is required" {
		t.Errorf("Message = %q, want %q", err.Message, "Task text is required")
	}
}

func TestNewTaskNotFound(t *testing.T) {
	err := NewTaskNotFound(42)

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Message != MsgTaskNotFound {
		t.Errorf("Message = %q, want %q", err.Message, MsgTaskNotFound)
	}
	if err.Details["id"] != int64(42) {
		t.Errorf("Details[id] = %v, want 42", err.Details["id"])
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("table", "widgets")

	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Message != "table not found: widgets" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Details["identifier"] != "widgets" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "widgets")
	}
}

func TestNewConfirmationRequired(t *testing.T) {
	err := NewConfirmationRequired("restore")

	if err.Code != ErrConfirmationRequired {
		t.Errorf("Code = %q, want %q", err.Code, ErrConfirmationRequired)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
}

func TestNewIO(t *testing.T) {
	err := NewIO("copy snapshot", fmt.Errorf("disk full"))

	if err.Code != ErrIO {
		t.Errorf("Code = %q, want %q", err.Code, ErrIO)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Message != "copy snapshot: disk full" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewTaskNotFound(1), ErrNotFound, true},
		{"different code", NewTaskNotFound(1), ErrInvalidRequest, false},
		{"wrapped", fmt.Errorf("update: %w", NewInvalidRequest("x")), ErrInvalidRequest, true},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(NewTaskNotFound(1)); got != 404 {
		t.Errorf("StatusOf(not found) = %d, want 404", got)
	}
	if got := StatusOf(fmt.Errorf("wrap: %w", NewInvalidRequest("x"))); got != 400 {
		t.Errorf("StatusOf(wrapped invalid) = %d, want 400", got)
	}
	if got := StatusOf(fmt.Errorf("boom")); got != 500 {
		t.Errorf("StatusOf(plain) = %d, want 500", got)
	}
}
