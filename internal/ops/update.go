package ops

import (
	"context"

	"github.com/hpungsan/taskbox/internal/errors"
	"github.com/hpungsan/taskbox/internal/task"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID   int64
	Task *string
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	Updated bool   `json:"updated"`
	ID      int64  `json:"id"`
	Task    string `json:"task"`
	Message string `json:"message"`
}

// Update replaces a task's text.
// Rules, checked in order:
// - Task absent → INVALID_REQUEST "Task field is required"
// - Task empty after trimming → INVALID_REQUEST "Task text is required"
// - ID unknown → NOT_FOUND "Task not found"
// The trimmed text is what gets stored.
func Update(ctx context.Context, store TaskStore, input UpdateInput) (*UpdateOutput, error) {
	if input.Task == nil {
		return nil, errors.NewInvalidRequest(errors.MsgTaskFieldRequired)
	}

	text := task.Normalize(*input.Task)
	if text == "" {
		return nil, errors.NewInvalidRequest(errors.MsgTaskTextRequired)
	}

	if err := store.UpdateTaskText(ctx, input.ID, text); err != nil {
		return nil, err
	}

	return &UpdateOutput{
		Updated: true,
		ID:      input.ID,
		Task:    text,
		Message: MsgTaskUpdated,
	}, nil
}
