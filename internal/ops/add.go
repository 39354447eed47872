package ops

import (
	"context"

	"github.com/hpungsan/taskbox/internal/errors"
)

// AddInput contains parameters for the Add operation.
// Task is a pointer so that an absent field is distinguishable from "".
type AddInput struct {
	Task *string
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// Add creates a task. Only a missing text is rejected: empty and
// whitespace-only text is stored as given, unlike Update.
func Add(ctx context.Context, store TaskStore, input AddInput) (*AddOutput, error) {
	if input.Task == nil {
		return nil, errors.NewInvalidRequest(errors.MsgTaskFieldRequired)
	}

	id, err := store.InsertTask(ctx, *input.Task)
	if err != nil {
		return nil, err
	}

	return &AddOutput{
		ID:      id,
		Message: MsgTaskAdded,
	}, nil
}

// SeedOutput contains the result of the Seed operation.
type SeedOutput struct {
	IDs []int64 `json:"ids"`
}

// Seed inserts each text as a new task, stopping at the first failure.
func Seed(ctx context.Context, store TaskStore, texts []string) (*SeedOutput, error) {
	out := &SeedOutput{IDs: make([]int64, 0, len(texts))}
	for _, text := range texts {
		added, err := Add(ctx, store, AddInput{Task: &text})
		if err != nil {
			return nil, err
		}
		out.IDs = append(out.IDs, added.ID)
	}
	return out, nil
}
