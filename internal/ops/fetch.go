package ops

import (
	"context"

	"github.com/hpungsan/taskbox/internal/task"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID int64
}

// Fetch retrieves a single task by id.
func Fetch(ctx context.Context, store TaskStore, input FetchInput) (*task.Task, error) {
	return store.GetTask(ctx, input.ID)
}
