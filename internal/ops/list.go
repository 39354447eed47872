package ops

import (
	"context"

	"github.com/hpungsan/taskbox/internal/task"
)

// List returns all tasks in insertion order. No filtering or pagination.
func List(ctx context.Context, store TaskStore) ([]task.Task, error) {
	tasks, err := store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}
