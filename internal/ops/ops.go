package ops

import (
	"context"

	"github.com/hpungsan/taskbox/internal/task"
)

// TaskStore is the persistence surface the task operations need.
// *db.Store satisfies it; tests may substitute an in-memory double.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	InsertTask(ctx context.Context, text string) (int64, error)
	GetTask(ctx context.Context, id int64) (*task.Task, error)
	UpdateTaskText(ctx context.Context, id int64, text string) error
	DeleteTask(ctx context.Context, id int64) error
}

// Response messages shared by every delivery surface.
const (
	MsgTaskAdded   = "Task added!"
	MsgTaskUpdated = "Task updated!"
	MsgTaskDeleted = "Task deleted!"
)
