package db

import (
	"context"
	"testing"

	"github.com/hpungsan/taskbox/internal/errors"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return store
}

func TestInsertAndList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	tasks, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("ListTasks() on empty store = %v, want empty non-nil slice", tasks)
	}

	id1, err := store.InsertTask(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("InsertTask() error = %v", err)
	}
	id2, err := store.InsertTask(ctx, "Walk dog")
	if err != nil {
		t.Fatalf("InsertTask() error = %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", id1, id2)
	}

	tasks, err = store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	if tasks[0].ID != 1 || tasks[0].Text != "Buy milk" {
		t.Errorf("tasks[0] = %+v", tasks[0])
	}
	if tasks[1].ID != 2 || tasks[1].Text != "Walk dog" {
		t.Errorf("tasks[1] = %+v", tasks[1])
	}
}

func TestGetTask(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	id, err := store.InsertTask(ctx, "Write documentation")
	if err != nil {
		t.Fatalf("InsertTask() error = %v", err)
	}

	got, err := store.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.Text != "Write documentation" {
		t.Errorf("Text = %q", got.Text)
	}

	_, err = store.GetTask(ctx, 999)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetTask(999) error = %v, want NOT_FOUND", err)
	}
}

func TestUpdateTaskText(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	id, _ := store.InsertTask(ctx, "before")

	if err := store.UpdateTaskText(ctx, id, "after"); err != nil {
		t.Fatalf("UpdateTaskText() error = %v", err)
	}
	got, _ := store.GetTask(ctx, id)
	if got.Text != "after" {
		t.Errorf("Text = %q, want after", got.Text)
	}

	err := store.UpdateTaskText(ctx, 999, "x")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("UpdateTaskText(999) error = %v, want NOT_FOUND", err)
	}
}

func TestDeleteTask_TwiceFails(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	id, _ := store.InsertTask(ctx, "delete me")

	if err := store.DeleteTask(ctx, id); err != nil {
		t.Fatalf("first DeleteTask() error = %v", err)
	}
	err := store.DeleteTask(ctx, id)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("second DeleteTask() error = %v, want NOT_FOUND", err)
	}
}

func TestInsertTask_IDsNotReused(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, _ = store.InsertTask(ctx, "one")
	id2, _ := store.InsertTask(ctx, "two")

	// Deleting the highest id must not let the next insert reclaim it.
	if err := store.DeleteTask(ctx, id2); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	id3, err := store.InsertTask(ctx, "three")
	if err != nil {
		t.Fatalf("InsertTask() error = %v", err)
	}
	if id3 <= id2 {
		t.Fatalf("id after delete = %d, want > %d", id3, id2)
	}
}

func TestListTasks_NullTextReadsEmpty(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.RunQuery(ctx, "INSERT INTO tasks (task) VALUES (NULL)"); err != nil {
		t.Fatalf("RunQuery() error = %v", err)
	}

	tasks, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "" {
		t.Errorf("tasks = %+v, want one task with empty text", tasks)
	}
}
