package db

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/hpungsan/taskbox/internal/errors"
	"github.com/hpungsan/taskbox/internal/task"
)

// ListTasks returns every task ordered by id (insertion order).
func (s *Store) ListTasks(ctx context.Context) ([]task.Task, error) {
	tasks := make([]task.Task, 0)

	err := s.withDB(ctx, func(database *sql.DB) error {
		rows, err := database.QueryContext(ctx, `SELECT id, task FROM tasks ORDER BY id ASC`)
		if err != nil {
			return errors.NewInternal(err)
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return errors.NewInternal(err)
			}
			tasks = append(tasks, *t)
		}
		if err := rows.Err(); err != nil {
			return errors.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// InsertTask stores a new task and returns the id assigned by SQLite.
func (s *Store) InsertTask(ctx context.Context, text string) (int64, error) {
	var id int64

	err := s.withDB(ctx, func(database *sql.DB) error {
		result, err := database.ExecContext(ctx, `INSERT INTO tasks (task) VALUES (?)`, text)
		if err != nil {
			return errors.NewInternal(err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return errors.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	var t *task.Task

	err := s.withDB(ctx, func(database *sql.DB) error {
		row := database.QueryRowContext(ctx, `SELECT id, task FROM tasks WHERE id = ?`, id)
		var err error
		t, err = scanTask(row)
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewTaskNotFound(id)
		}
		if err != nil {
			return errors.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// UpdateTaskText overwrites the text of an existing task.
func (s *Store) UpdateTaskText(ctx context.Context, id int64, text string) error {
	return s.withDB(ctx, func(database *sql.DB) error {
		result, err := database.ExecContext(ctx, `UPDATE tasks SET task = ? WHERE id = ?`, text, id)
		if err != nil {
			return errors.NewInternal(err)
		}
		return requireAffected(result, id)
	})
}

// DeleteTask permanently removes a task.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	return s.withDB(ctx, func(database *sql.DB) error {
		result, err := database.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return errors.NewInternal(err)
		}
		return requireAffected(result, id)
	})
}

// requireAffected maps a zero-row write to NOT_FOUND.
func requireAffected(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewTaskNotFound(id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans a single row into a Task. NULL text reads as "".
func scanTask(row rowScanner) (*task.Task, error) {
	var (
		t    task.Task
		text sql.NullString
	)
	if err := row.Scan(&t.ID, &text); err != nil {
		return nil, err
	}
	t.Text = text.String
	return &t, nil
}
