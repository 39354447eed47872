package migrate

import (
	"context"
	"math"
	"testing"

	"github.com/hpungsan/taskbox/internal/db"
	"github.com/hpungsan/taskbox/internal/errors"
	"github.com/hpungsan/taskbox/internal/schema"
)

func setupStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	return store
}

func TestAddColumn_Idempotent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	in := AddColumnInput{Table: "tasks", Column: "priority", Type: "INTEGER", Default: float64(0)}

	first, err := AddColumn(ctx, store, in)
	if err != nil {
		t.Fatalf("first AddColumn() error = %v", err)
	}
	if !first.Applied {
		t.Fatal("first AddColumn() Applied = false")
	}
	if first.Statement != `ALTER TABLE "tasks" ADD COLUMN "priority" INTEGER DEFAULT 0` {
		t.Errorf("Statement = %q", first.Statement)
	}

	after, err := schema.GetSchema(ctx, store, "tasks")
	if err != nil {
		t.Fatal(err)
	}

	second, err := AddColumn(ctx, store, in)
	if err != nil {
		t.Fatalf("second AddColumn() error = %v", err)
	}
	if second.Applied {
		t.Error("second AddColumn() Applied = true, want no-op")
	}

	again, err := schema.GetSchema(ctx, store, "tasks")
	if err != nil {
		t.Fatal(err)
	}
	if d := schema.Compare(after, again); !d.Empty() {
		t.Errorf("schema changed on repeat: %+v", d)
	}

	col := again.Column("priority")
	if col == nil || col.Default == nil || *col.Default != "0" {
		t.Errorf("priority column = %+v", col)
	}
}

func TestAddColumn_MixedCaseNames(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	out, err := AddColumn(ctx, store, AddColumnInput{Table: "Tasks", Column: "done", Type: "BOOLEAN", Default: false})
	if err != nil {
		t.Fatalf("AddColumn(Tasks) error = %v", err)
	}
	if !out.Applied || out.Table != "tasks" {
		t.Fatalf("AddColumn(Tasks) = %+v, want applied on tasks", out)
	}
	if out.Statement != `ALTER TABLE "tasks" ADD COLUMN "done" BOOLEAN DEFAULT 0` {
		t.Errorf("Statement = %q", out.Statement)
	}

	again, err := AddColumn(ctx, store, AddColumnInput{Table: "TASKS", Column: "DONE", Type: "BOOLEAN"})
	if err != nil {
		t.Fatalf("AddColumn(TASKS, DONE) error = %v", err)
	}
	if again.Applied || again.Column != "done" {
		t.Errorf("AddColumn(TASKS, DONE) = %+v, want no-op on done", again)
	}
}

func TestAddColumn_ExistingRowsGetDefault(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.InsertTask(ctx, "Buy milk"); err != nil {
		t.Fatal(err)
	}
	if _, err := AddColumn(ctx, store, AddColumnInput{Table: "tasks", Column: "owner", Type: "TEXT", Default: "it's me"}); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}

	res, err := store.RunQuery(ctx, `SELECT owner FROM tasks WHERE id = 1`)
	if err != nil {
		t.Fatal(err)
	}
	if res.RowCount != 1 || res.Rows[0]["owner"] != "it's me" {
		t.Errorf("owner = %v", res.Rows)
	}

	// Existing task operations are unaffected by the extra column.
	tasks, err := store.ListTasks(ctx)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("ListTasks() = %v, %v", tasks, err)
	}
}

func TestAddColumn_Validation(t *testing.T) {
	store := setupStore(t)

	tests := []struct {
		name  string
		input AddColumnInput
		want  errors.ErrorCode
	}{
		{"bad table", AddColumnInput{Table: "tasks; DROP TABLE tasks", Column: "x", Type: "TEXT"}, errors.ErrInvalidRequest},
		{"bad column", AddColumnInput{Table: "tasks", Column: "1x", Type: "TEXT"}, errors.ErrInvalidRequest},
		{"quoted column", AddColumnInput{Table: "tasks", Column: `x"`, Type: "TEXT"}, errors.ErrInvalidRequest},
		{"bad type", AddColumnInput{Table: "tasks", Column: "x", Type: "TEXT); DROP TABLE tasks; --"}, errors.ErrInvalidRequest},
		{"empty type", AddColumnInput{Table: "tasks", Column: "x", Type: ""}, errors.ErrInvalidRequest},
		{"bad default", AddColumnInput{Table: "tasks", Column: "x", Type: "TEXT", Default: []string{"a"}}, errors.ErrInvalidRequest},
		{"missing table", AddColumnInput{Table: "ghosts", Column: "x", Type: "TEXT"}, errors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddColumn(context.Background(), store, tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("AddColumn() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestAddColumn_ParameterizedType(t *testing.T) {
	store := setupStore(t)

	out, err := AddColumn(context.Background(), store, AddColumnInput{Table: "tasks", Column: "price", Type: "DECIMAL(10, 2)"})
	if err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	if !out.Applied {
		t.Error("Applied = false")
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{true, "1"},
		{false, "0"},
		{42, "42"},
		{int64(-7), "-7"},
		{float64(1.5), "1.5"},
		{float64(3), "3"},
		{"plain", "'plain'"},
		{"O'Brien", "'O''Brien'"},
	}
	for _, tt := range tests {
		got, err := Literal(tt.in)
		if err != nil {
			t.Errorf("Literal(%v) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Literal(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := Literal(math.Inf(1)); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Literal(Inf) error = %v", err)
	}
}
