package schema

import (
	"context"
	"testing"

	"github.com/hpungsan/taskbox/internal/db"
	"github.com/hpungsan/taskbox/internal/errors"
)

func setupStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	return store
}

func TestGetSchema_Tasks(t *testing.T) {
	store := setupStore(t)

	desc, err := GetSchema(context.Background(), store, "tasks")
	if err != nil {
		t.Fatalf("GetSchema() error = %v", err)
	}
	if desc.Table != "tasks" {
		t.Errorf("Table = %q", desc.Table)
	}

	want := []Column{
		{Position: 0, Name: "id", Type: "INTEGER", PrimaryKey: true},
		{Position: 1, Name: "task", Type: "TEXT"},
	}
	if len(desc.Columns) != len(want) {
		t.Fatalf("len(Columns) = %d, want %d", len(desc.Columns), len(want))
	}
	for i, w := range want {
		got := desc.Columns[i]
		if got.Position != w.Position || got.Name != w.Name || got.Type != w.Type ||
			got.NotNull != w.NotNull || got.PrimaryKey != w.PrimaryKey || got.Default != nil {
			t.Errorf("Columns[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestGetSchema_Default(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.RunQuery(ctx, `CREATE TABLE notes (body TEXT NOT NULL DEFAULT 'x', n INT DEFAULT 3)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	desc, err := GetSchema(ctx, store, "notes")
	if err != nil {
		t.Fatalf("GetSchema() error = %v", err)
	}
	body := desc.Column("body")
	if body == nil || !body.NotNull || body.Default == nil || *body.Default != "'x'" {
		t.Errorf("body = %+v", body)
	}
	n := desc.Column("n")
	if n == nil || n.Default == nil || *n.Default != "3" {
		t.Errorf("n = %+v", n)
	}
}

func TestGetSchema_MissingTable(t *testing.T) {
	store := setupStore(t)

	_, err := GetSchema(context.Background(), store, "nope")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("GetSchema() error = %v, want NOT_FOUND", err)
	}
}

func TestGetSchema_CaseInsensitiveName(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.RunQuery(ctx, `CREATE TABLE Notes (body TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		lookup string
		want   string
	}{
		{"TASKS", "tasks"},
		{"Tasks", "tasks"},
		{"notes", "Notes"},
		{"NOTES", "Notes"},
	}

	for _, tt := range tests {
		t.Run(tt.lookup, func(t *testing.T) {
			desc, err := GetSchema(ctx, store, tt.lookup)
			if err != nil {
				t.Fatalf("GetSchema(%q) error = %v", tt.lookup, err)
			}
			if desc.Table != tt.want {
				t.Errorf("Table = %q, want stored name %q", desc.Table, tt.want)
			}
			if len(desc.Columns) == 0 {
				t.Errorf("Columns is empty")
			}

			exists, err := TableExists(ctx, store, tt.lookup)
			if err != nil || !exists {
				t.Errorf("TableExists(%q) = %v, %v", tt.lookup, exists, err)
			}
		})
	}
}

func TestGetSchema_EmptyName(t *testing.T) {
	store := setupStore(t)

	_, err := GetSchema(context.Background(), store, "")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("GetSchema() error = %v, want INVALID_REQUEST", err)
	}
}

func TestListTables(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, stmt := range []string{`CREATE TABLE alpha (x TEXT)`, `CREATE TABLE sqliteusers (x TEXT)`} {
		if _, err := store.RunQuery(ctx, stmt); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tables, err := ListTables(ctx, store)
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	// AUTOINCREMENT creates sqlite_sequence, which must be hidden.
	// Only the sqlite_ prefix is reserved.
	want := []string{"alpha", "sqliteusers", "tasks"}
	if len(tables) != len(want) {
		t.Fatalf("ListTables() = %v, want %v", tables, want)
	}
	for i := range want {
		if tables[i] != want[i] {
			t.Errorf("tables[%d] = %q, want %q", i, tables[i], want[i])
		}
	}
}
