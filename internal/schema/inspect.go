// Package schema describes table layouts and compares them.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/taskbox/internal/db"
	"github.com/hpungsan/taskbox/internal/errors"
)

// Querier runs raw SQL against a store. *db.Store satisfies it.
type Querier interface {
	RunQuery(ctx context.Context, query string, params ...any) (*db.QueryResult, error)
}

// Column is one row of PRAGMA table_info.
type Column struct {
	Position   int     `json:"position"`
	Name       string  `json:"name"`
	Type       string  `json:"declared_type"`
	NotNull    bool    `json:"not_null"`
	Default    *string `json:"default,omitempty"`
	PrimaryKey bool    `json:"is_primary_key"`
}

// Descriptor is the column layout of a single table, ordered by position.
type Descriptor struct {
	Table   string   `json:"table"`
	Columns []Column `json:"columns"`
}

// Column returns the named column, or nil. Names match case-insensitively.
func (d *Descriptor) Column(name string) *Column {
	for i := range d.Columns {
		if strings.EqualFold(d.Columns[i].Name, name) {
			return &d.Columns[i]
		}
	}
	return nil
}

// Names returns column names in position order.
func (d *Descriptor) Names() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// GetSchema describes table. Returns NOT_FOUND if the table does not exist.
func GetSchema(ctx context.Context, q Querier, table string) (*Descriptor, error) {
	if table == "" {
		return nil, errors.NewInvalidRequest("table is required")
	}

	stored, err := storedName(ctx, q, table)
	if err != nil {
		return nil, err
	}
	if stored == "" {
		return nil, errors.NewNotFound("table", table)
	}

	res, err := q.RunQuery(ctx,
		`SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, stored)
	if err != nil {
		return nil, err
	}

	desc := &Descriptor{Table: stored, Columns: make([]Column, 0, len(res.Rows))}
	for _, row := range res.Rows {
		col := Column{
			Position:   int(asInt64(row["cid"])),
			Name:       asString(row["name"]),
			Type:       asString(row["type"]),
			NotNull:    asInt64(row["notnull"]) != 0,
			PrimaryKey: asInt64(row["pk"]) != 0,
		}
		if v := row["dflt_value"]; v != nil {
			s := asString(v)
			col.Default = &s
		}
		desc.Columns = append(desc.Columns, col)
	}
	return desc, nil
}

// ListTables returns user tables sorted by name. SQLite internals are excluded.
func ListTables(ctx context.Context, q Querier) ([]string, error) {
	res, err := q.RunQuery(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		tables = append(tables, asString(row["name"]))
	}
	return tables, nil
}

// TableExists reports whether a table named table is present.
// Table names match case-insensitively, as they do in SQL.
func TableExists(ctx context.Context, q Querier, table string) (bool, error) {
	stored, err := storedName(ctx, q, table)
	if err != nil {
		return false, err
	}
	return stored != "", nil
}

// storedName returns the table's name as declared, or "" if there is none.
func storedName(ctx context.Context, q Querier, table string) (string, error) {
	res, err := q.RunQuery(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE LIMIT 1`, table)
	if err != nil {
		return "", err
	}
	if len(res.Rows) == 0 {
		return "", nil
	}
	return asString(res.Rows[0]["name"]), nil
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
