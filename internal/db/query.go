package db

import (
	"context"
	"database/sql"
	"math"
	"strconv"
	"strings"

	"github.com/hpungsan/taskbox/internal/errors"
)

// QueryResult is the outcome of RunQuery.
// Row-returning statements fill Columns/Rows; other statements fill
// RowsAffected/LastInsertID.
type QueryResult struct {
	IsQuery      bool             `json:"is_query"`
	Columns      []string         `json:"columns,omitempty"`
	Rows         []map[string]any `json:"rows,omitempty"`
	RowCount     int              `json:"row_count"`
	RowsAffected int64            `json:"rows_affected"`
	LastInsertID int64            `json:"last_insert_id,omitempty"`
}

// rowKeywords are leading keywords of statements that return rows.
var rowKeywords = map[string]bool{
	"SELECT":  true,
	"PRAGMA":  true,
	"WITH":    true,
	"EXPLAIN": true,
	"VALUES":  true,
}

// RunQuery executes an arbitrary statement with bound parameters.
// The caller is trusted; the only injection defense is parameter binding.
func (s *Store) RunQuery(ctx context.Context, query string, params ...any) (*QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	var out *QueryResult
	err := s.withDB(ctx, func(database *sql.DB) error {
		var err error
		if returnsRows(query) {
			out, err = queryRows(ctx, database, query, params)
		} else {
			out, err = execStatement(ctx, database, query, params)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// returnsRows reports whether a statement produces a result set.
func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimLeft(fields[0], "("))
	if rowKeywords[first] {
		return true
	}
	for _, f := range fields[1:] {
		if strings.EqualFold(strings.TrimRight(f, ";"), "RETURNING") {
			return true
		}
	}
	return false
}

func queryRows(ctx context.Context, database *sql.DB, query string, params []any) (*QueryResult, error) {
	rows, err := database.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	result := &QueryResult{
		IsQuery: true,
		Columns: columns,
		Rows:    make([]map[string]any, 0),
	}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.NewInternal(err)
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			record[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

func execStatement(ctx context.Context, database *sql.DB, query string, params []any) (*QueryResult, error) {
	res, err := database.ExecContext(ctx, query, params...)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	// LastInsertId is only meaningful after INSERT; SQLite reports the
	// connection's last rowid otherwise, which is 0 on a fresh connection.
	lastID, _ := res.LastInsertId()

	return &QueryResult{
		RowsAffected: affected,
		LastInsertID: lastID,
	}, nil
}

// normalizeValue converts driver values into JSON-friendly forms.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// ParseValue converts a textual value to the closest SQL type:
// integers, finite floats, true/false and null; anything else stays a string.
func ParseValue(s string) any {
	switch strings.ToLower(s) {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}
