// Package migrate applies additive schema changes to a live store.
package migrate

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hpungsan/taskbox/internal/errors"
	"github.com/hpungsan/taskbox/internal/schema"
)

var (
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	// Declared types such as "INTEGER", "VARCHAR(255)", "DOUBLE PRECISION",
	// "DECIMAL(10, 2)".
	typeRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ ]*(\(\s*\d+\s*(,\s*\d+\s*)?\))?$`)
)

// AddColumnInput contains parameters for AddColumn.
type AddColumnInput struct {
	Table   string `json:"table"`
	Column  string `json:"column"`
	Type    string `json:"type"`
	Default any    `json:"default,omitempty"` // nil, bool, number, or string
}

// AddColumnOutput reports whether DDL was executed.
type AddColumnOutput struct {
	Applied   bool   `json:"applied"`
	Table     string `json:"table"`
	Column    string `json:"column"`
	Statement string `json:"statement,omitempty"`
}

// AddColumn adds a column to an existing table. A column that already exists
// is left alone and reported with Applied=false.
//
// The existence check and the ALTER are separate statements; a concurrent
// writer adding the same column surfaces as "duplicate column name", which
// is treated the same as the column already existing.
func AddColumn(ctx context.Context, q schema.Querier, input AddColumnInput) (*AddColumnOutput, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	desc, err := schema.GetSchema(ctx, q, input.Table)
	if err != nil {
		return nil, err
	}
	input.Table = desc.Table

	out := &AddColumnOutput{Table: input.Table, Column: input.Column}
	if col := desc.Column(input.Column); col != nil {
		out.Column = col.Name
		return out, nil
	}

	stmt, err := buildStatement(input)
	if err != nil {
		return nil, err
	}

	if _, err := q.RunQuery(ctx, stmt); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate column name") {
			return out, nil
		}
		return nil, err
	}

	out.Applied = true
	out.Statement = stmt
	return out, nil
}

func validate(input AddColumnInput) error {
	if !identRe.MatchString(input.Table) {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid table name: %q", input.Table))
	}
	if !identRe.MatchString(input.Column) {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid column name: %q", input.Column))
	}
	if !typeRe.MatchString(strings.TrimSpace(input.Type)) {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid column type: %q", input.Type))
	}
	return nil
}

// buildStatement renders the ALTER TABLE. DDL cannot take bound parameters,
// so identifiers are validated and the default is rendered as a literal.
func buildStatement(input AddColumnInput) (string, error) {
	stmt := fmt.Sprintf(`ALTER TABLE "%s" ADD COLUMN "%s" %s`,
		input.Table, input.Column, strings.TrimSpace(input.Type))
	if input.Default == nil {
		return stmt, nil
	}
	lit, err := Literal(input.Default)
	if err != nil {
		return "", err
	}
	return stmt + " DEFAULT " + lit, nil
}

// Literal renders v as a SQL literal.
func Literal(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", errors.NewInvalidRequest("default must be a finite number")
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'", nil
	default:
		return "", errors.NewInvalidRequest(fmt.Sprintf("unsupported default type %T", v))
	}
}
