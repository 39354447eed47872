package schema

import (
	"context"
	"sort"
	"strings"
)

// ColumnChange records a column present in both descriptors whose
// attributes differ.
type ColumnChange struct {
	Name   string `json:"name"`
	Before Column `json:"before"`
	After  Column `json:"after"`
}

// Diff is the column-level difference from one descriptor to another.
type Diff struct {
	Table    string         `json:"table,omitempty"`
	Added    []string       `json:"added"`
	Removed  []string       `json:"removed"`
	Modified []string       `json:"modified"`
	Changes  []ColumnChange `json:"changes,omitempty"`
}

// Empty reports whether the two descriptors matched.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// Compare diffs a against b, keyed by column name. Added columns exist only
// in b, removed columns only in a. Column order is ignored.
func Compare(a, b *Descriptor) *Diff {
	d := &Diff{
		Added:    []string{},
		Removed:  []string{},
		Modified: []string{},
	}
	if a != nil && b != nil && a.Table == b.Table {
		d.Table = a.Table
	}

	before := index(a)
	after := index(b)

	for name, col := range after {
		old, ok := before[name]
		if !ok {
			d.Added = append(d.Added, name)
			continue
		}
		if !sameColumn(old, col) {
			d.Modified = append(d.Modified, name)
			d.Changes = append(d.Changes, ColumnChange{Name: name, Before: old, After: col})
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			d.Removed = append(d.Removed, name)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Modified)
	sort.Slice(d.Changes, func(i, j int) bool { return d.Changes[i].Name < d.Changes[j].Name })
	return d
}

// CompareFiles inspects table in both stores and diffs them.
func CompareFiles(ctx context.Context, a, b Querier, table string) (*Diff, error) {
	left, err := GetSchema(ctx, a, table)
	if err != nil {
		return nil, err
	}
	right, err := GetSchema(ctx, b, table)
	if err != nil {
		return nil, err
	}
	return Compare(left, right), nil
}

func index(d *Descriptor) map[string]Column {
	m := make(map[string]Column)
	if d == nil {
		return m
	}
	for _, c := range d.Columns {
		m[c.Name] = c
	}
	return m
}

// sameColumn compares everything but position. Declared types compare
// case-insensitively since SQLite does.
func sameColumn(a, b Column) bool {
	if !strings.EqualFold(strings.TrimSpace(a.Type), strings.TrimSpace(b.Type)) {
		return false
	}
	if a.NotNull != b.NotNull || a.PrimaryKey != b.PrimaryKey {
		return false
	}
	switch {
	case a.Default == nil && b.Default == nil:
		return true
	case a.Default == nil || b.Default == nil:
		return false
	default:
		return *a.Default == *b.Default
	}
}
