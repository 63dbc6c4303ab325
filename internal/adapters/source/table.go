// Package source reads the raw input tables from CSV files or SQLite.
package source

import (
	"context"
	"strings"
)

// Logical table names shared by every source.
const (
	GameLogs       = "game_logs"
	TeamStats      = "team_stats"
	PlayerIndex    = "player_index"
	PlayerAdvanced = "player_advanced_stats"
)

// Source loads a named table.
type Source interface {
	// Load returns the table, or an error wrapping ErrTableNotFound.
	Load(ctx context.Context, name string) (*Table, error)
}

// Table is a rectangular set of string cells with a header row.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table. Column names are matched case-insensitively.
func NewTable(name string, columns []string, rows [][]string) *Table {
	t := &Table{Name: name, Columns: columns, Rows: rows}
	t.index = make(map[string]int, len(columns))
	for i, c := range columns {
		key := strings.ToUpper(strings.TrimSpace(c))
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	return t
}

// Index returns the position of column, or -1.
func (t *Table) Index(column string) int {
	if i, ok := t.index[strings.ToUpper(column)]; ok {
		return i
	}
	return -1
}

// Has reports whether the table has column.
func (t *Table) Has(column string) bool { return t.Index(column) >= 0 }

// Cell returns the value at row for column, or "" when either is missing.
func (t *Table) Cell(row int, column string) string {
	i := t.Index(column)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Sink stores a table under its name, replacing any previous contents.
type Sink interface {
	Save(ctx context.Context, t *Table) error
}
