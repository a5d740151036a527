package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is an ordered set of named columns with nullable cells.
// A nil cell is a null value.
type Table struct {
	Columns []string
	Rows    [][]any
}

// New creates an empty table with the given columns
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of a column, or -1 if absent.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(cells ...any) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.Columns))
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// Record returns row i as a column-name keyed view.
func (t *Table) Record(i int) Record {
	return Record{columns: t.Columns, cells: t.Rows[i]}
}

// Get returns the cell of row i in the named column.
func (t *Table) Get(i int, column string) (any, bool) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, false
	}
	return t.Rows[i][idx], true
}

// Record is a read-only view of one row
type Record struct {
	columns []string
	cells   []any
}

// Value returns the cell for a column. ok is false when the column is absent.
func (r Record) Value(column string) (v any, ok bool) {
	for i, c := range r.columns {
		if c == column {
			return r.cells[i], true
		}
	}
	return nil, false
}

// IsNull reports whether the column is absent or holds a null/blank value.
func (r Record) IsNull(column string) bool {
	v, ok := r.Value(column)
	if !ok || v == nil {
		return true
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Format renders a cell the way it is written to CSV. Nulls become "".
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// rowKey builds a key that distinguishes null from an empty string.
func rowKey(cells []any) string {
	var b strings.Builder
	for _, c := range cells {
		if c == nil {
			b.WriteString("\x00N")
		} else {
			b.WriteString("\x00V")
			b.WriteString(Format(c))
		}
		b.WriteByte('\x1f')
	}
	return b.String()
}
