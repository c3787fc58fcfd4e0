// Package table provides the in-memory tabular result shared by all
// connectors: an ordered collection of named columns with row-aligned
// values. It is the common currency of the load operations, so format
// packages never expose reader-specific row types to callers.
package table

import (
	"strconv"

	"github.com/dataforge-io/tabconnect/pkg/errors"
)

// Table is a rectangular, ordered collection of named columns.
// Column order is the order of first appearance; values within a column
// are row-ordered. A Table makes no uniqueness guarantee about column
// names beyond what the producing parser enforced.
type Table struct {
	columns []string
	index   map[string]int
	data    [][]interface{}
	rows    int
}

// New creates an empty table with the given columns. A repeated column
// name collapses onto the earlier position, last writer wins.
func New(columns ...string) *Table {
	t := &Table{
		index: make(map[string]int, len(columns)),
	}
	for _, name := range columns {
		t.ensureColumn(name)
	}
	return t
}

func (t *Table) ensureColumn(name string) int {
	if idx, ok := t.index[name]; ok {
		return idx
	}
	idx := len(t.columns)
	t.columns = append(t.columns, name)
	t.index[name] = idx

	col := make([]interface{}, t.rows)
	t.data = append(t.data, col)
	return idx
}

// UniqueColumns disambiguates repeated names by suffixing the
// occurrence count ("a", "a.1", "a.2"), preserving positions. Parsers
// use it on header rows so repeated headers keep their own column
// instead of collapsing.
func UniqueColumns(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		n := seen[name]
		seen[name]++
		if n == 0 {
			out[i] = name
			continue
		}
		// The suffixed name may itself collide with a later literal
		// header, so claim it in seen too.
		for {
			candidate := name + "." + strconv.Itoa(n)
			if seen[candidate] == 0 {
				seen[candidate]++
				out[i] = candidate
				break
			}
			n++
		}
	}
	return out
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.rows
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.columns)
}

// AppendRow appends one row of values. The row width must equal the
// current column count.
func (t *Table) AppendRow(values ...interface{}) error {
	if len(values) != len(t.columns) {
		return errors.Newf(errors.ErrorTypeData,
			"row width %d does not match column count %d", len(values), len(t.columns))
	}
	for i, v := range values {
		t.data[i] = append(t.data[i], v)
	}
	t.rows++
	return nil
}

// AppendRecord appends one row given as a column-name to value map.
// Unknown names grow the table with a new column, nil-filled for
// earlier rows; absent names yield nil in this row.
func (t *Table) AppendRecord(record map[string]interface{}, order []string) {
	for _, name := range order {
		t.ensureColumn(name)
	}
	for i := range t.data {
		t.data[i] = append(t.data[i], record[t.columns[i]])
	}
	t.rows++
}

// Column returns the values of the named column in row order.
func (t *Table) Column(name string) ([]interface{}, bool) {
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]interface{}, t.rows)
	copy(out, t.data[idx])
	return out, true
}

// Value returns the value at the given row in the named column.
func (t *Table) Value(row int, name string) (interface{}, bool) {
	idx, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return nil, false
	}
	return t.data[idx][row], true
}

// Row returns one row of values in column order.
func (t *Table) Row(row int) []interface{} {
	if row < 0 || row >= t.rows {
		return nil
	}
	out := make([]interface{}, len(t.columns))
	for i := range t.data {
		out[i] = t.data[i][row]
	}
	return out
}

// AppendTable appends all rows of other to t, unioning column sets in
// first-seen order. Columns missing on either side are nil-filled. Rows
// are re-indexed sequentially; no source tag is retained.
func (t *Table) AppendTable(other *Table) {
	for _, name := range other.columns {
		t.ensureColumn(name)
	}
	for i, name := range t.columns {
		if idx, ok := other.index[name]; ok {
			t.data[i] = append(t.data[i], other.data[idx]...)
		} else {
			for n := 0; n < other.rows; n++ {
				t.data[i] = append(t.data[i], nil)
			}
		}
	}
	t.rows += other.rows
}

// Concat concatenates tables in order into a single new table.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		out.AppendTable(t)
	}
	return out
}

// DropColumns returns a new table without the columns matched by pred.
// Row content of the remaining columns is preserved.
func (t *Table) DropColumns(pred func(name string) bool) *Table {
	out := New()
	for i, name := range t.columns {
		if pred(name) {
			continue
		}
		idx := out.ensureColumn(name)
		out.data[idx] = append(out.data[idx][:0], t.data[i]...)
	}
	out.rows = t.rows
	if out.NumCols() == 0 {
		// Rows without columns are meaningless; an all-dropped table is empty.
		out.rows = 0
	}
	return out
}

// Equal reports whether two tables have identical column order, row
// count, and values. Values are compared with ==, so it is intended for
// scalar cell types.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.columns) != len(other.columns) || t.rows != other.rows {
		return false
	}
	for i, name := range t.columns {
		if other.columns[i] != name {
			return false
		}
		for r := 0; r < t.rows; r++ {
			if t.data[i][r] != other.data[i][r] {
				return false
			}
		}
	}
	return true
}
