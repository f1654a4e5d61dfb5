// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table holds the in-memory Table loaded from a spreadsheet source
// and the keyword filter that selects matching rows.
package table

// Row is one record, positionally aligned with Table.Columns. A row may be
// shorter than the header; missing trailing cells read as Null.
type Row []Value

// At returns the cell at position i, or Null when the row is too short.
func (r Row) At(i int) Value {
	if i < 0 || i >= len(r) {
		return Value{}
	}
	return r[i]
}

// Table is an ordered sequence of rows over named columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New returns an empty table with the given header.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows. A nil table has no rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Get returns the named cell of row r, or Null when the column is absent.
func (t *Table) Get(r Row, name string) Value {
	return r.At(t.ColumnIndex(name))
}

// Append adds a row. Cells beyond the header width are dropped.
func (t *Table) Append(cells ...Value) {
	if len(cells) > len(t.Columns) {
		cells = cells[:len(t.Columns)]
	}
	t.Rows = append(t.Rows, Row(cells))
}

// Head returns a table holding the first n rows. The header is shared with
// the receiver; rows are not copied.
func (t *Table) Head(n int) *Table {
	if t == nil {
		return New()
	}
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Select keeps the columns at the given zero-based positions, in the order
// given. Positions outside the header are skipped, so a source with fewer
// columns than expected yields a narrower table instead of an error.
func (t *Table) Select(indices []int) *Table {
	if t == nil {
		return New()
	}
	var keep []int
	for _, i := range indices {
		if i >= 0 && i < len(t.Columns) {
			keep = append(keep, i)
		}
	}

	out := &Table{Columns: make([]string, len(keep))}
	for j, i := range keep {
		out.Columns[j] = t.Columns[i]
	}
	out.Rows = make([]Row, len(t.Rows))
	for r, row := range t.Rows {
		cells := make(Row, len(keep))
		for j, i := range keep {
			cells[j] = row.At(i)
		}
		out.Rows[r] = cells
	}
	return out
}

// Empty returns a table with the same header and no rows.
func (t *Table) Empty() *Table {
	if t == nil {
		return New()
	}
	return New(t.Columns...)
}
