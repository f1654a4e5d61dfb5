// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import "encoding/json"

// Cell is one display cell: plain text, or a link produced by ToLink.
type Cell struct {
	Text   string
	Link   Link
	IsLink bool
}

// String returns the cell text, or the link URL for link cells.
func (c Cell) String() string {
	if c.IsLink {
		return c.Link.String()
	}
	return c.Text
}

// MarshalJSON encodes text cells as strings and link cells as
// {"label","url"} objects, or null when the link is empty.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.IsLink {
		return json.Marshal(c.Text)
	}
	if c.Link.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(c.Link)
}

// DisplayRow is one projected row, aligned with Display.Columns.
type DisplayRow []Cell

// Display is a display-ready table.
type Display struct {
	Columns []string `json:"columns"`
	// LinkColumn is the position of the link column, or -1 when the source
	// had no resolvable link column.
	LinkColumn int          `json:"-"`
	Rows       []DisplayRow `json:"rows"`
}

// Len returns the number of rows.
func (d *Display) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Records returns the rows as maps keyed by column name, for JSON
// and YAML output.
func (d *Display) Records() []map[string]any {
	out := make([]map[string]any, len(d.Rows))
	for i, row := range d.Rows {
		rec := make(map[string]any, len(d.Columns))
		for j, c := range d.Columns {
			if j >= len(row) {
				rec[c] = nil
				continue
			}
			cell := row[j]
			switch {
			case cell.IsLink && cell.Link.IsEmpty():
				rec[c] = nil
			case cell.IsLink:
				rec[c] = cell.Link.URL
			default:
				rec[c] = cell.Text
			}
		}
		out[i] = rec
	}
	return out
}
