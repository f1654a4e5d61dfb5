// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import "strings"

// MaxKeywords is the number of keyword boxes the search form offers.
const MaxKeywords = 2

// NormalizeKeywords trims each keyword, drops blanks and keeps at most
// MaxKeywords entries in their original order.
func NormalizeKeywords(raw []string) []string {
	var out []string
	for _, k := range raw {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}

// Filter returns the rows of t where at least one non-blank keyword is a
// case-insensitive substring of at least one searchable column. Columns
// missing from t are skipped. Null cells never match.
//
// When every keyword is blank, t itself is returned: no filter is applied.
// Matching rows keep their original order and the full column set.
func Filter(t *Table, keywords, columns []string) *Table {
	needles := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}
		needles = append(needles, strings.ToLower(k))
	}
	if len(needles) == 0 {
		return t
	}
	if t == nil {
		return New()
	}

	var idx []int
	for _, c := range columns {
		if i := t.ColumnIndex(c); i >= 0 {
			idx = append(idx, i)
		}
	}

	out := t.Empty()
	for _, row := range t.Rows {
		if rowMatches(row, idx, needles) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func rowMatches(row Row, idx []int, needles []string) bool {
	for _, i := range idx {
		cell := row.At(i)
		if cell.IsNull() {
			continue
		}
		hay := strings.ToLower(cell.String())
		for _, n := range needles {
			if strings.Contains(hay, n) {
				return true
			}
		}
	}
	return false
}
