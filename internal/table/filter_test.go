// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refColumns = []string{"Title", "People/identity focus1", "People/identity focus2",
	"Outcome", "Practices", "Description"}

func sampleRefs() *Table {
	t := New("Title", "Description", "Outcome", "Link")
	t.Append(TextValue("Career Paths"), TextValue("mentoring women"), Value{}, TextValue("http://a.example"))
	t.Append(TextValue("Guidance at School"), TextValue("Teachers as advisers"), TextValue("Mentoring uptake"), Value{})
	t.Append(TextValue("Apprenticeships"), Value{}, NumberValue(2019), TextValue("not a link"))
	t.Append(TextValue("Graduate Outcomes"), TextValue("destinations survey"), TextValue("employment"), Value{})
	return t
}

func TestFilterBlankKeywordsIsIdentity(t *testing.T) {
	tbl := sampleRefs()
	for _, kws := range [][]string{nil, {}, {""}, {"", ""}, {"  ", "\t"}} {
		got := Filter(tbl, kws, refColumns)
		assert.Same(t, tbl, got, "keywords %q", kws)
	}
}

func TestFilterSingleKeyword(t *testing.T) {
	tbl := New("Title", "Description")
	tbl.Append(TextValue("Career Paths"), TextValue("mentoring women"))

	got := Filter(tbl, []string{"mentoring"}, refColumns)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, tbl.Columns, got.Columns)

	got = Filter(tbl, []string{"xyz123"}, refColumns)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, tbl.Columns, got.Columns)
}

func TestFilterCaseInsensitive(t *testing.T) {
	got := Filter(sampleRefs(), []string{"MENTORING"}, refColumns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "Career Paths", got.Rows[0].At(0).String())
	assert.Equal(t, "Guidance at School", got.Rows[1].At(0).String())
}

func TestFilterOrAcrossKeywordsAndColumns(t *testing.T) {
	got := Filter(sampleRefs(), []string{"survey", "apprentice"}, refColumns)
	require.Equal(t, 2, got.Len())
	// Original order is kept even though the second keyword matches the earlier row.
	assert.Equal(t, "Apprenticeships", got.Rows[0].At(0).String())
	assert.Equal(t, "Graduate Outcomes", got.Rows[1].At(0).String())
}

func TestFilterSkipsMissingAndUnsearchedColumns(t *testing.T) {
	tbl := sampleRefs()

	// "Link" is not a searchable column.
	got := Filter(tbl, []string{"a.example"}, refColumns)
	assert.Equal(t, 0, got.Len())

	// None of the searchable columns exist.
	got = Filter(tbl, []string{"career"}, []string{"Nope", "Missing"})
	assert.Equal(t, 0, got.Len())
}

func TestFilterNumbersMatchAsText(t *testing.T) {
	got := Filter(sampleRefs(), []string{"2019"}, refColumns)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "Apprenticeships", got.Rows[0].At(0).String())
}

func TestFilterNilAndEmptyTables(t *testing.T) {
	assert.Equal(t, 0, Filter(nil, []string{"x"}, refColumns).Len())
	assert.Equal(t, 0, Filter(New("Title"), []string{"x"}, refColumns).Len())
	assert.Nil(t, Filter(nil, nil, refColumns))
}

func TestFilterShortRows(t *testing.T) {
	tbl := &Table{
		Columns: []string{"Title", "Description"},
		Rows:    []Row{{TextValue("only title")}},
	}
	assert.Equal(t, 0, Filter(tbl, []string{"desc"}, refColumns).Len())
	assert.Equal(t, 1, Filter(tbl, []string{"only"}, refColumns).Len())
}

// Every kept row matches and every matching row is kept, in order.
func TestFilterSoundAndComplete(t *testing.T) {
	tbl := sampleRefs()
	queries := [][]string{{"men"}, {"o"}, {"school", "grad"}, {"", "ion"}, {"zzz"}}

	for _, kws := range queries {
		got := Filter(tbl, kws, refColumns)
		var want []Row
		for _, row := range tbl.Rows {
			if naiveMatch(tbl, row, kws, refColumns) {
				want = append(want, row)
			}
		}
		assert.Equal(t, len(want), got.Len(), "keywords %q", kws)
		for i := range want {
			assert.Equal(t, want[i], got.Rows[i], "keywords %q row %d", kws, i)
		}
	}
}

func naiveMatch(t *Table, row Row, kws, cols []string) bool {
	for _, k := range kws {
		if strings.TrimSpace(k) == "" {
			continue
		}
		for _, c := range cols {
			if !t.HasColumn(c) {
				continue
			}
			if strings.Contains(strings.ToLower(t.Get(row, c).String()), strings.ToLower(k)) {
				return true
			}
		}
	}
	return false
}

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"blanks", []string{"", "  "}, nil},
		{"trim", []string{" careers "}, []string{"careers"}},
		{"second only", []string{"", "women"}, []string{"women"}},
		{"capped", []string{"a", "b", "c"}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKeywords(tt.in))
		})
	}
}

func TestFilterMatchesSourcedDigits(t *testing.T) {
	tbl := New("Title", "ISBN")
	tbl.Append(TextValue("A"), ParseValue("0198765432"))
	tbl.Append(TextValue("B"), ParseValue("019876543X"))

	got := Filter(tbl, []string{"0198765432"}, []string{"ISBN"})
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "A", got.Rows[0].At(0).String())

	got = Filter(tbl, []string{"01987"}, []string{"ISBN"})
	assert.Equal(t, 2, got.Len())
}
