// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheets

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/reference-search/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a CSV document whose first record is the header.
func ParseCSV(r io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	return fromRecords(records), nil
}

// ParseXLSX reads one worksheet of an XLSX workbook. An empty sheet name
// selects the first sheet.
func ParseXLSX(r io.Reader, sheet string) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return table.New(), nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return fromRecords(rows), nil
}

// fromRecords builds a Table from raw records. The first record is the
// header; blank header cells are named "Unnamed: <i>". Records that are
// entirely blank are dropped.
func fromRecords(records [][]string) *table.Table {
	if len(records) == 0 {
		return table.New()
	}

	header := records[0]
	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = h
	}

	t := table.New(columns...)
	for _, rec := range records[1:] {
		cells := make([]table.Value, len(columns))
		blank := true
		for i := range columns {
			if i < len(rec) {
				cells[i] = table.ParseValue(rec[i])
			}
			if !cells[i].IsNull() {
				blank = false
			}
		}
		if blank {
			continue
		}
		t.Append(cells...)
	}
	return t
}
