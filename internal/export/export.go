// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serialises filtered tables for download. Exports always
// carry the full, unprojected column set.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/reference-search/internal/table"
)

// Format is a download format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case CSV, XLSX:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format %q: use csv or xlsx", s)
	}
}

// Write serialises t in the given format. sheet names the worksheet for XLSX.
func Write(w io.Writer, f Format, sheet string, t *table.Table) error {
	if f == XLSX {
		return WriteXLSX(w, sheet, t)
	}
	return WriteCSV(w, t)
}

// WriteCSV writes a header record followed by one record per row. Null
// cells are written as empty fields. A table without rows produces a
// header-only document.
func WriteCSV(w io.Writer, t *table.Table) error {
	if t == nil {
		t = table.New()
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range t.Columns {
			record[i] = row.At(i).String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes t as a single-sheet workbook with a bold header row.
// Numbers are stored as numeric cells unless the float would change their
// sourced text, in which case the text is kept.
func WriteXLSX(w io.Writer, sheet string, t *table.Table) error {
	if t == nil {
		t = table.New()
	}
	if sheet == "" {
		sheet = "Results"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if len(t.Columns) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("creating header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("styling header: %w", err)
		}
	}

	for r, row := range t.Rows {
		cells := make([]any, len(t.Columns))
		for i := range t.Columns {
			v := row.At(i)
			switch v.Kind {
			case table.Number:
				if v.Lossless() {
					cells[i] = v.Num
				} else {
					cells[i] = v.Str
				}
			case table.Text:
				cells[i] = v.Str
			default:
				cells[i] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", r+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
