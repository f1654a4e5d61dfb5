// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.yaml.in/yaml/v3"
)

// maxCellWidth bounds text cells in FormatTable output.
const maxCellWidth = 60

// FormatTable writes an outcome as human-readable tables to w, one per
// section. Link cells print their URL.
func FormatTable(out Outcome, w io.Writer) {
	if out.Message != "" {
		fmt.Fprintln(w, out.Message)
	}
	for i, sec := range out.Sections {
		if i > 0 || out.Message != "" {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, sec.Heading)
		fmt.Fprintln(w, strings.Repeat("=", len(sec.Heading)))
		if sec.Message != "" {
			fmt.Fprintln(w, sec.Message)
		}
		if sec.Display == nil || len(sec.Display.Columns) == 0 {
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(sec.Display.Columns, "\t"))
		dashes := make([]string, len(sec.Display.Columns))
		for j, c := range sec.Display.Columns {
			dashes[j] = strings.Repeat("-", min(len(c), maxCellWidth))
		}
		fmt.Fprintln(tw, strings.Join(dashes, "\t"))
		for _, row := range sec.Display.Rows {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = truncate(flatten(c.String()), maxCellWidth)
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		tw.Flush()
	}
}

type sectionDoc struct {
	Kind    string           `json:"kind" yaml:"kind"`
	Heading string           `json:"heading" yaml:"heading"`
	Status  Status           `json:"status" yaml:"status"`
	Message string           `json:"message,omitempty" yaml:"message,omitempty"`
	Columns []string         `json:"columns" yaml:"columns"`
	Rows    []map[string]any `json:"rows" yaml:"rows"`
}

type outcomeDoc struct {
	Status   Status       `json:"status" yaml:"status"`
	Message  string       `json:"message,omitempty" yaml:"message,omitempty"`
	Keywords []string     `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Sections []sectionDoc `json:"sections" yaml:"sections"`
}

// FormatJSON writes an outcome as indented JSON to w. Rows are keyed by
// display column; link cells carry the URL or null.
func FormatJSON(out Outcome, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document(out))
}

// FormatYAML writes an outcome as YAML to w, with the same shape as FormatJSON.
func FormatYAML(out Outcome, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document(out)); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func document(out Outcome) outcomeDoc {
	doc := outcomeDoc{
		Status:   out.Status,
		Message:  out.Message,
		Keywords: out.Keywords,
		Sections: []sectionDoc{},
	}
	for _, sec := range out.Sections {
		sd := sectionDoc{
			Kind:    sec.Kind.Name,
			Heading: sec.Heading,
			Status:  sec.Status,
			Message: sec.Message,
			Columns: []string{},
			Rows:    []map[string]any{},
		}
		if sec.Display != nil {
			sd.Columns = sec.Display.Columns
			sd.Rows = sec.Display.Records()
		}
		doc.Sections = append(doc.Sections, sd)
	}
	return doc
}

// flatten keeps multi-line cells on one table row.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
