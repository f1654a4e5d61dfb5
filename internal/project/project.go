// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package project reshapes filtered tables into display tables. Each table
// kind has a fixed Policy agreed with the data source: either pass every
// column through and turn one column into links, or pick a fixed set of
// output fields by explicit column reference.
package project

import (
	"fmt"
	"strings"

	"github.com/pdiddy/reference-search/internal/table"
	"github.com/pdiddy/reference-search/pkg/types"
)

// Mode selects how a Policy builds display columns.
type Mode string

const (
	// ModePassthrough keeps all source columns and rewrites the link column in place.
	ModePassthrough Mode = "passthrough"
	// ModeFixed emits exactly the configured fields, in order.
	ModeFixed Mode = "fixed"
)

// FieldRef addresses a source column either by zero-based position in the
// table as loaded or by name. When both are set the name wins.
type FieldRef struct {
	Position int
	Name     string
}

// At returns a positional reference.
func At(pos int) FieldRef { return FieldRef{Position: pos} }

// Named returns a name-based reference.
func Named(name string) FieldRef { return FieldRef{Position: -1, Name: name} }

// String describes the reference for diagnostics.
func (r FieldRef) String() string {
	if r.Name != "" {
		return fmt.Sprintf("column %q", r.Name)
	}
	return fmt.Sprintf("position %d", r.Position)
}

// resolve returns the column index the reference points at in columns.
func (r FieldRef) resolve(columns []string) (int, bool) {
	if r.Name != "" {
		for i, c := range columns {
			if c == r.Name {
				return i, true
			}
		}
		return -1, false
	}
	if r.Position >= 0 && r.Position < len(columns) {
		return r.Position, true
	}
	return -1, false
}

// Field is one output column of a fixed policy.
type Field struct {
	Name   string
	Source FieldRef
	Link   bool
}

// Policy is the projection for one table kind.
type Policy struct {
	Mode   Mode
	Link   FieldRef // passthrough only
	Fields []Field  // fixed only
}

// Passthrough returns a policy that keeps every column and converts the
// referenced column to links.
func Passthrough(link FieldRef) Policy {
	return Policy{Mode: ModePassthrough, Link: link}
}

// Fixed returns a policy that emits exactly fields.
func Fixed(fields ...Field) Policy {
	return Policy{Mode: ModeFixed, Fields: fields}
}

// FromConfig builds a Policy from its configuration form.
func FromConfig(cfg types.ProjectionConfig) (Policy, error) {
	switch Mode(cfg.Mode) {
	case ModePassthrough, "":
		if cfg.Link == nil {
			return Policy{}, fmt.Errorf("passthrough projection requires a link column")
		}
		return Passthrough(refFromConfig(*cfg.Link)), nil
	case ModeFixed:
		if len(cfg.Fields) == 0 {
			return Policy{}, fmt.Errorf("fixed projection requires at least one field")
		}
		fields := make([]Field, len(cfg.Fields))
		for i, f := range cfg.Fields {
			if f.Name == "" {
				return Policy{}, fmt.Errorf("field %d: name is required", i)
			}
			fields[i] = Field{Name: f.Name, Source: refFromConfig(f), Link: f.Link}
		}
		return Fixed(fields...), nil
	default:
		return Policy{}, fmt.Errorf("unknown projection mode %q: use passthrough or fixed", cfg.Mode)
	}
}

func refFromConfig(f types.FieldConfig) FieldRef {
	if f.Column != "" {
		return Named(f.Column)
	}
	if f.Position == nil {
		return FieldRef{Position: -1}
	}
	return At(*f.Position)
}

// Columns returns the display header for a source table with the given
// columns. It is also the header of an empty result.
func (p Policy) Columns(source []string) []string {
	if p.Mode == ModeFixed {
		names := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			names[i] = f.Name
		}
		return names
	}
	return append([]string(nil), source...)
}

// SchemaMismatchError reports policy references that do not resolve against
// a source header.
type SchemaMismatchError struct {
	Columns    []string
	Unresolved []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: %s not found in source columns [%s]",
		strings.Join(e.Unresolved, ", "), strings.Join(e.Columns, ", "))
}

// Validate checks every reference of the policy against columns and returns
// a *SchemaMismatchError listing the ones that do not resolve.
func (p Policy) Validate(columns []string) error {
	var unresolved []string
	switch p.Mode {
	case ModeFixed:
		for _, f := range p.Fields {
			if _, ok := f.Source.resolve(columns); !ok {
				unresolved = append(unresolved, fmt.Sprintf("%s (%s)", f.Name, f.Source))
			}
		}
	default:
		if _, ok := p.Link.resolve(columns); !ok {
			unresolved = append(unresolved, fmt.Sprintf("link (%s)", p.Link))
		}
	}
	if len(unresolved) > 0 {
		return &SchemaMismatchError{Columns: append([]string(nil), columns...), Unresolved: unresolved}
	}
	return nil
}

// Project applies the policy to every row of t. It never fails: references
// that do not resolve produce empty cells.
func (p Policy) Project(t *table.Table) *Display {
	if t == nil {
		t = table.New()
	}
	d := &Display{Columns: p.Columns(t.Columns), LinkColumn: -1, Rows: make([]DisplayRow, 0, len(t.Rows))}

	if p.Mode == ModeFixed {
		idx := make([]int, len(p.Fields))
		for i, f := range p.Fields {
			idx[i], _ = f.Source.resolve(t.Columns)
			if f.Link && d.LinkColumn < 0 {
				d.LinkColumn = i
			}
		}
		for _, row := range t.Rows {
			cells := make(DisplayRow, len(p.Fields))
			for i, f := range p.Fields {
				cells[i] = makeCell(row.At(idx[i]), f.Link)
			}
			d.Rows = append(d.Rows, cells)
		}
		return d
	}

	link, _ := p.Link.resolve(t.Columns)
	d.LinkColumn = link
	for _, row := range t.Rows {
		cells := make(DisplayRow, len(t.Columns))
		for i := range t.Columns {
			cells[i] = makeCell(row.At(i), i == link)
		}
		d.Rows = append(d.Rows, cells)
	}
	return d
}

func makeCell(v table.Value, link bool) Cell {
	if link {
		return Cell{IsLink: true, Link: ToLink(v)}
	}
	return Cell{Text: v.String()}
}
