// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs one search pass over every configured table kind:
// filter each loaded table with its own searchable columns, project the
// matches for display, and report a status per section.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/reference-search/internal/metrics"
	"github.com/pdiddy/reference-search/internal/project"
	"github.com/pdiddy/reference-search/internal/sheets"
	"github.com/pdiddy/reference-search/internal/table"
	"github.com/pdiddy/reference-search/pkg/types"
)

// DefaultSampleSize is the number of preview rows shown before a search.
const DefaultSampleSize = 5

// User-facing status messages.
const (
	MsgEmptyQuery = "Please enter at least one keyword to search."
	MsgIdle       = "Enter keywords above and click 'Search References and Books' to find relevant publications."
)

// ErrNotLoaded is reported for a kind that has neither a table nor a load
// error in the snapshot.
var ErrNotLoaded = errors.New("table was not loaded")

// Status classifies an outcome or section for the presentation shell.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusWarning Status = "warning"
	StatusInfo    Status = "info"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Kind is the per-table configuration the engine runs with.
type Kind struct {
	Name          string
	Title         string
	Noun          string
	SearchColumns []string
	Policy        project.Policy
	DownloadLabel string
	ExportName    string
}

// KindFromConfig builds a Kind from its source configuration.
func KindFromConfig(cfg types.SourceConfig) (Kind, error) {
	if cfg.Name == "" {
		return Kind{}, fmt.Errorf("source name is required")
	}
	if len(cfg.SearchColumns) == 0 {
		return Kind{}, fmt.Errorf("source %q: search_columns must not be empty", cfg.Name)
	}
	policy, err := project.FromConfig(cfg.Projection)
	if err != nil {
		return Kind{}, fmt.Errorf("source %q: %w", cfg.Name, err)
	}
	k := Kind{
		Name:          cfg.Name,
		Title:         cfg.Title,
		Noun:          cfg.Noun,
		SearchColumns: cfg.SearchColumns,
		Policy:        policy,
		DownloadLabel: cfg.DownloadLabel,
		ExportName:    cfg.ExportName,
	}
	if k.Title == "" {
		r, size := utf8.DecodeRuneInString(k.Name)
		k.Title = string(unicode.ToUpper(r)) + k.Name[size:]
	}
	if k.DownloadLabel == "" {
		k.DownloadLabel = k.Title + " Results"
	}
	if k.Noun == "" {
		k.Noun = k.Name
	}
	if k.ExportName == "" {
		k.ExportName = k.Name + "_search_results"
	}
	return k, nil
}

// Snapshot holds the tables loaded for one request, keyed by kind name.
// A kind missing from both maps is reported as ErrNotLoaded.
type Snapshot struct {
	Tables map[string]*table.Table
	Errors map[string]error
}

// Table returns the loaded table for kind, or nil.
func (s Snapshot) Table(kind string) *table.Table {
	return s.Tables[kind]
}

func (s Snapshot) lookup(kind string) (*table.Table, error) {
	if err := s.Errors[kind]; err != nil {
		return nil, err
	}
	t := s.Tables[kind]
	if t == nil {
		return nil, ErrNotLoaded
	}
	return t, nil
}

// Section is the result for one table kind.
type Section struct {
	Kind    Kind
	Heading string
	Status  Status
	Message string

	// Filtered is the unprojected match set, used for export.
	Filtered *table.Table
	// Display is the projected table to render.
	Display *project.Display
}

// Outcome is the result of one Sample or Search call.
type Outcome struct {
	Status   Status
	Message  string
	Keywords []string
	Sections []Section
}

// Engine holds immutable per-kind configuration and is safe for concurrent use.
type Engine struct {
	kinds      []Kind
	sampleSize int
}

// New returns an engine over kinds. A non-positive sampleSize uses
// DefaultSampleSize.
func New(kinds []Kind, sampleSize int) *Engine {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Engine{kinds: kinds, sampleSize: sampleSize}
}

// FromConfig builds the engine for every configured source.
func FromConfig(cfg types.Config) (*Engine, error) {
	var kinds []Kind
	for _, sc := range cfg.Sources.List() {
		k, err := KindFromConfig(sc)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return New(kinds, cfg.Engine.SampleSize), nil
}

// Kinds returns the configured kinds in display order.
func (e *Engine) Kinds() []Kind { return e.kinds }

// Kind looks up a kind by name.
func (e *Engine) Kind(name string) (Kind, bool) {
	for _, k := range e.kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// Load loads every source. Failures are recorded per kind rather than
// aborting the whole snapshot.
func (e *Engine) Load(ctx context.Context, sources map[string]sheets.Source) Snapshot {
	snap := Snapshot{Tables: map[string]*table.Table{}, Errors: map[string]error{}}
	for _, k := range e.kinds {
		src, ok := sources[k.Name]
		if !ok {
			snap.Errors[k.Name] = fmt.Errorf("no source configured for %s", k.Name)
			continue
		}
		t, err := src.Load(ctx)
		if err != nil {
			snap.Errors[k.Name] = err
			continue
		}
		snap.Tables[k.Name] = t
	}
	return snap
}

// Validate checks every kind's projection against its loaded table header.
// Kinds that failed to load are skipped. Mismatches wrap
// *project.SchemaMismatchError.
func (e *Engine) Validate(snap Snapshot) error {
	var errs []error
	for _, k := range e.kinds {
		t := snap.Table(k.Name)
		if t == nil {
			continue
		}
		if err := k.Policy.Validate(t.Columns); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Sample returns the first rows of every table through the kind's
// projection, for the page shown before any search.
func (e *Engine) Sample(snap Snapshot) Outcome {
	out := Outcome{Status: StatusIdle, Message: MsgIdle}
	for _, k := range e.kinds {
		sec := Section{Kind: k, Heading: "Sample " + k.Title, Status: StatusIdle}
		t, err := snap.lookup(k.Name)
		if err != nil {
			e.failSection(&sec, err)
			out.Sections = append(out.Sections, sec)
			continue
		}
		sample := t.Head(e.sampleSize)
		sec.Filtered = sample
		sec.Display = k.Policy.Project(sample)
		out.Sections = append(out.Sections, sec)
	}
	return out
}

// Filter applies kind's searchable columns to t.
func (e *Engine) Filter(k Kind, t *table.Table, keywords []string) *table.Table {
	return table.Filter(t, keywords, k.SearchColumns)
}

// Search runs one filter+project pass. With no non-blank keyword it
// returns a warning outcome and performs no search.
func (e *Engine) Search(snap Snapshot, rawKeywords []string) Outcome {
	keywords := table.NormalizeKeywords(rawKeywords)
	if len(keywords) == 0 {
		metrics.Searches.WithLabelValues(string(StatusWarning)).Inc()
		return Outcome{Status: StatusWarning, Message: MsgEmptyQuery}
	}

	out := Outcome{Status: StatusInfo, Keywords: keywords}
	for _, k := range e.kinds {
		sec := Section{Kind: k, Heading: k.Title}
		source, err := snap.lookup(k.Name)
		if err != nil {
			e.failSection(&sec, err)
			out.Sections = append(out.Sections, sec)
			continue
		}
		filtered := e.Filter(k, source, keywords)
		sec.Filtered = filtered
		sec.Display = k.Policy.Project(filtered)
		metrics.Matches.WithLabelValues(k.Name).Add(float64(filtered.Len()))

		if filtered.Len() == 0 {
			sec.Status = StatusInfo
			sec.Message = fmt.Sprintf("No %s found containing: %s", k.Noun, strings.Join(keywords, ", "))
		} else {
			sec.Status = StatusSuccess
			sec.Message = fmt.Sprintf("Found %d %s matching your search.", filtered.Len(), k.Noun)
			out.Status = StatusSuccess
		}
		out.Sections = append(out.Sections, sec)
	}
	metrics.Searches.WithLabelValues(string(out.Status)).Inc()
	return out
}

func (e *Engine) failSection(sec *Section, err error) {
	sec.Status = StatusError
	sec.Message = fmt.Sprintf("Could not load %s: %v", sec.Kind.Noun, err)
	sec.Filtered = table.New()
	sec.Display = sec.Kind.Policy.Project(sec.Filtered)
}
