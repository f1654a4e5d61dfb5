// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheets loads the searchable tables from Google Sheets, plain CSV
// URLs, or local .csv/.xlsx files.
package sheets

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/reference-search/internal/cache"
	"github.com/pdiddy/reference-search/internal/httputil"
	"github.com/pdiddy/reference-search/internal/table"
	"github.com/pdiddy/reference-search/pkg/types"
)

// Source loads one table.
type Source interface {
	Name() string
	Load(ctx context.Context) (*table.Table, error)
}

// New returns the source described by cfg: an HTTP source for http(s)
// URLs, a file source otherwise.
func New(cfg types.SourceConfig, client *httputil.Client) (Source, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("source %q: url is required", cfg.Name)
	}
	lower := strings.ToLower(cfg.URL)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if client == nil {
			return nil, fmt.Errorf("source %q: http client is required for %s", cfg.Name, cfg.URL)
		}
		return &HTTPSource{cfg: cfg, client: client}, nil
	}
	return &FileSource{cfg: cfg}, nil
}

var sheetsURL = regexp.MustCompile(`^https?://docs\.google\.com/spreadsheets/d/([A-Za-z0-9_-]+)`)
var gidParam = regexp.MustCompile(`[#&?]gid=([0-9]+)`)

// ExportURL rewrites a Google Sheets link (edit, view or share URL) to its
// CSV export endpoint, keeping the worksheet gid when present. Other URLs,
// including publish-to-web links (/spreadsheets/d/e/.../pub), are returned
// unchanged.
func ExportURL(raw string) string {
	m := sheetsURL.FindStringSubmatch(raw)
	if m == nil || m[1] == "e" {
		return raw
	}
	out := "https://docs.google.com/spreadsheets/d/" + m[1] + "/export?format=csv"
	if g := gidParam.FindStringSubmatch(raw); g != nil {
		out += "&gid=" + g[1]
	}
	return out
}

// HTTPSource fetches a CSV export over HTTP.
type HTTPSource struct {
	cfg    types.SourceConfig
	client *httputil.Client
}

// Name returns the table kind name.
func (s *HTTPSource) Name() string { return s.cfg.Name }

// Load fetches and parses the sheet, then applies usecols.
func (s *HTTPSource) Load(ctx context.Context) (*table.Table, error) {
	body, err := s.client.Get(ctx, ExportURL(s.cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.cfg.Name, err)
	}
	t, err := ParseCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.cfg.Name, err)
	}
	return selectColumns(t, s.cfg.UseCols), nil
}

// FileSource reads a local .csv or .xlsx snapshot.
type FileSource struct {
	cfg types.SourceConfig
}

// Name returns the table kind name.
func (s *FileSource) Name() string { return s.cfg.Name }

// Load reads and parses the file, then applies usecols.
func (s *FileSource) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.cfg.Name, err)
	}
	defer f.Close()

	var t *table.Table
	switch strings.ToLower(filepath.Ext(s.cfg.URL)) {
	case ".xlsx":
		t, err = ParseXLSX(f, s.cfg.Sheet)
	case ".csv", "":
		t, err = ParseCSV(f)
	default:
		return nil, fmt.Errorf("source %q: unsupported file type %q (use .csv or .xlsx)", s.cfg.Name, filepath.Ext(s.cfg.URL))
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.cfg.Name, err)
	}
	return selectColumns(t, s.cfg.UseCols), nil
}

func selectColumns(t *table.Table, usecols []int) *table.Table {
	if len(usecols) == 0 {
		return t
	}
	return t.Select(usecols)
}

// FromConfig builds every configured source, each wrapped with c for
// cfg.Cache.TTL, keyed by kind name.
func FromConfig(cfg types.Config, c cache.Cache, log zerolog.Logger) (map[string]Source, error) {
	client := httputil.NewClient(cfg.HTTP, log)
	sources := make(map[string]Source)
	for _, sc := range cfg.Sources.List() {
		src, err := New(sc, client)
		if err != nil {
			return nil, err
		}
		sources[sc.Name] = Cached(src, c, cfg.Cache.TTL, log)
	}
	return sources, nil
}
