// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration shared by the reference-search
// CLI, web shell and engine.
package types

import "time"

// HTTPConfig holds shared HTTP settings used when fetching spreadsheets.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (0 = default of 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FieldConfig addresses one source column and optionally names the output
// field built from it. Column (by name) wins over Position (zero-based, in
// the table as loaded).
type FieldConfig struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Column   string `json:"column,omitempty" yaml:"column,omitempty"`
	Position *int   `json:"position,omitempty" yaml:"position,omitempty"`
	Link     bool   `json:"link,omitempty" yaml:"link,omitempty"`
}

// ProjectionConfig selects the display projection for a table kind.
type ProjectionConfig struct {
	// Mode is "passthrough" (all columns, Link rewritten in place) or
	// "fixed" (exactly Fields, in order).
	Mode string `json:"mode" yaml:"mode"`

	// Link is the link column for passthrough projections.
	Link *FieldConfig `json:"link,omitempty" yaml:"link,omitempty"`

	// Fields are the output fields for fixed projections.
	Fields []FieldConfig `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// SourceConfig describes one searchable table kind: where it is loaded
// from and how it is searched and displayed.
type SourceConfig struct {
	// Name is the kind identifier used in URLs and flags (e.g. "references").
	Name string `json:"name" yaml:"name"`

	// Title is the section heading (e.g. "References").
	Title string `json:"title" yaml:"title"`

	// Noun is the plural used in status messages (e.g. "references").
	Noun string `json:"noun" yaml:"noun"`

	// URL is a Google Sheets link, a CSV URL, or a local .csv/.xlsx path.
	URL string `json:"url" yaml:"url"`

	// Sheet names the worksheet for .xlsx files (default: first sheet).
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty"`

	// UseCols restricts the loaded columns to these zero-based sheet
	// positions, in order. Empty loads every column.
	UseCols []int `json:"usecols,omitempty" yaml:"usecols,omitempty"`

	// SearchColumns are the columns keyword matching looks at.
	SearchColumns []string `json:"search_columns" yaml:"search_columns"`

	// Projection is the display projection.
	Projection ProjectionConfig `json:"projection" yaml:"projection"`

	// DownloadLabel names the results in download links (e.g.
	// "Reference Results"). Defaults to Title + " Results".
	DownloadLabel string `json:"download_label" yaml:"download_label"`

	// ExportName is the download file name without extension.
	ExportName string `json:"export_name" yaml:"export_name"`
}

// SourcesConfig holds the two table kinds.
type SourcesConfig struct {
	References SourceConfig `json:"references" yaml:"references"`
	Books      SourceConfig `json:"books" yaml:"books"`
}

// List returns the kinds in display order.
func (s SourcesConfig) List() []SourceConfig {
	return []SourceConfig{s.References, s.Books}
}

// CacheBackend identifies the snapshot cache implementation.
type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheSQLite CacheBackend = "sqlite"
	CacheRedis  CacheBackend = "redis"
)

// RedisConfig holds connection settings for the Redis cache backend.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db"`
}

// CacheConfig holds settings for the short-lived table snapshot cache.
type CacheConfig struct {
	Backend    CacheBackend  `json:"backend" yaml:"backend"`
	TTL        time.Duration `json:"ttl" yaml:"ttl"`
	SQLitePath string        `json:"sqlite_path" yaml:"sqlite_path"`
	Redis      RedisConfig   `json:"redis" yaml:"redis"`
}

// ServerConfig holds settings for the web shell.
type ServerConfig struct {
	Addr  string `json:"addr" yaml:"addr"`
	Title string `json:"title" yaml:"title"`

	// Header and Intro are shown above the search form.
	Header string `json:"header" yaml:"header"`
	Intro  string `json:"intro" yaml:"intro"`

	// StrictSchema makes serve refuse to start when a projection does not
	// match the loaded source columns.
	StrictSchema bool `json:"strict_schema" yaml:"strict_schema"`

	// RequestTimeout bounds each HTTP request, including source loads.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// EngineConfig holds settings for the search engine.
type EngineConfig struct {
	// SampleSize is the number of preview rows shown before a search (default 5).
	SampleSize int `json:"sample_size" yaml:"sample_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format"`
}

// Config groups all settings.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Sources SourcesConfig `json:"sources" yaml:"sources"`
}

func intPtr(i int) *int { return &i }

// DefaultConfig returns the built-in configuration: the two public Google
// Sheets and the column layout agreed with their maintainers.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			Title:          "Reference Search",
			Header:         "Journal publications and articles",
			Intro:          "Welcome to our app where you can find links to all things about careers guidance",
			StrictSchema:   true,
			RequestTimeout: 60 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "reference-search/0.1",
		},
		Cache: CacheConfig{
			Backend:    CacheSQLite,
			TTL:        10 * time.Minute,
			SQLitePath: "cache/snapshots.db",
			Redis:      RedisConfig{Addr: "localhost:6379"},
		},
		Engine: EngineConfig{SampleSize: 5},
		Log:    LogConfig{Level: "info", Format: "console"},
		Sources: SourcesConfig{
			References: SourceConfig{
				Name:    "references",
				Title:   "References",
				Noun:    "references",
				URL:     "https://docs.google.com/spreadsheets/d/1sUCaZ22aiXJl8WdMYaUCi45ryYt1g_i0jm6k7IcS9ZQ/edit?usp=sharing",
				UseCols: []int{2, 3, 5, 6, 7},
				SearchColumns: []string{"Title", "People/identity focus1", "People/identity focus2",
					"Outcome", "Practices", "Description"},
				Projection: ProjectionConfig{
					Mode: "passthrough",
					Link: &FieldConfig{Position: intPtr(4)},
				},
				DownloadLabel: "Reference Results",
				ExportName:    "reference_search_results",
			},
			Books: SourceConfig{
				Name:          "books",
				Title:         "Books",
				Noun:          "books",
				URL:           "https://docs.google.com/spreadsheets/d/1LHJ_1FK4fyZ-jvy_qN4v8kXgGu7Vm2XiHvQVkVoHAdM/edit?usp=sharing",
				SearchColumns: []string{"Title", "Key audience(s)", "Key Groups/themes"},
				Projection: ProjectionConfig{
					Mode: "fixed",
					Fields: []FieldConfig{
						{Name: "Title", Position: intPtr(0)},
						{Name: "Name", Position: intPtr(1)},
						{Name: "Year", Position: intPtr(2)},
						{Name: "Link", Position: intPtr(7), Link: true},
					},
				},
				DownloadLabel: "Book Results",
				ExportName:    "book_search_results",
			},
		},
	}
}
