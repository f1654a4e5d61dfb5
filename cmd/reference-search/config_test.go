// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reference-search/pkg/types"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetEnvPrefix("REFERENCE_SEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, types.DefaultConfig())
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), c)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("REFERENCE_SEARCH_CACHE_BACKEND", "redis")
	t.Setenv("REFERENCE_SEARCH_CACHE_TTL", "90s")
	t.Setenv("REFERENCE_SEARCH_CACHE_REDIS_PASSWORD", "pw")
	t.Setenv("REFERENCE_SEARCH_SOURCES_BOOKS_URL", "books.xlsx")
	t.Setenv("REFERENCE_SEARCH_SOURCES_BOOKS_SHEET", "Catalogue")
	t.Setenv("REFERENCE_SEARCH_SOURCES_BOOKS_USECOLS", "0,1,7")

	c, err := loadConfig(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, types.CacheRedis, c.Cache.Backend)
	assert.Equal(t, 90*time.Second, c.Cache.TTL)
	assert.Equal(t, "pw", c.Cache.Redis.Password)
	assert.Equal(t, "books.xlsx", c.Sources.Books.URL)
	assert.Equal(t, "Catalogue", c.Sources.Books.Sheet)
	assert.Equal(t, []int{0, 1, 7}, c.Sources.Books.UseCols)
	assert.Empty(t, c.Sources.References.Sheet)
	assert.Equal(t, types.DefaultConfig().Sources.References.URL, c.Sources.References.URL)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference-search.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  sample_size: 3
sources:
  references:
    url: refs.csv
    usecols: [0, 1]
    projection:
      mode: passthrough
      link:
        column: URL
`), 0o644))

	v := newViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	c, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Engine.SampleSize)
	assert.Equal(t, "refs.csv", c.Sources.References.URL)
	assert.Equal(t, []int{0, 1}, c.Sources.References.UseCols)
	require.NotNil(t, c.Sources.References.Projection.Link)
	assert.Equal(t, "URL", c.Sources.References.Projection.Link.Column)
	assert.Equal(t, "references", c.Sources.References.Name)
	assert.Equal(t, types.DefaultConfig().Sources.Books, c.Sources.Books)
}

func TestLoadConfigRejectsBadLevel(t *testing.T) {
	v := newViper(t)
	v.Set("log.level", "loud")
	_, err := loadConfig(v)
	assert.Error(t, err)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(types.LogConfig{Level: "warn", Format: "json"}, &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("kind", "books").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "books", entry["kind"])
	assert.Equal(t, "warn", entry["level"])
}
