// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reference-search/internal/cache"
	"github.com/pdiddy/reference-search/internal/engine"
	"github.com/pdiddy/reference-search/internal/sheets"
	"github.com/pdiddy/reference-search/pkg/types"
)

// setDefaults registers every leaf of d as a viper default so that config
// files and REFERENCE_SEARCH_* variables can override any single key.
// Lists are registered whole and replaced whole.
func setDefaults(v *viper.Viper, d types.Config) {
	data, err := yaml.Marshal(d)
	if err != nil {
		panic(fmt.Sprintf("encoding default config: %v", err))
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		panic(fmt.Sprintf("decoding default config: %v", err))
	}
	setLeaves(v, "", tree)

	// Keys omitted from the YAML tree are unknown to AllKeys, and so to
	// Unmarshal, unless bound explicitly.
	for _, key := range []string{
		"cache.redis.password",
		"sources.references.sheet",
		"sources.books.sheet",
		"sources.books.usecols",
	} {
		_ = v.BindEnv(key)
	}
}

func setLeaves(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			setLeaves(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// loadConfig decodes the merged viper settings into a types.Config using
// the yaml struct tags.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var c types.Config
	err := v.Unmarshal(&c, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return types.Config{}, err
	}
	return c, nil
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return lvl, nil
}

// newLogger returns a console or JSON logger at the configured level.
func newLogger(c types.LogConfig, w io.Writer) zerolog.Logger {
	lvl, err := parseLevel(c.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if c.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// app bundles the pieces every command needs.
type app struct {
	engine  *engine.Engine
	cache   cache.Cache
	sources map[string]sheets.Source
}

// newApp builds the engine, cache and sources from c. The caller closes the cache.
func newApp(c types.Config, log zerolog.Logger) (*app, error) {
	eng, err := engine.FromConfig(c)
	if err != nil {
		return nil, err
	}
	ch, err := cache.Open(c.Cache)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	sources, err := sheets.FromConfig(c, ch, log)
	if err != nil {
		ch.Close()
		return nil, err
	}
	return &app{engine: eng, cache: ch, sources: sources}, nil
}

func (a *app) Close() error { return a.cache.Close() }
