// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: redis-password, references-url, books-url.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/reference-search/pkg/types"
)

// Key file names understood by Apply.
const (
	RedisPassword = "redis-password"
	ReferencesURL = "references-url"
	BooksURL      = "books-url"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, log zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills empty configuration fields from secrets and returns the
// sorted names of the secrets it used. Values already set in cfg win.
func Apply(cfg *types.Config, secrets map[string]string) []string {
	var used []string
	fill := func(dst *string, key string) {
		if v, ok := secrets[key]; ok && *dst == "" {
			*dst = v
			used = append(used, key)
		}
	}
	fill(&cfg.Cache.Redis.Password, RedisPassword)
	fill(&cfg.Sources.References.URL, ReferencesURL)
	fill(&cfg.Sources.Books.URL, BooksURL)
	sort.Strings(used)
	return used
}
