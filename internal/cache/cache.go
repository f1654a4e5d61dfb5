// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps short-lived snapshots of loaded source tables so a
// page view does not refetch both spreadsheets every time.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/reference-search/internal/table"
	"github.com/pdiddy/reference-search/pkg/types"
)

// Cache stores table snapshots under a key until their TTL elapses.
type Cache interface {
	// Get returns the snapshot for key. A missing or expired entry
	// returns ok == false and a nil error.
	Get(ctx context.Context, key string) (t *table.Table, ok bool, err error)

	// Put stores t under key for ttl.
	Put(ctx context.Context, key string, t *table.Table, ttl time.Duration) error

	// Clear removes every snapshot.
	Clear(ctx context.Context) error

	Close() error
}

// Open returns the cache backend selected by cfg.
func Open(cfg types.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case types.CacheNone, "":
		return Nop{}, nil
	case types.CacheSQLite:
		return NewSQLite(cfg.SQLitePath)
	case types.CacheRedis:
		return NewRedis(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q: use none, sqlite, or redis", cfg.Backend)
	}
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (*table.Table, bool, error) { return nil, false, nil }
func (Nop) Put(context.Context, string, *table.Table, time.Duration) error { return nil }
func (Nop) Clear(context.Context) error { return nil }
func (Nop) Close() error { return nil }

func encode(t *table.Table) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*table.Table, error) {
	var t table.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &t, nil
}
