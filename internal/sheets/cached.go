// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheets

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/reference-search/internal/cache"
	"github.com/pdiddy/reference-search/internal/metrics"
	"github.com/pdiddy/reference-search/internal/table"
)

// CachedSource serves snapshots from a cache and falls back to the wrapped
// source on a miss. Cache failures are logged and never fail a load.
type CachedSource struct {
	src   Source
	cache cache.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// Cached wraps src with c. A non-positive ttl disables caching.
func Cached(src Source, c cache.Cache, ttl time.Duration, log zerolog.Logger) *CachedSource {
	if c == nil {
		c = cache.Nop{}
	}
	return &CachedSource{src: src, cache: c, ttl: ttl, log: log}
}

// Name returns the wrapped source name.
func (s *CachedSource) Name() string { return s.src.Name() }

// Load returns a cached snapshot when one is live, otherwise loads and
// stores a fresh one.
func (s *CachedSource) Load(ctx context.Context) (*table.Table, error) {
	start := time.Now()
	name := s.src.Name()

	if s.ttl > 0 {
		t, ok, err := s.cache.Get(ctx, name)
		if err != nil {
			s.log.Warn().Err(err).Str("source", name).Msg("cache read failed")
		}
		if ok {
			metrics.SourceLoad.WithLabelValues(name, "hit").Observe(time.Since(start).Seconds())
			s.log.Debug().Str("source", name).Int("rows", t.Len()).Msg("cache hit")
			return t, nil
		}
	}

	t, err := s.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SourceLoad.WithLabelValues(name, "miss").Observe(time.Since(start).Seconds())
	s.log.Info().
		Str("source", name).
		Int("rows", t.Len()).
		Int("columns", len(t.Columns)).
		Dur("elapsed", time.Since(start)).
		Msg("source loaded")

	if s.ttl > 0 {
		if err := s.cache.Put(ctx, name, t, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("source", name).Msg("cache write failed")
		}
	}
	return t, nil
}
