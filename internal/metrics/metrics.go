// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Searches counts search requests by outcome status (warning, success, info).
	Searches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_search_searches_total",
			Help: "Total number of search passes by outcome status",
		},
		[]string{"status"},
	)

	// Matches counts matched rows per table kind.
	Matches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_search_matches_total",
			Help: "Total number of rows matched per table kind",
		},
		[]string{"kind"},
	)

	// SourceLoad observes how long loading a source table takes, cache hits included.
	SourceLoad = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reference_search_source_load_seconds",
			Help:    "Time spent loading a source table",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "cache"},
	)

	// Exports counts result downloads by kind and format.
	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_search_exports_total",
			Help: "Total number of result downloads",
		},
		[]string{"kind", "format"},
	)
)
