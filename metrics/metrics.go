// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Score feed
	ESPNRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superbowl_espn_requests_total",
		Help: "ESPN requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	ESPNRequestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "superbowl_espn_request_latency_seconds",
		Help:    "Latency of ESPN site API requests",
		Buckets: prometheus.DefBuckets,
	})
	FallbackSnapshotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "superbowl_fallback_snapshots_total",
		Help: "The total number of synthesized fallback game snapshots",
	})

	// Live reconciliation
	LiveSnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superbowl_live_snapshots_total",
		Help: "Live board snapshots served, by source",
	}, []string{"source"})
	QuarterFinalizationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "superbowl_quarter_finalizations_total",
		Help: "The total number of quarter winner upserts attempted",
	})
	QuarterFinalizationErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "superbowl_quarter_finalization_errors_total",
		Help: "The total number of quarter winner upserts that failed",
	})

	// Guest picks
	GuestOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superbowl_guest_operations_total",
		Help: "Guest claim, pick, lock and admin operations by result code",
	}, []string{"operation", "code"})
)

// Live snapshot sources
const (
	SourceFresh       = "fresh"
	SourceCached      = "cached"
	SourceRateLimited = "rate_limited"
)
