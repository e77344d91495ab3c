// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package metrics exposes Prometheus instrumentation for the HTTP
// surface, the document store, and the discovery engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lantern_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lantern_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Discovery metrics
	DiscoveryFeedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lantern_discovery_feed_requests_total",
			Help: "Total number of discovery feed requests",
		},
	)

	DiscoveryRefills = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lantern_discovery_refills_total",
			Help: "Total number of discovery frontier refills",
		},
	)

	DiscoveryExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lantern_discovery_exhausted_total",
			Help: "Total number of feed requests that found no content",
		},
	)

	// Engagement metrics
	EngagementsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lantern_engagements_swept_total",
			Help: "Total number of expired engagements removed",
		},
	)
)

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
}
