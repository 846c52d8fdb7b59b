// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadence_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadence_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Source Table Metrics
	SourceCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_source_cache_hits_total",
			Help: "Source table loads served from cache",
		},
		[]string{"table"},
	)

	SourceCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_source_cache_misses_total",
			Help: "Source table loads that read the CSV file",
		},
		[]string{"table"},
	)

	SourceLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadence_source_load_duration_seconds",
			Help:    "Duration of CSV reads into tables",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table"},
	)

	SourceLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_source_load_errors_total",
			Help: "Source table loads that failed",
		},
		[]string{"table"},
	)

	// Pipeline Metrics
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadence_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline and analysis stages",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"stage"},
	)

	JoinFanOutRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_join_fan_out_rows_total",
			Help: "Extra rows introduced by left joins against non-unique keys",
		},
		[]string{"step"},
	)

	PageRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_page_renders_total",
			Help: "Page renders by page and outcome",
		},
		[]string{"page", "outcome"},
	)

	KMeansIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cadence_kmeans_iterations",
			Help:    "Lloyd iterations until k-means convergence",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 300},
		},
	)

	// Account Metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // success, failure, rate_limited
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_registrations_total",
			Help: "Account registrations by outcome",
		},
		[]string{"outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadence_active_sessions",
			Help: "Sessions created minus sessions deleted since start",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSourceLoad records a CSV read for table.
func RecordSourceLoad(table string, duration time.Duration, err error) {
	SourceLoadDuration.WithLabelValues(table).Observe(duration.Seconds())
	if err != nil {
		SourceLoadErrors.WithLabelValues(table).Inc()
	}
}

// RecordCacheLookup counts a source cache hit or miss.
func RecordCacheLookup(table string, hit bool) {
	if hit {
		SourceCacheHits.WithLabelValues(table).Inc()
	} else {
		SourceCacheMisses.WithLabelValues(table).Inc()
	}
}

// ObserveStage records how long a named stage took.
func ObserveStage(stage string, start time.Time) {
	PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordFanOut counts fan-out rows for a join step. Zero is not recorded.
func RecordFanOut(step string, rows int) {
	if rows > 0 {
		JoinFanOutRows.WithLabelValues(step).Add(float64(rows))
	}
}

// RecordPageRender counts a page render; outcome is "ok" or an error code.
func RecordPageRender(page, outcome string) {
	PageRenders.WithLabelValues(page, outcome).Inc()
}

// RecordLogin counts a login attempt.
func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordRegistration counts a registration attempt.
func RecordRegistration(outcome string) {
	Registrations.WithLabelValues(outcome).Inc()
}
