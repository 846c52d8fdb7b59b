// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package metrics provides Prometheus instrumentation for Cadence.

Collectors are registered with the default registry through promauto and
exposed at /metrics.

# Available Metrics

API:
  - cadence_api_requests_total (method, endpoint, status_code)
  - cadence_api_request_duration_seconds (method, endpoint)
  - cadence_api_active_requests
  - cadence_api_rate_limit_hits_total (endpoint)

Source loading:
  - cadence_source_cache_hits_total (table)
  - cadence_source_cache_misses_total (table)
  - cadence_source_load_duration_seconds (table)
  - cadence_source_load_errors_total (table)

Pipeline and analysis:
  - cadence_pipeline_stage_duration_seconds (stage)
  - cadence_join_fan_out_rows_total (step)
  - cadence_page_renders_total (page, outcome)
  - cadence_kmeans_iterations

Accounts and sessions:
  - cadence_login_attempts_total (outcome)
  - cadence_registrations_total (outcome)
  - cadence_active_sessions
*/
package metrics
