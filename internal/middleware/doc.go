// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: assigns an X-Request-ID (google/uuid) and puts it on the
    request context for logging.Ctx.
  - PrometheusMetrics: counts requests and observes latency, labelled by
    the chi route pattern so path parameters do not explode cardinality.
  - SlowRequests: logs every request at debug and requests slower than a
    threshold at warn.

All middleware have the chi signature func(http.Handler) http.Handler.
*/
package middleware
