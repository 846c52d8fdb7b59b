// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/cadence/internal/logging"
)

// DefaultSlowThreshold is used when SlowRequests gets a non-positive value.
const DefaultSlowThreshold = time.Second

// SlowRequests logs each request at debug level and any request taking
// longer than threshold at warn level.
func SlowRequests(threshold time.Duration) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			event := logging.Ctx(r.Context()).Debug()
			if elapsed > threshold {
				event = logging.Ctx(r.Context()).Warn().Dur("threshold", threshold)
			}
			event.
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Int("status", rec.status).
				Dur("elapsed", elapsed).
				Msg("Request served")
		})
	}
}
