// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package api serves the HTTP interface: authentication, the page registry,
the account page and admin operations.

Every response uses the models.APIResponse envelope. Successful GET
responses carry an ETag computed over the data payload; a matching
If-None-Match gets 304 Not Modified.

Routes:

	GET  /api/v1/health
	GET  /metrics
	POST /api/v1/auth/register
	POST /api/v1/auth/login           (per-IP login limiter)
	POST /api/v1/auth/logout          (session)
	GET  /api/v1/session              (session)
	GET  /api/v1/pages                (session)
	GET  /api/v1/pages/{page}         (session; ?k= for overview)
	GET  /api/v1/account              (session)
	PUT  /api/v1/account              (session)
	POST /api/v1/admin/cache/clear    (session, admin role)

Global middleware: request ID, real IP, panic recovery, slow request
logging, CORS, per-IP rate limiting, Prometheus metrics and gzip.
*/
package api
