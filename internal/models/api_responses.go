// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package models

import "time"

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes carried in APIError.Code.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeConflict          = "CONFLICT"
	CodeRateLimited       = "RATE_LIMITED"
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeInternal          = "INTERNAL_ERROR"
)

// APIResponse is the envelope of every JSON response.
//
//	{
//	  "status": "success",
//	  "data": {"page": "overview", "artifacts": [...]},
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z", "query_time_ms": 45}
//	}
//
// Error responses carry Error and a nil Data:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z"},
//	  "error": {"code": "NOT_FOUND", "message": "unknown page \"charts\""}
//	}
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata describes how the response was produced. QueryTimeMS is the
// handler's wall time; Cached is set when every source table came from the
// loader cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable code plus a human message. Details holds
// field-level validation information.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
