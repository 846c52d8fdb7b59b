// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package models defines the HTTP request and response types shared by the
// API handlers. Page payloads live in package pages; this package holds the
// envelope and the auth and account DTOs.
package models
