// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package auth provides sessions, bearer tokens and login throttling.

A successful login creates a server-side Session (memory or BadgerDB store)
and a signed JWT whose ID claim is the session ID. Requests authenticate
with either the session cookie or "Authorization: Bearer <jwt>"; both
resolve to the same stored session, so logout revokes both at once.

Sessions carry a small metadata map. The dashboard keeps the viewer's
current page there (MetaCurrentPage).

Components:

  - SessionStore: MemorySessionStore, BadgerSessionStore
  - JWTManager: HS256 tokens bound to a session
  - LoginLimiter: per-client token buckets for login attempts
  - Middleware: resolves the caller and stores the Session in the context
*/
package auth
