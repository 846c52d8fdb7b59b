// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package main is the entry point for the Cadence server.
//
// Cadence serves user behaviour analytics for a music streaming platform:
// portrait, social, playlist and listening pages computed from four CSV
// source tables, behind username/password accounts.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, environment (Koanf v2)
//  2. Logging: zerolog, level and format from config
//  3. DuckDB: in-memory engine for CSV reads and writes
//  4. Accounts: the users CSV, bcrypt hashes
//  5. Sessions: memory or Badger store, JWT bearer tokens, Casbin roles
//  6. HTTP: chi router under the suture supervisor
//
// # Configuration
//
// The most common settings:
//
//	DATA_DIR=./data           # basic_info.csv, listening_records.csv, ...
//	JWT_SECRET=...            # 32+ characters
//	ADMIN_USERNAME=admin      # gets the admin role on login
//	SESSION_STORE=badger      # persist sessions across restarts
//	SESSION_PATH=./sessions
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor context. The HTTP server stops
// accepting connections and drains in-flight requests within
// server.shutdown_timeout, then the session store and DuckDB are closed.
package main
