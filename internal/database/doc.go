// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package database wraps an embedded, in-memory DuckDB engine used for CSV
// input and output.
//
// # Overview
//
// Cadence keeps no persistent database. DuckDB is used as a tolerant CSV
// reader (read_csv_auto) and as a writer (COPY ... TO) for the users file.
// All data lives in the CSV files under the configured data directory.
//
// Files:
//   - database.go: engine lifecycle, pool configuration, ping
//   - csv.go: ReadCSV and WriteCSV
//   - errors.go: close helpers and sentinel errors
//
// # Reading
//
// ReadCSV reads every column as VARCHAR (all_varchar=true) so the caller
// decides cell types. Empty cells come back as nil entries.
//
//	engine, err := database.New(&cfg.Database)
//	header, rows, err := engine.ReadCSV(ctx, "/data/basic_info.csv")
//
// # Writing
//
// WriteCSV stages rows in a temporary table on a dedicated connection,
// copies it to a sibling temp file and renames that file over the target.
// Readers never observe a half-written file.
//
// # Thread Safety
//
// DB is safe for concurrent use. Temporary tables are connection-scoped,
// so each WriteCSV call pins one pooled connection for its duration.
package database
