// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomtom215/cadence/internal/logging"
)

// ReadCSV reads a headed CSV file. Every cell is returned as text; empty
// cells are nil. Column order follows the file header.
func (db *DB) ReadCSV(ctx context.Context, path string) (header []string, rows [][]*string, err error) {
	if db.conn == nil {
		return nil, nil, ErrClosed
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(
		"SELECT * FROM read_csv_auto(%s, header=true, all_varchar=true)",
		quoteLiteral(path))

	result, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	defer closeWithLog(result, "csv rows")

	header, err = result.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s columns: %w", path, err)
	}

	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for result.Next() {
		if err := result.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("scan csv %s: %w", path, err)
		}
		row := make([]*string, len(header))
		for i, c := range cells {
			if c.Valid {
				s := c.String
				row[i] = &s
			}
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate csv %s: %w", path, err)
	}
	return header, rows, nil
}

// WriteCSV writes header and rows to path as a headed CSV and replaces the
// file atomically. Nil cells are written empty and short rows are padded.
func (db *DB) WriteCSV(ctx context.Context, path string, header []string, rows [][]*string) error {
	if db.conn == nil {
		return ErrClosed
	}
	if len(header) == 0 {
		return ErrNoColumns
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	// Temporary tables are per connection.
	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer closeWithLog(conn, "connection")

	table := fmt.Sprintf("cadence_stage_%d", db.tempSeq.Add(1))
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = quoteIdent(h) + " VARCHAR"
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("CREATE TEMPORARY TABLE %s (%s)", table, strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}
	defer func() {
		if _, dropErr := conn.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+table); dropErr != nil {
			logging.Warn().Err(dropErr).Str("table", table).Msg("Failed to drop staging table")
		}
	}()

	if len(rows) > 0 {
		if err := insertRows(ctx, conn, table, len(header), rows); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp")

	copyQuery := fmt.Sprintf("COPY %s TO %s (FORMAT CSV, HEADER true, DELIMITER ',')", table, quoteLiteral(tmp))
	if _, err := conn.ExecContext(ctx, copyQuery); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("copy to %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func insertRows(ctx context.Context, conn *sql.Conn, table string, width int, rows [][]*string) error {
	marks := strings.TrimSuffix(strings.Repeat("?, ", width), ", ")
	stmt, err := conn.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, marks))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	args := make([]any, width)
	for n, row := range rows {
		for i := range args {
			if i < len(row) && row[i] != nil {
				args[i] = *row[i]
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", n, err)
		}
	}
	return nil
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteIdent renders s as a SQL identifier.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
