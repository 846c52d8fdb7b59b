// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/cadence/internal/cache"
	"github.com/tomtom215/cadence/internal/frame"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
)

// CSVReader reads a headed CSV file as text cells; nil cells are empty.
// *database.DB implements it.
type CSVReader interface {
	ReadCSV(ctx context.Context, path string) ([]string, [][]*string, error)
}

// Loader reads catalog tables from a data directory.
type Loader struct {
	reader CSVReader
	dir    string

	// cache is nil when caching is disabled.
	cache *cache.Cache[*frame.Table]
	group singleflight.Group
}

// NewLoader creates a loader over dir. With cacheEnabled, loaded tables are
// kept until ClearCache.
func NewLoader(reader CSVReader, dir string, cacheEnabled bool) *Loader {
	l := &Loader{reader: reader, dir: dir}
	if cacheEnabled {
		l.cache = cache.New[*frame.Table](0)
	}
	return l
}

// Dir returns the data directory.
func (l *Loader) Dir() string { return l.dir }

// Path returns the absolute path of a table's file.
func (l *Loader) Path(spec Spec) (string, error) {
	return filepath.Abs(filepath.Join(l.dir, spec.File))
}

// Load returns the named table. It fails with frame.ErrSourceUnavailable
// when the file is missing, unreadable or lacks a contract column, and with
// ctx.Err() when ctx ends first.
func (l *Loader) Load(ctx context.Context, name string) (*frame.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	path, err := l.Path(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", frame.ErrSourceUnavailable, name, err)
	}

	if l.cache != nil {
		if tbl, ok := l.cache.Get(path); ok {
			metrics.RecordCacheLookup(name, true)
			record(ctx, true)
			return tbl, nil
		}
		metrics.RecordCacheLookup(name, false)
	}
	record(ctx, false)

	// The flight is shared by every caller loading path, so it runs detached
	// from any one caller's cancellation; each caller stops waiting on its own.
	flightCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(path, func() (any, error) {
		tbl, err := l.read(flightCtx, spec, path)
		if err != nil {
			return nil, err
		}
		if l.cache != nil {
			l.cache.Set(path, tbl)
		}
		return tbl, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*frame.Table), nil
	}
}

// LoadOptional is Load, except a missing or unreadable file yields an empty
// table shaped like the contract and a logged warning.
func (l *Loader) LoadOptional(ctx context.Context, name string) (*frame.Table, error) {
	tbl, err := l.Load(ctx, name)
	if err == nil {
		return tbl, nil
	}
	if !errors.Is(err, frame.ErrSourceUnavailable) {
		return nil, err
	}
	spec, _ := Lookup(name) //nolint:errcheck // Load already resolved name
	logging.Ctx(ctx).Warn().Err(err).Str("table", name).Msg("Optional source table unavailable, using empty table")
	return frame.Empty(spec.Name, spec.Columns...), nil
}

// ClearCache drops every cached table and returns how many were dropped.
func (l *Loader) ClearCache() int {
	if l.cache == nil {
		return 0
	}
	n := l.cache.Clear()
	logging.Info().Int("tables", n).Msg("Source table cache cleared")
	return n
}

// CacheHitRate returns cache hits as a percentage of lookups.
func (l *Loader) CacheHitRate() float64 {
	if l.cache == nil {
		return 0
	}
	return l.cache.HitRate()
}

// Missing lists the catalog tables whose files are absent from the data
// directory.
func (l *Loader) Missing() []string {
	var missing []string
	for _, spec := range Catalog() {
		path, err := l.Path(spec)
		if err == nil {
			_, err = os.Stat(path)
		}
		if err != nil {
			missing = append(missing, spec.Name)
		}
	}
	return missing
}

// CacheStats returns the cache counters; zero when caching is disabled.
func (l *Loader) CacheStats() cache.Stats {
	if l.cache == nil {
		return cache.Stats{}
	}
	return l.cache.GetStats()
}

func (l *Loader) read(ctx context.Context, spec Spec, path string) (tbl *frame.Table, err error) {
	start := time.Now()
	defer func() { metrics.RecordSourceLoad(spec.Name, time.Since(start), err) }()

	if _, statErr := os.Stat(path); statErr != nil {
		return nil, fmt.Errorf("%w: %s (%s): %w", frame.ErrSourceUnavailable, spec.Name, path, statErr)
	}

	header, rows, err := l.reader.ReadCSV(ctx, path)
	if err != nil {
		// Cancellation says nothing about the file.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s (%s): %w", frame.ErrSourceUnavailable, spec.Name, path, err)
	}

	tbl, err = frame.FromRows(spec.Name, header, typeCells(rows))
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %w", frame.ErrSourceUnavailable, spec.Name, path, err)
	}
	if err := tbl.RequireColumns(spec.Columns...); err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %w", frame.ErrSourceUnavailable, spec.Name, path, err)
	}

	logging.Ctx(ctx).Info().
		Str("table", spec.Name).
		Int("rows", tbl.NumRows()).
		Dur("elapsed", time.Since(start)).
		Msg("Loaded source table")
	return tbl, nil
}

// typeCells converts text cells to typed values.
func typeCells(rows [][]*string) [][]frame.Value {
	out := make([][]frame.Value, len(rows))
	for i, row := range rows {
		vals := make([]frame.Value, len(row))
		for j, cell := range row {
			if cell != nil {
				vals[j] = frame.ParseValue(*cell)
			}
		}
		out[i] = vals
	}
	return out
}
