// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cadence/internal/frame"
	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/source"
)

type tableRequest struct {
	name     string
	optional bool
}

func required(name string) tableRequest { return tableRequest{name: name} }
func optional(name string) tableRequest { return tableRequest{name: name, optional: true} }

// loadTables loads the requested tables concurrently. The first mandatory
// failure cancels the rest.
func (d *Deps) loadTables(ctx context.Context, reqs ...tableRequest) (map[string]*frame.Table, error) {
	start := time.Now()
	defer metrics.ObserveStage("load", start)

	loaded := make([]*frame.Table, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			var err error
			if req.optional {
				loaded[i], err = d.Tables.LoadOptional(gctx, req.name)
			} else {
				loaded[i], err = d.Tables.Load(gctx, req.name)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*frame.Table, len(reqs))
	for i, req := range reqs {
		out[req.name] = loaded[i]
	}
	return out, nil
}

// join runs p and records its fan-out under the page's name.
func join(ctx context.Context, page PageID, p frame.Pipeline) (*frame.Result, error) {
	start := time.Now()
	res, err := p.Run(ctx)
	metrics.ObserveStage("join", start)
	if err != nil {
		return nil, err
	}
	for _, s := range res.Stats {
		metrics.RecordFanOut(string(page)+"/"+s.Step, s.FanOut)
	}
	return res, nil
}

// totalPlays sums playCount per user into total_plays.
func totalPlays(listening *frame.Table) (*frame.Table, error) {
	start := time.Now()
	defer metrics.ObserveStage("aggregate", start)
	return frame.Aggregate(listening, source.KeyColumn, "playCount", frame.Sum, "total_plays")
}

// fanOutMeta records non-zero fan-out per step on r.
func fanOutMeta(r *Result, jr *frame.Result) {
	if jr.TotalFanOut() == 0 {
		return
	}
	steps := make(map[string]int)
	for _, s := range jr.Stats {
		if s.FanOut > 0 {
			steps[s.Step] = s.FanOut
		}
	}
	r.meta("fan_out", steps)
}

// numericRows returns, for each row of t whose named columns are all
// numeric, the row's values and its index in t.
func numericRows(t *frame.Table, names ...string) ([][]float64, []int, error) {
	cols := make([][]float64, len(names))
	oks := make([][]bool, len(names))
	for j, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, nil, err
		}
		cols[j], oks[j] = c.Floats()
	}

	var rows [][]float64
	var idx []int
	for i := 0; i < t.NumRows(); i++ {
		row := make([]float64, len(names))
		keep := true
		for j := range names {
			if !oks[j][i] {
				keep = false
				break
			}
			row[j] = cols[j][i]
		}
		if keep {
			rows = append(rows, row)
			idx = append(idx, i)
		}
	}
	return rows, idx, nil
}

// numericPairs returns the (a, b) pairs of rows where both are numeric.
func numericPairs(t *frame.Table, a, b string) (x, y []float64, err error) {
	clean, err := t.DropNulls(a, b)
	if err != nil {
		return nil, nil, err
	}
	xc, _ := clean.Column(a) //nolint:errcheck // checked by DropNulls
	yc, _ := clean.Column(b) //nolint:errcheck // checked by DropNulls
	x, _ = xc.Floats()
	y, _ = yc.Floats()
	return x, y, nil
}

// columnOf extracts column j of rows.
func columnOf(rows [][]float64, j int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r[j]
	}
	return out
}
