// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package frame

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cadence/internal/logging"
)

// JoinStats describes one left-join step.
//
// FanOut counts the extra rows a step introduced because the secondary
// table repeated a key: an anchor row matching three secondary rows yields
// three output rows and contributes 2 to FanOut. Fan-out is accepted
// behaviour; callers that need one row per key must aggregate the secondary
// table first.
type JoinStats struct {
	Step      string `json:"step"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`
	FanOut    int    `json:"fan_out"`
}

// LeftJoin keeps every row of left, in order, and appends the columns of
// right (except key) for matching rows. Unmatched rows get nulls. Rows of
// right whose key is absent from left are dropped. A right column whose
// name is already taken is renamed to name_suffix.
func LeftJoin(left, right *Table, key, suffix string) (*Table, JoinStats, error) {
	stats := JoinStats{Step: suffix}
	if err := left.RequireColumns(key); err != nil {
		return nil, stats, err
	}
	if err := right.RequireColumns(key); err != nil {
		return nil, stats, err
	}

	rightKeys, _ := right.Column(key) //nolint:errcheck // checked above
	lookup := make(map[string][]int, right.NumRows())
	for i, v := range rightKeys.Values {
		if id, ok := v.key(); ok {
			lookup[id] = append(lookup[id], i)
		}
	}

	// Row plan: for each output row, the left row and the right row (-1 = none).
	leftKeys, _ := left.Column(key) //nolint:errcheck // checked above
	leftIdx := make([]int, 0, left.NumRows())
	rightIdx := make([]int, 0, left.NumRows())
	for i, v := range leftKeys.Values {
		id, ok := v.key()
		matches := lookup[id]
		if !ok || len(matches) == 0 {
			stats.Unmatched++
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, -1)
			continue
		}
		stats.Matched++
		stats.FanOut += len(matches) - 1
		for _, j := range matches {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, j)
		}
	}

	out := left.take(leftIdx)
	cols := append([]Column(nil), out.columns...)
	taken := make(map[string]bool, len(cols))
	for _, c := range cols {
		taken[c.Name] = true
	}
	for _, rc := range right.columns {
		if rc.Name == key {
			continue
		}
		name := rc.Name
		if taken[name] {
			name = name + "_" + suffix
		}
		taken[name] = true
		vals := make([]Value, len(rightIdx))
		for k, j := range rightIdx {
			if j >= 0 {
				vals[k] = rc.Values[j]
			}
		}
		cols = append(cols, Column{Name: name, Values: vals})
	}

	joined, err := New(left.Name(), cols...)
	if err != nil {
		return nil, stats, err
	}
	return joined, stats, nil
}

// FillNull replaces null cells of the named columns with v. Non-null cells,
// including strings, are left unchanged.
func FillNull(t *Table, v Value, names ...string) (*Table, error) {
	if err := t.RequireColumns(names...); err != nil {
		return nil, err
	}
	out := t
	for _, n := range names {
		c, _ := out.Column(n) //nolint:errcheck // checked above
		vals := make([]Value, c.Len())
		for i, cell := range c.Values {
			if cell.IsNull() {
				vals[i] = v
			} else {
				vals[i] = cell
			}
		}
		var err error
		if out, err = out.WithColumn(Column{Name: n, Values: vals}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FillZero is FillNull with the number 0.
func FillZero(t *Table, names ...string) (*Table, error) {
	return FillNull(t, Number(0), names...)
}

// Step is one secondary table of a Pipeline.
type Step struct {
	// Name labels the step in JoinStats and suffixes colliding columns.
	Name string

	// Table is the secondary table.
	Table *Table

	// Columns, when set, projects Table to the key plus these columns
	// before joining.
	Columns []string
}

// Pipeline is a chain of left-joins anchored on one table, followed by
// filling nulls with zero in the listed numeric columns.
//
// The anchor's row set is preserved: the result has exactly
// Anchor.NumRows() + sum(FanOut) rows. FanOut is zero whenever every
// secondary table has unique keys.
type Pipeline struct {
	Key      string
	Anchor   *Table
	Steps    []Step
	FillZero []string
}

// Result is the joined table plus per-step statistics.
type Result struct {
	Table *Table
	Stats []JoinStats
}

// TotalFanOut sums FanOut over all steps.
func (r *Result) TotalFanOut() int {
	n := 0
	for _, s := range r.Stats {
		n += s.FanOut
	}
	return n
}

// Run executes the pipeline. The context is checked between steps.
func (p Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.Anchor == nil {
		return nil, fmt.Errorf("pipeline: anchor table is required")
	}
	start := time.Now()
	res := &Result{Table: p.Anchor, Stats: make([]JoinStats, 0, len(p.Steps))}

	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		right := step.Table
		if right == nil {
			return nil, fmt.Errorf("pipeline step %s: table is nil", name)
		}
		if len(step.Columns) > 0 {
			var err error
			if right, err = right.Select(append([]string{p.Key}, step.Columns...)...); err != nil {
				return nil, fmt.Errorf("pipeline step %s: %w", name, err)
			}
		}

		joined, stats, err := LeftJoin(res.Table, right, p.Key, name)
		if err != nil {
			return nil, fmt.Errorf("pipeline step %s: %w", name, err)
		}
		res.Table = joined
		res.Stats = append(res.Stats, stats)

		logging.Ctx(ctx).Debug().
			Str("step", name).
			Int("matched", stats.Matched).
			Int("unmatched", stats.Unmatched).
			Int("fan_out", stats.FanOut).
			Msg("Left join step complete")
	}

	if len(p.FillZero) > 0 {
		filled, err := FillZero(res.Table, p.FillZero...)
		if err != nil {
			return nil, fmt.Errorf("pipeline fill: %w", err)
		}
		res.Table = filled
	}

	logging.Ctx(ctx).Debug().
		Str("anchor", p.Anchor.Name()).
		Int("rows", res.Table.NumRows()).
		Dur("elapsed", time.Since(start)).
		Msg("Join pipeline complete")
	return res, nil
}
