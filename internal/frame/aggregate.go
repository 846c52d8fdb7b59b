// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package frame

import "fmt"

// Reduction names how a group of values collapses to one scalar.
type Reduction string

const (
	// Sum adds the numeric values of a group. A group with no numeric
	// values sums to 0.
	Sum Reduction = "sum"

	// Count counts the rows of a group, null values included.
	Count Reduction = "count"

	// Mean averages the numeric values of a group. A group with no numeric
	// values has a null mean.
	Mean Reduction = "mean"
)

func (r Reduction) valid() bool {
	switch r {
	case Sum, Count, Mean:
		return true
	}
	return false
}

type group struct {
	key   Value
	rows  int
	sum   float64
	nums  int
	order int
}

// Aggregate collapses t to one row per distinct value of key, reducing the
// value column with r into a column called out. Output rows follow the first
// appearance of each key. Rows with a null key are dropped. Empty input
// yields an empty table shaped [key, out].
func Aggregate(t *Table, key, value string, r Reduction, out string) (*Table, error) {
	if !r.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedReduction, string(r))
	}
	if err := t.RequireColumns(key, value); err != nil {
		return nil, err
	}
	if out == "" || out == key {
		return nil, fmt.Errorf("aggregate %s: %w: output column %q", t.Name(), ErrDuplicateColumn, out)
	}

	keys, _ := t.Column(key)     //nolint:errcheck // checked above
	values, _ := t.Column(value) //nolint:errcheck // checked above

	groups := make(map[string]*group)
	ordered := make([]*group, 0)
	for i, k := range keys.Values {
		id, ok := k.key()
		if !ok {
			continue
		}
		g, seen := groups[id]
		if !seen {
			g = &group{key: k, order: len(ordered)}
			groups[id] = g
			ordered = append(ordered, g)
		}
		g.rows++
		if f, ok := values.Values[i].Float(); ok {
			g.sum += f
			g.nums++
		}
	}

	keyCol := Column{Name: key, Values: make([]Value, len(ordered))}
	outCol := Column{Name: out, Values: make([]Value, len(ordered))}
	for i, g := range ordered {
		keyCol.Values[i] = g.key
		outCol.Values[i] = g.reduce(r)
	}
	return New(t.Name(), keyCol, outCol)
}

func (g *group) reduce(r Reduction) Value {
	switch r {
	case Count:
		return Number(float64(g.rows))
	case Mean:
		if g.nums == 0 {
			return Null()
		}
		return Number(g.sum / float64(g.nums))
	default:
		return Number(g.sum)
	}
}

// GroupMean returns the mean of value per distinct key, keeping the value
// column's name. Rows follow first appearance of each key.
func GroupMean(t *Table, key, value string) (*Table, error) {
	return Aggregate(t, key, value, Mean, value)
}
