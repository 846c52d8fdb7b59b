// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package frame

import (
	"fmt"
	"math"
	"sort"
)

// Binner maps numbers to labels over half-open intervals
// [boundaries[i], boundaries[i+1]).
//
// Use -Inf and +Inf as the first and last boundary to make binning total;
// with finite terminals, values outside [first, last) are unassigned.
type Binner struct {
	boundaries []float64
	labels     []string
}

// NewBinner validates boundaries (at least two, strictly increasing, no NaN)
// and labels (exactly one fewer than boundaries).
func NewBinner(boundaries []float64, labels []string) (*Binner, error) {
	if len(boundaries) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 boundaries, got %d", ErrInvalidBoundaries, len(boundaries))
	}
	if len(labels) != len(boundaries)-1 {
		return nil, fmt.Errorf("%w: %d boundaries need %d labels, got %d",
			ErrInvalidBoundaries, len(boundaries), len(boundaries)-1, len(labels))
	}
	for i, b := range boundaries {
		if math.IsNaN(b) {
			return nil, fmt.Errorf("%w: boundary %d is NaN", ErrInvalidBoundaries, i)
		}
		if i > 0 && !(b > boundaries[i-1]) {
			return nil, fmt.Errorf("%w: boundary %d (%v) is not greater than %v",
				ErrInvalidBoundaries, i, b, boundaries[i-1])
		}
	}
	return &Binner{
		boundaries: append([]float64(nil), boundaries...),
		labels:     append([]string(nil), labels...),
	}, nil
}

// Labels returns the bin labels in interval order.
func (b *Binner) Labels() []string {
	return append([]string(nil), b.labels...)
}

// Index returns the interval holding v, or ok=false when v falls outside
// [first, last).
func (b *Binner) Index(v float64) (int, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	// first boundary strictly greater than v
	j := sort.Search(len(b.boundaries), func(i int) bool { return b.boundaries[i] > v })
	if j == 0 || j == len(b.boundaries) {
		return 0, false
	}
	return j - 1, true
}

// BinResult is the outcome of binning one column.
type BinResult struct {
	// Labels has one entry per input row: the label, or null.
	Labels Column

	// Counts has one entry per bin label.
	Counts []int

	// Unassigned counts numeric values outside the outer boundaries.
	Unassigned int

	// Missing counts null or non-numeric inputs.
	Missing int
}

// Apply bins every cell of col. The returned label column is named name.
func (b *Binner) Apply(col Column, name string) BinResult {
	res := BinResult{
		Labels: Column{Name: name, Values: make([]Value, col.Len())},
		Counts: make([]int, len(b.labels)),
	}
	for i, cell := range col.Values {
		f, ok := cell.Float()
		if !ok {
			res.Missing++
			continue
		}
		idx, ok := b.Index(f)
		if !ok {
			res.Unassigned++
			continue
		}
		res.Labels.Values[i] = String(b.labels[idx])
		res.Counts[idx]++
	}
	return res
}

// BinColumn bins column src of t and returns t with the label column dst
// added (or replaced).
func BinColumn(t *Table, src, dst string, b *Binner) (*Table, BinResult, error) {
	col, err := t.Column(src)
	if err != nil {
		return nil, BinResult{}, err
	}
	res := b.Apply(col, dst)
	out, err := t.WithColumn(res.Labels)
	if err != nil {
		return nil, BinResult{}, err
	}
	return out, res, nil
}
