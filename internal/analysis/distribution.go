// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// HistogramResult holds equal-width bins. Edges has len(Counts)+1 entries.
type HistogramResult struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// Histogram counts values into bins equal-width bins over [lo, hi]. Bins are
// half-open except the last, which includes hi. Values outside the range
// and NaNs are ignored. When lo == hi the range is widened by 0.5 each side.
func Histogram(values []float64, bins int, lo, hi float64) (*HistogramResult, error) {
	if bins < 1 {
		return nil, fmt.Errorf("%w: %d bins", ErrDimensionMismatch, bins)
	}
	if lo > hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil, fmt.Errorf("%w: range [%v, %v]", ErrDimensionMismatch, lo, hi)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	res := &HistogramResult{
		Edges:  Linspace(lo, hi, bins+1),
		Counts: make([]int, bins),
	}
	w := (hi - lo) / float64(bins)
	for _, v := range values {
		if math.IsNaN(v) || v < lo || v > hi {
			continue
		}
		i := int((v - lo) / w)
		if i >= bins {
			i = bins - 1
		}
		res.Counts[i]++
	}
	return res, nil
}

// MinMax returns the smallest and largest finite values.
func MinMax(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

// KDEResult is a density curve sampled on a grid.
type KDEResult struct {
	X         []float64 `json:"x"`
	Density   []float64 `json:"density"`
	Bandwidth float64   `json:"bandwidth"`
}

// KDE estimates the density of values with a Gaussian kernel and Scott's
// bandwidth (sample standard deviation times n^(-1/5)), evaluated at points
// evenly spaced between the minimum and maximum. It needs at least two
// values that are not all equal.
func KDE(values []float64, points int) (*KDEResult, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("%w: KDE needs at least 2 values, got %d", ErrInsufficientData, len(values))
	}
	if points < 2 {
		return nil, fmt.Errorf("%w: %d points", ErrDimensionMismatch, points)
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, fmt.Errorf("%w: KDE input is constant", ErrZeroVariance)
	}
	n := float64(len(values))
	bw := sd * math.Pow(n, -0.2)

	lo, hi, _ := MinMax(values)
	xs := Linspace(lo, hi, points)
	ys := make([]float64, points)
	norm := 1 / (n * bw * math.Sqrt(2*math.Pi))
	for i, x := range xs {
		s := 0.0
		for _, v := range values {
			u := (x - v) / bw
			s += math.Exp(-0.5 * u * u)
		}
		ys[i] = s * norm
	}
	return &KDEResult{X: xs, Density: ys, Bandwidth: bw}, nil
}

// Mean returns the arithmetic mean, or NaN for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}
