// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Pearson returns the correlation coefficient of x and y and its two-sided
// p-value under the null hypothesis of no correlation.
func Pearson(x, y []float64) (r, p float64, err error) {
	if len(x) != len(y) {
		return 0, 0, fmt.Errorf("%w: %d x values, %d y values", ErrDimensionMismatch, len(x), len(y))
	}
	n := len(x)
	if n < 3 {
		return 0, 0, fmt.Errorf("%w: Pearson needs at least 3 pairs, got %d", ErrInsufficientData, n)
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0, 0, fmt.Errorf("%w: Pearson input is constant", ErrZeroVariance)
	}

	r = stat.Correlation(x, y, nil)
	r = math.Max(-1, math.Min(1, r))
	if math.Abs(r) == 1 {
		return r, 0, nil
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.Survival(math.Abs(t))
	return r, p, nil
}

// CorrelationMatrix returns the Pearson correlation between every pair of
// columns. cols[j] holds the values of column j; all columns must share a
// length of at least 2. Constant columns produce NaN entries.
func CorrelationMatrix(cols [][]float64) ([][]float64, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInsufficientData)
	}
	n := len(cols[0])
	for j, c := range cols {
		if len(c) != n {
			return nil, fmt.Errorf("%w: column %d has %d values, want %d", ErrDimensionMismatch, j, len(c), n)
		}
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: %d rows", ErrInsufficientData, n)
	}

	data := mat.NewDense(n, len(cols), nil)
	for j, c := range cols {
		data.SetCol(j, c)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, data, nil)

	out := make([][]float64, len(cols))
	for i := range out {
		out[i] = make([]float64, len(cols))
		for j := range out[i] {
			out[i][j] = corr.At(i, j)
		}
	}
	return out, nil
}
