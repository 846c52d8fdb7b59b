// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is an ordinary least squares fit y = Intercept + Coefficients·x.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// OLS fits a linear model with intercept. It needs more rows than
// parameters.
func OLS(x [][]float64, y []float64) (*LinearModel, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, len(x), len(y))
	}
	dim, err := width(x)
	if err != nil {
		return nil, err
	}
	if len(x) <= dim {
		return nil, fmt.Errorf("%w: %d rows for %d parameters", ErrInsufficientData, len(x), dim+1)
	}

	design := mat.NewDense(len(x), dim+1, nil)
	for i, r := range x {
		design.Set(i, 0, 1)
		for j, v := range r {
			design.Set(i, j+1, v)
		}
	}
	beta, err := leastSquares(design, y)
	if err != nil {
		return nil, err
	}
	return &LinearModel{Intercept: beta[0], Coefficients: beta[1:]}, nil
}

// Predict evaluates the model at x.
func (m *LinearModel) Predict(x []float64) float64 {
	y := m.Intercept
	for j, c := range m.Coefficients {
		if j < len(x) {
			y += c * x[j]
		}
	}
	return y
}

// R2 returns the coefficient of determination of the model on (x, y).
// A constant y yields ErrZeroVariance.
func (m *LinearModel) R2(x [][]float64, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, len(x), len(y))
	}
	if len(y) == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrInsufficientData)
	}
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var ssRes, ssTot float64
	for i := range y {
		r := y[i] - m.Predict(x[i])
		ssRes += r * r
		d := y[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0, fmt.Errorf("%w: target is constant", ErrZeroVariance)
	}
	return 1 - ssRes/ssTot, nil
}

// TrainTestSplit shuffles 0..n-1 with seed and returns the train and test
// indexes. The test share is round(n*testFrac), at least 1 when n >= 2.
func TrainTestSplit(n int, testFrac float64, seed uint64) (train, test []int) {
	if n <= 0 {
		return nil, nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	nTest := int(math.Round(float64(n) * testFrac))
	if nTest < 1 && n >= 2 && testFrac > 0 {
		nTest = 1
	}
	nTest = min(max(nTest, 0), n)
	return idx[nTest:], idx[:nTest]
}

// PolyFit fits a polynomial of the given degree by least squares and
// returns its coefficients in ascending order (c0 + c1·x + c2·x² ...).
func PolyFit(x, y []float64, degree int) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrDimensionMismatch, len(x), len(y))
	}
	if degree < 0 {
		return nil, fmt.Errorf("%w: negative degree %d", ErrDimensionMismatch, degree)
	}
	if len(x) <= degree {
		return nil, fmt.Errorf("%w: %d points for degree %d", ErrInsufficientData, len(x), degree)
	}

	vander := mat.NewDense(len(x), degree+1, nil)
	for i, xi := range x {
		p := 1.0
		for j := 0; j <= degree; j++ {
			vander.Set(i, j, p)
			p *= xi
		}
	}
	return leastSquares(vander, y)
}

// PolyEval evaluates ascending-order coefficients at x (Horner's rule).
func PolyEval(coeffs []float64, x float64) float64 {
	y := 0.0
	for j := len(coeffs) - 1; j >= 0; j-- {
		y = y*x + coeffs[j]
	}
	return y
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// leastSquares solves a·b ≈ y. gonum reports a condition number above
// mat.ConditionTolerance as an error, which is treated as singular.
func leastSquares(a *mat.Dense, y []float64) ([]float64, error) {
	rows, cols := a.Dims()
	yv := mat.NewDense(rows, 1, append([]float64(nil), y...))

	var beta mat.Dense
	if err := beta.Solve(a, yv); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingular, err)
	}
	out := make([]float64, cols)
	for j := range out {
		out[j] = beta.At(j, 0)
		if math.IsNaN(out[j]) || math.IsInf(out[j], 0) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrSingular)
		}
	}
	return out, nil
}
