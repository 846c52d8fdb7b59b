// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projection is the result of PCA.
type Projection struct {
	// Points holds one row per input row with Components coordinates.
	Points [][]float64

	// ExplainedVariance holds the variance captured by each component.
	ExplainedVariance []float64
}

// PCA projects rows onto their first n principal components. Columns are
// centred but not scaled. When the data has fewer usable components than n,
// the missing coordinates are zero.
func PCA(rows [][]float64, n int) (*Projection, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d components", ErrDimensionMismatch, n)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: PCA needs at least 2 rows, got %d", ErrInsufficientData, len(rows))
	}
	dim, err := width(rows)
	if err != nil {
		return nil, err
	}

	data := mat.NewDense(len(rows), dim, nil)
	for i, r := range rows {
		data.SetRow(i, r)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, fmt.Errorf("%w: principal component decomposition failed", ErrSingular)
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	_, avail := vecs.Dims()
	use := min(n, avail)

	// centre columns before projecting
	centred := mat.NewDense(len(rows), dim, nil)
	for j := 0; j < dim; j++ {
		col := mat.Col(nil, j, data)
		mean := stat.Mean(col, nil)
		for i := range col {
			centred.Set(i, j, col[i]-mean)
		}
	}

	var proj mat.Dense
	proj.Mul(centred, vecs.Slice(0, dim, 0, use))

	out := &Projection{
		Points:            make([][]float64, len(rows)),
		ExplainedVariance: make([]float64, n),
	}
	for i := range rows {
		p := make([]float64, n)
		for j := 0; j < use; j++ {
			p[j] = proj.At(i, j)
		}
		out.Points[i] = p
	}
	copy(out.ExplainedVariance, vars[:min(n, len(vars))])
	return out, nil
}
