// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import (
	"fmt"
	"math"
)

// DefaultGridSize is the number of hexagons across the x range.
const DefaultGridSize = 30

// HexCell is one occupied hexagon.
type HexCell struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Count int     `json:"count"`
}

// HexbinResult holds occupied hexagons and the grid geometry.
type HexbinResult struct {
	Cells []HexCell `json:"cells"`
	NX    int       `json:"nx"`
	NY    int       `json:"ny"`
	SX    float64   `json:"sx"`
	SY    float64   `json:"sy"`
}

// Hexbin counts (x, y) points into a hexagonal grid of gridsize hexagons
// across x and gridsize/√3 down y, using two offset rectangular lattices
// and assigning each point to the nearer lattice centre. Cells with fewer
// than mincnt points (minimum 1) are omitted. Cells are ordered lattice
// one first, then lattice two, each column-major.
func Hexbin(x, y []float64, gridsize, mincnt int) (*HexbinResult, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrDimensionMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrInsufficientData)
	}
	if gridsize < 1 {
		gridsize = DefaultGridSize
	}
	mincnt = max(mincnt, 1)

	nx := gridsize
	ny := int(float64(nx) / math.Sqrt(3))
	if ny < 1 {
		ny = 1
	}

	xmin, xmax, _ := MinMax(x)
	ymin, ymax, _ := MinMax(y)
	xmin, xmax = nonsingular(xmin, xmax)
	ymin, ymax = nonsingular(ymin, ymax)
	pad := 1e-9 * (xmax - xmin)
	xmin, xmax = xmin-pad, xmax+pad
	sx := (xmax - xmin) / float64(nx)
	sy := (ymax - ymin) / float64(ny)

	nx1, ny1 := nx+1, ny+1
	nx2, ny2 := nx, ny
	counts := make([]int, nx1*ny1+nx2*ny2)

	for i := range x {
		ix := (x[i] - xmin) / sx
		iy := (y[i] - ymin) / sy
		ix1, iy1 := math.RoundToEven(ix), math.RoundToEven(iy)
		ix2, iy2 := math.Floor(ix), math.Floor(iy)

		d1 := (ix-ix1)*(ix-ix1) + 3*(iy-iy1)*(iy-iy1)
		d2 := (ix-ix2-0.5)*(ix-ix2-0.5) + 3*(iy-iy2-0.5)*(iy-iy2-0.5)

		if d1 < d2 {
			a, b := int(ix1), int(iy1)
			if a >= 0 && a < nx1 && b >= 0 && b < ny1 {
				counts[a*ny1+b]++
			}
		} else {
			a, b := int(ix2), int(iy2)
			if a >= 0 && a < nx2 && b >= 0 && b < ny2 {
				counts[nx1*ny1+a*ny2+b]++
			}
		}
	}

	res := &HexbinResult{NX: nx, NY: ny, SX: sx, SY: sy}
	for a := 0; a < nx1; a++ {
		for b := 0; b < ny1; b++ {
			if c := counts[a*ny1+b]; c >= mincnt {
				res.Cells = append(res.Cells, HexCell{X: xmin + float64(a)*sx, Y: ymin + float64(b)*sy, Count: c})
			}
		}
	}
	for a := 0; a < nx2; a++ {
		for b := 0; b < ny2; b++ {
			if c := counts[nx1*ny1+a*ny2+b]; c >= mincnt {
				res.Cells = append(res.Cells, HexCell{X: xmin + (float64(a)+0.5)*sx, Y: ymin + (float64(b)+0.5)*sy, Count: c})
			}
		}
	}
	return res, nil
}

// nonsingular widens a degenerate range by 10% of its magnitude (or 0.1
// around zero).
func nonsingular(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	if lo == 0 {
		return -0.1, 0.1
	}
	d := math.Abs(lo) * 0.1
	return lo - d, hi + d
}
