// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
)

// Cluster count bounds.
const (
	MinK     = 2
	MaxK     = 10
	DefaultK = 3
)

// KMeansConfig contains configuration for k-means clustering.
type KMeansConfig struct {
	// K is the number of clusters, in [MinK, MaxK].
	K int

	// Seed drives k-means++ seeding.
	Seed uint64

	// MaxIterations caps Lloyd iterations.
	MaxIterations int

	// Tolerance stops iterating once no centroid moves farther than this
	// (Euclidean distance).
	Tolerance float64
}

// DefaultKMeansConfig returns default k-means configuration.
func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		K:             DefaultK,
		Seed:          42,
		MaxIterations: 300,
		Tolerance:     1e-4,
	}
}

// KMeansResult is the outcome of a clustering run.
type KMeansResult struct {
	// Labels holds the cluster of each input row, in 0..K-1.
	Labels []int

	// Centroids holds K rows of feature means.
	Centroids [][]float64

	// Inertia is the sum of squared distances to assigned centroids.
	Inertia float64

	Iterations int
	Converged  bool
}

// KMeans clusters rows into k groups with the default iteration settings.
func KMeans(ctx context.Context, rows [][]float64, k int, seed uint64) (*KMeansResult, error) {
	cfg := DefaultKMeansConfig()
	cfg.K = k
	cfg.Seed = seed
	return KMeansWithConfig(ctx, rows, cfg)
}

// KMeansWithConfig clusters rows using cfg. Zero MaxIterations and
// Tolerance take their defaults. The context is checked once per iteration.
func KMeansWithConfig(ctx context.Context, rows [][]float64, cfg KMeansConfig) (*KMeansResult, error) {
	if cfg.K < MinK || cfg.K > MaxK {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidK, cfg.K, MinK, MaxK)
	}
	if len(rows) < cfg.K {
		return nil, fmt.Errorf("%w: %d rows for %d clusters", ErrInsufficientData, len(rows), cfg.K)
	}
	dim, err := width(rows)
	if err != nil {
		return nil, err
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 300
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-4
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	centroids := seedPlusPlus(rows, cfg.K, rng)
	labels := make([]int, len(rows))

	res := &KMeansResult{Labels: labels}
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		assign(rows, centroids, labels)
		next := recompute(rows, labels, centroids, dim)

		shift := 0.0
		for c := range centroids {
			if d := math.Sqrt(sqDist(centroids[c], next[c])); d > shift {
				shift = d
			}
		}
		centroids = next
		res.Iterations = iter
		if shift <= cfg.Tolerance {
			res.Converged = true
			break
		}
	}

	// Final labels match the final centroids.
	assign(rows, centroids, labels)
	for i, r := range rows {
		res.Inertia += sqDist(r, centroids[labels[i]])
	}
	res.Centroids = centroids
	return res, nil
}

// seedPlusPlus picks k initial centroids: the first uniformly, each next
// one with probability proportional to its squared distance from the
// nearest centroid chosen so far.
func seedPlusPlus(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(rows[rng.IntN(len(rows))]))

	dist := make([]float64, len(rows))
	for i, r := range rows {
		dist[i] = sqDist(r, centroids[0])
	}

	for len(centroids) < k {
		total := 0.0
		for _, d := range dist {
			total += d
		}
		pick := 0
		if total == 0 {
			// every row sits on a centroid already
			pick = rng.IntN(len(rows))
		} else {
			target := rng.Float64() * total
			acc := 0.0
			pick = len(rows) - 1
			for i, d := range dist {
				acc += d
				if acc >= target && d > 0 {
					pick = i
					break
				}
			}
		}
		c := clone(rows[pick])
		centroids = append(centroids, c)
		for i, r := range rows {
			if d := sqDist(r, c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centroids
}

// assign labels each row with its nearest centroid; ties go to the lower index.
func assign(rows, centroids [][]float64, labels []int) {
	for i, r := range rows {
		best, bestDist := 0, math.Inf(1)
		for c, ctr := range centroids {
			if d := sqDist(r, ctr); d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
	}
}

// recompute returns the mean of each cluster. An empty cluster takes the
// row farthest from its current centroid; rows already taken by another
// empty cluster in the same pass are skipped.
func recompute(rows [][]float64, labels []int, prev [][]float64, dim int) [][]float64 {
	k := len(prev)
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, r := range rows {
		c := labels[i]
		counts[c]++
		for j, v := range r {
			sums[c][j] += v
		}
	}

	var reseeded map[int]bool
	for c := range sums {
		if counts[c] == 0 {
			if reseeded == nil {
				reseeded = make(map[int]bool)
			}
			far, farDist := -1, -1.0
			for i, r := range rows {
				if reseeded[i] {
					continue
				}
				if d := sqDist(r, prev[labels[i]]); d > farDist {
					far, farDist = i, d
				}
			}
			if far < 0 {
				// more empty clusters than rows
				sums[c] = clone(prev[c])
				continue
			}
			reseeded[far] = true
			sums[c] = clone(rows[far])
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
	}
	return sums
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// width returns the common row length, failing on ragged or empty rows.
func width(rows [][]float64) (int, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrInsufficientData)
	}
	dim := len(rows[0])
	if dim == 0 {
		return 0, fmt.Errorf("%w: rows have no features", ErrInsufficientData)
	}
	for i, r := range rows {
		if len(r) != dim {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(r), dim)
		}
	}
	return dim, nil
}
