// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// blobs draws n points around each center with unit spread.
func blobs(t *testing.T, centers [][]float64, n int, seed uint64) [][]float64 {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed+1))
	rows := make([][]float64, 0, n*len(centers))
	for _, c := range centers {
		for i := 0; i < n; i++ {
			p := make([]float64, len(c))
			for j := range c {
				p[j] = c[j] + rng.NormFloat64()
			}
			rows = append(rows, p)
		}
	}
	return rows
}

func TestKMeans_RecoversBlobs(t *testing.T) {
	centers := [][]float64{{0, 0}, {50, 50}, {-50, 60}}
	rows := blobs(t, centers, 60, 7)

	res, err := KMeans(context.Background(), rows, 3, 42)
	if err != nil {
		t.Fatalf("KMeans() error = %v", err)
	}
	if !res.Converged {
		t.Errorf("did not converge in %d iterations", res.Iterations)
	}

	for _, c := range centers {
		best := math.Inf(1)
		for _, ctr := range res.Centroids {
			best = math.Min(best, math.Sqrt(sqDist(c, ctr)))
		}
		if best > 1.0 {
			t.Errorf("no centroid within 1.0 of blob %v (nearest %.3f)", c, best)
		}
	}

	// Each blob maps to a single label.
	for b := range centers {
		first := res.Labels[b*60]
		for i := b * 60; i < (b+1)*60; i++ {
			if res.Labels[i] != first {
				t.Fatalf("blob %d split across clusters", b)
			}
		}
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	rows := blobs(t, [][]float64{{0, 0, 0}, {10, 10, 10}}, 30, 3)
	a, err := KMeans(context.Background(), rows, 4, 42)
	if err != nil {
		t.Fatalf("KMeans() error = %v", err)
	}
	b, err := KMeans(context.Background(), rows, 4, 42)
	if err != nil {
		t.Fatalf("KMeans() error = %v", err)
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			t.Fatalf("labels differ at row %d with the same seed", i)
		}
	}
}

func TestKMeans_Errors(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}}
	tests := []struct {
		name string
		rows [][]float64
		k    int
		want error
	}{
		{"k too small", rows, 1, ErrInvalidK},
		{"k too large", rows, 11, ErrInvalidK},
		{"fewer rows than k", rows, 3, ErrInsufficientData},
		{"ragged rows", [][]float64{{1, 2}, {3}}, 2, ErrDimensionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := KMeans(context.Background(), tt.rows, tt.k, 1); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestKMeans_IdenticalRows(t *testing.T) {
	rows := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	res, err := KMeans(context.Background(), rows, 2, 9)
	if err != nil {
		t.Fatalf("KMeans() error = %v", err)
	}
	if res.Inertia != 0 {
		t.Errorf("Inertia = %v, want 0", res.Inertia)
	}
}

func TestRecompute_EmptyClustersTakeDistinctRows(t *testing.T) {
	rows := [][]float64{{0}, {1}, {10}, {20}}
	labels := []int{0, 0, 0, 0}
	prev := [][]float64{{0}, {100}, {200}}

	got := recompute(rows, labels, prev, 1)
	if got[0][0] != 7.75 {
		t.Errorf("cluster 0 mean = %v, want 7.75", got[0][0])
	}
	if got[1][0] == got[2][0] {
		t.Errorf("empty clusters reseeded to the same row %v", got[1][0])
	}
	if got[1][0] != 20 || got[2][0] != 10 {
		t.Errorf("reseeds = %v, %v, want the two farthest rows 20 and 10", got[1][0], got[2][0])
	}
}

func TestKMeans_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rows := blobs(t, [][]float64{{0}, {9}}, 5, 1)
	if _, err := KMeans(ctx, rows, 2, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSummarizeAndInterpret(t *testing.T) {
	rows := [][]float64{{1, 10}, {3, 10}, {10, 0}, {10, 2}}
	labels := []int{0, 0, 1, 1}

	summary, err := Summarize(rows, labels)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("clusters = %d, want 2", len(summary))
	}
	if summary[0].Count != 2 || summary[0].Means[0] != 2 || summary[0].Means[1] != 10 {
		t.Errorf("cluster 0 = %+v", summary[0])
	}

	overall, err := ColumnMeans(rows)
	if err != nil {
		t.Fatalf("ColumnMeans() error = %v", err)
	}
	lines := Interpret(summary, overall, []string{"level", "fans_count"})
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	wantFeature := []string{"fans_count", "level"}
	for i, l := range lines {
		if !contains(l, wantFeature[i]) {
			t.Errorf("line %d = %q, want it to name %s", i, l, wantFeature[i])
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestPCA(t *testing.T) {
	// Points on a line: all variance on the first component.
	rows := make([][]float64, 20)
	for i := range rows {
		x := float64(i)
		rows[i] = []float64{x, 2 * x, 5}
	}
	proj, err := PCA(rows, 2)
	if err != nil {
		t.Fatalf("PCA() error = %v", err)
	}
	if len(proj.Points) != 20 || len(proj.Points[0]) != 2 {
		t.Fatalf("projection shape = %dx%d", len(proj.Points), len(proj.Points[0]))
	}
	for i, p := range proj.Points {
		if math.Abs(p[1]) > 1e-8 {
			t.Errorf("row %d second component = %v, want 0", i, p[1])
		}
	}
	// Projected coordinates are centred.
	sum := 0.0
	for _, p := range proj.Points {
		sum += p[0]
	}
	if math.Abs(sum) > 1e-8 {
		t.Errorf("first component sum = %v, want 0", sum)
	}
	if proj.ExplainedVariance[0] <= proj.ExplainedVariance[1] {
		t.Errorf("explained variance not decreasing: %v", proj.ExplainedVariance)
	}

	if _, err := PCA([][]float64{{1, 2}}, 2); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("single row error = %v, want ErrInsufficientData", err)
	}
}
