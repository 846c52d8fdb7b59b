// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import (
	"fmt"
	"math"
)

// ClusterStat summarises one cluster.
type ClusterStat struct {
	Cluster int       `json:"cluster"`
	Count   int       `json:"count"`
	Means   []float64 `json:"means"`
}

// Summarize returns per-cluster row counts and feature means, ordered by
// cluster label. Clusters with no rows are omitted.
func Summarize(rows [][]float64, labels []int) ([]ClusterStat, error) {
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrDimensionMismatch, len(rows), len(labels))
	}
	dim, err := width(rows)
	if err != nil {
		return nil, err
	}

	maxLabel := -1
	for _, l := range labels {
		if l < 0 {
			return nil, fmt.Errorf("%w: negative label %d", ErrDimensionMismatch, l)
		}
		maxLabel = max(maxLabel, l)
	}

	stats := make([]ClusterStat, maxLabel+1)
	for c := range stats {
		stats[c] = ClusterStat{Cluster: c, Means: make([]float64, dim)}
	}
	for i, r := range rows {
		s := &stats[labels[i]]
		s.Count++
		for j, v := range r {
			s.Means[j] += v
		}
	}

	out := make([]ClusterStat, 0, len(stats))
	for _, s := range stats {
		if s.Count == 0 {
			continue
		}
		for j := range s.Means {
			s.Means[j] /= float64(s.Count)
		}
		out = append(out, s)
	}
	return out, nil
}

// ColumnMeans returns the mean of each feature over all rows.
func ColumnMeans(rows [][]float64) ([]float64, error) {
	dim, err := width(rows)
	if err != nil {
		return nil, err
	}
	means := make([]float64, dim)
	for _, r := range rows {
		for j, v := range r {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(len(rows))
	}
	return means, nil
}

// Interpret names, for each cluster, the feature that stands out most
// relative to the overall mean (largest cluster/overall ratio). Features
// with a zero overall mean are skipped.
func Interpret(summary []ClusterStat, overall []float64, names []string) []string {
	out := make([]string, 0, len(summary))
	for _, s := range summary {
		best, bestRatio := -1, math.Inf(-1)
		for j, m := range s.Means {
			if j >= len(overall) || overall[j] == 0 {
				continue
			}
			if r := m / overall[j]; r > bestRatio {
				best, bestRatio = j, r
			}
		}
		if best < 0 || best >= len(names) {
			out = append(out, fmt.Sprintf("Cluster %d: %d users, no distinguishing feature", s.Cluster, s.Count))
			continue
		}
		out = append(out, fmt.Sprintf("Cluster %d: %d users, highest relative %s (%.2fx the overall mean)",
			s.Cluster, s.Count, names[best], bestRatio))
	}
	return out
}
