// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/cadence/internal/analysis"
	"github.com/tomtom215/cadence/internal/frame"
	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/source"
)

// overviewFeatures are clustered on their raw scales.
var overviewFeatures = []string{"level", "total_plays", "total_playlists", "fans_count", "follows_count"}

const unscaledNote = "Features are clustered on their raw scales without standardisation, " +
	"so wide-range columns such as total_plays dominate the distances."

func (d *Deps) renderOverview(rc *RenderContext) (*Result, error) {
	ctx := rc.Context()
	k, err := d.clusterCount(rc.Param("k"))
	if err != nil {
		return nil, err
	}

	tables, err := d.loadTables(ctx,
		required(source.Basic), required(source.Listening),
		required(source.Playlist), required(source.Social))
	if err != nil {
		return nil, err
	}
	plays, err := totalPlays(tables[source.Listening])
	if err != nil {
		return nil, err
	}
	anchor, err := tables[source.Basic].Select(source.KeyColumn, "level")
	if err != nil {
		return nil, err
	}
	joined, err := join(ctx, Overview, frame.Pipeline{
		Key:    source.KeyColumn,
		Anchor: anchor,
		Steps: []frame.Step{
			{Name: source.Listening, Table: plays},
			{Name: source.Playlist, Table: tables[source.Playlist], Columns: []string{"total_playlists"}},
			{Name: source.Social, Table: tables[source.Social], Columns: []string{"fans_count", "follows_count"}},
		},
		FillZero: overviewFeatures,
	})
	if err != nil {
		return nil, err
	}

	matrix, idx, err := numericRows(joined.Table, overviewFeatures...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cfg := analysis.DefaultKMeansConfig()
	cfg.K = k
	cfg.Seed = uint64(d.Analysis.Seed) //nolint:gosec // seed bits only
	km, err := analysis.KMeansWithConfig(ctx, matrix, cfg)
	metrics.ObserveStage("kmeans", start)
	if err != nil {
		return nil, err
	}
	metrics.KMeansIterations.Observe(float64(km.Iterations))

	proj, err := analysis.PCA(matrix, 2)
	if err != nil {
		return nil, err
	}
	summary, err := analysis.Summarize(matrix, km.Labels)
	if err != nil {
		return nil, err
	}
	overall, err := analysis.ColumnMeans(matrix)
	if err != nil {
		return nil, err
	}

	labeled, err := withClusters(joined.Table, idx, km.Labels)
	if err != nil {
		return nil, err
	}

	res := &Result{Page: Overview, Title: "音乐用户行为分析平台"}
	res.add(tableArtifact("合并后的用户数据", labeled, d.Analysis.PreviewRows))
	res.add(chartArtifact(fmt.Sprintf("用户聚类结果 (K=%d)", k), scatterByCluster(proj.Points, km.Labels, k)))
	summaryTable, err := summaryTable(summary, overviewFeatures)
	if err != nil {
		return nil, err
	}
	res.add(tableArtifact("聚类概要", summaryTable, len(summary)))
	res.add(textArtifact("聚类解读", strings.Join(analysis.Interpret(summary, overall, overviewFeatures), "\n")))
	res.add(textArtifact("说明", unscaledNote))

	res.meta("k", k)
	res.meta("rows", joined.Table.NumRows())
	res.meta("clustered_rows", len(matrix))
	res.meta("iterations", km.Iterations)
	res.meta("converged", km.Converged)
	res.meta("inertia", finite(km.Inertia))
	res.meta("explained_variance", proj.ExplainedVariance)
	fanOutMeta(res, joined)
	return res, nil
}

// clusterCount parses the k parameter, defaulting to the configured K.
func (d *Deps) clusterCount(raw string) (int, error) {
	if raw == "" {
		if d.Analysis.DefaultK != 0 {
			return d.Analysis.DefaultK, nil
		}
		return analysis.DefaultK, nil
	}
	k, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: k=%q is not an integer", ErrInvalidParam, raw)
	}
	if k < analysis.MinK || k > analysis.MaxK {
		return 0, fmt.Errorf("%w: k=%d: %w", ErrInvalidParam, k, analysis.ErrInvalidK)
	}
	return k, nil
}

// withClusters appends a cluster column; rows that were not clustered get null.
func withClusters(t *frame.Table, idx, labels []int) (*frame.Table, error) {
	vals := make([]frame.Value, t.NumRows())
	for i, row := range idx {
		vals[row] = frame.Number(float64(labels[i]))
	}
	return t.WithColumn(frame.Column{Name: "cluster", Values: vals})
}

func scatterByCluster(points [][]float64, labels []int, k int) Chart {
	series := make([]Series, k)
	for c := range series {
		series[c].Name = fmt.Sprintf("Cluster %d", c)
	}
	for i, p := range points {
		s := &series[labels[i]]
		s.X = append(s.X, p[0])
		s.Y = append(s.Y, p[1])
	}
	return Chart{Type: ChartScatter, Series: series, XLabel: "PCA 1", YLabel: "PCA 2"}
}

func summaryTable(summary []analysis.ClusterStat, features []string) (*frame.Table, error) {
	cols := make([]frame.Column, 0, len(features)+2)
	clusters := frame.Column{Name: "cluster"}
	counts := frame.Column{Name: "count"}
	for _, s := range summary {
		clusters.Values = append(clusters.Values, frame.Number(float64(s.Cluster)))
		counts.Values = append(counts.Values, frame.Number(float64(s.Count)))
	}
	cols = append(cols, clusters, counts)
	for j, f := range features {
		c := frame.Column{Name: f}
		for _, s := range summary {
			c.Values = append(c.Values, frame.Number(s.Means[j]))
		}
		cols = append(cols, c)
	}
	return frame.New("cluster_summary", cols...)
}
