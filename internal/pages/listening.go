// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"fmt"

	"github.com/tomtom215/cadence/internal/analysis"
	"github.com/tomtom215/cadence/internal/frame"
	"github.com/tomtom215/cadence/internal/source"
)

const (
	topSongs    = 20
	kdePoints   = 200
	cloudWords  = 200
	corrMinRows = 2
)

// correlationColumns are compared pairwise on the listening page.
var correlationColumns = []string{
	"playCount", "score", "liked_playlist_count", "created_playlist_count",
	"total_playlists", "follows_count", "fans_count", "level",
}

func (d *Deps) renderListening(rc *RenderContext) (*Result, error) {
	ctx := rc.Context()
	tables, err := d.loadTables(ctx,
		required(source.Listening), optional(source.Playlist),
		optional(source.Social), optional(source.Basic))
	if err != nil {
		return nil, err
	}
	listening := tables[source.Listening]

	res := &Result{Page: Listening, Title: "播放行为分析"}
	res.add(tableArtifact("播放记录预览", listening, d.Analysis.PreviewRows))

	songs, _ := listening.Column("song_name") //nolint:errcheck // contract column
	names := make([]string, 0, songs.Len())
	for _, v := range songs.Values {
		if !v.IsNull() {
			names = append(names, v.Text())
		}
	}
	top := countChart(ChartBar, names)
	if s := &top.Series[0]; len(s.Labels) > topSongs {
		s.Labels, s.Y = s.Labels[:topSongs], s.Y[:topSongs]
	}
	top.XLabel, top.YLabel = "歌曲", "播放记录数"
	res.add(chartArtifact(fmt.Sprintf("Top %d 热门歌曲", topSongs), top))

	scoreDistribution(res, listening)

	cloud := Series{Name: "words"}
	for _, w := range analysis.WordFrequencies(names, cloudWords) {
		cloud.Labels = append(cloud.Labels, w.Value)
		cloud.Y = append(cloud.Y, float64(w.Count))
	}
	res.add(chartArtifact("歌曲名词云", Chart{Type: ChartWordCloud, Series: []Series{cloud}}))

	level, err := tables[source.Basic].Select(source.KeyColumn, "level")
	if err != nil {
		return nil, err
	}
	joined, err := join(ctx, Listening, frame.Pipeline{
		Key:    source.KeyColumn,
		Anchor: listening,
		Steps: []frame.Step{
			{Name: source.Playlist, Table: tables[source.Playlist]},
			{Name: source.Social, Table: tables[source.Social]},
			{Name: source.Basic, Table: level},
		},
	})
	if err != nil {
		return nil, err
	}
	fanOutMeta(res, joined)
	if err := correlationHeatmap(res, joined.Table); err != nil {
		if !degradable(err) {
			return nil, err
		}
		res.add(textArtifact("播放行为相关性热力图", "数据不足: "+err.Error()))
	}
	return res, nil
}

// scoreDistribution adds the score density curve and mean score.
func scoreDistribution(res *Result, listening *frame.Table) {
	col, _ := listening.Column("score") //nolint:errcheck // contract column
	vals, ok := col.Floats()
	scores := make([]float64, 0, len(vals))
	for i, v := range vals {
		if ok[i] {
			scores = append(scores, v)
		}
	}

	kde, err := analysis.KDE(scores, kdePoints)
	if err != nil {
		res.add(textArtifact("用户评分分布曲线", "无法估计评分分布: "+err.Error()))
		return
	}
	mean := analysis.Mean(scores)
	res.add(chartArtifact("用户评分分布曲线", Chart{
		Type:   ChartDensity,
		Series: []Series{{Name: "score", X: kde.X, Y: kde.Density}},
		XLabel: "评分",
		YLabel: "密度",
		Extra:  map[string]any{"bandwidth": kde.Bandwidth, "mean": mean},
	}))
	res.add(textArtifact("平均评分", fmt.Sprintf("Average score %.2f over %d rated records.", mean, len(scores))))
}

// correlationHeatmap correlates the listening, playlist, social and level
// columns over rows where all of them are present.
func correlationHeatmap(res *Result, t *frame.Table) error {
	rows, _, err := numericRows(t, correlationColumns...)
	if err != nil {
		return err
	}
	if len(rows) < corrMinRows {
		return fmt.Errorf("%w: %d complete rows", analysis.ErrInsufficientData, len(rows))
	}
	cols := make([][]float64, len(correlationColumns))
	for j := range cols {
		cols[j] = columnOf(rows, j)
	}
	corr, err := analysis.CorrelationMatrix(cols)
	if err != nil {
		return err
	}
	for i := range corr {
		for j := range corr[i] {
			corr[i][j] = finite(corr[i][j])
		}
	}
	res.add(chartArtifact("播放行为相关性热力图", Chart{
		Type:  ChartHeatmap,
		Extra: map[string]any{"labels": correlationColumns, "matrix": corr, "rows": len(rows)},
	}))
	return nil
}
