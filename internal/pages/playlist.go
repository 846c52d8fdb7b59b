// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"fmt"
	"slices"

	"github.com/tomtom215/cadence/internal/analysis"
	"github.com/tomtom215/cadence/internal/demographics"
	"github.com/tomtom215/cadence/internal/frame"
	"github.com/tomtom215/cadence/internal/source"
)

const (
	polyDegree     = 2
	curvePoints    = 100
	treemapTop     = 10
	provinceColumn = "province_name"
)

func (d *Deps) renderPlaylist(rc *RenderContext) (*Result, error) {
	ctx := rc.Context()
	tables, err := d.loadTables(ctx, required(source.Playlist), required(source.Basic), required(source.Social))
	if err != nil {
		return nil, err
	}
	joined, err := join(ctx, Playlist, frame.Pipeline{
		Key:    source.KeyColumn,
		Anchor: tables[source.Playlist],
		Steps: []frame.Step{
			{Name: source.Basic, Table: tables[source.Basic]},
			{Name: source.Social, Table: tables[source.Social]},
		},
	})
	if err != nil {
		return nil, err
	}
	t := joined.Table

	res := &Result{Page: Playlist, Title: "歌单偏好分析"}
	res.add(tableArtifact("歌单数据预览", t, d.Analysis.PreviewRows))
	fanOutMeta(res, joined)

	if err := playlistsByLevel(res, t); err != nil {
		if !degradable(err) {
			return nil, err
		}
		res.add(textArtifact("不同等级与歌单总数", "无法拟合多项式曲线: "+err.Error()))
	}

	treemap, err := provinceTreemap(t)
	if err != nil {
		return nil, err
	}
	res.add(chartArtifact("各省份人均歌单数量 Top10", treemap))

	if err := playlistsVersusFans(res, t); err != nil {
		if !degradable(err) {
			return nil, err
		}
		res.add(textArtifact("歌单数量 vs 粉丝数量", "数据不足: "+err.Error()))
	}
	return res, nil
}

// playlistsByLevel fits a quadratic to mean playlists per level.
func playlistsByLevel(res *Result, t *frame.Table) error {
	means, err := frame.GroupMean(t, "level", "total_playlists")
	if err != nil {
		return err
	}
	points, _, err := numericRows(means, "level", "total_playlists")
	if err != nil {
		return err
	}
	slices.SortFunc(points, func(a, b []float64) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		}
		return 0
	})
	if len(points) <= polyDegree {
		return fmt.Errorf("%w: %d levels, need more than %d", analysis.ErrInsufficientData, len(points), polyDegree)
	}

	levels, avg := columnOf(points, 0), columnOf(points, 1)
	coeffs, err := analysis.PolyFit(levels, avg, polyDegree)
	if err != nil {
		return err
	}
	xs := analysis.Linspace(levels[0], levels[len(levels)-1], curvePoints)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = analysis.PolyEval(coeffs, x)
	}

	res.add(chartArtifact("不同等级与歌单总数 (多项式曲线)", Chart{
		Type: ChartLine,
		Series: []Series{
			{Name: "mean", X: levels, Y: avg},
			{Name: "fit", X: xs, Y: ys},
		},
		XLabel: "用户等级",
		YLabel: "平均歌单数",
		Extra:  map[string]any{"coefficients": coeffs},
	}))
	return nil
}

// provinceTreemap ranks mainland provinces by average playlists.
func provinceTreemap(t *frame.Table) (Chart, error) {
	provinces, err := t.Column("province")
	if err != nil {
		return Chart{}, err
	}
	names := make([]frame.Value, len(provinces.Values))
	for i, v := range provinces.Values {
		if name, ok := demographics.ProvinceFromCode(v); ok {
			names[i] = frame.String(name)
		}
	}
	named, err := t.WithColumn(frame.Column{Name: provinceColumn, Values: names})
	if err != nil {
		return Chart{}, err
	}
	means, err := frame.GroupMean(named, provinceColumn, "total_playlists")
	if err != nil {
		return Chart{}, err
	}

	type entry struct {
		name string
		avg  float64
	}
	var ranked []entry
	for i := 0; i < means.NumRows(); i++ {
		if avg, ok := means.Cell(i, "total_playlists").Float(); ok {
			ranked = append(ranked, entry{means.Cell(i, provinceColumn).Text(), avg})
		}
	}
	slices.SortStableFunc(ranked, func(a, b entry) int {
		switch {
		case a.avg > b.avg:
			return -1
		case a.avg < b.avg:
			return 1
		}
		return 0
	})
	if len(ranked) > treemapTop {
		ranked = ranked[:treemapTop]
	}

	s := Series{Name: "avg_playlists"}
	for _, e := range ranked {
		s.Labels = append(s.Labels, e.name)
		s.Y = append(s.Y, e.avg)
	}
	return Chart{Type: ChartTreemap, Series: []Series{s}}, nil
}

// playlistsVersusFans hexbins total_playlists against fans_count and adds
// their Pearson correlation.
func playlistsVersusFans(res *Result, t *frame.Table) error {
	x, y, err := numericPairs(t, "total_playlists", "fans_count")
	if err != nil {
		return err
	}
	hb, err := analysis.Hexbin(x, y, analysis.DefaultGridSize, 1)
	if err != nil {
		return err
	}
	extra := map[string]any{
		"cells": hb.Cells,
		"nx":    hb.NX,
		"ny":    hb.NY,
		"sx":    hb.SX,
		"sy":    hb.SY,
		"n":     len(x),
	}
	text := ""
	if r, p, err := analysis.Pearson(x, y); err == nil {
		extra["pearson_r"] = r
		extra["p_value"] = p
		text = fmt.Sprintf("Pearson r = %.3f (p = %.3g, n = %d)", r, p, len(x))
	} else if degradable(err) {
		text = "无法计算相关系数: " + err.Error()
	} else {
		return err
	}

	res.add(chartArtifact("Hexbin: 歌单数量 vs 粉丝数量", Chart{
		Type:   ChartHexbin,
		XLabel: "歌单数量",
		YLabel: "粉丝数量",
		Extra:  extra,
	}))
	res.add(textArtifact("相关性", text))
	return nil
}
