// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"math"

	"github.com/tomtom215/cadence/internal/frame"
)

// ArtifactKind is the type of a rendered artifact.
type ArtifactKind string

// Artifact kinds.
const (
	KindTable ArtifactKind = "table"
	KindChart ArtifactKind = "chart"
	KindText  ArtifactKind = "text"
)

// ChartType tells the client how to draw a chart.
type ChartType string

// Chart types.
const (
	ChartBar       ChartType = "bar"
	ChartPie       ChartType = "pie"
	ChartScatter   ChartType = "scatter"
	ChartLine      ChartType = "line"
	ChartHistogram ChartType = "histogram"
	ChartDensity   ChartType = "density"
	ChartTreemap   ChartType = "treemap"
	ChartHexbin    ChartType = "hexbin"
	ChartHeatmap   ChartType = "heatmap"
	ChartParallel  ChartType = "parallel_categories"
	ChartWordCloud ChartType = "word_cloud"
)

// Result is a rendered page.
type Result struct {
	Page      PageID         `json:"page"`
	Title     string         `json:"title"`
	Artifacts []Artifact     `json:"artifacts"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// Artifact is one renderable block of a page.
type Artifact struct {
	Kind  ArtifactKind `json:"kind"`
	Title string       `json:"title,omitempty"`
	Table *TableData   `json:"table,omitempty"`
	Chart *Chart       `json:"chart,omitempty"`
	Text  string       `json:"text,omitempty"`
}

// TableData is a labeled grid of cells.
type TableData struct {
	Columns   []string        `json:"columns"`
	Rows      [][]frame.Value `json:"rows"`
	TotalRows int             `json:"total_rows"`
}

// Chart is a client-side chart specification.
type Chart struct {
	Type   ChartType      `json:"type"`
	Series []Series       `json:"series,omitempty"`
	XLabel string         `json:"x_label,omitempty"`
	YLabel string         `json:"y_label,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// Series is one data series. Categorical charts use Labels with Y;
// numeric charts use X with Y.
type Series struct {
	Name   string    `json:"name,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	X      []float64 `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
}

// Dimension is one axis of a parallel-categories chart. Values holds one
// category per row, in row order.
type Dimension struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Values     []string `json:"values"`
}

func (r *Result) add(a Artifact) { r.Artifacts = append(r.Artifacts, a) }

func (r *Result) meta(key string, v any) {
	if r.Meta == nil {
		r.Meta = make(map[string]any)
	}
	r.Meta[key] = v
}

func tableArtifact(title string, t *frame.Table, limit int) Artifact {
	head := t.Head(limit)
	return Artifact{
		Kind:  KindTable,
		Title: title,
		Table: &TableData{Columns: head.ColumnNames(), Rows: head.Rows(), TotalRows: t.NumRows()},
	}
}

func chartArtifact(title string, c Chart) Artifact {
	return Artifact{Kind: KindChart, Title: title, Chart: &c}
}

func textArtifact(title, text string) Artifact {
	return Artifact{Kind: KindText, Title: title, Text: text}
}

// finite maps NaN and ±Inf to 0 so charts stay JSON-encodable.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func ints(v []int) []float64 {
	out := make([]float64, len(v))
	for i, n := range v {
		out[i] = float64(n)
	}
	return out
}
