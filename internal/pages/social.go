// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/cadence/internal/analysis"
	"github.com/tomtom215/cadence/internal/demographics"
	"github.com/tomtom215/cadence/internal/frame"
	"github.com/tomtom215/cadence/internal/source"
)

// Regression settings for the fans model.
const (
	minRegressionRows = 5
	testFraction      = 0.2
)

var (
	socialFill      = []string{"level", "fans_count", "follows_count", "total_plays", "total_playlists"}
	fansPredictors  = []string{"level", "follows_count"}
	regressionTitle = "线性回归 - 预测粉丝数"
)

func (d *Deps) renderSocial(rc *RenderContext) (*Result, error) {
	ctx := rc.Context()
	tables, err := d.loadTables(ctx,
		required(source.Basic), required(source.Social),
		optional(source.Listening), optional(source.Playlist))
	if err != nil {
		return nil, err
	}
	plays, err := totalPlays(tables[source.Listening])
	if err != nil {
		return nil, err
	}
	joined, err := join(ctx, Social, frame.Pipeline{
		Key:    source.KeyColumn,
		Anchor: tables[source.Basic],
		Steps: []frame.Step{
			{Name: source.Social, Table: tables[source.Social], Columns: []string{"fans_count", "follows_count"}},
			{Name: source.Listening, Table: plays},
			{Name: source.Playlist, Table: tables[source.Playlist], Columns: []string{"total_playlists"}},
		},
		FillZero: socialFill,
	})
	if err != nil {
		return nil, err
	}
	t := joined.Table

	res := &Result{Page: Social, Title: "社交互动分析"}
	res.add(tableArtifact("社交数据预览", t, d.Analysis.PreviewRows))
	fanOutMeta(res, joined)

	if err := d.fansRegression(res, t); err != nil {
		if !degradable(err) {
			return nil, err
		}
		res.add(textArtifact(regressionTitle, "无法拟合回归模型: "+err.Error()))
	}

	dims, err := socialDimensions(t)
	if err != nil {
		return nil, err
	}
	res.add(chartArtifact("平行分类图: 用户社交多维分布", Chart{
		Type:  ChartParallel,
		Extra: map[string]any{"dimensions": dims},
	}))
	return res, nil
}

// fansRegression fits fans_count on level and follows_count over an 80/20
// split and adds the test-set fit to res.
func (d *Deps) fansRegression(res *Result, t *frame.Table) error {
	rows, _, err := numericRows(t, append([]string{"fans_count"}, fansPredictors...)...)
	if err != nil {
		return err
	}
	if len(rows) < minRegressionRows {
		return fmt.Errorf("%w: %d complete rows, need %d", analysis.ErrInsufficientData, len(rows), minRegressionRows)
	}

	train, test := analysis.TrainTestSplit(len(rows), testFraction, uint64(d.Analysis.Seed)) //nolint:gosec // seed bits only
	split := func(idx []int) ([][]float64, []float64) {
		x := make([][]float64, len(idx))
		y := make([]float64, len(idx))
		for i, r := range idx {
			y[i] = rows[r][0]
			x[i] = rows[r][1:]
		}
		return x, y
	}
	xTrain, yTrain := split(train)
	xTest, yTest := split(test)

	model, err := analysis.OLS(xTrain, yTrain)
	if err != nil {
		return err
	}
	r2, err := model.R2(xTest, yTest)
	if err != nil {
		return err
	}

	predicted := make([]float64, len(xTest))
	for i, x := range xTest {
		predicted[i] = model.Predict(x)
	}
	res.add(chartArtifact(fmt.Sprintf("%s (R²=%.3f)", regressionTitle, r2), Chart{
		Type:   ChartScatter,
		Series: []Series{{Name: "test", X: yTest, Y: predicted}},
		XLabel: "实际粉丝数",
		YLabel: "预测粉丝数",
		Extra:  map[string]any{"r2": finite(r2), "train_rows": len(train), "test_rows": len(test)},
	}))

	terms := make([]string, len(fansPredictors))
	for i, name := range fansPredictors {
		terms[i] = fmt.Sprintf("%.4f×%s", model.Coefficients[i], name)
	}
	res.add(textArtifact("回归系数", fmt.Sprintf("fans_count ≈ %.4f + %s; test R² = %.3f",
		model.Intercept, strings.Join(terms, " + "), r2)))
	res.meta("r2", finite(r2))
	return nil
}

// degradable reports whether a regression failure should become a text
// artifact instead of failing the page.
func degradable(err error) bool {
	return errors.Is(err, analysis.ErrInsufficientData) ||
		errors.Is(err, analysis.ErrSingular) ||
		errors.Is(err, analysis.ErrZeroVariance)
}

// socialDimensions bins level, fans and follows and names province and
// gender for every row.
func socialDimensions(t *frame.Table) ([]Dimension, error) {
	binned := []struct {
		src, name string
		b         *frame.Binner
	}{
		{"level", "level_bin", LevelBinner()},
		{"fans_count", "fans_bin", FansBinner()},
		{"follows_count", "follows_bin", FollowsBinner()},
	}

	dims := make([]Dimension, 0, len(binned)+2)
	for _, spec := range binned {
		col, err := t.Column(spec.src)
		if err != nil {
			return nil, err
		}
		r := spec.b.Apply(col, spec.name)
		dims = append(dims, Dimension{
			Name:       spec.name,
			Categories: spec.b.Labels(),
			Values:     mapValues(r.Labels, func(v frame.Value) string { return v.Text() }),
		})
	}

	provinces, err := t.Column("province")
	if err != nil {
		return nil, err
	}
	genders, err := t.Column("gender")
	if err != nil {
		return nil, err
	}
	dims = append(dims,
		categorical("province_cat", mapValues(provinces, demographics.ProvinceFromPrefix)),
		categorical("gender_cat", mapValues(genders, demographics.GenderLabel)),
	)
	return dims, nil
}

func categorical(name string, values []string) Dimension {
	counts := analysis.ValueCounts(values)
	cats := make([]string, len(counts))
	for i, c := range counts {
		cats[i] = c.Value
	}
	return Dimension{Name: name, Categories: cats, Values: values}
}
