// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"fmt"
	"math"
	"slices"

	"github.com/tomtom215/cadence/internal/analysis"
	"github.com/tomtom215/cadence/internal/demographics"
	"github.com/tomtom215/cadence/internal/frame"
	"github.com/tomtom215/cadence/internal/source"
)

// Age histogram settings.
const (
	minAge  = 12 // exclusive
	maxAge  = 80 // exclusive
	ageBins = 15
)

func (d *Deps) renderPortrait(rc *RenderContext) (*Result, error) {
	tables, err := d.loadTables(rc.Context(), required(source.Basic))
	if err != nil {
		return nil, err
	}
	basic := tables[source.Basic]

	res := &Result{Page: Portrait, Title: "用户画像分析"}
	res.add(tableArtifact("用户基础信息", basic, d.Analysis.PreviewRows))

	levels, _ := basic.Column("level") //nolint:errcheck // contract column
	res.add(chartArtifact("等级分布图", levelDistribution(levels)))

	genders, _ := basic.Column("gender") //nolint:errcheck // contract column
	res.add(chartArtifact("性别比例", countChart(ChartPie, mapValues(genders, demographics.GenderLabel))))

	provinces, _ := basic.Column("province") //nolint:errcheck // contract column
	named := slices.DeleteFunc(mapValues(provinces, demographics.ProvinceFromPrefix),
		func(s string) bool { return s == demographics.UnknownRegion })
	provinceChart := countChart(ChartBar, named)
	provinceChart.XLabel, provinceChart.YLabel = "省份", "用户数"
	res.add(chartArtifact("各省份用户分布（按人数排序）", provinceChart))

	birthdays, _ := basic.Column("birthday") //nolint:errcheck // contract column
	ages := d.ages(birthdays)
	res.meta("aged_users", len(ages))
	if len(ages) == 0 {
		res.add(textArtifact("用户年龄分布特征", "没有可用的年龄数据。"))
		return res, nil
	}

	lo, hi, _ := analysis.MinMax(ages)
	hist, err := analysis.Histogram(ages, ageBins, lo, hi)
	if err != nil {
		return nil, err
	}
	res.add(chartArtifact("用户年龄分布特征", Chart{
		Type:   ChartHistogram,
		Series: []Series{{Name: "users", X: hist.Edges[:len(hist.Counts)], Y: ints(hist.Counts)}},
		XLabel: "年龄",
		YLabel: "用户数",
		Extra:  map[string]any{"edges": hist.Edges},
	}))

	peak := 0
	for i, c := range hist.Counts {
		if c > hist.Counts[peak] {
			peak = i
		}
	}
	res.add(textArtifact("年龄概况", fmt.Sprintf("Most users are aged %.0f-%.0f (modal age %d); average age %.1f.",
		hist.Edges[peak], hist.Edges[peak+1], modalAge(ages), analysis.Mean(ages))))
	return res, nil
}

// ages decodes birthdays and keeps ages strictly between minAge and maxAge.
func (d *Deps) ages(col frame.Column) []float64 {
	now := d.Now()
	var out []float64
	for _, v := range col.Values {
		birth, ok := demographics.DecodeBirthday(v)
		if !ok {
			continue
		}
		age, ok := demographics.Age(birth, now)
		if !ok || age <= minAge || age >= maxAge {
			continue
		}
		out = append(out, float64(age))
	}
	return out
}

// modalAge returns the most frequent age; ties go to the youngest.
func modalAge(ages []float64) int {
	counts := make(map[int]int)
	for _, a := range ages {
		counts[int(a)]++
	}
	best, bestN := math.MaxInt, 0
	for age, n := range counts {
		if n > bestN || (n == bestN && age < best) {
			best, bestN = age, n
		}
	}
	return best
}

// levelDistribution counts levels, numeric levels in ascending order first.
func levelDistribution(col frame.Column) Chart {
	type level struct {
		label string
		num   float64
		isNum bool
		count int
	}
	var order []*level
	seen := make(map[string]*level)
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		key := v.Text()
		l, ok := seen[key]
		if !ok {
			f, isNum := v.Float()
			l = &level{label: key, num: f, isNum: isNum}
			seen[key] = l
			order = append(order, l)
		}
		l.count++
	}
	slices.SortStableFunc(order, func(a, b *level) int {
		switch {
		case a.isNum && b.isNum:
			if a.num < b.num {
				return -1
			} else if a.num > b.num {
				return 1
			}
			return 0
		case a.isNum:
			return -1
		case b.isNum:
			return 1
		}
		return 0
	})

	s := Series{Name: "users"}
	for _, l := range order {
		s.Labels = append(s.Labels, "Lv"+l.label)
		s.Y = append(s.Y, float64(l.count))
	}
	return Chart{Type: ChartBar, Series: []Series{s}, XLabel: "等级", YLabel: "用户数"}
}

// countChart counts values, most frequent first.
func countChart(kind ChartType, values []string) Chart {
	s := Series{Name: "users"}
	for _, c := range analysis.ValueCounts(values) {
		s.Labels = append(s.Labels, c.Value)
		s.Y = append(s.Y, float64(c.Count))
	}
	return Chart{Type: kind, Series: []Series{s}}
}

func mapValues(col frame.Column, fn func(frame.Value) string) []string {
	out := make([]string, len(col.Values))
	for i, v := range col.Values {
		out[i] = fn(v)
	}
	return out
}
