// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"math"

	"github.com/tomtom215/cadence/internal/frame"
)

var (
	levelBounds = []float64{math.Inf(-1), 3, 6, 9, 11, math.Inf(1)}
	countBounds = []float64{math.Inf(-1), 11, 51, 201, 501, math.Inf(1)}
)

// LevelBinner buckets user levels: Lv0-2, Lv3-5, Lv6-8, Lv9-10, Lv>10.
func LevelBinner() *frame.Binner {
	return mustBinner(levelBounds, []string{"Lv0-2", "Lv3-5", "Lv6-8", "Lv9-10", "Lv>10"})
}

// FansBinner buckets follower counts.
func FansBinner() *frame.Binner {
	return mustBinner(countBounds, countLabels("粉丝"))
}

// FollowsBinner buckets following counts.
func FollowsBinner() *frame.Binner {
	return mustBinner(countBounds, countLabels("关注"))
}

func countLabels(prefix string) []string {
	return []string{prefix + "0-10", prefix + "11-50", prefix + "51-200", prefix + "201-500", prefix + "500+"}
}

// mustBinner panics on invalid presets; they are constants.
func mustBinner(bounds []float64, labels []string) *frame.Binner {
	b, err := frame.NewBinner(bounds, labels)
	if err != nil {
		panic(err)
	}
	return b
}
