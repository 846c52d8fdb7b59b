// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package demographics decodes the profile fields of the basic table:
// province codes, birthday timestamps, ages and gender codes.
package demographics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/cadence/internal/frame"
)

// Unknown labels.
const (
	UnknownRegion = "未知地区"
	UnknownGender = "未知"
)

// prefixNames maps the two-digit administrative prefix to a province name.
var prefixNames = map[string]string{
	"11": "北京", "12": "天津", "13": "河北", "14": "山西", "15": "内蒙古",
	"21": "辽宁", "22": "吉林", "23": "黑龙江", "31": "上海", "32": "江苏",
	"33": "浙江", "34": "安徽", "35": "福建", "36": "江西", "37": "山东",
	"41": "河南", "42": "湖北", "43": "湖南", "44": "广东", "45": "广西",
	"46": "海南", "50": "重庆", "51": "四川", "52": "贵州", "53": "云南",
	"54": "西藏", "61": "陕西", "62": "甘肃", "63": "青海", "64": "宁夏",
	"65": "新疆", "71": "台湾", "81": "香港", "82": "澳门",
}

// ProvinceFromPrefix names a province from the first two characters of the
// code's text form. Anything unmapped is UnknownRegion.
func ProvinceFromPrefix(code frame.Value) string {
	s := code.Text()
	if len(s) < 2 {
		return UnknownRegion
	}
	if name, ok := prefixNames[s[:2]]; ok {
		return name
	}
	return UnknownRegion
}

// ProvinceFromCode names one of the 31 mainland provinces from its exact
// six-digit code (110000 ... 650000). ok is false for anything else.
func ProvinceFromCode(code frame.Value) (string, bool) {
	f, isNum := code.Float()
	if !isNum || f != math.Trunc(f) || f < 100000 || f > 999999 {
		return "", false
	}
	n := int(f)
	if n%10000 != 0 {
		return "", false
	}
	prefix := strconv.Itoa(n / 10000)
	switch prefix {
	case "71", "81", "82":
		return "", false
	}
	name, ok := prefixNames[prefix]
	return name, ok
}

// sentinelBirthday is the export's placeholder for 1900-01-01 (ms since epoch).
const sentinelBirthday = -2209017600000

// DecodeBirthday converts a millisecond timestamp to a UTC date. The
// sentinel -2209017600000 is 1900-01-01; -1, nulls and non-numbers are
// unknown (ok false).
func DecodeBirthday(v frame.Value) (time.Time, bool) {
	f, isNum := v.Float()
	if !isNum {
		if s := strings.TrimSpace(v.Text()); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return time.Time{}, false
			}
			f = float64(n)
		} else {
			return time.Time{}, false
		}
	}
	ms := int64(f)
	switch ms {
	case -1:
		return time.Time{}, false
	case sentinelBirthday:
		return time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.UnixMilli(ms).UTC(), true
}

// Age is now's year minus the birth year. It is defined only for birth
// years after 1900.
func Age(birth, now time.Time) (int, bool) {
	if birth.IsZero() || birth.Year() <= 1900 {
		return 0, false
	}
	return now.Year() - birth.Year(), true
}

// GenderLabel maps 0, 1 and 2 to 未知, 男 and 女. Other values are 未知.
func GenderLabel(v frame.Value) string {
	f, ok := v.Float()
	if !ok {
		return UnknownGender
	}
	switch f {
	case 1:
		return "男"
	case 2:
		return "女"
	default:
		return UnknownGender
	}
}
