// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package frame

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a single table cell: null, a float64 number, or a string.
// The zero Value is null.
//
// Integer numbers also carry their exact int64, so identifiers beyond 2^53
// keep distinct join and group keys.
type Value struct {
	kind  Kind
	num   float64
	str   string
	i     int64
	exact bool
}

// maxExactFloat is 2^53, the largest magnitude below which every integer
// has a float64 representation.
const maxExactFloat = 1 << 53

// Null returns the null Value.
func Null() Value { return Value{} }

// Number returns a numeric Value. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	v := Value{kind: KindNumber, num: f}
	if f == math.Trunc(f) && math.Abs(f) <= maxExactFloat {
		v.i, v.exact = int64(f), true
	}
	return v
}

// Int returns an integer Value that keeps i exactly.
func Int(i int64) Value {
	return Value{kind: KindNumber, num: float64(i), i: i, exact: true}
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// ParseValue types a raw CSV cell. Empty and NaN-like cells are null,
// integer literals are exact numbers, anything else strconv accepts as a
// finite float is a number, the rest are strings.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "nat":
		return Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
		return Number(f)
	}
	return String(s)
}

// Kind returns the dynamic kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload. ok is false for null and string values.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the display form of v; null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		if v.exact {
			return strconv.FormatInt(v.i, 10)
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// key is the join/group identity of v. Numbers and strings that print the
// same compare equal, so a user_id of 7 matches "7" across tables.
func (v Value) key() (string, bool) {
	if v.kind == KindNull {
		return "", false
	}
	return v.Text(), true
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.exact && o.exact {
		return v.i == o.i
	}
	return v.num == o.num && v.str == o.str
}

// MarshalJSON encodes v as a JSON null, number or string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		if v.exact {
			return strconv.AppendInt(nil, v.i, 10), nil
		}
		return strconv.AppendFloat(nil, v.num, 'f', -1, 64), nil
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}
