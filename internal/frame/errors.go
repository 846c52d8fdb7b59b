// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package frame

import "errors"

var (
	// ErrSourceUnavailable is returned when a backing table is missing or
	// cannot be parsed.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrUnsupportedReduction is returned for a reduction kind other than
	// sum, count or mean.
	ErrUnsupportedReduction = errors.New("unsupported reduction")

	// ErrInvalidBoundaries is returned when bin boundaries are not strictly
	// increasing or do not match the label count.
	ErrInvalidBoundaries = errors.New("invalid bin boundaries")

	// ErrMissingColumn is returned when an operation names a column the
	// table does not have.
	ErrMissingColumn = errors.New("missing column")

	// ErrShapeMismatch is returned when columns of different lengths are
	// combined into one table.
	ErrShapeMismatch = errors.New("column length mismatch")

	// ErrDuplicateColumn is returned when a table would contain two columns
	// with the same name.
	ErrDuplicateColumn = errors.New("duplicate column")
)
