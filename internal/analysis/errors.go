// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package analysis

import "errors"

var (
	// ErrInsufficientData is returned when there are too few rows for the
	// requested computation.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidK is returned for a cluster count outside [MinK, MaxK].
	ErrInvalidK = errors.New("invalid cluster count")

	// ErrDimensionMismatch is returned when input lengths disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrZeroVariance is returned when a statistic is undefined because an
	// input is constant.
	ErrZeroVariance = errors.New("zero variance")

	// ErrSingular is returned when a least squares system has no unique solution.
	ErrSingular = errors.New("singular system")
)
