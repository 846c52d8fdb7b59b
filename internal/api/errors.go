// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/cadence/internal/accounts"
	"github.com/tomtom215/cadence/internal/analysis"
	"github.com/tomtom215/cadence/internal/auth"
	"github.com/tomtom215/cadence/internal/authz"
	"github.com/tomtom215/cadence/internal/frame"
	"github.com/tomtom215/cadence/internal/models"
	"github.com/tomtom215/cadence/internal/pages"
)

// errInvalidBody is returned for undecodable request bodies.
var errInvalidBody = errors.New("invalid JSON body")

// errRateLimited is returned when a client exceeds a rate limit.
var errRateLimited = errors.New("too many requests")

// classify maps an error to an HTTP status and API error. The message is
// safe to show to clients; internal details stay in the logs.
func classify(err error) (int, *models.APIError) {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, pages.ErrInvalidParam),
		errors.Is(err, accounts.ErrPasswordMismatch),
		errors.Is(err, accounts.ErrMissingCredentials):
		return http.StatusBadRequest, &models.APIError{Code: models.CodeValidation, Message: err.Error()}

	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, &models.APIError{Code: models.CodeUnauthorized, Message: "authentication required"}

	case errors.Is(err, accounts.ErrWrongPassword):
		return http.StatusUnauthorized, &models.APIError{Code: models.CodeUnauthorized, Message: "invalid username or password"}

	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden, &models.APIError{Code: models.CodeForbidden, Message: "insufficient permissions"}

	case errors.Is(err, pages.ErrUnknownPage), errors.Is(err, accounts.ErrUserNotFound):
		return http.StatusNotFound, &models.APIError{Code: models.CodeNotFound, Message: err.Error()}

	case errors.Is(err, accounts.ErrUserExists):
		return http.StatusConflict, &models.APIError{Code: models.CodeConflict, Message: "username is already taken"}

	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, &models.APIError{Code: models.CodeRateLimited, Message: "too many requests, try again later"}

	case errors.Is(err, frame.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    models.CodeSourceUnavailable,
			Message: "source data is unavailable, check the data directory",
		}

	case errors.Is(err, analysis.ErrInsufficientData),
		errors.Is(err, analysis.ErrZeroVariance),
		errors.Is(err, analysis.ErrSingular):
		return http.StatusUnprocessableEntity, &models.APIError{Code: models.CodeInsufficientData, Message: err.Error()}

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, &models.APIError{Code: models.CodeInternal, Message: "request timed out"}

	default:
		return http.StatusInternalServerError, &models.APIError{Code: models.CodeInternal, Message: "internal server error"}
	}
}

func notFound(message string) *models.APIError {
	return &models.APIError{Code: models.CodeNotFound, Message: message}
}
