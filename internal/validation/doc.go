// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package validation validates request bodies with go-playground/validator
// and converts failures to the API's VALIDATION_ERROR format.
//
// Field names in errors are the JSON names. Two custom tags are registered:
//
//   - username: 1 to 32 characters, no whitespace or control characters
//   - phone: 5 to 20 characters of digits, spaces, '-' or a leading '+'
//
// Usage:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
