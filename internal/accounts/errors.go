// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package accounts

import "errors"

var (
	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("username already registered")

	// ErrUserNotFound is returned for an unknown username.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongPassword is returned when the password does not match.
	ErrWrongPassword = errors.New("wrong password")

	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrMissingCredentials is returned when username or password is empty.
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrInvalidUsersFile is returned when the users CSV lacks a required column.
	ErrInvalidUsersFile = errors.New("invalid users file")
)
