// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package models

import "time"

// RegisterRequest is the body of POST /api/v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Confirm  string `json:"confirm" validate:"required,eqfield=Password"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResponse is returned by a successful login. The session cookie is
// set as well; Token is for clients that prefer a bearer header.
type LoginResponse struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	CurrentPage string    `json:"current_page,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ProfileUpdateRequest is the body of PUT /api/v1/account.
type ProfileUpdateRequest struct {
	Email string `json:"email" validate:"omitempty,email,max=254"`
	Phone string `json:"phone" validate:"omitempty,phone"`
	Intro string `json:"intro" validate:"max=500"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	CacheSize int    `json:"cache_size"`
}

// CacheClearResponse reports what the admin cache clear removed.
type CacheClearResponse struct {
	Cleared int `json:"cleared"`

	// HitRate is the lookup hit percentage up to the clear.
	HitRate float64 `json:"hit_rate"`
}
