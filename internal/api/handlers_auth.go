// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"errors"
	"net"
	"net/http"

	"github.com/tomtom215/cadence/internal/accounts"
	"github.com/tomtom215/cadence/internal/auth"
	"github.com/tomtom215/cadence/internal/authz"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/models"
	"github.com/tomtom215/cadence/internal/validation"
)

// Register creates an account. It does not log the user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		metrics.RecordRegistration("invalid")
		WriteError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		metrics.RecordRegistration("invalid")
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	user, err := h.users.Register(r.Context(), accounts.Registration{
		Username: req.Username,
		Password: req.Password,
		Confirm:  req.Confirm,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, accounts.ErrUserExists) {
			outcome = "conflict"
		}
		metrics.RecordRegistration(outcome)
		WriteError(w, r, err)
		return
	}
	metrics.RecordRegistration("success")
	respondJSON(w, r, http.StatusCreated, user.Profile(), models.Metadata{})
}

// Login verifies credentials, creates a session and returns a bearer token
// alongside the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		metrics.RecordLogin("rate_limited")
		WriteError(w, r, errRateLimited)
		return
	}

	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, accounts.ErrUserNotFound) && !errors.Is(err, accounts.ErrWrongPassword) {
			metrics.RecordLogin("error")
			WriteError(w, r, err)
			return
		}
		metrics.RecordLogin("failure")
		logging.Ctx(r.Context()).Info().Str("username", req.Username).Msg("Login failed")
		// Unknown user and wrong password look the same to the client.
		WriteError(w, r, accounts.ErrWrongPassword)
		return
	}

	role := authz.RoleFor(user.Username, h.adminUsername)
	session, token, err := h.auth.Login(r.Context(), user.Username, role)
	if err != nil {
		metrics.RecordLogin("error")
		WriteError(w, r, err)
		return
	}
	metrics.RecordLogin("success")
	h.auth.SetCookie(w, session)
	respondJSON(w, r, http.StatusOK, models.LoginResponse{
		Username:  session.Username,
		Role:      session.Role,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, models.Metadata{})
}

// Logout deletes the caller's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		WriteError(w, r, auth.ErrUnauthenticated)
		return
	}
	if err := h.auth.Logout(r.Context(), session.ID); err != nil {
		WriteError(w, r, err)
		return
	}
	h.auth.ClearCookie(w)
	respondJSON(w, r, http.StatusOK, map[string]bool{"logged_out": true}, models.Metadata{})
}

// Session describes the caller's session, including the last page viewed.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		WriteError(w, r, auth.ErrUnauthenticated)
		return
	}
	respondJSON(w, r, http.StatusOK, models.SessionResponse{
		Username:    session.Username,
		Role:        session.Role,
		CurrentPage: session.Metadata[auth.MetaCurrentPage],
		CreatedAt:   session.CreatedAt,
		ExpiresAt:   session.ExpiresAt,
	}, models.Metadata{})
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP
// middleware has already resolved.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
