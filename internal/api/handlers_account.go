// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"net/http"

	"github.com/tomtom215/cadence/internal/auth"
	"github.com/tomtom215/cadence/internal/models"
	"github.com/tomtom215/cadence/internal/validation"
)

// Account returns the caller's profile.
func (h *Handler) Account(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		WriteError(w, r, auth.ErrUnauthenticated)
		return
	}
	user, err := h.users.Get(session.Username)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, user.Profile(), models.Metadata{})
}

// UpdateAccount replaces the caller's email, phone and intro.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		WriteError(w, r, auth.ErrUnauthenticated)
		return
	}
	var req models.ProfileUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), session.Username, req.Email, req.Phone, req.Intro)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, user.Profile(), models.Metadata{})
}

// ClearCache drops every cached source table.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	rate := h.tables.CacheHitRate()
	n := h.tables.ClearCache()
	respondJSON(w, r, http.StatusOK, models.CacheClearResponse{Cleared: n, HitRate: rate}, models.Metadata{})
}
