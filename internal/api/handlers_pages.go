// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cadence/internal/auth"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/models"
	"github.com/tomtom215/cadence/internal/pages"
	"github.com/tomtom215/cadence/internal/source"
)

// Menu lists the pages in display order.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.pages.Menu(), models.Metadata{})
}

// Page renders one page for the caller and records it as the session's
// current page.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		WriteError(w, r, auth.ErrUnauthenticated)
		return
	}
	id := pages.PageID(chi.URLParam(r, "page"))
	if _, err := h.pages.Lookup(id); err != nil {
		WriteError(w, r, err)
		return
	}

	start := time.Now()
	ctx, trace := source.WithTrace(r.Context())
	result, err := h.pages.Render(id, &pages.RenderContext{
		Ctx:       ctx,
		Username:  session.Username,
		Role:      session.Role,
		SessionID: session.ID,
		Params:    queryParams(r),
	})
	if err != nil {
		if isClientGone(r, err) {
			logging.Ctx(r.Context()).Debug().Str("page", string(id)).Msg("Client went away during render")
			return
		}
		WriteError(w, r, err)
		return
	}

	if err := h.auth.SetCurrentPage(r.Context(), session, string(id)); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("page", string(id)).Msg("Failed to record current page")
	}
	respondJSON(w, r, http.StatusOK, result, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Cached:      trace.AllCached(),
	})
}

// queryParams keeps the first value of each query parameter.
func queryParams(r *http.Request) map[string]string {
	q := r.URL.Query()
	out := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
