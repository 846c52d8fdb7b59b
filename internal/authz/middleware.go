// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package authz

import (
	"errors"
	"net/http"

	"github.com/tomtom215/cadence/internal/auth"
	"github.com/tomtom215/cadence/internal/logging"
)

// ErrForbidden is returned when the caller's role lacks a permission.
var ErrForbidden = errors.New("insufficient permissions")

// Middleware enforces permissions for requests carrying a session.
type Middleware struct {
	enforcer *Enforcer
	onError  auth.ErrorResponder
}

// NewMiddleware creates the middleware. onError renders denials; nil
// writes plain text.
func NewMiddleware(enforcer *Enforcer, onError auth.ErrorResponder) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			status := http.StatusForbidden
			if errors.Is(err, auth.ErrUnauthenticated) {
				status = http.StatusUnauthorized
			} else if !errors.Is(err, ErrForbidden) {
				status = http.StatusInternalServerError
			}
			http.Error(w, err.Error(), status)
		}
	}
	return &Middleware{enforcer: enforcer, onError: onError}
}

// Authorize allows the request through when the session role may perform
// action on object. It must run after auth.RequireSession.
func (m *Middleware) Authorize(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := auth.SessionFromContext(r.Context())
			if !ok {
				m.onError(w, r, auth.ErrUnauthenticated)
				return
			}

			allowed, err := m.enforcer.Enforce(session.Role, object, action)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
				m.onError(w, r, err)
				return
			}
			if !allowed {
				logging.Ctx(r.Context()).Warn().
					Str("role", session.Role).
					Str("object", object).
					Str("action", action).
					Msg("Authorization denied")
				m.onError(w, r, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
