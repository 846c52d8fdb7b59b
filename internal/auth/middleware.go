// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
)

// ErrUnauthenticated is returned when a request carries no valid session.
var ErrUnauthenticated = errors.New("authentication required")

// DefaultCookieName names the session cookie when config leaves it empty.
const DefaultCookieName = "cadence_session"

type contextKey string

const sessionContextKey contextKey = "auth_session"

// WithSession returns ctx carrying session.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the session stored by the middleware.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	return s, ok && s != nil
}

// ErrorResponder writes an authentication failure.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// Authenticator issues and resolves sessions.
type Authenticator struct {
	store        SessionStore
	jwt          *JWTManager
	ttl          time.Duration
	cookieName   string
	cookieSecure bool
	onError      ErrorResponder
}

// NewAuthenticator wires a store and token manager. onError renders
// failures of RequireSession; nil writes a plain 401.
func NewAuthenticator(store SessionStore, jwtManager *JWTManager, cfg *config.SessionConfig, cookieSecure bool, onError ErrorResponder) *Authenticator {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}
	return &Authenticator{
		store:        store,
		jwt:          jwtManager,
		ttl:          ttl,
		cookieName:   name,
		cookieSecure: cookieSecure,
		onError:      onError,
	}
}

// Login creates a session for username and a bearer token bound to it.
func (a *Authenticator) Login(ctx context.Context, username, role string) (*Session, string, error) {
	session, err := NewSession(username, role, a.ttl)
	if err != nil {
		return nil, "", err
	}
	if err := a.store.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	token, err := a.jwt.GenerateToken(session)
	if err != nil {
		_ = a.store.Delete(ctx, session.ID) //nolint:errcheck // best effort
		return nil, "", err
	}
	metrics.ActiveSessions.Inc()
	logging.Ctx(ctx).Info().Str("username", username).Str("role", role).Msg("Session created")
	return session, token, nil
}

// Logout deletes the session, revoking its cookie and token.
func (a *Authenticator) Logout(ctx context.Context, sessionID string) error {
	if err := a.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	metrics.ActiveSessions.Dec()
	return nil
}

// Resolve finds the caller's session from the cookie or a bearer token.
func (a *Authenticator) Resolve(r *http.Request) (*Session, error) {
	var id, tokenUser string
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		claims, err := a.jwt.ValidateToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		id, tokenUser = claims.ID, claims.Username
	} else if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
		id = c.Value
	}
	if id == "" {
		return nil, ErrUnauthenticated
	}

	session, err := a.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		return nil, err
	}
	if tokenUser != "" && tokenUser != session.Username {
		return nil, fmt.Errorf("%w: token does not match session", ErrUnauthenticated)
	}
	return session, nil
}

// RequireSession rejects requests without a valid session and otherwise
// extends the session and stores it in the request context.
func (a *Authenticator) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := a.Resolve(r)
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Session lookup error")
			}
			a.onError(w, r, err)
			return
		}

		newExpiry := time.Now().Add(a.ttl)
		if err := a.store.Touch(r.Context(), session.ID, newExpiry); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to touch session")
		} else {
			session.ExpiresAt = newExpiry
		}

		ctx := WithSession(r.Context(), session)
		ctx = logging.ContextWithUsername(ctx, session.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetCurrentPage records page in the session metadata.
func (a *Authenticator) SetCurrentPage(ctx context.Context, session *Session, page string) error {
	updated := session.Clone()
	if updated.Metadata == nil {
		updated.Metadata = make(map[string]string)
	}
	updated.Metadata[MetaCurrentPage] = page
	if err := a.store.Update(ctx, updated); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// SetCookie writes the session cookie.
func (a *Authenticator) SetCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CookieName returns the session cookie name.
func (a *Authenticator) CookieName() string { return a.cookieName }
