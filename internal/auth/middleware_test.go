// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/cadence/internal/config"
)

func newTestAuthenticator(t *testing.T) (*Authenticator, SessionStore) {
	t.Helper()
	store := NewMemorySessionStore()
	a := NewAuthenticator(store, newTestJWT(t, testSecret, time.Hour),
		&config.SessionConfig{TTL: time.Hour}, false, nil)
	return a, store
}

// whoami echoes the session username.
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(s.Username))
})

func TestRequireSession(t *testing.T) {
	a, _ := newTestAuthenticator(t)
	session, token, err := a.Login(context.Background(), "alice", "viewer")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: session.ID})
		}, http.StatusOK},
		{"bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		}, http.StatusOK},
		{"unknown cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "nope"})
		}, http.StatusUnauthorized},
		{"bad bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer nope")
		}, http.StatusUnauthorized},
	}

	handler := a.RequireSession(whoami)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && rec.Body.String() != "alice" {
				t.Errorf("body = %q, want alice", rec.Body.String())
			}
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	a, _ := newTestAuthenticator(t)
	ctx := context.Background()
	session, token, err := a.Login(ctx, "alice", "viewer")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := a.Logout(ctx, session.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.RequireSession(whoami).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 after logout", rec.Code)
	}
}

func TestRequireSession_SlidesExpiry(t *testing.T) {
	a, store := newTestAuthenticator(t)
	ctx := context.Background()
	session, _, _ := a.Login(ctx, "alice", "viewer")

	// shorten the stored expiry, then hit the middleware
	if err := store.Touch(ctx, session.ID, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: session.ID})
	a.RequireSession(whoami).ServeHTTP(httptest.NewRecorder(), req)

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if time.Until(got.ExpiresAt) < 50*time.Minute {
		t.Errorf("ExpiresAt = %v, want about an hour from now", got.ExpiresAt)
	}
}

func TestSetCurrentPage(t *testing.T) {
	a, store := newTestAuthenticator(t)
	ctx := context.Background()
	session, _, _ := a.Login(ctx, "alice", "viewer")

	if err := a.SetCurrentPage(ctx, session, "listening"); err != nil {
		t.Fatalf("SetCurrentPage() error = %v", err)
	}
	got, _ := store.Get(ctx, session.ID)
	if got.Metadata[MetaCurrentPage] != "listening" {
		t.Errorf("current page = %q, want listening", got.Metadata[MetaCurrentPage])
	}
	if session.Metadata[MetaCurrentPage] != "" {
		t.Error("SetCurrentPage must not mutate the caller's session")
	}
}

func TestCookies(t *testing.T) {
	a, _ := newTestAuthenticator(t)
	session, _ := NewSession("alice", "viewer", time.Hour)

	rec := httptest.NewRecorder()
	a.SetCookie(rec, session)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != session.ID || !cookies[0].HttpOnly {
		t.Fatalf("SetCookie() cookies = %+v", cookies)
	}

	rec = httptest.NewRecorder()
	a.ClearCookie(rec)
	cookies = rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("ClearCookie() cookies = %+v", cookies)
	}
}
