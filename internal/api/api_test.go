// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/cadence/internal/accounts"
	"github.com/tomtom215/cadence/internal/auth"
	"github.com/tomtom215/cadence/internal/authz"
	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/database"
	"github.com/tomtom215/cadence/internal/models"
	"github.com/tomtom215/cadence/internal/pages"
	"github.com/tomtom215/cadence/internal/source"
)

const testAdmin = "root"

const basicCSV = "user_id,level,gender,province,birthday\n" +
	"1,5,1,110000,631152000000\n" +
	"2,3,2,440000,946684800000\n" +
	"3,9,1,310000,-1\n" +
	"4,1,0,110000,788918400000\n"

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

type testServer struct {
	handler http.Handler
	loader  *source.Loader
}

func setupServer(t *testing.T, files map[string]string, loginBurst int) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(&config.DatabaseConfig{Threads: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	loader := source.NewLoader(db, dir, true)
	users, err := accounts.Open(ctx, db, filepath.Join(dir, "users.csv"), accounts.Options{
		BcryptCost: bcrypt.MinCost,
		OnWrite:    func() { loader.ClearCache() },
	})
	if err != nil {
		t.Fatalf("accounts.Open() error = %v", err)
	}

	security := config.SecurityConfig{
		JWTSecret:         "api-test-secret-with-32-characters!",
		TokenTTL:          time.Hour,
		AdminUsername:     testAdmin,
		RateLimitDisabled: true,
	}
	jwtManager, err := auth.NewJWTManager(&security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	store := auth.NewMemorySessionStore()
	authenticator := auth.NewAuthenticator(store, jwtManager, &config.SessionConfig{TTL: time.Hour}, false, WriteError)
	enforcer, err := authz.NewEnforcer(&security)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	registry := pages.NewRegistry(pages.Deps{
		Tables:   loader,
		Users:    users,
		Analysis: config.AnalysisConfig{DefaultK: 3, Seed: 1, PreviewRows: 10},
	})
	handler := NewHandler(HandlerDeps{
		DB:            db,
		Users:         users,
		Tables:        loader,
		Pages:         registry,
		Auth:          authenticator,
		Limiter:       auth.NewLoginLimiter(loginBurst, time.Minute),
		AdminUsername: testAdmin,
		Version:       "test",
	})
	return &testServer{
		handler: NewRouter(handler, authenticator, enforcer, security).Setup(),
		loader:  loader,
	}
}

// do sends a request. A non-empty token is sent as a bearer header.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decode(t, rec)
	if env.Status != models.StatusError || env.Error == nil || env.Error.Code != code {
		t.Errorf("error = %+v, want code %s", env.Error, code)
	}
}

// signUp registers and logs in username, returning the bearer token.
func (s *testServer) signUp(t *testing.T, username string) string {
	t.Helper()
	reg := s.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: username, Password: "secret1", Confirm: "secret1",
	})
	if reg.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", reg.Code, reg.Body.String())
	}
	login := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Username: username, Password: "secret1",
	})
	if login.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", login.Code, login.Body.String())
	}
	var resp models.LoginResponse
	if err := json.Unmarshal(decode(t, login).Data, &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token
}

func TestHealth(t *testing.T) {
	s := setupServer(t, nil, 5)
	rec := s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var health models.HealthResponse
	if err := json.Unmarshal(decode(t, rec).Data, &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}
}

func TestRegister(t *testing.T) {
	s := setupServer(t, nil, 5)
	s.signUp(t, "alice")

	dup := s.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "alice", Password: "secret1", Confirm: "secret1",
	})
	expectError(t, dup, http.StatusConflict, models.CodeConflict)

	mismatch := s.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "bob", Password: "secret1", Confirm: "secret2",
	})
	expectError(t, mismatch, http.StatusBadRequest, models.CodeValidation)

	unknownField := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "carol", "password": "secret1", "confirm": "secret1", "admin": "yes",
	})
	expectError(t, unknownField, http.StatusBadRequest, models.CodeValidation)
}

func TestLogin(t *testing.T) {
	s := setupServer(t, nil, 10)
	s.signUp(t, "alice")

	tests := []struct {
		name     string
		username string
		password string
		status   int
		code     string
	}{
		{"wrong password", "alice", "nope123", http.StatusUnauthorized, models.CodeUnauthorized},
		{"unknown user", "nobody", "secret1", http.StatusUnauthorized, models.CodeUnauthorized},
		{"missing password", "alice", "", http.StatusBadRequest, models.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
				Username: tt.username, Password: tt.password,
			})
			expectError(t, rec, tt.status, tt.code)
		})
	}

	t.Run("sets cookie", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
			Username: "alice", Password: "secret1",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.DefaultCookieName && c.Value != "" && c.HttpOnly {
				found = true
			}
		}
		if !found {
			t.Error("login did not set the session cookie")
		}
	})
}

func TestLogin_RateLimited(t *testing.T) {
	s := setupServer(t, nil, 2)
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: "x", Password: "y"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, rec.Code)
		}
	}
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: "x", Password: "y"})
	expectError(t, rec, http.StatusTooManyRequests, models.CodeRateLimited)
}

func TestPages_RequireSession(t *testing.T) {
	s := setupServer(t, map[string]string{"basic_info.csv": basicCSV}, 5)
	for _, path := range []string{"/api/v1/pages", "/api/v1/pages/portrait", "/api/v1/session", "/api/v1/account"} {
		t.Run(path, func(t *testing.T) {
			expectError(t, s.do(t, http.MethodGet, path, "", nil), http.StatusUnauthorized, models.CodeUnauthorized)
		})
	}
}

func TestPages_Render(t *testing.T) {
	s := setupServer(t, map[string]string{"basic_info.csv": basicCSV}, 5)
	token := s.signUp(t, "alice")

	menu := s.do(t, http.MethodGet, "/api/v1/pages", token, nil)
	var items []pages.MenuItem
	if err := json.Unmarshal(decode(t, menu).Data, &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 6 || items[0].ID != pages.Overview {
		t.Errorf("menu = %+v", items)
	}

	rec := s.do(t, http.MethodGet, "/api/v1/pages/portrait", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	var result struct {
		Page      string            `json:"page"`
		Artifacts []json.RawMessage `json:"artifacts"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Page != string(pages.Portrait) || len(result.Artifacts) == 0 {
		t.Errorf("result page = %q with %d artifacts", result.Page, len(result.Artifacts))
	}
	if env.Metadata.Cached {
		t.Error("first render should read from disk")
	}

	again := decode(t, s.do(t, http.MethodGet, "/api/v1/pages/portrait", token, nil))
	if !again.Metadata.Cached {
		t.Error("second render should be served from the cache")
	}

	var session models.SessionResponse
	if err := json.Unmarshal(decode(t, s.do(t, http.MethodGet, "/api/v1/session", token, nil)).Data, &session); err != nil {
		t.Fatal(err)
	}
	if session.CurrentPage != string(pages.Portrait) || session.Username != "alice" {
		t.Errorf("session = %+v", session)
	}
}

func TestPages_Errors(t *testing.T) {
	s := setupServer(t, map[string]string{"basic_info.csv": basicCSV}, 5)
	token := s.signUp(t, "alice")

	expectError(t, s.do(t, http.MethodGet, "/api/v1/pages/charts", token, nil), http.StatusNotFound, models.CodeNotFound)
	expectError(t, s.do(t, http.MethodGet, "/api/v1/pages/overview", token, nil),
		http.StatusServiceUnavailable, models.CodeSourceUnavailable)
	expectError(t, s.do(t, http.MethodGet, "/api/v1/pages/overview?k=99", token, nil),
		http.StatusBadRequest, models.CodeValidation)
}

func TestETag_NotModified(t *testing.T) {
	s := setupServer(t, nil, 5)
	token := s.signUp(t, "alice")

	first := s.do(t, http.MethodGet, "/api/v1/pages", token, nil)
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	s := setupServer(t, nil, 5)
	token := s.signUp(t, "alice")

	if rec := s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	expectError(t, s.do(t, http.MethodGet, "/api/v1/session", token, nil), http.StatusUnauthorized, models.CodeUnauthorized)
}

func TestAccount(t *testing.T) {
	s := setupServer(t, nil, 5)
	token := s.signUp(t, "alice")

	var profile accounts.Profile
	if err := json.Unmarshal(decode(t, s.do(t, http.MethodGet, "/api/v1/account", token, nil)).Data, &profile); err != nil {
		t.Fatal(err)
	}
	if profile.Email != accounts.NoValue || profile.Intro != accounts.DefaultIntro {
		t.Errorf("fresh profile = %+v", profile)
	}

	update := s.do(t, http.MethodPut, "/api/v1/account", token, models.ProfileUpdateRequest{
		Email: "alice@example.com", Phone: "13800138000", Intro: "爱听歌",
	})
	if update.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", update.Code, update.Body.String())
	}
	if err := json.Unmarshal(decode(t, s.do(t, http.MethodGet, "/api/v1/account", token, nil)).Data, &profile); err != nil {
		t.Fatal(err)
	}
	if profile.Phone != "138 0013 8000" || profile.Intro != "爱听歌" {
		t.Errorf("updated profile = %+v", profile)
	}

	bad := s.do(t, http.MethodPut, "/api/v1/account", token, models.ProfileUpdateRequest{Email: "nope"})
	expectError(t, bad, http.StatusBadRequest, models.CodeValidation)
}

func TestAdminCacheClear(t *testing.T) {
	s := setupServer(t, map[string]string{"basic_info.csv": basicCSV}, 5)
	viewer := s.signUp(t, "alice")
	admin := s.signUp(t, testAdmin)

	expectError(t, s.do(t, http.MethodPost, "/api/v1/admin/cache/clear", viewer, nil), http.StatusForbidden, models.CodeForbidden)

	for i := 0; i < 2; i++ {
		if _, err := s.loader.Load(context.Background(), source.Basic); err != nil {
			t.Fatal(err)
		}
	}
	rec := s.do(t, http.MethodPost, "/api/v1/admin/cache/clear", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, body %s", rec.Code, rec.Body.String())
	}
	var cleared models.CacheClearResponse
	if err := json.Unmarshal(decode(t, rec).Data, &cleared); err != nil {
		t.Fatal(err)
	}
	if cleared.Cleared != 1 {
		t.Errorf("cleared = %d, want 1", cleared.Cleared)
	}
	if cleared.HitRate != 50 {
		t.Errorf("hit_rate = %v, want 50 (one miss, one hit)", cleared.HitRate)
	}
}

func TestNotFoundRoute(t *testing.T) {
	s := setupServer(t, nil, 5)
	expectError(t, s.do(t, http.MethodGet, "/api/v2/nothing", "", nil), http.StatusNotFound, models.CodeNotFound)
}
