// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/cadence/internal/config"
)

const testSecret = "test-secret-with-at-least-32-characters"

func newTestJWT(t *testing.T, secret string, ttl time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: secret, TokenTTL: ttl})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestJWT_RoundTrip(t *testing.T) {
	m := newTestJWT(t, testSecret, time.Hour)
	s, _ := NewSession("alice", "admin", 2*time.Hour)

	token, err := m.GenerateToken(s)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.ID != s.ID || claims.Username != "alice" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
	if exp := claims.ExpiresAt.Time; exp.After(time.Now().Add(time.Hour + time.Second)) {
		t.Errorf("ExpiresAt = %v, want within token TTL", exp)
	}
}

func TestJWT_NeverOutlivesSession(t *testing.T) {
	m := newTestJWT(t, testSecret, 24*time.Hour)
	s, _ := NewSession("alice", "viewer", 10*time.Minute)

	token, _ := m.GenerateToken(s)
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.ExpiresAt.Time.After(s.ExpiresAt) {
		t.Errorf("token expiry %v after session expiry %v", claims.ExpiresAt.Time, s.ExpiresAt)
	}
}

func TestJWT_Rejects(t *testing.T) {
	m := newTestJWT(t, testSecret, time.Hour)
	s, _ := NewSession("alice", "viewer", time.Hour)

	other := newTestJWT(t, "another-secret-with-32-characters-xx", time.Hour)
	foreign, _ := other.GenerateToken(s)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Username:         "alice",
		RegisteredClaims: jwt.RegisteredClaims{ID: s.ID},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"alg none":     none,
		"missing id":   noID,
		"expired":      expired,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ValidateToken(token); err == nil {
				t.Error("ValidateToken() succeeded, want error")
			}
		})
	}
}
