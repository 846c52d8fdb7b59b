// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/cadence/internal/config"
)

func sessionStores(t *testing.T) map[string]SessionStore {
	t.Helper()
	badgerStore, err := OpenBadgerSessionStore("")
	if err != nil {
		t.Fatalf("OpenBadgerSessionStore() error = %v", err)
	}
	t.Cleanup(func() { badgerStore.Close() })
	return map[string]SessionStore{
		"memory": NewMemorySessionStore(),
		"badger": badgerStore,
	}
}

func TestNewSession(t *testing.T) {
	s, err := NewSession("alice", "viewer", time.Hour)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if len(s.ID) != 64 {
		t.Errorf("ID length = %d, want 64", len(s.ID))
	}
	if s.IsExpired() {
		t.Error("new session should not be expired")
	}
	other, _ := NewSession("alice", "viewer", time.Hour)
	if other.ID == s.ID {
		t.Error("session IDs should be unique")
	}
}

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			s, _ := NewSession("alice", "viewer", time.Hour)
			if err := store.Create(ctx, s); err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			got, err := store.Get(ctx, s.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Username != "alice" || got.Role != "viewer" {
				t.Errorf("Get() = %+v", got)
			}

			got.Metadata[MetaCurrentPage] = "portrait"
			if err := store.Update(ctx, got); err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			got, _ = store.Get(ctx, s.ID)
			if got.Metadata[MetaCurrentPage] != "portrait" {
				t.Errorf("current page = %q, want portrait", got.Metadata[MetaCurrentPage])
			}

			later := time.Now().Add(2 * time.Hour)
			if err := store.Touch(ctx, s.ID, later); err != nil {
				t.Fatalf("Touch() error = %v", err)
			}
			got, _ = store.Get(ctx, s.ID)
			if got.ExpiresAt.Before(later.Add(-time.Second)) {
				t.Errorf("ExpiresAt = %v, want about %v", got.ExpiresAt, later)
			}

			if err := store.Delete(ctx, s.ID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrSessionNotFound", err)
			}
		})
	}
}

func TestSessionStore_Missing(t *testing.T) {
	ctx := context.Background()
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ghost, _ := NewSession("ghost", "viewer", time.Hour)
			if err := store.Update(ctx, ghost); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Update() error = %v, want ErrSessionNotFound", err)
			}
			if err := store.Touch(ctx, ghost.ID, time.Now().Add(time.Hour)); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Touch() error = %v, want ErrSessionNotFound", err)
			}
		})
	}
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	s, _ := NewSession("bob", "viewer", time.Hour)
	s.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Get() error = %v, want ErrSessionExpired", err)
	}
	n, err := store.CleanupExpired(ctx)
	if err != nil || n != 1 {
		t.Errorf("CleanupExpired() = %d, %v; want 1, nil", n, err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after cleanup error = %v, want ErrSessionNotFound", err)
	}
}

func TestBadgerSessionStore_RejectsExpired(t *testing.T) {
	store, err := OpenBadgerSessionStore("")
	if err != nil {
		t.Fatalf("OpenBadgerSessionStore() error = %v", err)
	}
	defer store.Close()

	s, _ := NewSession("bob", "viewer", time.Hour)
	s.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Create(context.Background(), s); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Create() error = %v, want ErrSessionExpired", err)
	}
	if n, _ := store.Count(); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestNewSessionStore(t *testing.T) {
	tests := []struct {
		store   string
		wantErr bool
	}{
		{"", false},
		{"memory", false},
		{"badger", false},
		{"redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.store, func(t *testing.T) {
			store, err := NewSessionStore(&config.SessionConfig{Store: tt.store})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSessionStore(%q) error = %v, wantErr %v", tt.store, err, tt.wantErr)
			}
			if store != nil {
				store.Close()
			}
		})
	}
}
