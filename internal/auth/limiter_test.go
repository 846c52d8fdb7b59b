// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package auth

import (
	"testing"
	"time"
)

func TestLoginLimiter_BurstAndRefill(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLoginLimiter(3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("attempt %d denied, want allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("attempt 4 allowed, want denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other key should have its own bucket")
	}

	now = now.Add(time.Minute)
	if !l.Allow("10.0.0.1") {
		t.Error("attempt after refill denied")
	}
	if l.Allow("10.0.0.1") {
		t.Error("only one token should have refilled")
	}
}

func TestLoginLimiter_PrunesIdle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLoginLimiter(2, time.Second)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}

	now = now.Add(time.Minute)
	l.Allow("c")
	if l.Len() != 1 {
		t.Errorf("Len() after idle = %d, want 1", l.Len())
	}
}

func TestNewLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(0, 0)
	if !l.Allow("x") {
		t.Error("first attempt should be allowed")
	}
	if l.Allow("x") {
		t.Error("burst should default to 1")
	}
}
