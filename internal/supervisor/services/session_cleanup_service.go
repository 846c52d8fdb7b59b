// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package services

import (
	"context"
	"time"

	"github.com/tomtom215/cadence/internal/logging"
)

// ExpiredSessionCleaner is implemented by every auth.SessionStore.
type ExpiredSessionCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// SessionCleanupService removes expired sessions on a fixed interval. The
// memory store relies on it; Badger expires entries by TTL but still gets
// the sweep.
type SessionCleanupService struct {
	store    ExpiredSessionCleaner
	interval time.Duration
}

// NewSessionCleanupService sweeps store every interval (default 10m).
func NewSessionCleanupService(store ExpiredSessionCleaner, interval time.Duration) *SessionCleanupService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SessionCleanupService{store: store, interval: interval}
}

// Serve implements suture.Service. Sweep errors are logged, not returned,
// so a flaky store does not trigger restarts.
func (s *SessionCleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := s.store.CleanupExpired(ctx)
			if err != nil {
				logging.Warn().Err(err).Msg("Session cleanup failed")
				continue
			}
			if n > 0 {
				logging.Debug().Int("removed", n).Msg("Expired sessions removed")
			}
		}
	}
}

func (s *SessionCleanupService) String() string { return "session-cleanup" }
