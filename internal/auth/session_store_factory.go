// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package auth

import (
	"fmt"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/logging"
)

// SessionStoreType defines the type of session storage backend.
type SessionStoreType string

const (
	// SessionStoreMemory uses in-memory storage (default, not persistent).
	SessionStoreMemory SessionStoreType = "memory"

	// SessionStoreBadger uses BadgerDB for persistent session storage.
	SessionStoreBadger SessionStoreType = "badger"
)

// NewSessionStore builds the store named by cfg.Store.
func NewSessionStore(cfg *config.SessionConfig) (SessionStore, error) {
	switch SessionStoreType(cfg.Store) {
	case SessionStoreMemory, "":
		logging.Info().Str("store", string(SessionStoreMemory)).Msg("Session store ready")
		return NewMemorySessionStore(), nil
	case SessionStoreBadger:
		store, err := OpenBadgerSessionStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("store", string(SessionStoreBadger)).Str("path", cfg.Path).Msg("Session store ready")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
