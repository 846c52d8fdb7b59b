// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cadence/internal/accounts"
	"github.com/tomtom215/cadence/internal/auth"
	"github.com/tomtom215/cadence/internal/cache"
	"github.com/tomtom215/cadence/internal/pages"
)

// Pinger checks the database connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UserStore is the credential store used by the auth and account handlers.
// *accounts.Store implements it.
type UserStore interface {
	Register(ctx context.Context, r accounts.Registration) (accounts.User, error)
	Authenticate(ctx context.Context, username, password string) (accounts.User, error)
	Get(username string) (accounts.User, error)
	UpdateProfile(ctx context.Context, username, email, phone, intro string) (accounts.User, error)
}

// TableCache is the loader cache exposed to admins. *source.Loader
// implements it.
type TableCache interface {
	ClearCache() int
	CacheStats() cache.Stats
	CacheHitRate() float64
}

// Handler holds the dependencies of every HTTP handler.
type Handler struct {
	db            Pinger
	users         UserStore
	tables        TableCache
	pages         *pages.Registry
	auth          *auth.Authenticator
	limiter       *auth.LoginLimiter
	adminUsername string
	version       string
	startTime     time.Time
}

// HandlerDeps wires a Handler.
type HandlerDeps struct {
	DB            Pinger
	Users         UserStore
	Tables        TableCache
	Pages         *pages.Registry
	Auth          *auth.Authenticator
	Limiter       *auth.LoginLimiter
	AdminUsername string
	Version       string
}

// NewHandler creates a Handler.
func NewHandler(deps HandlerDeps) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		db:            deps.DB,
		users:         deps.Users,
		tables:        deps.Tables,
		pages:         deps.Pages,
		auth:          deps.Auth,
		limiter:       deps.Limiter,
		adminUsername: deps.AdminUsername,
		version:       version,
		startTime:     time.Now(),
	}
}
