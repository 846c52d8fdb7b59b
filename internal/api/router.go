// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cadence/internal/auth"
	"github.com/tomtom215/cadence/internal/authz"
	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/middleware"
	"github.com/tomtom215/cadence/internal/models"
)

// Router wires handlers to routes and middleware.
type Router struct {
	handler  *Handler
	auth     *auth.Authenticator
	authz    *authz.Middleware
	security config.SecurityConfig
}

// NewRouter creates a router. The authenticator and enforcer should use
// WriteError as their error hook so failures share the JSON envelope.
func NewRouter(handler *Handler, authenticator *auth.Authenticator, enforcer *authz.Enforcer, security config.SecurityConfig) *Router {
	return &Router{
		handler:  handler,
		auth:     authenticator,
		authz:    authz.NewMiddleware(enforcer, WriteError),
		security: security,
	}
}

// Setup builds the chi handler.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SlowRequests(time.Second))
	r.Use(rt.cors())
	r.Use(rt.rateLimit())
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondAPIError(w, req, http.StatusNotFound, notFound("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondAPIError(w, req, http.StatusMethodNotAllowed, &models.APIError{Code: models.CodeMethodNotAllowed, Message: "method not allowed"})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", rt.handler.Health)

		r.Post("/auth/register", rt.handler.Register)
		r.Post("/auth/login", rt.handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(rt.auth.RequireSession)

			r.Post("/auth/logout", rt.handler.Logout)
			r.With(rt.authz.Authorize("session", authz.ActionRead)).Get("/session", rt.handler.Session)

			r.With(rt.authz.Authorize("pages", authz.ActionRead)).Get("/pages", rt.handler.Menu)
			r.With(rt.authz.Authorize("pages", authz.ActionRead)).Get("/pages/{page}", rt.handler.Page)

			r.With(rt.authz.Authorize("account", authz.ActionRead)).Get("/account", rt.handler.Account)
			r.With(rt.authz.Authorize("account", authz.ActionWrite)).Put("/account", rt.handler.UpdateAccount)

			r.With(rt.authz.Authorize("admin/cache", authz.ActionDelete)).Post("/admin/cache/clear", rt.handler.ClearCache)
		})
	})

	return r
}

func (rt *Router) cors() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   rt.security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "If-None-Match", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"ETag", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

// rateLimit is the global per-IP limit; login has its own tighter limiter.
func (rt *Router) rateLimit() func(http.Handler) http.Handler {
	if rt.security.RateLimitDisabled || rt.security.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	window := rt.security.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		rt.security.RateLimitRequests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues("global").Inc()
			WriteError(w, r, errRateLimited)
		}),
	)
}
