// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package authz provides role-based authorization using Casbin.

Subjects are session roles ("admin" or "viewer"). Objects are resource
names such as "pages", "account" or "admin/cache", and actions are
"read", "write" or "delete". The admin role inherits every viewer
permission and may perform any action on admin/* objects.

The model and policy are embedded. Either can be replaced by a file via
security.casbin_model_path and security.casbin_policy_path.

Usage:

	enforcer, err := authz.NewEnforcer(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := authz.NewMiddleware(enforcer, respondError)
	r.With(mw.Authorize("admin/cache", authz.ActionDelete)).
	    Post("/admin/cache/clear", h.ClearCache)
*/
package authz
