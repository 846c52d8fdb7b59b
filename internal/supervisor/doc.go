// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package supervisor runs the long-lived services under a suture/v4 tree.

	cadence (root)
	├── maintenance-layer   session cleanup
	└── api-layer           HTTP server

A service that returns an error is restarted with suture's backoff.
Failures in the maintenance layer never take the API down. Supervisor
events are logged through sutureslog into zerolog.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.AddMaintenanceService(services.NewSessionCleanupService(store, time.Hour))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor
