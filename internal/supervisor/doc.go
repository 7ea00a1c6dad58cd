// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

/*
Package supervisor runs gigmarket's long-lived services under a suture v4
supervisor tree.

	root ("gigmarket")
	├── maintenance-layer   periodic sweepers
	└── api-layer           HTTP server

Each layer is its own supervisor, so a sweeper that keeps failing is backed
off without touching the HTTP server. Supervisor events are routed to the
zerolog stream through sutureslog and logging.NewSlogLogger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMaintenanceService(services.NewSweeperService("monitor-cleanup", time.Hour, mon.Cleanup))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
