// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package supervisor runs Radstream's long-lived services under suture v4.

Tree layout:

	RootSupervisor ("radstream")
	├── DataSupervisor ("data-layer")
	│   └── BadgerGCService (badger token store only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff; a failure in the data layer
never restarts the HTTP server. Events are logged through sutureslog, which
main wires to the zerolog-backed slog handler from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewBadgerGCService(db, cfg.TokenStore.GCInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}
*/
package supervisor
