// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package services adapts Radstream components to suture.Service.

  - HTTPServerService turns ListenAndServe/Shutdown into a context-driven
    Serve with a bounded graceful shutdown.
  - BadgerGCService runs Badger value-log garbage collection on the token
    store at a fixed interval.

Each wrapper implements fmt.Stringer so suture events name the service.
*/
package services
