// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

// Package logging provides centralized zerolog-based logging for Radstream.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Operation failed")
//	logging.Ctx(ctx).Info().Str("broadcast_id", id).Msg("Transitioned")
//
// Request and correlation IDs are attached to the request context by the
// HTTP middleware and picked up by Ctx. Supervisor events reach zerolog
// through the slog bridge (NewSlogLogger).
//
// Stream keys and OAuth tokens must pass through RedactSecret before
// they are logged.
package logging
