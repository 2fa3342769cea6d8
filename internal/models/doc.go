// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package models defines the data structures shared across Radstream.

The provider owns every broadcast and livestream; values in this package are
transient snapshots of remote state fetched for a single request. Nothing here
is persisted except the OAuth token, which lives in the auth package.

Key Components:

  - Broadcast: a YouTube live broadcast (lifecycle status, schedule, bound stream)
  - LiveStream: an ingestion endpoint holding the stream key
  - BroadcastInfo: the UI-facing broadcast record returned by the HTTP API
  - StreamKeyInfo: the stream key, ingest URL and normalized status
  - StartResult / EndResult: results of lifecycle transitions

Error Taxonomy:

  - ErrUnauthorized: no valid access token
  - ErrNotFound: no broadcast or stream exists when one is required
  - ErrPreconditionFailed: an operation was requested in the wrong lifecycle state
  - UpstreamError: the provider answered with a non-success status
*/
package models
