// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package broadcast reconciles the user's intent with the broadcasts and
ingestion streams held by YouTube.

The provider is the only source of truth. Every operation starts from a fresh
list call and makes its decision from that snapshot; nothing is cached between
requests and overlapping requests are not coordinated.

Key Components:

  - PickMostRecent: selects "the" current broadcast by the newest of
    actualStartTime, scheduledStartTime, actualEndTime and publishedAt
    (first present field), keeping input order on ties
  - Service.Latest / LatestInfo: read-only lookup of the current broadcast
  - Service.ResolveOrCreate: partial title/description update, or creation
    when no candidate exists
  - Service.StartStream / EndStream: create-before-bind, bind-before-transition
    lifecycle driver
  - Service.GetOrCreateStreamKey / PeekStreamKey: reusable ingestion stream
    lookup, creating only in the former
  - LifecycleLabel / StreamLabel / HealthLabel: total mappings from provider
    enums to UI labels

Canonical labels:

	live                     -> "Live"
	created, ready, testing  -> "Starting Soon"
	complete                 -> "Ended"
	canceled                 -> "Canceled"
	revoked                  -> "Revoked"
	anything else            -> the raw value, neutral color

	stream active            -> "receiving data"
	stream error             -> "lost connection"
	anything else or missing -> "waiting for connection.."
*/
package broadcast
