// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

// Package polling defines the status polling policy served to the UI.
//
// The UI polls broadcast and stream status instead of subscribing to pushes.
// Policy tells it how often: Interval between successful polls, up to Jitter
// of random spread so tabs do not synchronize, and exponential backoff capped
// at MaxBackoff after consecutive failures.
package polling
