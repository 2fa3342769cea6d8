// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

// Package validation validates decoded request bodies with
// go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata and is safe for concurrent use. Field names in error messages come
// from json tags so they match what the client sent.
//
// # Custom Tags
//
//   - youtube_text: rejects '<' and '>', which the YouTube Data API refuses in
//     broadcast titles and descriptions
//   - youtube_id: letters, digits, '-' and '_' only, as used by broadcast and
//     stream IDs
//
// # Usage
//
//	var fields models.BroadcastFields
//	if verr := validation.ValidateStruct(&fields); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
