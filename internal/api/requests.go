// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/nandcello/radstream/internal/validation"
)

// maxBodyBytes bounds request bodies; a 5000-character description fits
// comfortably even fully escaped.
const maxBodyBytes = 64 << 10

// decodeBody reads an optional JSON body into dst and validates it.
// An empty body leaves dst untouched.
// It writes the 400 response itself and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("invalid request body: %v", err), nil)
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
