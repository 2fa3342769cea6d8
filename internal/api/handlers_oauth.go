// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package api

import (
	"errors"
	"net/http"

	"github.com/nandcello/radstream/internal/auth"
	"github.com/nandcello/radstream/internal/logging"
)

type authStatusResponse struct {
	Authorized bool `json:"authorized"`
}

// AuthStatus reports whether a YouTube credential is stored and usable.
//
// GET /api/youtube/auth-status
func (h *Handler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, authStatusResponse{Authorized: h.auth.Authorized(r.Context())})
}

// OAuthLogin sets the signed oauth_state cookie and redirects to Google.
//
// GET /api/oauth/google/login
func (h *Handler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	authURL, cookie, err := h.flow.Begin()
	if err != nil {
		respondServiceError(w, r, "oauth_login", err)
		return
	}

	http.SetCookie(w, cookie)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// OAuthCallback finishes the authorization-code exchange. The state cookie is
// cleared whatever the outcome.
//
// GET /api/oauth/google/callback?code&state
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.flow.ClearStateCookie())

	if err := h.flow.Complete(r.Context(), r); err != nil {
		if errors.Is(err, auth.ErrInvalidState) || errors.Is(err, auth.ErrAuthorizationDenied) {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("OAuth callback rejected")
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
			return
		}
		respondServiceError(w, r, "oauth_callback", err)
		return
	}

	http.Redirect(w, r, h.postLoginRedirect, http.StatusFound)
}

// OAuthLogout revokes and deletes the stored credential.
//
// POST /api/oauth/google/logout
func (h *Handler) OAuthLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.flow.Logout(r.Context()); err != nil {
		respondServiceError(w, r, "oauth_logout", err)
		return
	}
	respondJSON(w, http.StatusOK, authStatusResponse{Authorized: false})
}
