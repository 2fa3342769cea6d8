// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package api

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/nandcello/radstream/internal/logging"
)

// Cross-site request errors
var (
	// ErrCrossSiteRequest indicates a browser request from a foreign site.
	ErrCrossSiteRequest = errors.New("cross-site request rejected")

	// ErrOriginNotTrusted indicates an Origin header that is neither this
	// host nor a configured CORS origin.
	ErrOriginNotTrusted = errors.New("origin not trusted")
)

// SameOrigin rejects browser requests that did not come from this server's
// own pages or from a configured CORS origin. It applies to every method,
// so it also covers GET routes with side effects.
//
// Decision order:
//   - Sec-Fetch-Site same-origin or none passes
//   - any other Sec-Fetch-Site needs a trusted Origin
//   - without Sec-Fetch-Site, an Origin must match the Host or be trusted
//   - requests with neither header (curl, scripts) pass
func (m *ChiMiddleware) SameOrigin() func(http.Handler) http.Handler {
	trusted := make(map[string]struct{}, len(m.config.CORSAllowedOrigins))
	for _, origin := range m.config.CORSAllowedOrigins {
		if origin == "*" {
			continue
		}
		trusted[normalizeOrigin(origin)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := checkOrigin(r, trusted); err != nil {
				logging.Warn().
					Err(err).
					Str("path", r.URL.Path).
					Str("origin", r.Header.Get("Origin")).
					Str("sec_fetch_site", r.Header.Get("Sec-Fetch-Site")).
					Msg("Rejected cross-site request")
				respondError(w, r, http.StatusForbidden, ErrCodeForbidden, err.Error(), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func checkOrigin(r *http.Request, trusted map[string]struct{}) error {
	origin := r.Header.Get("Origin")
	_, isTrusted := trusted[normalizeOrigin(origin)]

	switch site := strings.ToLower(r.Header.Get("Sec-Fetch-Site")); site {
	case "same-origin", "none":
		return nil
	case "":
	default:
		if origin != "" && isTrusted {
			return nil
		}
		return ErrCrossSiteRequest
	}

	if origin == "" || isTrusted {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return ErrOriginNotTrusted
	}
	if !strings.EqualFold(u.Host, r.Host) {
		return ErrOriginNotTrusted
	}
	return nil
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimSuffix(origin, "/"))
}

// RequireJSON answers 415 for a request body that is not application/json.
// Bodyless requests pass, so POST endpoints whose body is optional still
// accept an empty request.
func RequireJSON() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				respondError(w, r, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia,
					"request body must be application/json", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
