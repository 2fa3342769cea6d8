// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/metrics"
)

// DevicePrompt shows the verification URL and user code to the operator.
type DevicePrompt func(resp *oauth2.DeviceAuthResponse)

// DeviceAuthorize runs the OAuth device authorization grant and persists
// the resulting token through tokens.
//
// Polling honours the interval the provider returns. authorization_pending
// keeps polling, slow_down widens the interval, and any other error (for
// example access_denied or expired_token) ends the attempt.
func DeviceAuthorize(ctx context.Context, cfg *oauth2.Config, tokens *TokenManager, prompt DevicePrompt) (*oauth2.Token, error) {
	resp, err := cfg.DeviceAuth(ctx, oauth2.AccessTypeOffline)
	if err != nil {
		metrics.RecordOAuthEvent("device", false)
		return nil, fmt.Errorf("request device code: %w", retrieveToUpstream("oauth2.device_code", err))
	}

	prompt(resp)
	logging.Info().
		Str("verification_uri", resp.VerificationURI).
		Time("expires_at", resp.Expiry).
		Msg("Waiting for device authorization")

	tok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		metrics.RecordOAuthEvent("device", false)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("device authorization failed: %w", retrieveToUpstream("oauth2.device_token", err))
	}

	if err := tokens.Save(ctx, tok); err != nil {
		metrics.RecordOAuthEvent("device", false)
		return nil, fmt.Errorf("persist token: %w", err)
	}

	metrics.RecordOAuthEvent("device", true)
	return tok, nil
}
