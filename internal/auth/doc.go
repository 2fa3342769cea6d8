// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package auth owns the Google OAuth credential used for every YouTube call.

Radstream serves a single account, so there is exactly one stored token.

# Components

  - TokenStore: Load/Save/Delete of the oauth2.Token. BadgerTokenStore
    persists it under YT_TOKEN_PATH; MemoryTokenStore is for development
    and tests. A TokenEncryptor (AES-256-GCM, HKDF-derived key) seals the
    serialized token when TOKEN_ENCRYPTION_KEY is set.
  - TokenManager: EnsureAccessToken returns a token valid for at least the
    refresh skew, refreshing and persisting it when needed. Refreshes are
    serialized so concurrent requests trigger one refresh.
  - GoogleFlow: authorization-code flow with PKCE. The CSRF nonce and the
    PKCE verifier travel in a signed, short-lived oauth_state cookie.
  - DeviceAuthorize: device authorization grant for headless hosts
    (cmd/authorize).

# Errors

ErrAuthRequired wraps models.ErrUnauthorized and is returned whenever no
usable credential exists, including after the provider rejects a refresh
token with invalid_grant (the stored token is deleted in that case).
*/
package auth
