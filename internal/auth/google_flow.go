// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/metrics"
)

// GoogleRevokeURL is Google's token revocation endpoint.
const GoogleRevokeURL = "https://oauth2.googleapis.com/revoke"

// ErrAuthorizationDenied means the consent screen returned an error parameter.
var ErrAuthorizationDenied = errors.New("authorization denied")

// NewGoogleOAuthConfig builds the oauth2 client for Google.
func NewGoogleOAuthConfig(clientID, clientSecret, redirectURI string, scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
}

// GoogleFlowConfig configures a GoogleFlow.
type GoogleFlowConfig struct {
	OAuth        *oauth2.Config
	Tokens       *TokenManager
	State        *StateSigner
	CookieSecure bool

	// RevokeURL defaults to GoogleRevokeURL.
	RevokeURL  string
	HTTPClient *http.Client
}

// GoogleFlow runs the authorization-code + PKCE flow for the web UI.
type GoogleFlow struct {
	oauth        *oauth2.Config
	tokens       *TokenManager
	state        *StateSigner
	cookieSecure bool
	revokeURL    string
	httpClient   *http.Client
}

// NewGoogleFlow creates a flow.
func NewGoogleFlow(cfg GoogleFlowConfig) *GoogleFlow {
	revokeURL := cfg.RevokeURL
	if revokeURL == "" {
		revokeURL = GoogleRevokeURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleFlow{
		oauth:        cfg.OAuth,
		tokens:       cfg.Tokens,
		state:        cfg.State,
		cookieSecure: cfg.CookieSecure,
		revokeURL:    revokeURL,
		httpClient:   client,
	}
}

// Begin creates a login attempt. The caller sets the cookie and redirects
// the browser to authURL.
func (f *GoogleFlow) Begin() (authURL string, cookie *http.Cookie, err error) {
	nonce, err := randomNonce()
	if err != nil {
		return "", nil, fmt.Errorf("generate nonce: %w", err)
	}
	verifier := oauth2.GenerateVerifier()

	signed, err := f.state.Sign(nonce, verifier)
	if err != nil {
		return "", nil, err
	}

	authURL = f.oauth.AuthCodeURL(nonce,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(verifier),
	)

	cookie = &http.Cookie{
		Name:     StateCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(StateTTL / time.Second),
		HttpOnly: true,
		Secure:   f.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	metrics.RecordOAuthEvent("login", true)
	return authURL, cookie, nil
}

// ClearStateCookie returns a cookie that deletes oauth_state.
func (f *GoogleFlow) ClearStateCookie() *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Complete validates the callback request, exchanges the code and persists
// the token. State problems return ErrInvalidState and no exchange happens.
func (f *GoogleFlow) Complete(ctx context.Context, r *http.Request) error {
	err := f.complete(ctx, r)
	metrics.RecordOAuthEvent("callback", err == nil)
	return err
}

func (f *GoogleFlow) complete(ctx context.Context, r *http.Request) error {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		return fmt.Errorf("%w: %s", ErrAuthorizationDenied, logging.SanitizeValue(providerErr))
	}

	cookie, err := r.Cookie(StateCookieName)
	if err != nil || cookie.Value == "" {
		return fmt.Errorf("%w: missing state cookie", ErrInvalidState)
	}
	claims, err := f.state.Verify(cookie.Value)
	if err != nil {
		return err
	}

	state := q.Get("state")
	if subtle.ConstantTimeCompare([]byte(state), []byte(claims.Nonce)) != 1 {
		return fmt.Errorf("%w: state mismatch", ErrInvalidState)
	}

	code := q.Get("code")
	if code == "" {
		return fmt.Errorf("%w: missing code", ErrInvalidState)
	}

	tok, err := f.oauth.Exchange(ctx, code, oauth2.VerifierOption(claims.Verifier))
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Authorization code exchange failed")
		return retrieveToUpstream("oauth2.exchange", err)
	}

	if err := f.tokens.Save(ctx, tok); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	logging.Ctx(ctx).Info().
		Bool("has_refresh_token", tok.RefreshToken != "").
		Time("expiry", tok.Expiry).
		Msg("Google account authorized")
	return nil
}

// Logout revokes the stored credential at Google (best effort) and deletes it.
func (f *GoogleFlow) Logout(ctx context.Context) error {
	tok, err := f.tokens.Clear(ctx)
	if err != nil {
		metrics.RecordOAuthEvent("logout", false)
		return err
	}

	if tok != nil {
		secret := tok.RefreshToken
		if secret == "" {
			secret = tok.AccessToken
		}
		if secret != "" {
			if err := f.revoke(ctx, secret); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Msg("Token revocation failed, local token removed anyway")
			}
		}
	}

	metrics.RecordOAuthEvent("logout", true)
	logging.Ctx(ctx).Info().Msg("Google account signed out")
	return nil
}

func (f *GoogleFlow) revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 400 means the token was already invalid.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("revoke returned status %d", resp.StatusCode)
	}
	return nil
}
