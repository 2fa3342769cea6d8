// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/metrics"
	"github.com/nandcello/radstream/internal/models"
)

// ErrAuthRequired means the account must (re)authorize. It matches
// models.ErrUnauthorized with errors.Is.
var ErrAuthRequired = fmt.Errorf("%w: authorization required", models.ErrUnauthorized)

// DefaultRefreshSkew refreshes tokens this long before they expire.
const DefaultRefreshSkew = 60 * time.Second

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// OAuthRefresher refreshes through an oauth2.Config token endpoint.
type OAuthRefresher struct {
	Config *oauth2.Config
}

// Refresh implements Refresher.
func (r OAuthRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return r.Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
}

// TokenManager hands out valid access tokens, refreshing on demand.
type TokenManager struct {
	store     TokenStore
	refresher Refresher
	skew      time.Duration
	now       func() time.Time

	// refreshMu serializes refreshes so concurrent callers share one.
	refreshMu sync.Mutex
}

// NewTokenManager creates a manager. A zero skew uses DefaultRefreshSkew.
func NewTokenManager(store TokenStore, refresher Refresher, skew time.Duration) *TokenManager {
	if skew <= 0 {
		skew = DefaultRefreshSkew
	}
	return &TokenManager{
		store:     store,
		refresher: refresher,
		skew:      skew,
		now:       time.Now,
	}
}

// Store returns the underlying token store.
func (m *TokenManager) Store() TokenStore {
	return m.store
}

// EnsureAccessToken returns a token that stays valid for at least the skew.
func (m *TokenManager) EnsureAccessToken(ctx context.Context) (*oauth2.Token, error) {
	tok, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	if m.fresh(tok) {
		return tok, nil
	}

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	// Another caller may have refreshed while we waited.
	tok, err = m.load(ctx)
	if err != nil {
		return nil, err
	}
	if m.fresh(tok) {
		return tok, nil
	}

	return m.refresh(ctx, tok)
}

// Authorized reports whether a usable credential is stored. It does not
// contact the provider.
func (m *TokenManager) Authorized(ctx context.Context) bool {
	tok, err := m.load(ctx)
	if err != nil {
		return false
	}
	return m.fresh(tok) || tok.RefreshToken != ""
}

// Save persists a token obtained from an authorization flow.
func (m *TokenManager) Save(ctx context.Context, tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return errors.New("token has no access token")
	}
	return m.store.Save(ctx, tok)
}

// Clear forgets the stored token and returns it (nil when none was stored).
func (m *TokenManager) Clear(ctx context.Context) (*oauth2.Token, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	tok, err := m.store.Load(ctx)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		logging.Ctx(ctx).Warn().Err(err).Msg("Could not read token before clearing it")
	}
	if err := m.store.Delete(ctx); err != nil {
		return nil, fmt.Errorf("delete token: %w", err)
	}
	return tok, nil
}

func (m *TokenManager) load(ctx context.Context) (*oauth2.Token, error) {
	tok, err := m.store.Load(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, ErrAuthRequired
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, ErrAuthRequired
	}
	return tok, nil
}

// fresh reports whether tok has an access token valid beyond the skew.
// A zero expiry means the token does not expire.
func (m *TokenManager) fresh(tok *oauth2.Token) bool {
	if tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return tok.Expiry.After(m.now().Add(m.skew))
}

func (m *TokenManager) refresh(ctx context.Context, old *oauth2.Token) (*oauth2.Token, error) {
	if old.RefreshToken == "" {
		logging.Ctx(ctx).Info().Msg("Access token expired and no refresh token is stored")
		return nil, ErrAuthRequired
	}

	tok, err := m.refresher.Refresh(ctx, old.RefreshToken)
	if err != nil {
		return nil, m.refreshFailed(ctx, err)
	}

	// Google omits the refresh token on refresh responses.
	if tok.RefreshToken == "" {
		tok.RefreshToken = old.RefreshToken
	}

	if err := m.store.Save(ctx, tok); err != nil {
		return nil, fmt.Errorf("persist refreshed token: %w", err)
	}

	metrics.RecordTokenRefresh("success")
	logging.Ctx(ctx).Debug().
		Time("expiry", tok.Expiry).
		Msg("Refreshed access token")
	return tok, nil
}

func (m *TokenManager) refreshFailed(ctx context.Context, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.ErrorCode == "invalid_grant" {
		metrics.RecordTokenRefresh("invalid_grant")
		logging.Ctx(ctx).Warn().Msg("Refresh token rejected, stored token removed")
		if delErr := m.store.Delete(ctx); delErr != nil {
			logging.Ctx(ctx).Error().Err(delErr).Msg("Failed to delete rejected token")
		}
		return ErrAuthRequired
	}

	metrics.RecordTokenRefresh("error")
	logging.Ctx(ctx).Error().Err(err).Msg("Token refresh failed")
	return retrieveToUpstream("oauth2.refresh", err)
}

// retrieveToUpstream converts a token endpoint failure to an UpstreamError.
func retrieveToUpstream(operation string, err error) error {
	ue := &models.UpstreamError{Operation: operation, Message: err.Error()}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.Response != nil {
			ue.Status = re.Response.StatusCode
		}
		ue.Reason = re.ErrorCode
		if re.ErrorDescription != "" {
			ue.Message = re.ErrorDescription
		}
	}
	return ue
}
