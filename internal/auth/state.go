// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StateCookieName is the httpOnly cookie carrying the signed OAuth state.
const StateCookieName = "oauth_state"

// StateTTL bounds how long a login attempt may take.
const StateTTL = 10 * time.Minute

const stateIssuer = "radstream"

// ErrInvalidState covers a missing, expired, forged or mismatched state.
var ErrInvalidState = errors.New("invalid oauth state")

// StateClaims is the payload of the oauth_state cookie.
type StateClaims struct {
	// Nonce is echoed back by Google in the state query parameter.
	Nonce string `json:"nonce"`
	// Verifier is the PKCE code verifier for this attempt.
	Verifier string `json:"pkce"`
	jwt.RegisteredClaims
}

// StateSigner signs and verifies oauth_state cookies with HS256.
type StateSigner struct {
	secret []byte
	now    func() time.Time
}

// NewStateSigner creates a signer. An empty secret generates a random one,
// which invalidates in-flight logins on restart.
func NewStateSigner(secret string) (*StateSigner, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate state secret: %w", err)
		}
	}
	return &StateSigner{secret: key, now: time.Now}, nil
}

// Sign returns a compact JWT for the given nonce and verifier.
func (s *StateSigner) Sign(nonce, verifier string) (string, error) {
	now := s.now()
	claims := &StateClaims{
		Nonce:    nonce,
		Verifier: verifier,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

// Verify parses a cookie value and returns its claims.
func (s *StateSigner) Verify(value string) (*StateClaims, error) {
	claims := &StateClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(stateIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if !token.Valid || claims.Nonce == "" || claims.Verifier == "" {
		return nil, ErrInvalidState
	}
	return claims, nil
}

// randomNonce returns 32 random bytes, base64url encoded.
func randomNonce() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
