// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

// tokenKey is the Badger key of the single stored token.
var tokenKey = []byte("token:google")

// BadgerTokenStore implements TokenStore using BadgerDB for durable storage.
type BadgerTokenStore struct {
	db        *badger.DB
	encryptor *TokenEncryptor
}

// NewBadgerTokenStore creates a store on an open database. encryptor may be nil.
func NewBadgerTokenStore(db *badger.DB, encryptor *TokenEncryptor) *BadgerTokenStore {
	return &BadgerTokenStore{db: db, encryptor: encryptor}
}

// Load reads and decrypts the stored token.
func (s *BadgerTokenStore) Load(_ context.Context) (*oauth2.Token, error) {
	var raw []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTokenNotFound
		}
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	plain, err := s.encryptor.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("decrypt token: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(plain, &tok); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &tok, nil
}

// Save serializes, encrypts and stores tok.
func (s *BadgerTokenStore) Save(_ context.Context, tok *oauth2.Token) error {
	if tok == nil {
		return errors.New("nil token")
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	sealed, err := s.encryptor.Seal(data)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tokenKey, sealed)
	})
}

// Delete removes the stored token. Deleting nothing is not an error.
func (s *BadgerTokenStore) Delete(_ context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(tokenKey)
	})
}
