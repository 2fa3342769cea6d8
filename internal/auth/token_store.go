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

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/oauth2"
)

// ErrTokenNotFound is returned by TokenStore.Load when nothing is stored.
var ErrTokenNotFound = errors.New("token not found")

// TokenStore persists the single OAuth token of the authorized account.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, tok *oauth2.Token) error
	Delete(ctx context.Context) error
}

// TokenStoreType selects the TokenStore implementation.
type TokenStoreType string

const (
	// TokenStoreMemory keeps the token in process memory (not persistent).
	TokenStoreMemory TokenStoreType = "memory"

	// TokenStoreBadger persists the token in an embedded BadgerDB.
	TokenStoreBadger TokenStoreType = "badger"
)

// TokenStoreFactory opens the backing database once and hands out stores.
type TokenStoreFactory struct {
	db        *badger.DB
	encryptor *TokenEncryptor
}

// NewTokenStoreFactory opens the Badger directory at path for the badger
// backend. The memory backend ignores path.
func NewTokenStoreFactory(storeType TokenStoreType, path string, encryptor *TokenEncryptor) (*TokenStoreFactory, error) {
	factory := &TokenStoreFactory{encryptor: encryptor}

	switch storeType {
	case TokenStoreBadger:
		opts := badger.DefaultOptions(path)
		opts.Logger = nil // Suppress BadgerDB logs

		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for tokens: %w", err)
		}
		factory.db = db
	case TokenStoreMemory:
	default:
		return nil, fmt.Errorf("unknown token store type %q", storeType)
	}

	return factory, nil
}

// CreateStore returns the configured TokenStore.
func (f *TokenStoreFactory) CreateStore() TokenStore {
	if f.db != nil {
		return NewBadgerTokenStore(f.db, f.encryptor)
	}
	return NewMemoryTokenStore()
}

// DB returns the underlying database, or nil for the memory backend.
func (f *TokenStoreFactory) DB() *badger.DB {
	return f.db
}

// Close closes the underlying database.
func (f *TokenStoreFactory) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}

// MemoryTokenStore implements TokenStore in memory.
type MemoryTokenStore struct {
	mu  sync.RWMutex
	tok *oauth2.Token
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Load returns a copy of the stored token.
func (s *MemoryTokenStore) Load(_ context.Context) (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tok == nil {
		return nil, ErrTokenNotFound
	}
	cp := *s.tok
	return &cp, nil
}

// Save replaces the stored token.
func (s *MemoryTokenStore) Save(_ context.Context, tok *oauth2.Token) error {
	if tok == nil {
		return errors.New("nil token")
	}
	cp := *tok
	s.mu.Lock()
	s.tok = &cp
	s.mu.Unlock()
	return nil
}

// Delete removes the stored token. Deleting nothing is not an error.
func (s *MemoryTokenStore) Delete(_ context.Context) error {
	s.mu.Lock()
	s.tok = nil
	s.mu.Unlock()
	return nil
}
