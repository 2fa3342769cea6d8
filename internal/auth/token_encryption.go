// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package auth

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Token encryption errors
var (
	// ErrDecryptionFailed indicates the decryption operation failed.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidCiphertext indicates the ciphertext is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// defaultEncryptionContext is the HKDF info string for token encryption.
const defaultEncryptionContext = "radstream-token-encryption"

// minMasterKeyBytes is the shortest accepted decoded master key.
const minMasterKeyBytes = 16

// sealedPrefix marks values written by Seal.
var sealedPrefix = []byte("rs1:")

// TokenEncryptor provides AES-GCM encryption for the stored OAuth token.
// A nil *TokenEncryptor is valid and passes data through unchanged.
type TokenEncryptor struct {
	aead cipher.AEAD
}

// TokenEncryptorConfig holds configuration for token encryption.
type TokenEncryptorConfig struct {
	// MasterKey is the base64-encoded master encryption key.
	MasterKey string

	// Context is used for key derivation (default: "radstream-token-encryption").
	Context string
}

// NewTokenEncryptor creates a new token encryptor.
// Returns nil if masterKey is empty (encryption disabled).
func NewTokenEncryptor(config *TokenEncryptorConfig) (*TokenEncryptor, error) {
	if config == nil || config.MasterKey == "" {
		return nil, nil
	}

	masterKey, err := base64.StdEncoding.DecodeString(config.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("decode master key: %w", err)
	}

	if len(masterKey) < minMasterKeyBytes {
		return nil, fmt.Errorf("master key must be at least %d bytes", minMasterKeyBytes)
	}

	info := config.Context
	if info == "" {
		info = defaultEncryptionContext
	}

	derivedKey, err := deriveKey(masterKey, []byte(info), 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM cipher: %w", err)
	}

	return &TokenEncryptor{aead: aead}, nil
}

// deriveKey derives a key using HKDF-SHA256.
func deriveKey(secret, info []byte, keyLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, info)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Seal encrypts plaintext and returns prefix||nonce||ciphertext.
func (e *TokenEncryptor) Seal(plaintext []byte) ([]byte, error) {
	if !e.IsEnabled() {
		return plaintext, nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(sealedPrefix)+len(nonce)+len(plaintext)+e.aead.Overhead())
	out = append(out, sealedPrefix...)
	out = append(out, nonce...)
	return e.aead.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal.
//
// A value that is plain JSON (written before encryption was enabled) is
// returned unchanged so an existing token survives turning encryption on.
// It is re-sealed on the next save.
func (e *TokenEncryptor) Open(data []byte) ([]byte, error) {
	if !e.IsEnabled() {
		return data, nil
	}
	if !bytes.HasPrefix(data, sealedPrefix) {
		if looksLikeJSON(data) {
			return data, nil
		}
		return nil, fmt.Errorf("%w: missing prefix", ErrInvalidCiphertext)
	}
	data = data[len(sealedPrefix):]

	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize+e.aead.Overhead()+1 {
		return nil, fmt.Errorf("%w: data too short", ErrInvalidCiphertext)
	}

	plaintext, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecryptionFailed, err.Error())
	}
	return plaintext, nil
}

// IsEnabled returns true if encryption is enabled.
func (e *TokenEncryptor) IsEnabled() bool {
	return e != nil && e.aead != nil
}

// looksLikeJSON reports whether data is an unencrypted JSON object.
func looksLikeJSON(data []byte) bool {
	return len(data) > 1 && data[0] == '{' && data[len(data)-1] == '}'
}

// GenerateEncryptionKey generates a cryptographically secure encryption key.
// Returns the key as a base64-encoded string suitable for TOKEN_ENCRYPTION_KEY.
func GenerateEncryptionKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate random key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
