// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package auth

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func newTestEncryptor(t *testing.T) *TokenEncryptor {
	t.Helper()
	key, err := GenerateEncryptionKey()
	if err != nil {
		t.Fatalf("GenerateEncryptionKey error: %v", err)
	}
	enc, err := NewTokenEncryptor(&TokenEncryptorConfig{MasterKey: key})
	if err != nil {
		t.Fatalf("NewTokenEncryptor error: %v", err)
	}
	return enc
}

func TestNewTokenEncryptor_Disabled(t *testing.T) {
	t.Parallel()

	for _, cfg := range []*TokenEncryptorConfig{nil, {MasterKey: ""}} {
		enc, err := NewTokenEncryptor(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if enc != nil {
			t.Error("encryptor should be nil when no key is configured")
		}
		if enc.IsEnabled() {
			t.Error("nil encryptor should report disabled")
		}
	}
}

func TestNewTokenEncryptor_InvalidKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewTokenEncryptor(&TokenEncryptorConfig{MasterKey: tt.key}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTokenEncryptor_SealOpen(t *testing.T) {
	t.Parallel()
	enc := newTestEncryptor(t)

	plaintext := []byte(`{"access_token":"ya29.secret","refresh_token":"1//refresh"}`)

	sealed, err := enc.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if bytes.Contains(sealed, []byte("ya29.secret")) {
		t.Error("sealed value contains the access token in clear")
	}

	opened, err := enc.Open(sealed)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("Open() = %q, want %q", opened, plaintext)
	}
}

func TestTokenEncryptor_SealIsRandomized(t *testing.T) {
	t.Parallel()
	enc := newTestEncryptor(t)

	a, _ := enc.Seal([]byte("same"))
	b, _ := enc.Seal([]byte("same"))
	if bytes.Equal(a, b) {
		t.Error("two seals of the same plaintext should differ")
	}
}

func TestTokenEncryptor_OpenErrors(t *testing.T) {
	t.Parallel()
	enc := newTestEncryptor(t)
	other := newTestEncryptor(t)

	sealed, err := other.Seal([]byte(`{"access_token":"x"}`))
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"no prefix and not JSON", []byte("garbage"), ErrInvalidCiphertext},
		{"prefix only", append([]byte{}, sealedPrefix...), ErrInvalidCiphertext},
		{"sealed with a different key", sealed, ErrDecryptionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Open(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenEncryptor_OpenPlainJSON(t *testing.T) {
	t.Parallel()
	enc := newTestEncryptor(t)

	legacy := []byte(`{"access_token":"plain"}`)
	got, err := enc.Open(legacy)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if !bytes.Equal(got, legacy) {
		t.Errorf("Open() = %q, want passthrough", got)
	}
}

func TestTokenEncryptor_NilPassthrough(t *testing.T) {
	t.Parallel()

	var enc *TokenEncryptor
	data := []byte("unchanged")

	sealed, err := enc.Seal(data)
	if err != nil || !bytes.Equal(sealed, data) {
		t.Errorf("Seal() = %q, %v; want passthrough", sealed, err)
	}
	opened, err := enc.Open(data)
	if err != nil || !bytes.Equal(opened, data) {
		t.Errorf("Open() = %q, %v; want passthrough", opened, err)
	}
}

func TestTokenEncryptor_CustomContext(t *testing.T) {
	t.Parallel()

	key, _ := GenerateEncryptionKey()
	a, _ := NewTokenEncryptor(&TokenEncryptorConfig{MasterKey: key, Context: "a"})
	b, _ := NewTokenEncryptor(&TokenEncryptorConfig{MasterKey: key, Context: "b"})

	sealed, err := a.Seal([]byte("payload"))
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if _, err := b.Open(sealed); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Open() with other context error = %v, want ErrDecryptionFailed", err)
	}
}

func TestGenerateEncryptionKey(t *testing.T) {
	t.Parallel()

	key, err := GenerateEncryptionKey()
	if err != nil {
		t.Fatalf("GenerateEncryptionKey error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		t.Fatalf("key is not base64: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("key length = %d bytes, want 32", len(raw))
	}
}
