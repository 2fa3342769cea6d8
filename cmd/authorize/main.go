// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

// Command authorize connects a YouTube channel from a terminal using the
// OAuth device flow, writing the token to the same store the server reads.
//
// The Google client must be of type "TVs and Limited Input devices" for the
// device flow. Stop the server first when using the badger backend: Badger
// holds an exclusive lock on its directory.
//
//	authorize                 # run the device flow
//	authorize -status         # report whether a token is stored
//	authorize -logout         # delete the stored token
//	authorize -generate-key   # print a new TOKEN_ENCRYPTION_KEY
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	"github.com/nandcello/radstream/internal/auth"
	"github.com/nandcello/radstream/internal/config"
	"github.com/nandcello/radstream/internal/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "authorize: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("authorize", flag.ContinueOnError)
	generateKey := flags.Bool("generate-key", false, "print a new base64 token encryption key and exit")
	status := flags.Bool("status", false, "report whether a token is stored")
	logout := flags.Bool("logout", false, "delete the stored token")
	timeout := flags.Duration("timeout", 15*time.Minute, "device flow timeout")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *generateKey {
		key, err := auth.GenerateEncryptionKey()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, key)
		return err
	}

	if err := loadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console", Timestamp: true})

	encryptor, err := auth.NewTokenEncryptor(&auth.TokenEncryptorConfig{MasterKey: cfg.TokenStore.EncryptionKey})
	if err != nil {
		return err
	}
	factory, err := auth.NewTokenStoreFactory(auth.TokenStoreType(cfg.TokenStore.Backend), cfg.TokenStore.Path, encryptor)
	if err != nil {
		return err
	}
	defer func() { _ = factory.Close() }()

	oauthCfg := auth.NewGoogleOAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURI, cfg.Google.Scopes)
	tokens := auth.NewTokenManager(factory.CreateStore(), auth.OAuthRefresher{Config: oauthCfg}, cfg.TokenStore.RefreshSkew)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *status:
		_, err = fmt.Fprintf(out, "authorized: %t\n", tokens.Authorized(ctx))
		return err
	case *logout:
		if _, err := tokens.Clear(ctx); err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, "stored token deleted")
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	tok, err := auth.DeviceAuthorize(ctx, oauthCfg, tokens, func(resp *oauth2.DeviceAuthResponse) {
		fmt.Fprintf(out, "Open:      %s\n", verificationURL(resp))
		fmt.Fprintf(out, "User code: %s\n", resp.UserCode)
		if !resp.Expiry.IsZero() {
			fmt.Fprintf(out, "Expires:   %s\n", resp.Expiry.Format(time.Kitchen))
		}
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Authorized. Access token valid until %s; refresh token stored: %t\n",
		tok.Expiry.Format(time.RFC3339), tok.RefreshToken != "")
	return err
}

func verificationURL(resp *oauth2.DeviceAuthResponse) string {
	if resp.VerificationURIComplete != "" {
		return resp.VerificationURIComplete
	}
	return resp.VerificationURI
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read .env: %w", err)
	}
	return nil
}
