// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nandcello/radstream/internal/api"
	"github.com/nandcello/radstream/internal/auth"
	"github.com/nandcello/radstream/internal/broadcast"
	"github.com/nandcello/radstream/internal/config"
	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/metrics"
	"github.com/nandcello/radstream/internal/polling"
	"github.com/nandcello/radstream/internal/supervisor"
	"github.com/nandcello/radstream/internal/supervisor/services"
	"github.com/nandcello/radstream/internal/youtube"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Version:   version,
	})

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("token_backend", cfg.TokenStore.Backend).
		Bool("token_encryption", cfg.TokenStore.EncryptionKey != "").
		Msg("Starting Radstream")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Radstream exited with error")
	}

	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // Sequential component wiring
func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	encryptor, err := auth.NewTokenEncryptor(&auth.TokenEncryptorConfig{
		MasterKey: cfg.TokenStore.EncryptionKey,
	})
	if err != nil {
		return err
	}

	factory, err := auth.NewTokenStoreFactory(auth.TokenStoreType(cfg.TokenStore.Backend), cfg.TokenStore.Path, encryptor)
	if err != nil {
		return err
	}
	defer func() {
		if err := factory.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing token store")
		}
	}()

	oauthCfg := auth.NewGoogleOAuthConfig(
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.RedirectURI,
		cfg.Google.Scopes,
	)
	tokens := auth.NewTokenManager(factory.CreateStore(), auth.OAuthRefresher{Config: oauthCfg}, cfg.TokenStore.RefreshSkew)

	if cfg.Security.StateSecret == "" {
		logging.Warn().Msg("OAUTH_STATE_SECRET not set; login attempts will not survive a restart")
	}
	signer, err := auth.NewStateSigner(cfg.Security.StateSecret)
	if err != nil {
		return err
	}
	flow := auth.NewGoogleFlow(auth.GoogleFlowConfig{
		OAuth:        oauthCfg,
		Tokens:       tokens,
		State:        signer,
		CookieSecure: cfg.Security.CookieSecure,
	})

	ytClient, err := youtube.NewClient(ctx, youtube.ClientConfigFrom(&cfg.YouTube, tokens))
	if err != nil {
		return err
	}
	broadcasts := broadcast.NewService(ytClient, broadcast.ConfigFrom(&cfg.YouTube))

	logging.Info().
		Bool("authorized", tokens.Authorized(ctx)).
		Str("redirect_uri", cfg.Google.RedirectURI).
		Msg("OAuth configured")

	handler := api.NewHandler(api.HandlerConfig{
		Broadcasts:        broadcasts,
		Flow:              flow,
		Auth:              tokens,
		Circuit:           ytClient,
		Polling:           polling.FromConfig(&cfg.Polling),
		PostLoginRedirect: cfg.Security.PostLoginRedirect,
	})
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFrom(&cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	if db := factory.DB(); db != nil {
		tree.AddDataService(services.NewBadgerGCService(db, cfg.TokenStore.GCInterval))
		logging.Info().Dur("interval", cfg.TokenStore.GCInterval).Msg("Token store GC service added")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := tree.ServeBackground(ctx)

	// The channel yields exactly one value when the root supervisor returns.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	return nil
}
