// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/radstream/config.yaml",
	"/etc/radstream/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// CallbackPath is where Google redirects back to after consent.
const CallbackPath = "/api/oauth/google/callback"

// DefaultScope grants management of the account's live broadcasts and streams.
const DefaultScope = "https://www.googleapis.com/auth/youtube"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Google: GoogleConfig{
			ClientID:     "",
			ClientSecret: "",
			RedirectURI:  "", // Derived from server.port when empty
			Scopes:       []string{DefaultScope},
		},
		YouTube: YouTubeConfig{
			DefaultPrivacy:     "private",
			DefaultTitle:       "Live stream",
			StreamTitle:        "Radstream ingest",
			ActiveOnly:         true,
			ScheduleLead:       60 * time.Second,
			ScheduleBuffer:     5 * time.Minute,
			StabilizationDelay: 3500 * time.Millisecond,
			MaxResults:         50,
			RequestTimeout:     30 * time.Second,
			RetryAttempts:      3,
			RetryDelay:         500 * time.Millisecond,
			RequestsPerSecond:  5,
			Burst:              10,
		},
		TokenStore: TokenStoreConfig{
			Backend:       "badger",
			Path:          "./data/token",
			EncryptionKey: "",
			RefreshSkew:   60 * time.Second,
			GCInterval:    10 * time.Minute,
		},
		Server: ServerConfig{
			Port:        3000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			StateSecret:       "",
			CookieSecure:      false,
			PostLoginRedirect: "/",
			CORSOrigins:       []string{},
			RateLimitReqs:     120,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Polling: PollingConfig{
			Interval:   5 * time.Second,
			Jitter:     1 * time.Second,
			MaxBackoff: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables (highest priority)
	// GOOGLE_OAUTH_CLIENT_ID -> google.client_id
	// YT_TOKEN_PATH -> token_store.path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyDerived fills settings whose defaults depend on other settings.
func (c *Config) applyDerived() {
	if c.Google.RedirectURI == "" {
		c.Google.RedirectURI = fmt.Sprintf("http://localhost:%d%s", c.Server.Port, CallbackPath)
	}
	c.YouTube.DefaultPrivacy = strings.ToLower(strings.TrimSpace(c.YouTube.DefaultPrivacy))
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"google.scopes",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Google OAuth client
	"google_oauth_client_id":     "google.client_id",
	"google_oauth_client_secret": "google.client_secret",
	"google_oauth_redirect_uri":  "google.redirect_uri",
	"google_oauth_scopes":        "google.scopes",

	// YouTube provider calls
	"yt_default_privacy":     "youtube.default_privacy",
	"yt_default_title":       "youtube.default_title",
	"yt_stream_title":        "youtube.stream_title",
	"yt_active_only":         "youtube.active_only",
	"yt_schedule_lead":       "youtube.schedule_lead",
	"yt_schedule_buffer":     "youtube.schedule_buffer",
	"yt_stabilization_delay": "youtube.stabilization_delay",
	"yt_max_results":         "youtube.max_results",
	"yt_request_timeout":     "youtube.request_timeout",
	"yt_retry_attempts":      "youtube.retry_attempts",
	"yt_retry_delay":         "youtube.retry_delay",
	"yt_requests_per_second": "youtube.requests_per_second",
	"yt_burst":               "youtube.burst",
	"yt_api_endpoint":        "youtube.endpoint",

	// Token store
	"yt_token_path":        "token_store.path",
	"token_store_backend":  "token_store.backend",
	"token_encryption_key": "token_store.encryption_key",
	"token_refresh_skew":   "token_store.refresh_skew",
	"token_gc_interval":    "token_store.gc_interval",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security
	"oauth_state_secret":  "security.state_secret",
	"cookie_secure":       "security.cookie_secure",
	"post_login_redirect": "security.post_login_redirect",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// UI polling policy
	"poll_interval":    "polling.interval",
	"poll_jitter":      "polling.jitter",
	"poll_max_backoff": "polling.max_backoff",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - GOOGLE_OAUTH_CLIENT_ID -> google.client_id
//   - YT_TOKEN_PATH -> token_store.path
//   - HTTP_PORT -> server.port
//
// Unmapped keys return an empty string and are skipped so unrelated
// environment variables never pollute the config.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
