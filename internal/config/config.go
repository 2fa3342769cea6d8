// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
type Config struct {
	Google     GoogleConfig     `koanf:"google"`
	YouTube    YouTubeConfig    `koanf:"youtube"`
	TokenStore TokenStoreConfig `koanf:"token_store"`
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Polling    PollingConfig    `koanf:"polling"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// GoogleConfig holds the OAuth client registered in Google Cloud Console.
type GoogleConfig struct {
	ClientID     string   `koanf:"client_id"`
	ClientSecret string   `koanf:"client_secret"`
	RedirectURI  string   `koanf:"redirect_uri"`
	Scopes       []string `koanf:"scopes"`
}

// YouTubeConfig controls provider calls and broadcast defaults.
type YouTubeConfig struct {
	// DefaultPrivacy is applied to newly created broadcasts: public, private or unlisted.
	DefaultPrivacy string `koanf:"default_privacy"`

	// DefaultTitle prefixes the generated title of a new broadcast ("<prefix> <date>").
	DefaultTitle string `koanf:"default_title"`

	// StreamTitle names a newly created ingestion stream.
	StreamTitle string `koanf:"stream_title"`

	// ActiveOnly restricts the reconciler to created/ready/testing/live broadcasts.
	ActiveOnly bool `koanf:"active_only"`

	// ScheduleLead is how far in the future a new broadcast is scheduled.
	ScheduleLead time.Duration `koanf:"schedule_lead"`

	// ScheduleBuffer is the minimum lead kept when updating a scheduled broadcast.
	ScheduleBuffer time.Duration `koanf:"schedule_buffer"`

	// StabilizationDelay is waited before transitioning a freshly created broadcast.
	StabilizationDelay time.Duration `koanf:"stabilization_delay"`

	MaxResults        int64         `koanf:"max_results"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	RetryAttempts     int           `koanf:"retry_attempts"`
	RetryDelay        time.Duration `koanf:"retry_delay"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`

	// Endpoint overrides the API base URL (tests and proxies).
	Endpoint string `koanf:"endpoint"`
}

// TokenStoreConfig selects where the OAuth token is persisted.
type TokenStoreConfig struct {
	// Backend is "badger" (persistent) or "memory" (development only).
	Backend string `koanf:"backend"`

	// Path is the Badger directory (YT_TOKEN_PATH).
	Path string `koanf:"path"`

	// EncryptionKey is a base64 master key; empty disables encryption at rest.
	EncryptionKey string `koanf:"encryption_key"`

	// RefreshSkew refreshes access tokens this long before they expire.
	RefreshSkew time.Duration `koanf:"refresh_skew"`

	// GCInterval is how often Badger value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds browser-facing security settings.
type SecurityConfig struct {
	// StateSecret signs the oauth_state cookie. Generated per process when empty.
	StateSecret       string        `koanf:"state_secret"`
	CookieSecure      bool          `koanf:"cookie_secure"`
	PostLoginRedirect string        `koanf:"post_login_redirect"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// PollingConfig is the status polling policy handed to the UI.
type PollingConfig struct {
	Interval   time.Duration `koanf:"interval"`
	Jitter     time.Duration `koanf:"jitter"`
	MaxBackoff time.Duration `koanf:"max_backoff"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes file:line in log output.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
