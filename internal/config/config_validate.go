// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ConfigError reports a missing or invalid setting. It is fatal at startup.
type ConfigError struct {
	Key    string // environment variable name
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %s", e.Key, e.Reason)
}

func configErr(key, format string, args ...interface{}) error {
	return &ConfigError{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// Schedule lead bounds accepted by the provider for a new broadcast.
const (
	minScheduleLead = 30 * time.Second
	maxScheduleLead = 300 * time.Second
)

// minEncryptionKeyBytes is the shortest decoded TOKEN_ENCRYPTION_KEY accepted.
const minEncryptionKeyBytes = 16

var validPrivacy = map[string]bool{
	"public":   true,
	"private":  true,
	"unlisted": true,
}

var validBackends = map[string]bool{
	"badger": true,
	"memory": true,
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid.
// The returned error is always a *ConfigError.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateGoogle,
		c.validateYouTube,
		c.validateTokenStore,
		c.validateServer,
		c.validateSecurity,
		c.validatePolling,
		c.validateLogging,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

func (c *Config) validateGoogle() error {
	if strings.TrimSpace(c.Google.ClientID) == "" {
		return configErr("GOOGLE_OAUTH_CLIENT_ID", "is required")
	}
	if strings.TrimSpace(c.Google.ClientSecret) == "" {
		return configErr("GOOGLE_OAUTH_CLIENT_SECRET", "is required")
	}
	if err := validateHTTPURL(c.Google.RedirectURI); err != nil {
		return configErr("GOOGLE_OAUTH_REDIRECT_URI", "is invalid: %v", err)
	}
	if len(c.Google.Scopes) == 0 {
		return configErr("GOOGLE_OAUTH_SCOPES", "must contain at least one scope")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	y := c.YouTube
	if !validPrivacy[y.DefaultPrivacy] {
		return configErr("YT_DEFAULT_PRIVACY", "must be one of: public, private, unlisted (got %q)", y.DefaultPrivacy)
	}
	if y.ScheduleLead < minScheduleLead || y.ScheduleLead > maxScheduleLead {
		return configErr("YT_SCHEDULE_LEAD", "must be between %s and %s", minScheduleLead, maxScheduleLead)
	}
	if y.ScheduleBuffer < 0 {
		return configErr("YT_SCHEDULE_BUFFER", "must not be negative")
	}
	if y.StabilizationDelay < 0 || y.StabilizationDelay > 30*time.Second {
		return configErr("YT_STABILIZATION_DELAY", "must be between 0s and 30s")
	}
	if y.MaxResults < 1 || y.MaxResults > 50 {
		return configErr("YT_MAX_RESULTS", "must be between 1 and 50")
	}
	if y.RequestTimeout < time.Second {
		return configErr("YT_REQUEST_TIMEOUT", "must be at least 1s")
	}
	if y.RetryAttempts < 1 || y.RetryAttempts > 10 {
		return configErr("YT_RETRY_ATTEMPTS", "must be between 1 and 10")
	}
	if y.RetryDelay < 0 {
		return configErr("YT_RETRY_DELAY", "must not be negative")
	}
	if y.RequestsPerSecond <= 0 {
		return configErr("YT_REQUESTS_PER_SECOND", "must be positive")
	}
	if y.Burst < 1 {
		return configErr("YT_BURST", "must be at least 1")
	}
	if y.Endpoint != "" {
		if err := validateHTTPURL(y.Endpoint); err != nil {
			return configErr("YT_API_ENDPOINT", "is invalid: %v", err)
		}
	}
	return nil
}

func (c *Config) validateTokenStore() error {
	ts := c.TokenStore
	if !validBackends[ts.Backend] {
		return configErr("TOKEN_STORE_BACKEND", "must be one of: badger, memory (got %q)", ts.Backend)
	}
	if ts.Backend == "badger" && strings.TrimSpace(ts.Path) == "" {
		return configErr("YT_TOKEN_PATH", "is required when TOKEN_STORE_BACKEND=badger")
	}
	if ts.Backend == "memory" && c.IsProduction() {
		return configErr("TOKEN_STORE_BACKEND", "memory is not allowed in production")
	}
	if ts.EncryptionKey != "" {
		raw, err := base64.StdEncoding.DecodeString(ts.EncryptionKey)
		if err != nil {
			return configErr("TOKEN_ENCRYPTION_KEY", "must be base64 encoded")
		}
		if len(raw) < minEncryptionKeyBytes {
			return configErr("TOKEN_ENCRYPTION_KEY", "must decode to at least %d bytes", minEncryptionKeyBytes)
		}
	}
	if ts.RefreshSkew < 0 || ts.RefreshSkew > 30*time.Minute {
		return configErr("TOKEN_REFRESH_SKEW", "must be between 0s and 30m")
	}
	if ts.GCInterval < time.Minute {
		return configErr("TOKEN_GC_INTERVAL", "must be at least 1m")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return configErr("HTTP_PORT", "must be between 1 and 65535")
	}
	if c.Server.Timeout < time.Second {
		return configErr("HTTP_TIMEOUT", "must be at least 1s")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.StateSecret != "" && len(s.StateSecret) < 32 {
		return configErr("OAUTH_STATE_SECRET", "must be at least 32 characters")
	}
	if c.IsProduction() && s.StateSecret == "" {
		return configErr("OAUTH_STATE_SECRET", "is required in production")
	}
	for _, origin := range s.CORSOrigins {
		u, err := url.Parse(origin)
		if origin == "*" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return configErr("CORS_ORIGINS", "must list explicit http(s) origins; wildcards are not allowed")
		}
	}
	if !strings.HasPrefix(s.PostLoginRedirect, "/") || strings.HasPrefix(s.PostLoginRedirect, "//") {
		return configErr("POST_LOGIN_REDIRECT", "must be a local path starting with /")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return configErr("RATE_LIMIT_REQUESTS", "must be at least 1")
		}
		if s.RateLimitWindow < time.Second {
			return configErr("RATE_LIMIT_WINDOW", "must be at least 1s")
		}
	}
	return nil
}

func (c *Config) validatePolling() error {
	p := c.Polling
	if p.Interval < 500*time.Millisecond {
		return configErr("POLL_INTERVAL", "must be at least 500ms")
	}
	if p.Jitter < 0 || p.Jitter > p.Interval {
		return configErr("POLL_JITTER", "must be between 0 and POLL_INTERVAL")
	}
	if p.MaxBackoff < p.Interval {
		return configErr("POLL_MAX_BACKOFF", "must not be less than POLL_INTERVAL")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return configErr("LOG_LEVEL", "must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return configErr("LOG_FORMAT", "must be one of: json, console")
	}
	return nil
}

// validateHTTPURL checks for an absolute http(s) URL with a host.
func validateHTTPURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
