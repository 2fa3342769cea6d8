// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package config provides layered configuration for Radstream.

# Configuration Sources

Highest priority wins:
  - Environment variables (a .env file is loaded into the environment by main)
  - Optional YAML file (CONFIG_PATH, or config.yaml in the working directory)
  - Built-in defaults

# Required Settings

  - GOOGLE_OAUTH_CLIENT_ID
  - GOOGLE_OAUTH_CLIENT_SECRET

A missing required setting produces a *ConfigError and the process exits.

# Common Optional Settings

  - GOOGLE_OAUTH_REDIRECT_URI: defaults to http://localhost:<HTTP_PORT>/api/oauth/google/callback
  - YT_TOKEN_PATH: directory of the Badger token store (default ./data/token)
  - TOKEN_ENCRYPTION_KEY: base64 key enabling token encryption at rest
  - YT_DEFAULT_PRIVACY: privacy for newly created broadcasts (default private)
  - HTTP_PORT, HTTP_HOST, LOG_LEVEL, LOG_FORMAT
*/
package config
