// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package main is the entry point for the Radstream server.

Radstream controls a single YouTube channel's live broadcasts: it signs the
owner in with Google, keeps one reusable RTMP stream key, edits the title
and description of the latest broadcast and drives the start/end lifecycle.
A small JSON API serves the browser UI.

# Application Architecture

	RootSupervisor ("radstream")
	├── DataSupervisor ("data-layer")
	│   └── Badger value-log GC (badger token store only)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. .env file (optional, godotenv)
 2. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 3. Logging: zerolog, bridged to slog for the supervisor
 4. Token store: Badger (or memory) with optional AES-GCM encryption at rest
 5. OAuth: authorization code + PKCE flow with a signed state cookie
 6. YouTube client: rate limited, retried and wrapped in a circuit breaker
 7. Broadcast service and HTTP router
 8. Supervisor tree

# Configuration

Required:
  - GOOGLE_OAUTH_CLIENT_ID
  - GOOGLE_OAUTH_CLIENT_SECRET

Common settings:
  - GOOGLE_OAUTH_REDIRECT_URI: defaults to http://localhost:<port>/api/oauth/google/callback
  - YT_TOKEN_PATH: Badger directory for the stored token (default ./data/token)
  - TOKEN_ENCRYPTION_KEY: base64 key, see "authorize -generate-key"
  - OAUTH_STATE_SECRET: signs the oauth_state cookie; random per process when unset
  - HTTP_PORT: listen port (default 3000)
  - COOKIE_SECURE: set when served over HTTPS
  - CORS_ORIGINS: comma-separated list of UI origins; empty means same-origin only
  - LOG_LEVEL, LOG_FORMAT

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for up to 10s and the token store is closed after the
supervisor tree returns.

# Example Usage

	export GOOGLE_OAUTH_CLIENT_ID=1234.apps.googleusercontent.com
	export GOOGLE_OAUTH_CLIENT_SECRET=secret
	export TOKEN_ENCRYPTION_KEY=$(./authorize -generate-key)
	./radstream

Then open http://localhost:3000/api/oauth/google/login once to connect the
channel.
*/
package main
