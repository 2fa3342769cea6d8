// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package youtube

import (
	"context"
	"fmt"
	"time"

	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/metrics"
)

// retryWithBackoff retries fn with exponential backoff while it fails with a
// transient error. Only idempotent reads go through here.
func (c *Client) retryWithBackoff(ctx context.Context, op string, fn func() error) error {
	var err error
	delay := c.retryDelay

	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}

		if attempt < c.retryAttempts-1 {
			metrics.RecordYouTubeRetry(op)
			logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Int("attempt", attempt+1).Int("max_attempts", c.retryAttempts).Dur("delay", delay).Msg("Retry attempt")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}

	if c.retryAttempts <= 1 {
		return err
	}
	return fmt.Errorf("max retry attempts reached: %w", err)
}
