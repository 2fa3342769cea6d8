// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package polling

import (
	"math/rand"
	"time"

	"github.com/nandcello/radstream/internal/config"
)

// Policy is an interval, jitter and backoff-on-error schedule.
type Policy struct {
	Interval   time.Duration
	Jitter     time.Duration
	MaxBackoff time.Duration

	// randInt63n returns a value in [0, n). Nil uses math/rand.
	randInt63n func(n int64) int64
}

// View is the JSON form served at /api/ui/polling.
type View struct {
	IntervalMs   int64 `json:"intervalMs"`
	JitterMs     int64 `json:"jitterMs"`
	MaxBackoffMs int64 `json:"maxBackoffMs"`
}

// FromConfig builds a Policy from the polling config section.
func FromConfig(cfg *config.PollingConfig) Policy {
	return Policy{
		Interval:   cfg.Interval,
		Jitter:     cfg.Jitter,
		MaxBackoff: cfg.MaxBackoff,
	}
}

// Next returns the wait before the next poll after the given number of
// consecutive failures. Zero failures waits Interval; n failures wait
// min(Interval*2^n, MaxBackoff). Both add jitter in [0, Jitter).
func (p Policy) Next(consecutiveFailures int) time.Duration {
	wait := p.Interval
	for i := 0; i < consecutiveFailures && wait < p.MaxBackoff; i++ {
		wait *= 2
	}
	if consecutiveFailures > 0 && p.MaxBackoff > 0 && wait > p.MaxBackoff {
		wait = p.MaxBackoff
	}
	return wait + p.jitter()
}

// View returns the policy in milliseconds.
func (p Policy) View() View {
	return View{
		IntervalMs:   p.Interval.Milliseconds(),
		JitterMs:     p.Jitter.Milliseconds(),
		MaxBackoffMs: p.MaxBackoff.Milliseconds(),
	}
}

func (p Policy) jitter() time.Duration {
	if p.Jitter <= 0 {
		return 0
	}
	n := rand.Int63n
	if p.randInt63n != nil {
		n = p.randInt63n
	}
	return time.Duration(n(int64(p.Jitter)))
}
