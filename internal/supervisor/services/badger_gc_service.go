// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/metrics"
)

// gcDiscardRatio rewrites a value log file once half of it is garbage.
const gcDiscardRatio = 0.5

// ValueLogGCer is satisfied by *badger.DB.
type ValueLogGCer interface {
	RunValueLogGC(discardRatio float64) error
}

// BadgerGCService periodically reclaims value-log space in the token store.
// Every token refresh rewrites the same key, so the log only ever grows
// without it.
type BadgerGCService struct {
	db       ValueLogGCer
	interval time.Duration
}

// NewBadgerGCService creates the service. interval defaults to 10 minutes.
func NewBadgerGCService(db ValueLogGCer, interval time.Duration) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BadgerGCService{db: db, interval: interval}
}

// Serve runs a GC pass every interval until ctx is canceled. A failed pass
// is returned so suture restarts the loop with backoff.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunOnce(); err != nil {
				return err
			}
		}
	}
}

// RunOnce rewrites value log files until Badger reports nothing left to do.
func (s *BadgerGCService) RunOnce() error {
	rewrites := 0
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if err == nil {
			rewrites++
			continue
		}

		switch {
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected):
			result := "nothing"
			if rewrites > 0 {
				result = "collected"
			}
			metrics.RecordTokenStoreGC(result)
			logger := logging.WithComponent(s.String())
			logger.Debug().Int("rewrites", rewrites).Msg("Token store value log GC finished")
			return nil
		default:
			metrics.RecordTokenStoreGC("error")
			return fmt.Errorf("token store value log gc: %w", err)
		}
	}
}

// String implements fmt.Stringer.
func (s *BadgerGCService) String() string {
	return "badger-gc"
}
