// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("applies default values for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.Root() == nil {
			t.Fatal("root supervisor should not be nil")
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureThreshold: 3,
			FailureBackoff:   time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.config.FailureThreshold != 3 || tree.config.FailureBackoff != time.Second {
			t.Errorf("config = %+v", tree.config)
		}
		if tree.config.ShutdownTimeout != 10*time.Second {
			t.Errorf("ShutdownTimeout = %v, want default 10s", tree.config.ShutdownTimeout)
		}
	})
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	t.Run("starts both layers and stops gracefully", func(t *testing.T) {
		tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureBackoff:  100 * time.Millisecond,
			ShutdownTimeout: time.Second,
		})

		dataSvc := newMockService("mock-gc")
		apiSvc := newMockService("mock-http")
		tree.AddDataService(dataSvc)
		tree.AddAPIService(apiSvc)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := tree.ServeBackground(ctx)

		time.Sleep(100 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("unexpected error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("tree did not shut down in time")
		}

		if dataSvc.StartCount() < 1 || apiSvc.StartCount() < 1 {
			t.Errorf("starts: data=%d api=%d", dataSvc.StartCount(), apiSvc.StartCount())
		}
		if dataSvc.StopCount() != dataSvc.StartCount() {
			t.Errorf("data service stopped %d of %d runs", dataSvc.StopCount(), dataSvc.StartCount())
		}
	})
}

func TestSupervisorTreeFailureHandling(t *testing.T) {
	t.Run("failing data service restarts without touching the api layer", func(t *testing.T) {
		tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureThreshold: 10,
			FailureBackoff:   10 * time.Millisecond,
			ShutdownTimeout:  time.Second,
		})

		failing := newMockService("failing-gc")
		failing.SetFailCount(2)
		stable := newMockService("http")

		tree.AddDataService(failing)
		tree.AddAPIService(stable)

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()

		errCh := tree.ServeBackground(ctx)
		time.Sleep(200 * time.Millisecond)

		if failing.StartCount() < 3 {
			t.Errorf("expected at least 3 starts for failing service, got %d", failing.StartCount())
		}
		if stable.StartCount() != 1 {
			t.Errorf("api service started %d times, want 1", stable.StartCount())
		}

		<-errCh
	})

	t.Run("removed data service is stopped", func(t *testing.T) {
		tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

		svc := newMockService("gc")
		token := tree.AddDataService(svc)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		errCh := tree.ServeBackground(ctx)

		time.Sleep(50 * time.Millisecond)
		if err := tree.RemoveDataService(token); err != nil {
			t.Fatalf("RemoveDataService() error = %v", err)
		}
		time.Sleep(50 * time.Millisecond)

		if svc.StopCount() < 1 {
			t.Error("removed service was not stopped")
		}

		cancel()
		<-errCh
	})
}
