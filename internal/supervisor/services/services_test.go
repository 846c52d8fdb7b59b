// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

type mockHTTPServer struct {
	listenErr error
	stop      chan struct{}
	shutdowns atomic.Int32
}

func newMockHTTPServer(listenErr error) *mockHTTPServer {
	return &mockHTTPServer{listenErr: listenErr, stop: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stop
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	if m.shutdowns.Add(1) == 1 {
		close(m.stop)
	}
	return nil
}

func TestHTTPServerService(t *testing.T) {
	t.Run("graceful shutdown", func(t *testing.T) {
		server := newMockHTTPServer(nil)
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() error = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve() did not return")
		}
		if server.shutdowns.Load() != 1 {
			t.Errorf("Shutdown called %d times, want 1", server.shutdowns.Load())
		}
	})

	t.Run("listen failure", func(t *testing.T) {
		svc := NewHTTPServerService(newMockHTTPServer(errors.New("address in use")), 0)
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("Serve() should return the listen error")
		}
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("default timeout = %v", svc.shutdownTimeout)
		}
	})
}

type fakeCleaner struct {
	sweeps atomic.Int32
}

func (f *fakeCleaner) CleanupExpired(context.Context) (int, error) {
	f.sweeps.Add(1)
	return 1, nil
}

func TestSessionCleanupService(t *testing.T) {
	cleaner := &fakeCleaner{}
	svc := NewSessionCleanupService(cleaner, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want DeadlineExceeded", err)
	}
	if cleaner.sweeps.Load() < 2 {
		t.Errorf("sweeps = %d, want at least 2", cleaner.sweeps.Load())
	}
}
