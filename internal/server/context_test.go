package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/multimail-dev/multimail-mcp/internal/config"
	"github.com/multimail-dev/multimail-mcp/internal/multimail"
)

func testConfig() config.Config {
	return config.Config{
		APIKey:           "mk_test_123",
		DefaultMailboxID: "mb_default",
		BaseURL:          multimail.DefaultBaseURL,
	}
}

func TestNewServerContext(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if sc.Client() == nil {
		t.Error("expected client to be initialized from config")
	}
	if sc.DefaultMailboxID() != "mb_default" {
		t.Errorf("DefaultMailboxID() = %q, want %q", sc.DefaultMailboxID(), "mb_default")
	}
	if sc.IsShutdown() {
		t.Error("new server context should not be shut down")
	}
}

func TestServerContext_SetClient(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	srv := httptest.NewServer(nil)
	defer srv.Close()

	stub := multimail.NewClient(srv.URL, "mk_stub")
	sc.SetClient(stub)

	if sc.Client() != stub {
		t.Error("SetClient should replace the client")
	}
}

func TestServerContext_ShutdownIsIdempotent(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if err := sc.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("expected IsShutdown() to be true after Shutdown()")
	}

	// Second shutdown must be a no-op
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("expected server context to be cancelled after shutdown")
	}
}
