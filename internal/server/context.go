package server

import (
	"context"
	"sync"

	"github.com/multimail-dev/multimail-mcp/internal/config"
	"github.com/multimail-dev/multimail-mcp/internal/instrumentation"
	"github.com/multimail-dev/multimail-mcp/internal/multimail"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	config   config.Config
	client   *multimail.Client
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context with a MultiMail client
// built from the given configuration.
func NewServerContext(ctx context.Context, cfg config.Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	client := multimail.NewClient(cfg.BaseURL, cfg.APIKey)

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		config:   cfg,
		client:   client,
		shutdown: false,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the gateway configuration.
func (sc *ServerContext) Config() config.Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// Client returns the MultiMail API client.
func (sc *ServerContext) Client() *multimail.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.client
}

// SetClient replaces the MultiMail API client. Used by tests to inject
// clients pointing at stub servers.
func (sc *ServerContext) SetClient(client *multimail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.client = client
}

// DefaultMailboxID returns the configured default mailbox id, if any.
func (sc *ServerContext) DefaultMailboxID() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config.DefaultMailboxID
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// not wired in.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil when audit logging is
// not wired in.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(audit *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.audit = audit
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
