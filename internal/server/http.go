package server

import (
	"context"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/multimail-dev/multimail-mcp/internal/instrumentation"
)

// HTTPServerConfig holds configuration for the streamable HTTP server.
type HTTPServerConfig struct {
	// Addr is the address to bind to (e.g., ":8080").
	Addr string

	// Metrics enables per-request HTTP instrumentation when non-nil.
	Metrics *instrumentation.Metrics
}

// HTTPServer serves the MCP protocol over streamable HTTP at /mcp, with
// health endpoints alongside. Authentication happens outbound, against the
// MultiMail API; the MCP endpoint itself is unauthenticated and should only
// be exposed on trusted networks.
type HTTPServer struct {
	httpServer *http.Server
	health     *HealthChecker
	addr       string
}

// NewHTTPServer creates the streamable HTTP server for the given MCP server.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) *HTTPServer {
	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath("/mcp"),
	)

	var mcpHandler http.Handler = streamable
	if config.Metrics != nil {
		mcpHandler = instrumentHandler(config.Metrics, streamable)
	}
	mux.Handle("/mcp", mcpHandler)

	health := NewHealthChecker(sc)
	health.RegisterHealthEndpoints(mux)

	return &HTTPServer{
		httpServer: &http.Server{
			Addr:              config.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		health: health,
		addr:   config.Addr,
	}
}

// SetReady marks the server as ready to serve traffic on /readyz.
func (s *HTTPServer) SetReady(ready bool) {
	s.health.SetReady(ready)
}

// Start starts the HTTP server in a blocking manner.
func (s *HTTPServer) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// statusRecorder captures the response status for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func instrumentHandler(metrics *instrumentation.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}
