// Package server provides the MCP server context and the auxiliary HTTP
// servers for the multimail-mcp gateway.
//
// # Key Components
//
// ServerContext holds the gateway configuration and the shared MultiMail
// API client, and carries the metrics recorder and audit logger used by
// the tool handlers. It owns a cancellable context so the serve command
// can coordinate shutdown across transports.
//
// HealthChecker exposes /healthz, /readyz and /healthz/detailed endpoints
// for Kubernetes probes when running the HTTP transport.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated
// from the main application traffic.
package server
