// Package instrumentation provides OpenTelemetry instrumentation for the
// multimail-mcp gateway.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, MCP tool invocations, and
//     MultiMail API calls
//   - Distributed tracing for request flows and API calls
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// MultiMail API Metrics:
//   - mail_api_operations_total: Counter of API operations by category,
//     operation, and status
//   - mail_api_operation_duration_seconds: Histogram of API call durations
//   - mail_api_errors_total: Counter of classified API failures by class
//     (auth, scope, rate_limit, conflict, parse, api)
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool
//     name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and MultiMail API
// calls (multimail.<category>.<operation>).
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: multimail-mcp)
package instrumentation
