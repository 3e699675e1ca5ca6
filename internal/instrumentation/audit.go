package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/multimail-dev/multimail-mcp/internal/logging"
)

// ToolInvocation captures all information about a tool invocation for audit logging.
// This provides a comprehensive audit trail for all MCP tool calls.
//
// # Privacy Considerations
//
// The Recipients field contains email addresses. When logging, consider:
//   - Using RecipientDomains() to get only the domains for metrics/general logs
//   - Only logging full addresses in audit-specific log streams
//   - Ensuring audit logs have appropriate access controls
type ToolInvocation struct {
	// EventID uniquely identifies this invocation in the audit trail.
	EventID string

	// Tool name
	Tool string

	// Target information for MultiMail operations
	Mailbox   string // Mailbox identifier the call operated on
	Category  string // API resource category (mailboxes, emails, account, ...)
	Operation string // Operation type (list, get, send, cancel, ...)

	// Recipients involved in the call, for send/reply style tools.
	Recipients []string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// RecipientDomains returns the domain portions of the recipient addresses
// for lower-cardinality logging.
func (ti *ToolInvocation) RecipientDomains() []string {
	if len(ti.Recipients) == 0 {
		return nil
	}
	domains := make([]string, len(ti.Recipients))
	for i, r := range ti.Recipients {
		domains[i] = ExtractRecipientDomain(r)
	}
	return domains
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging.
// This provides a consistent set of fields for all tool invocation logs.
//
// # Cardinality
//
// This function uses cardinality-controlled values (recipient domains)
// for metrics-compatible logging. For full audit logging, use LogAuditAttrs.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("event_id", ti.EventID),
		logging.Tool(ti.Tool),
		slog.Duration(logging.KeyDuration, ti.Duration),
		slog.Bool("success", ti.Success),
	}

	// Add optional fields only if present
	if ti.Mailbox != "" {
		attrs = append(attrs, logging.Mailbox(ti.Mailbox))
	}
	if ti.Category != "" {
		attrs = append(attrs, slog.String("category", ti.Category))
	}
	if ti.Operation != "" {
		attrs = append(attrs, logging.Operation(ti.Operation))
	}
	if domains := ti.RecipientDomains(); len(domains) > 0 {
		attrs = append(attrs, slog.Any("recipient_domains", domains))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String(logging.KeyError, ti.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging.
// This includes the full recipient addresses for compliance/audit purposes.
//
// # Security Warning
//
// This method includes email addresses. Ensure audit logs are:
//   - Stored securely with appropriate access controls
//   - Not exposed to general monitoring dashboards
//   - Retained according to compliance requirements
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("event_id", ti.EventID),
		logging.Tool(ti.Tool),
		slog.Duration(logging.KeyDuration, ti.Duration),
		slog.Bool("success", ti.Success),
	}

	// Add all optional fields
	if ti.Mailbox != "" {
		attrs = append(attrs, logging.Mailbox(ti.Mailbox))
	}
	if ti.Category != "" {
		attrs = append(attrs, slog.String("category", ti.Category))
	}
	if ti.Operation != "" {
		attrs = append(attrs, logging.Operation(ti.Operation))
	}
	if len(ti.Recipients) > 0 {
		attrs = append(attrs, slog.Any("recipients", ti.Recipients))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String(logging.KeyError, ti.Error))
	}

	return attrs
}

// NewToolInvocation creates a new ToolInvocation with timing started.
// Call Complete() when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		EventID:   uuid.NewString(),
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithMailbox sets the mailbox identifier.
func (ti *ToolInvocation) WithMailbox(mailboxID string) *ToolInvocation {
	ti.Mailbox = mailboxID
	return ti
}

// WithCategory sets the API category and operation.
func (ti *ToolInvocation) WithCategory(category, operation string) *ToolInvocation {
	ti.Category = category
	ti.Operation = operation
	return ti
}

// WithRecipients sets the recipient addresses involved in the call.
func (ti *ToolInvocation) WithRecipients(recipients []string) *ToolInvocation {
	ti.Recipients = recipients
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates duration.
// Returns the same ToolInvocation for method chaining.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// AuditLogger provides structured audit logging for tool invocations.
// It wraps slog.Logger with convenience methods for logging tool operations.
type AuditLogger struct {
	logger            *slog.Logger
	includeRecipients bool
	enabled           bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, recipient addresses are not included in logs (domain-based
// identifiers are used instead).
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:            logger,
		includeRecipients: false,
		enabled:           true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:            logger,
		includeRecipients: config.IncludeRecipients,
		enabled:           config.Enabled,
	}
}

// SetIncludeRecipients sets whether to include full recipient addresses in audit logs.
func (al *AuditLogger) SetIncludeRecipients(include bool) {
	al.includeRecipients = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogToolInvocation logs a tool invocation using the standard log attributes.
// This is suitable for general operational logging with cardinality controls.
// If the logger is configured with IncludeRecipients, full addresses are
// logged; otherwise, only domain-based identifiers are used.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	// Choose between full-address and domain-only logging based on configuration
	var attrs []slog.Attr
	if al.includeRecipients {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ti.Success {
		al.logger.Info("tool_executed", args...)
	} else {
		al.logger.Warn("tool_failed", args...)
	}
}

// LogToolAudit logs a tool invocation with full audit details.
// This includes full recipient addresses for compliance/audit purposes.
// SECURITY: Ensure audit logs are routed to secure storage with appropriate access controls.
//
// Note: This method respects the enabled flag but always includes full
// addresses when called, regardless of the IncludeRecipients configuration.
// Use LogToolInvocation for configuration-aware logging.
func (al *AuditLogger) LogToolAudit(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	attrs := ti.LogAuditAttrs()
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	al.logger.Info("tool_audit", args...)
}
