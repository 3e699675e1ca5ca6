package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/multimail-dev/multimail-mcp/internal/instrumentation"
	"github.com/multimail-dev/multimail-mcp/internal/server"
)

// errToolResultError marks spans for handlers that returned an error result
// without a Go error (validation failures and classified API errors).
var errToolResultError = errors.New("tool returned an error result")

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and
// audit logging. It starts a server span for the invocation, records tool
// metrics and logs the invocation for audit purposes.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Get metrics and audit logger (may be nil if not configured)
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// If no instrumentation configured, just call the handler
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		args := request.GetArguments()
		mailboxID := resolvedMailbox(args, sc)

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().WithMailbox(mailboxID).Build()...)
		defer span.End()

		// Start timing and create invocation record
		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)
		if mailboxID != "" {
			invocation.WithMailbox(mailboxID)
		}
		if recipients := recipientArgs(args); len(recipients) > 0 {
			invocation.WithRecipients(recipients)
		}

		// Call the actual handler
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := completeInvocation(invocation, span, result, err)

		// Record metrics
		if metrics != nil {
			recordToolMetrics(ctx, metrics, toolName, status, mailboxID, duration)
		}

		// Log audit
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// InstrumentedToolHandlerWithCategory is like InstrumentedToolHandler but also
// records the MultiMail API category and operation type for detailed metrics,
// and nests a client span around the handler for the outbound API call.
//
// This handler records both:
// - MCP tool invocation metrics (mcp_tool_invocations_total, mcp_tool_duration_seconds)
// - MultiMail API operation metrics (mail_api_operations_total, mail_api_operation_duration_seconds)
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithCategory("my_tool", "emails", "send", sc, handler))
func InstrumentedToolHandlerWithCategory(
	toolName string,
	category string,
	operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Get metrics and audit logger (may be nil if not configured)
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// If no instrumentation configured, just call the handler
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		args := request.GetArguments()
		mailboxID := resolvedMailbox(args, sc)

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().WithMailbox(mailboxID).Build()...)
		defer span.End()

		// Start timing and create invocation record
		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithCategory(category, operation)
		if mailboxID != "" {
			invocation.WithMailbox(mailboxID)
		}
		if recipients := recipientArgs(args); len(recipients) > 0 {
			invocation.WithRecipients(recipients)
		}

		// Call the actual handler inside a client span covering the
		// outbound API operation
		apiCtx, apiSpan := instrumentation.StartMailAPISpan(ctx, category, operation,
			instrumentation.NewSpanAttributeBuilder().WithMailbox(mailboxID).Build()...)
		result, err := handler(apiCtx, request)
		duration := time.Since(start)

		status := completeInvocation(invocation, apiSpan, result, err)
		apiSpan.End()
		markSpan(span, status, err)

		// Record metrics
		if metrics != nil {
			recordToolMetrics(ctx, metrics, toolName, status, mailboxID, duration)

			// Record API operation metrics for category-level observability
			metrics.RecordAPIOperation(ctx, category, operation, status, duration)
		}

		// Log audit
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// resolvedMailbox returns the mailbox a call targets, or "" when none
// resolves. Resolution failures are surfaced by the handler itself, not here.
func resolvedMailbox(args map[string]interface{}, sc *server.ServerContext) string {
	mailboxID, err := ResolveMailboxID(args, sc)
	if err != nil {
		return ""
	}
	return mailboxID
}

// recipientArgs collects the recipient addresses of a send or reply style
// call from its arguments. Tools without recipient arguments yield nil.
func recipientArgs(args map[string]interface{}) []string {
	var recipients []string
	for _, key := range []string{"to", "cc", "bcc"} {
		if addrs, ok, err := StringSliceArg(args, key); err == nil && ok {
			recipients = append(recipients, addrs...)
		}
	}
	return recipients
}

// recordToolMetrics records the tool invocation, with the mailbox label
// when the call resolved to one.
func recordToolMetrics(ctx context.Context, metrics *instrumentation.Metrics, toolName, status, mailboxID string, duration time.Duration) {
	if mailboxID != "" {
		metrics.RecordToolInvocationWithMailbox(ctx, toolName, status, mailboxID, duration)
		return
	}
	metrics.RecordToolInvocation(ctx, toolName, status, duration)
}

// completeInvocation closes out the invocation record and marks the span,
// returning the status label for metrics.
func completeInvocation(invocation *instrumentation.ToolInvocation, span trace.Span, result *mcp.CallToolResult, err error) string {
	status := instrumentation.StatusSuccess
	if err != nil || (result != nil && result.IsError) {
		status = instrumentation.StatusError
		if err != nil {
			invocation.CompleteWithError(err)
		} else {
			invocation.Complete(false, nil)
		}
	} else {
		invocation.CompleteSuccess()
	}
	markSpan(span, status, err)
	return status
}

// markSpan sets the span status from the invocation outcome.
func markSpan(span trace.Span, status string, err error) {
	if status != instrumentation.StatusError {
		instrumentation.SetSpanSuccess(span)
		return
	}
	if err == nil {
		err = errToolResultError
	}
	instrumentation.SetSpanError(span, err)
}
