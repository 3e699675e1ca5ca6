package email_tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/multimail-dev/multimail-mcp/internal/multimail"
	"github.com/multimail-dev/multimail-mcp/internal/server"
	"github.com/multimail-dev/multimail-mcp/internal/tools/common"
)

// Inbox filter limits.
const (
	minInboxLimit = 1
	maxInboxLimit = 100
)

// RegisterEmailTools registers all email-related tools with the MCP server
func RegisterEmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register send/reply tools (require write permissions)
	if err := RegisterSendTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register send tools: %w", err)
	}

	// Register tag tools (set/delete require write permissions)
	if err := RegisterTagTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register tag tools: %w", err)
	}

	// Register attachment tools (read-only)
	if err := RegisterAttachmentTools(s, sc); err != nil {
		return fmt.Errorf("failed to register attachment tools: %w", err)
	}

	// Check inbox tool
	checkInboxTool := mcp.NewTool("check_inbox",
		mcp.WithDescription("List emails in your inbox. Returns email summaries including id, from, to, subject, status, received_at, and has_attachments. Does NOT include the email body — call read_email with the email ID to get the full message content."),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by email status (default: all)"),
		),
		mcp.WithString("sender",
			mcp.Description("Filter by sender address"),
		),
		mcp.WithString("subject_contains",
			mcp.Description("Filter by subject substring"),
		),
		mcp.WithString("after",
			mcp.Description("Only emails received after this RFC 3339 timestamp"),
		),
		mcp.WithString("before",
			mcp.Description("Only emails received before this RFC 3339 timestamp"),
		),
		mcp.WithString("direction",
			mcp.Description("Filter by direction: inbound or outbound"),
		),
		mcp.WithBoolean("has_attachments",
			mcp.Description("Filter by attachment presence"),
		),
		mcp.WithString("since_id",
			mcp.Description("Only emails newer than this email ID"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-100)"),
		),
		mcp.WithString("cursor",
			mcp.Description("Pagination cursor from a previous response"),
		),
	)

	s.AddTool(checkInboxTool, common.InstrumentedToolHandlerWithCategory("check_inbox", "emails", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckInbox(ctx, request, sc)
		}))

	// Read email tool
	readEmailTool := mcp.NewTool("read_email",
		mcp.WithDescription("Get the full content of a specific email, including the markdown body and attachment metadata. Automatically marks unread emails as read. Use the email ID from check_inbox results."),
		mcp.WithString("email_id",
			mcp.Required(),
			mcp.Description("The email ID to read"),
		),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
	)

	s.AddTool(readEmailTool, common.InstrumentedToolHandlerWithCategory("read_email", "emails", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadEmail(ctx, request, sc)
		}))

	// Get thread tool
	getThreadTool := mcp.NewTool("get_thread",
		mcp.WithDescription("Get all emails in a conversation thread, ordered oldest first. Use the thread_id from check_inbox or read_email results."),
		mcp.WithString("thread_id",
			mcp.Required(),
			mcp.Description("The thread ID"),
		),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
	)

	s.AddTool(getThreadTool, common.InstrumentedToolHandlerWithCategory("get_thread", "emails", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetThread(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Cancel email tool
	cancelEmailTool := mcp.NewTool("cancel_email",
		mcp.WithDescription("Cancel a pending outbound email before it is sent. Cancelling an already-cancelled email succeeds; cancelling an email that was already sent returns a conflict error."),
		mcp.WithString("email_id",
			mcp.Required(),
			mcp.Description("The email ID to cancel"),
		),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
	)

	s.AddTool(cancelEmailTool, common.InstrumentedToolHandlerWithCategory("cancel_email", "emails", "cancel", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCancelEmail(ctx, request, sc)
		}))

	return nil
}

func handleCheckInbox(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	if status, ok := common.StringArg(args, "status"); ok && !multimail.ValidEmailStatus(status) {
		return mcp.NewToolResultError(fmt.Sprintf("status must be one of: %s", strings.Join(multimail.EmailStatuses, ", "))), nil
	}
	if direction, ok := common.StringArg(args, "direction"); ok && direction != "inbound" && direction != "outbound" {
		return mcp.NewToolResultError("direction must be inbound or outbound"), nil
	}
	if limit, ok := common.IntArg(args, "limit"); ok && (limit < minInboxLimit || limit > maxInboxLimit) {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between %d and %d", minInboxLimit, maxInboxLimit)), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	// Only filters the caller supplied appear in the query string
	query := multimail.NewQuery()
	for _, key := range []string{"status", "sender", "subject_contains", "after", "before", "direction", "since_id", "cursor"} {
		if v, ok := common.StringArg(args, key); ok {
			query.String(key, v)
		}
	}
	if v, ok := common.BoolArg(args, "has_attachments"); ok {
		query.Bool("has_attachments", v)
	}
	if v, ok := common.IntArg(args, "limit"); ok {
		query.Int("limit", v)
	}

	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/mailboxes/"+url.PathEscape(mailboxID)+"/emails"+query.Encode(), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleReadEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	emailID, ok := common.StringArg(args, "email_id")
	if !ok {
		return mcp.NewToolResultError("email_id is required"), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/mailboxes/"+url.PathEscape(mailboxID)+"/emails/"+url.PathEscape(emailID), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleGetThread(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	threadID, ok := common.StringArg(args, "thread_id")
	if !ok {
		return mcp.NewToolResultError("thread_id is required"), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/mailboxes/"+url.PathEscape(mailboxID)+"/threads/"+url.PathEscape(threadID), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleCancelEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	emailID, ok := common.StringArg(args, "email_id")
	if !ok {
		return mcp.NewToolResultError("email_id is required"), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/mailboxes/"+url.PathEscape(mailboxID)+"/emails/"+url.PathEscape(emailID)+"/cancel", nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
