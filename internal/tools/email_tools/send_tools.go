package email_tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/multimail-dev/multimail-mcp/internal/logging"
	"github.com/multimail-dev/multimail-mcp/internal/multimail"
	"github.com/multimail-dev/multimail-mcp/internal/server"
	"github.com/multimail-dev/multimail-mcp/internal/tools/common"
)

// RegisterSendTools registers the send and reply tools with the MCP server
func RegisterSendTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		// Sending is a write operation; nothing to register in read-only mode
		return nil
	}

	// Send email tool
	sendEmailTool := mcp.NewTool("send_email",
		mcp.WithDescription("Send an email from your MultiMail address. The body is written in markdown and automatically converted to formatted HTML for delivery. If the mailbox is in read_only mode, this returns a 403 error with upgrade instructions — use request_upgrade to ask the operator for more autonomy. If the mailbox uses gated oversight, the response status will be 'pending_approval' — this means the email is queued for human review. Do not retry or resend when you see pending_approval."),
		mcp.WithArray("to",
			mcp.Required(),
			mcp.Description("Recipient email addresses"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject line"),
		),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Email body in markdown format"),
		),
		mcp.WithArray("cc",
			mcp.Description("CC email addresses"),
		),
		mcp.WithArray("bcc",
			mcp.Description("BCC email addresses"),
		),
		mcp.WithArray("attachments",
			mcp.Description("Attachments as objects with filename, content_type, and base64 content"),
		),
		mcp.WithString("idempotency_key",
			mcp.Description("Opaque key deduplicating this send for 24 hours; a reused key returns the original email instead of sending again"),
		),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
	)

	s.AddTool(sendEmailTool, common.InstrumentedToolHandlerWithCategory("send_email", "emails", "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendEmail(ctx, request, sc)
		}))

	// Reply email tool
	replyEmailTool := mcp.NewTool("reply_email",
		mcp.WithDescription("Reply to an email in its existing thread. Threading headers (In-Reply-To, References) are set automatically. The body is written in markdown. If the mailbox is in read_only mode, this returns a 403 error with upgrade instructions. If the mailbox uses gated oversight, the response status will be 'pending_approval' — the reply is queued for human review. Do not retry or resend when you see pending_approval."),
		mcp.WithString("email_id",
			mcp.Required(),
			mcp.Description("The email ID to reply to"),
		),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Reply body in markdown format"),
		),
		mcp.WithArray("cc",
			mcp.Description("CC email addresses"),
		),
		mcp.WithArray("bcc",
			mcp.Description("BCC email addresses"),
		),
		mcp.WithArray("attachments",
			mcp.Description("Attachments as objects with filename, content_type, and base64 content"),
		),
		mcp.WithString("idempotency_key",
			mcp.Description("Opaque key deduplicating this reply for 24 hours; a reused key returns the original email instead of sending again"),
		),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
	)

	s.AddTool(replyEmailTool, common.InstrumentedToolHandlerWithCategory("reply_email", "emails", "reply", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplyEmail(ctx, request, sc)
		}))

	return nil
}

func handleSendEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	to, ok, err := common.StringSliceArg(args, "to")
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	if !ok || len(to) == 0 {
		return mcp.NewToolResultError("to is required and must contain at least one recipient"), nil
	}
	if !multimail.ValidAddresses(to) {
		return mcp.NewToolResultError("to contains an invalid email address"), nil
	}

	subject, ok := common.StringArg(args, "subject")
	if !ok {
		return mcp.NewToolResultError("subject is required"), nil
	}
	markdown, ok := common.StringArg(args, "markdown")
	if !ok {
		return mcp.NewToolResultError("markdown is required"), nil
	}

	body := multimail.NewBody().
		Set("to", to).
		Set("subject", subject).
		Set("markdown", markdown)

	if err := addOptionalSendFields(args, body); err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/mailboxes/"+url.PathEscape(mailboxID)+"/send", body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	logPendingSubmission("send", data)
	return mcp.NewToolResultText(string(data)), nil
}

func handleReplyEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	emailID, ok := common.StringArg(args, "email_id")
	if !ok {
		return mcp.NewToolResultError("email_id is required"), nil
	}
	markdown, ok := common.StringArg(args, "markdown")
	if !ok {
		return mcp.NewToolResultError("markdown is required"), nil
	}

	body := multimail.NewBody().Set("markdown", markdown)

	if err := addOptionalSendFields(args, body); err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/mailboxes/"+url.PathEscape(mailboxID)+"/reply/"+url.PathEscape(emailID), body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	logPendingSubmission("reply", data)
	return mcp.NewToolResultText(string(data)), nil
}

// addOptionalSendFields validates and attaches the optional fields shared by
// send and reply: cc, bcc, attachments and idempotency_key. cc and bcc are
// included only when non-empty; the idempotency key is passed through
// unmodified.
func addOptionalSendFields(args map[string]interface{}, body multimail.Body) error {
	for _, key := range []string{"cc", "bcc"} {
		addrs, ok, err := common.StringSliceArg(args, key)
		if err != nil {
			return err
		}
		if ok && len(addrs) > 0 {
			if !multimail.ValidAddresses(addrs) {
				return &invalidAddressError{field: key}
			}
			body.Set(key, addrs)
		}
	}

	attachments, err := multimail.ParseAttachments(args["attachments"])
	if err != nil {
		return err
	}
	if len(attachments) > 0 {
		body.Set("attachments", attachments)
	}

	if key, ok := common.StringArg(args, "idempotency_key"); ok {
		body.Set("idempotency_key", key)
	}

	return nil
}

// logPendingSubmission surfaces submissions that landed in a transient
// lifecycle state. Pending states are successful outcomes awaiting scanning
// or approval; the log line makes the queued outcome visible without
// altering the response passed back to the caller.
func logPendingSubmission(operation string, data []byte) {
	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return
	}
	if multimail.IsPendingStatus(resp.Status) {
		slog.Info("submission queued for review",
			logging.Operation(operation),
			logging.EmailID(resp.ID),
			logging.Status(resp.Status),
		)
	}
}

type invalidAddressError struct {
	field string
}

func (e *invalidAddressError) Error() string {
	return e.field + " contains an invalid email address"
}
