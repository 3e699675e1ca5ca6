package mailbox_tools

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

// maxSignatureLength is the longest signature block the API accepts.
const maxSignatureLength = 200

// RegisterMailboxTools registers all mailbox management tools with the MCP server
func RegisterMailboxTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List mailboxes tool (read-only)
	listMailboxesTool := mcp.NewTool("list_mailboxes",
		mcp.WithDescription("List all mailboxes available to this API key. Returns each mailbox's ID, email address, oversight mode, and display name. Use this to discover your mailbox ID if MULTIMAIL_MAILBOX_ID is not set."),
	)

	s.AddTool(listMailboxesTool, common.InstrumentedToolHandler("list_mailboxes", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListMailboxes(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Create mailbox tool
	createMailboxTool := mcp.NewTool("create_mailbox",
		mcp.WithDescription("Create a new mailbox. The address is formed from the given local part at your account's sending domain. Requires admin scope on the API key."),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("Local part of the new mailbox address (the part before the @)"),
		),
		mcp.WithString("display_name",
			mcp.Description("Display name for outbound emails"),
		),
		mcp.WithString("oversight_mode",
			mcp.Description("Oversight mode for the new mailbox: read_only, autonomous, monitored, gated_send, or gated_all (default: read_only)"),
		),
	)

	s.AddTool(createMailboxTool, common.InstrumentedToolHandler("create_mailbox", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateMailbox(ctx, request, sc)
		}))

	// Update mailbox tool
	updateMailboxTool := mcp.NewTool("update_mailbox",
		mcp.WithDescription("Update settings for a mailbox. All fields are optional — only include fields you want to change. signature_block is plain text (max 200 chars, no HTML) that appears in the email footer to identify the sender. Set signature_block to null to clear it."),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
		mcp.WithString("display_name",
			mcp.Description("Display name for outbound emails"),
		),
		mcp.WithString("oversight_mode",
			mcp.Description("Oversight mode for this mailbox: read_only, autonomous, monitored, gated_send, or gated_all"),
		),
		mcp.WithString("auto_cc",
			mcp.Description("Auto-CC address for all outbound emails. Pass null to clear."),
		),
		mcp.WithString("auto_bcc",
			mcp.Description("Auto-BCC address for all outbound emails. Pass null to clear."),
		),
		mcp.WithBoolean("forward_inbound",
			mcp.Description("Forward inbound emails to oversight email"),
		),
		mcp.WithString("webhook_url",
			mcp.Description("Webhook URL for email events (must be HTTPS). Pass null to clear."),
		),
		mcp.WithString("oversight_webhook_url",
			mcp.Description("Webhook URL for oversight events (must be HTTPS). Pass null to clear."),
		),
		mcp.WithString("signature_block",
			mcp.Description("Plain text signature block for email footer (max 200 chars, no HTML). Pass null to clear."),
		),
	)

	s.AddTool(updateMailboxTool, common.InstrumentedToolHandler("update_mailbox", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateMailbox(ctx, request, sc)
		}))

	// Delete mailbox tool
	deleteMailboxTool := mcp.NewTool("delete_mailbox",
		mcp.WithDescription("Permanently delete a mailbox. This deactivates the mailbox and all associated email data. The email address cannot be reused after deletion. Requires admin scope on the API key. This action cannot be undone."),
		mcp.WithString("mailbox_id",
			mcp.Required(),
			mcp.Description("Mailbox ID to delete (use list_mailboxes to find it)"),
		),
	)

	s.AddTool(deleteMailboxTool, common.InstrumentedToolHandler("delete_mailbox", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteMailbox(ctx, request, sc)
		}))

	// Request upgrade tool
	requestUpgradeTool := mcp.NewTool("request_upgrade",
		mcp.WithDescription("Ask the operator to move this mailbox to a more autonomous oversight mode. The operator receives a notification and responds with an approval code. Use apply_upgrade once you have the code."),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
		mcp.WithString("target_mode",
			mcp.Required(),
			mcp.Description("Requested oversight mode: autonomous, monitored, gated_send, or gated_all"),
		),
	)

	s.AddTool(requestUpgradeTool, common.InstrumentedToolHandler("request_upgrade", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRequestUpgrade(ctx, request, sc)
		}))

	// Apply upgrade tool
	applyUpgradeTool := mcp.NewTool("apply_upgrade",
		mcp.WithDescription("Apply an oversight mode upgrade using the approval code the operator received for a prior request_upgrade. The mailbox switches to the approved mode immediately."),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The approval code from the operator"),
		),
	)

	s.AddTool(applyUpgradeTool, common.InstrumentedToolHandler("apply_upgrade", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleApplyUpgrade(ctx, request, sc)
		}))

	return nil
}

func handleListMailboxes(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/mailboxes", nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleCreateMailbox(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	address, ok := common.StringArg(args, "address")
	if !ok {
		return mcp.NewToolResultError("address is required"), nil
	}
	if strings.Contains(address, "@") {
		return mcp.NewToolResultError("address must be the local part only, without the @ or domain"), nil
	}

	if mode, ok := common.StringArg(args, "oversight_mode"); ok && !multimail.ValidOversightMode(mode) {
		return mcp.NewToolResultError(fmt.Sprintf("oversight_mode must be one of: %s", strings.Join(multimail.OversightModes, ", "))), nil
	}

	body := multimail.NewBody().Set("address", address)
	if name, ok := common.StringArg(args, "display_name"); ok {
		body.Set("display_name", name)
	}
	if mode, ok := common.StringArg(args, "oversight_mode"); ok {
		body.Set("oversight_mode", mode)
	}

	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/mailboxes", body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// updateFields are the mailbox settings update_mailbox may touch. A key
// present with a null value clears the setting; an absent key leaves it
// unchanged.
var updateFields = []string{
	"display_name",
	"oversight_mode",
	"auto_cc",
	"auto_bcc",
	"forward_inbound",
	"webhook_url",
	"oversight_webhook_url",
	"signature_block",
}

func handleUpdateMailbox(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	if err := validateMailboxUpdate(args); err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	body := multimail.CopyPresent(args, updateFields...)

	data, err := sc.Client().Call(ctx, http.MethodPatch, "/v1/mailboxes/"+url.PathEscape(mailboxID), body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func validateMailboxUpdate(args map[string]interface{}) error {
	if mode, ok := common.StringArg(args, "oversight_mode"); ok && !multimail.ValidOversightMode(mode) {
		return fmt.Errorf("oversight_mode must be one of: %s", strings.Join(multimail.OversightModes, ", "))
	}

	for _, key := range []string{"auto_cc", "auto_bcc"} {
		if addr, ok := common.StringArg(args, key); ok && !multimail.ValidAddress(addr) {
			return fmt.Errorf("%s must be a valid email address", key)
		}
	}

	for _, key := range []string{"webhook_url", "oversight_webhook_url"} {
		if raw, ok := common.StringArg(args, key); ok {
			u, err := url.Parse(raw)
			if err != nil || u.Scheme != "https" || u.Host == "" {
				return fmt.Errorf("%s must be an HTTPS URL", key)
			}
		}
	}

	if sig, ok := common.StringArg(args, "signature_block"); ok && len(sig) > maxSignatureLength {
		return fmt.Errorf("signature_block must be at most %d characters", maxSignatureLength)
	}

	return nil
}

func handleDeleteMailbox(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	// Deletion never falls back to the default mailbox; the target must be named
	mailboxID, ok := common.StringArg(args, "mailbox_id")
	if !ok {
		return mcp.NewToolResultError("mailbox_id is required"), nil
	}

	data, err := sc.Client().Call(ctx, http.MethodDelete, "/v1/mailboxes/"+url.PathEscape(mailboxID), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleRequestUpgrade(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	targetMode, ok := common.StringArg(args, "target_mode")
	if !ok {
		return mcp.NewToolResultError("target_mode is required"), nil
	}
	if !multimail.ValidOversightMode(targetMode) || targetMode == multimail.OversightReadOnly {
		return mcp.NewToolResultError("target_mode must be one of: autonomous, monitored, gated_send, gated_all"), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	body := multimail.NewBody().Set("target_mode", targetMode)

	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/mailboxes/"+url.PathEscape(mailboxID)+"/request-upgrade", body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleApplyUpgrade(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	code, ok := common.StringArg(args, "code")
	if !ok {
		return mcp.NewToolResultError("code is required"), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	body := multimail.NewBody().Set("code", code)

	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/mailboxes/"+url.PathEscape(mailboxID)+"/upgrade", body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
