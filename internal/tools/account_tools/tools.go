package account_tools

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/multimail-dev/multimail-mcp/internal/multimail"
	"github.com/multimail-dev/multimail-mcp/internal/server"
	"github.com/multimail-dev/multimail-mcp/internal/tools/common"
)

// RegisterAccountTools registers all account management tools with the MCP server
func RegisterAccountTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Get account tool (read-only)
	getAccountTool := mcp.NewTool("get_account",
		mcp.WithDescription("Get the account settings: organization name, oversight email, physical address, plan, and confirmation status."),
	)

	s.AddTool(getAccountTool, common.InstrumentedToolHandlerWithCategory("get_account", "account", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAccount(ctx, request, sc)
		}))

	// Usage tool (read-only)
	getUsageTool := mcp.NewTool("get_usage",
		mcp.WithDescription("Get email usage figures for a billing period: emails sent, warmup stage, daily and monthly limits."),
		mcp.WithString("period",
			mcp.Description("Billing period as YYYY-MM (default: current period)"),
		),
	)

	s.AddTool(getUsageTool, common.InstrumentedToolHandlerWithCategory("get_usage", "usage", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetUsage(ctx, request, sc)
		}))

	// Activate account tool. Unauthenticated by design: activation happens
	// before the API key can be used.
	activateAccountTool := mcp.NewTool("activate_account",
		mcp.WithDescription("Activate a MultiMail account using the activation code from the confirmation email. The operator receives the code via email and can provide it to the agent. Accepts the code with or without dashes (e.g. 'SKP-7D2-4V8' or 'SKP7D24V8'). Rate limited to 5 attempts per hour."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The activation code from the confirmation email (e.g. SKP-7D2-4V8)"),
		),
	)

	s.AddTool(activateAccountTool, common.InstrumentedToolHandler("activate_account", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleActivateAccount(ctx, request, sc)
		}))

	// Resend confirmation tool
	resendConfirmationTool := mcp.NewTool("resend_confirmation",
		mcp.WithDescription("Resend the activation email with a new code. Use this if the account is stuck in 'pending_operator_confirmation' status because the original email was lost or filtered. The operator must enter the code at the activation page or via the activate_account tool to activate the account. Rate limited to 1 request per 5 minutes. Only works for unconfirmed accounts."),
	)

	s.AddTool(resendConfirmationTool, common.InstrumentedToolHandler("resend_confirmation", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleResendConfirmation(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Update account tool
	updateAccountTool := mcp.NewTool("update_account",
		mcp.WithDescription("Update account settings. Use this to change your organization name (appears in email footers when no signature block is set), oversight email address, or physical address for CAN-SPAM compliance. Requires admin scope."),
		mcp.WithString("name",
			mcp.Description("Organization/operator name"),
		),
		mcp.WithString("oversight_email",
			mcp.Description("Email address for oversight notifications"),
		),
		mcp.WithString("physical_address",
			mcp.Description("Physical mailing address (CAN-SPAM). Pass null to clear."),
		),
	)

	s.AddTool(updateAccountTool, common.InstrumentedToolHandlerWithCategory("update_account", "account", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateAccount(ctx, request, sc)
		}))

	// Delete account tool
	deleteAccountTool := mcp.NewTool("delete_account",
		mcp.WithDescription("Permanently delete the MultiMail account, all mailboxes, and all email data. Requires admin scope on the API key. This action cannot be undone."),
	)

	s.AddTool(deleteAccountTool, common.InstrumentedToolHandlerWithCategory("delete_account", "account", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteAccount(ctx, request, sc)
		}))

	return nil
}

func handleGetAccount(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/account", nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleGetUsage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query := multimail.NewQuery()
	if period, ok := common.StringArg(args, "period"); ok {
		query.String("period", period)
	}

	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/usage"+query.Encode(), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleActivateAccount(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	code, ok := common.StringArg(args, "code")
	if !ok {
		return mcp.NewToolResultError("code is required"), nil
	}

	// The code is sent as the operator typed it; the remote service accepts
	// it with or without dashes
	body := multimail.NewBody().Set("code", code)

	data, err := sc.Client().Public(ctx, http.MethodPost, "/v1/confirm", body)
	if err != nil {
		return mcp.NewToolResultError("Activation failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleResendConfirmation(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/account/resend-confirmation", nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// accountUpdateFields are the settings update_account may touch, tri-state
// like the mailbox update.
var accountUpdateFields = []string{"name", "oversight_email", "physical_address"}

func handleUpdateAccount(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	if addr, ok := common.StringArg(args, "oversight_email"); ok && !multimail.ValidAddress(addr) {
		return mcp.NewToolResultError("oversight_email must be a valid email address"), nil
	}

	body := multimail.CopyPresent(args, accountUpdateFields...)

	data, err := sc.Client().Call(ctx, http.MethodPatch, "/v1/account", body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleDeleteAccount(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	data, err := sc.Client().Call(ctx, http.MethodDelete, "/v1/account", nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
