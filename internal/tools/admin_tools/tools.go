package admin_tools

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

// Audit log pagination bounds.
const (
	minAuditLimit = 1
	maxAuditLimit = 100
)

// RegisterAdminTools registers API-key, suppression and audit-log tools with
// the MCP server. Scope enforcement happens at the remote service; these
// tools only shape the requests.
func RegisterAdminTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List API keys tool (read-only)
	listAPIKeysTool := mcp.NewTool("list_api_keys",
		mcp.WithDescription("List the account's API keys with their names, scopes, and creation times. Key values are never returned — they are disclosed only once, at creation. Requires admin scope."),
	)

	s.AddTool(listAPIKeysTool, common.InstrumentedToolHandlerWithCategory("list_api_keys", "api_keys", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListAPIKeys(ctx, request, sc)
		}))

	// Suppression list tool (read-only)
	suppressionListTool := mcp.NewTool("suppression_list",
		mcp.WithDescription("List suppressed email addresses. Delivery to these addresses is blocked, typically after a hard bounce or an unsubscribe."),
		mcp.WithString("q",
			mcp.Description("Filter by address substring"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results"),
		),
	)

	s.AddTool(suppressionListTool, common.InstrumentedToolHandlerWithCategory("suppression_list", "suppression", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSuppressionList(ctx, request, sc)
		}))

	// Audit log tool (read-only)
	auditLogTool := mcp.NewTool("audit_log",
		mcp.WithDescription("Read the account's audit log: every API call, oversight decision, and settings change, newest first. Requires admin scope."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries (1-100)"),
		),
		mcp.WithString("cursor",
			mcp.Description("Pagination cursor from a previous response"),
		),
	)

	s.AddTool(auditLogTool, common.InstrumentedToolHandlerWithCategory("audit_log", "audit", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAuditLog(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Create API key tool
	createAPIKeyTool := mcp.NewTool("create_api_key",
		mcp.WithDescription("Create a new API key with the given scopes. The key value appears only in this response and cannot be retrieved later — store it securely. Requires admin scope."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Descriptive name for the key"),
		),
		mcp.WithArray("scopes",
			mcp.Required(),
			mcp.Description("Scopes to grant: any of read, send, admin, oversight"),
		),
	)

	s.AddTool(createAPIKeyTool, common.InstrumentedToolHandlerWithCategory("create_api_key", "api_keys", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateAPIKey(ctx, request, sc)
		}))

	// Revoke API key tool
	revokeAPIKeyTool := mcp.NewTool("revoke_api_key",
		mcp.WithDescription("Revoke an API key by ID. Calls made with a revoked key fail immediately. Requires admin scope."),
		mcp.WithString("key_id",
			mcp.Required(),
			mcp.Description("The API key ID from list_api_keys"),
		),
	)

	s.AddTool(revokeAPIKeyTool, common.InstrumentedToolHandlerWithCategory("revoke_api_key", "api_keys", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRevokeAPIKey(ctx, request, sc)
		}))

	// Remove suppression tool
	removeSuppressionTool := mcp.NewTool("remove_suppression",
		mcp.WithDescription("Remove an address from the suppression list, re-enabling delivery to it. Only do this when the recipient has explicitly asked to receive mail again."),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("The suppressed email address to remove"),
		),
	)

	s.AddTool(removeSuppressionTool, common.InstrumentedToolHandlerWithCategory("remove_suppression", "suppression", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemoveSuppression(ctx, request, sc)
		}))

	return nil
}

func handleListAPIKeys(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/api-keys", nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleCreateAPIKey(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, ok := common.StringArg(args, "name")
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}

	scopes, ok, err := common.StringSliceArg(args, "scopes")
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	if !ok || len(scopes) == 0 {
		return mcp.NewToolResultError("scopes is required and must contain at least one scope"), nil
	}
	for _, scope := range scopes {
		if !multimail.ValidAPIKeyScope(scope) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown scope %q; valid scopes: %s", scope, strings.Join(multimail.APIKeyScopes, ", "))), nil
		}
	}

	body := multimail.NewBody().
		Set("name", name).
		Set("scopes", scopes)

	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/api-keys", body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleRevokeAPIKey(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	keyID, ok := common.StringArg(args, "key_id")
	if !ok {
		return mcp.NewToolResultError("key_id is required"), nil
	}

	data, err := sc.Client().Call(ctx, http.MethodDelete, "/v1/api-keys/"+url.PathEscape(keyID), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleSuppressionList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query := multimail.NewQuery()
	if q, ok := common.StringArg(args, "q"); ok {
		query.String("q", q)
	}
	if limit, ok := common.IntArg(args, "limit"); ok {
		query.Int("limit", limit)
	}

	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/suppression"+query.Encode(), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleRemoveSuppression(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	address, ok := common.StringArg(args, "address")
	if !ok {
		return mcp.NewToolResultError("address is required"), nil
	}
	if !multimail.ValidAddress(address) {
		return mcp.NewToolResultError("address must be a valid email address"), nil
	}

	data, err := sc.Client().Call(ctx, http.MethodDelete, "/v1/suppression/"+url.PathEscape(address), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleAuditLog(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	if limit, ok := common.IntArg(args, "limit"); ok && (limit < minAuditLimit || limit > maxAuditLimit) {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between %d and %d", minAuditLimit, maxAuditLimit)), nil
	}

	query := multimail.NewQuery()
	if limit, ok := common.IntArg(args, "limit"); ok {
		query.Int("limit", limit)
	}
	if cursor, ok := common.StringArg(args, "cursor"); ok {
		query.String("cursor", cursor)
	}

	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/audit-log"+query.Encode(), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
