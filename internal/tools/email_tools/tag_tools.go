package email_tools

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/multimail-dev/multimail-mcp/internal/server"
	"github.com/multimail-dev/multimail-mcp/internal/tools/common"
)

// RegisterTagTools registers the email tag tool with the MCP server
func RegisterTagTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	emailTagsTool := mcp.NewTool("email_tags",
		mcp.WithDescription("Manage key/value tags on an email. Action 'set' merges the given tags into the email's tags, overwriting existing keys. Action 'get' returns the current tags. Action 'delete' removes a single tag by key. Tags are independent of the email's lifecycle status."),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: set, get, delete"),
		),
		mcp.WithString("email_id",
			mcp.Required(),
			mcp.Description("The email ID"),
		),
		mcp.WithObject("tags",
			mcp.Description("Tags to set (required for action 'set'; must be non-empty)"),
		),
		mcp.WithString("key",
			mcp.Description("Tag key to delete (required for action 'delete')"),
		),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
	)

	s.AddTool(emailTagsTool, common.InstrumentedToolHandler("email_tags", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleEmailTags(ctx, request, sc, readOnly)
		}))

	return nil
}

func handleEmailTags(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, readOnly bool) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	action, ok := common.StringArg(args, "action")
	if !ok {
		return mcp.NewToolResultError("action is required (set, get, or delete)"), nil
	}
	emailID, ok := common.StringArg(args, "email_id")
	if !ok {
		return mcp.NewToolResultError("email_id is required"), nil
	}

	// Each sub-action has its own required arguments, validated before any
	// network call
	var (
		method string
		suffix string
		body   any
	)
	switch action {
	case "set":
		if readOnly {
			return mcp.NewToolResultError("server is running in read-only mode; tag set is disabled"), nil
		}
		tags, ok, err := common.StringMapArg(args, "tags")
		if err != nil {
			return common.ErrorResult(ctx, sc, err), nil
		}
		if !ok || len(tags) == 0 {
			return mcp.NewToolResultError("action 'set' requires a non-empty tags object"), nil
		}
		method = http.MethodPut
		suffix = "/tags"
		body = map[string]any{"tags": tags}

	case "get":
		method = http.MethodGet
		suffix = "/tags"

	case "delete":
		if readOnly {
			return mcp.NewToolResultError("server is running in read-only mode; tag delete is disabled"), nil
		}
		key, ok := common.StringArg(args, "key")
		if !ok {
			return mcp.NewToolResultError("action 'delete' requires a key"), nil
		}
		method = http.MethodDelete
		suffix = "/tags/" + url.PathEscape(key)

	default:
		return mcp.NewToolResultError("action must be one of: set, get, delete"), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	path := "/v1/mailboxes/" + url.PathEscape(mailboxID) + "/emails/" + url.PathEscape(emailID) + suffix
	data, err := sc.Client().Call(ctx, method, path, body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
