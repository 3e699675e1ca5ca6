package oversight_tools

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/multimail-dev/multimail-mcp/internal/multimail"
	"github.com/multimail-dev/multimail-mcp/internal/server"
	"github.com/multimail-dev/multimail-mcp/internal/tools/common"
)

// RegisterOversightTools registers the oversight approval tools with the MCP server
func RegisterOversightTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List pending approvals tool (read-only)
	listPendingTool := mcp.NewTool("list_pending_approvals",
		mcp.WithDescription("List emails waiting for oversight approval across all mailboxes: outbound emails held by gated_send/gated_all and inbound emails held by gated_all. Requires oversight scope on the API key."),
	)

	s.AddTool(listPendingTool, common.InstrumentedToolHandlerWithCategory("list_pending_approvals", "oversight", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListPendingApprovals(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Decide approval tool
	decideApprovalTool := mcp.NewTool("decide_approval",
		mcp.WithDescription("Approve or reject a pending email. Approving an outbound email sends it immediately; rejecting discards it. Requires oversight scope on the API key."),
		mcp.WithString("email_id",
			mcp.Required(),
			mcp.Description("The pending email ID from list_pending_approvals"),
		),
		mcp.WithString("decision",
			mcp.Required(),
			mcp.Description("approve or reject"),
		),
		mcp.WithString("note",
			mcp.Description("Optional note recorded with the decision"),
		),
	)

	s.AddTool(decideApprovalTool, common.InstrumentedToolHandlerWithCategory("decide_approval", "oversight", "decide", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDecideApproval(ctx, request, sc)
		}))

	return nil
}

func handleListPendingApprovals(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/oversight/pending", nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleDecideApproval(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	emailID, ok := common.StringArg(args, "email_id")
	if !ok {
		return mcp.NewToolResultError("email_id is required"), nil
	}
	decision, ok := common.StringArg(args, "decision")
	if !ok {
		return mcp.NewToolResultError("decision is required"), nil
	}
	if decision != "approve" && decision != "reject" {
		return mcp.NewToolResultError("decision must be approve or reject"), nil
	}

	body := multimail.NewBody().
		Set("email_id", emailID).
		Set("decision", decision)
	if note, ok := common.StringArg(args, "note"); ok {
		body.Set("note", note)
	}

	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/oversight/decide", body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
