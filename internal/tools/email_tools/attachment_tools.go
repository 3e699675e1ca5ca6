package email_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/multimail-dev/multimail-mcp/internal/multimail"
	"github.com/multimail-dev/multimail-mcp/internal/server"
	"github.com/multimail-dev/multimail-mcp/internal/tools/common"
)

// RegisterAttachmentTools registers the attachment download tool with the MCP server
func RegisterAttachmentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	downloadAttachmentTool := mcp.NewTool("download_attachment",
		mcp.WithDescription("Download an email attachment. Returns the file as base64 content together with its resolved content type and exact byte size. Use the filename from read_email's attachment metadata."),
		mcp.WithString("email_id",
			mcp.Required(),
			mcp.Description("The email ID the attachment belongs to"),
		),
		mcp.WithString("filename",
			mcp.Required(),
			mcp.Description("The attachment filename as listed by read_email"),
		),
		mcp.WithString("mailbox_id",
			mcp.Description("Mailbox ID (uses MULTIMAIL_MAILBOX_ID env var if not provided)"),
		),
	)

	s.AddTool(downloadAttachmentTool, common.InstrumentedToolHandlerWithCategory("download_attachment", "emails", "download", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDownloadAttachment(ctx, request, sc)
		}))

	return nil
}

func handleDownloadAttachment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	emailID, ok := common.StringArg(args, "email_id")
	if !ok {
		return mcp.NewToolResultError("email_id is required"), nil
	}
	filename, ok := common.StringArg(args, "filename")
	if !ok {
		return mcp.NewToolResultError("filename is required"), nil
	}

	mailboxID, err := common.ResolveMailboxID(args, sc)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	path := "/v1/mailboxes/" + url.PathEscape(mailboxID) +
		"/emails/" + url.PathEscape(emailID) +
		"/attachments/" + url.PathEscape(filename)

	data, contentType, err := sc.Client().Download(ctx, path)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	download := multimail.NewAttachmentDownload(filename, contentType, data)
	out, err := json.Marshal(download)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode attachment: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
