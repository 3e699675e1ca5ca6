package contact_tools

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/multimail-dev/multimail-mcp/internal/multimail"
	"github.com/multimail-dev/multimail-mcp/internal/server"
	"github.com/multimail-dev/multimail-mcp/internal/tools/common"
)

// RegisterContactTools registers the contact book tools with the MCP server
func RegisterContactTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Search contacts tool (read-only)
	searchContactsTool := mcp.NewTool("search_contacts",
		mcp.WithDescription("Search the account's contact book by name, address, or tag. Omit the query to list all contacts."),
		mcp.WithString("q",
			mcp.Description("Search query matching name, email, or tags"),
		),
	)

	s.AddTool(searchContactsTool, common.InstrumentedToolHandlerWithCategory("search_contacts", "contacts", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchContacts(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Add contact tool
	addContactTool := mcp.NewTool("add_contact",
		mcp.WithDescription("Add a contact to the account's contact book. Contacts are shared across mailboxes."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Contact name"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Contact email address"),
		),
		mcp.WithArray("tags",
			mcp.Description("Free-form tags for the contact"),
		),
	)

	s.AddTool(addContactTool, common.InstrumentedToolHandlerWithCategory("add_contact", "contacts", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddContact(ctx, request, sc)
		}))

	// Delete contact tool
	deleteContactTool := mcp.NewTool("delete_contact",
		mcp.WithDescription("Delete a contact by ID. Use search_contacts to find the contact ID."),
		mcp.WithString("contact_id",
			mcp.Required(),
			mcp.Description("The contact ID to delete"),
		),
	)

	s.AddTool(deleteContactTool, common.InstrumentedToolHandlerWithCategory("delete_contact", "contacts", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteContact(ctx, request, sc)
		}))

	return nil
}

func handleSearchContacts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query := multimail.NewQuery()
	if q, ok := common.StringArg(args, "q"); ok {
		query.String("q", q)
	}

	data, err := sc.Client().Call(ctx, http.MethodGet, "/v1/contacts"+query.Encode(), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleAddContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, ok := common.StringArg(args, "name")
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}
	email, ok := common.StringArg(args, "email")
	if !ok {
		return mcp.NewToolResultError("email is required"), nil
	}
	if !multimail.ValidAddress(email) {
		return mcp.NewToolResultError("email must be a valid email address"), nil
	}

	tags, _, err := common.StringSliceArg(args, "tags")
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}

	body := multimail.NewBody().
		Set("name", name).
		Set("email", email).
		Strings("tags", tags)

	data, err := sc.Client().Call(ctx, http.MethodPost, "/v1/contacts", body)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleDeleteContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	contactID, ok := common.StringArg(args, "contact_id")
	if !ok {
		return mcp.NewToolResultError("contact_id is required"), nil
	}

	data, err := sc.Client().Call(ctx, http.MethodDelete, "/v1/contacts/"+url.PathEscape(contactID), nil)
	if err != nil {
		return common.ErrorResult(ctx, sc, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
