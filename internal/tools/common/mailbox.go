package common

import (
	"github.com/multimail-dev/multimail-mcp/internal/multimail"
	"github.com/multimail-dev/multimail-mcp/internal/server"
)

// ResolveMailboxID determines which mailbox a tool call operates on.
// It is the single resolution path for every mailbox-scoped tool.
//
// Priority order:
//  1. Explicit "mailbox_id" argument in the request
//  2. The configured default mailbox (MULTIMAIL_MAILBOX_ID)
//
// When neither is available a *multimail.MailboxResolutionError is
// returned without any network call being made.
func ResolveMailboxID(args map[string]interface{}, sc *server.ServerContext) (string, error) {
	if v, ok := args["mailbox_id"].(string); ok && v != "" {
		return v, nil
	}

	if id := sc.DefaultMailboxID(); id != "" {
		return id, nil
	}

	return "", &multimail.MailboxResolutionError{}
}
