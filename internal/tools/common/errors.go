package common

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/multimail-dev/multimail-mcp/internal/multimail"
	"github.com/multimail-dev/multimail-mcp/internal/server"
)

// ErrorResult converts a handler error into a tool error result. Classified
// API failures additionally increment the error-class counter when metrics
// are configured; validation and mailbox resolution errors carry no class
// and pass through unchanged.
func ErrorResult(ctx context.Context, sc *server.ServerContext, err error) *mcp.CallToolResult {
	if metrics := sc.Metrics(); metrics != nil {
		if class := multimail.ErrorClass(err); class != "" {
			metrics.RecordAPIError(ctx, class)
		}
	}
	return mcp.NewToolResultError(err.Error())
}
