package mcpsrv

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// textResult wraps v as pretty-printed JSON in a single text content
// block, the shape every tool below returns on success.
func textResult(v interface{}) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("marshal result: %w", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
	}, nil
}

// errorResult reports a tool-level failure (bad params, unknown file) as
// an MCP error content block rather than a transport-level error, so the
// client surfaces err.Error() to the user instead of dropping the call.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
