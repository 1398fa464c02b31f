package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	resolver contract.ContactResolver
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleLookupNumbers(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	numbers := request.GetStringSlice("numbers", nil)
	if len(numbers) == 0 {
		return mcp.NewToolResultError("numbers must contain at least one phone number"), nil
	}
	return jsonResult(h.resolver.Resolve(numbers))
}

func (h *toolHandler) handleCacheStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.resolver.Status())
}

func (h *toolHandler) handleRefreshContacts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.resolver.Refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("refresh failed: %v", err)), nil
	}
	return jsonResult(h.resolver.Status())
}
