package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"player-auction/internal/runtime"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

// mapDomainError reuses the HTTP error codes so both surfaces agree.
func mapDomainError(err error) *mcp.CallToolResult {
	if err == nil {
		return toolError("internal_error", "unknown error")
	}
	_, code := runtime.MapError(err)
	return toolError(code, err.Error())
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
