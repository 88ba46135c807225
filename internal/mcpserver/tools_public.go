package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPublicTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_auctions",
			mcp.WithDescription("List loaded auctions, most recently updated first"),
		),
		s.handleListAuctions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_auction_state",
			mcp.WithDescription("Get the full state of one auction: bidding slot, teams, players and trades"),
			mcp.WithString("auction_id", mcp.Required(), mcp.Description("Auction id")),
		),
		s.handleGetState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_purses",
			mcp.WithDescription("Get every team's purse, squad size and current max bid"),
			mcp.WithString("auction_id", mcp.Required(), mcp.Description("Auction id")),
		),
		s.handleGetPurses,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_recent_audit",
			mcp.WithDescription("Get the most recent audit entries, newest first"),
			mcp.WithString("auction_id", mcp.Required(), mcp.Description("Auction id")),
			mcp.WithNumber("limit", mcp.Description("Entries to return, default 50, max 500")),
		),
		s.handleRecentAudit,
	)
}

func (s *Server) handleListAuctions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(map[string]any{"items": s.coord.List()}), nil
}

func (s *Server) handleGetState(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("auction_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	state, err := s.coord.State(id)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(state), nil
}

func (s *Server) handleGetPurses(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("auction_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	items, err := s.coord.Purses(id)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"items": items}), nil
}

func (s *Server) handleRecentAudit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("auction_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	limit := clampLimit(request.GetInt("limit", defaultLimit))
	items, err := s.coord.RecentAudit(ctx, id, limit)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"items": items, "limit": limit}), nil
}
