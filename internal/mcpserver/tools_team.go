package mcpserver

import (
	"context"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"player-auction/internal/auction"
	"player-auction/internal/runtime"
)

func (s *Server) registerTeamTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"place_bid",
			mcp.WithDescription("Bid for the player currently up. Omit player_id to target whoever is up."),
			mcp.WithString("auction_id", mcp.Required(), mcp.Description("Auction id")),
			mcp.WithString("team_id", mcp.Required(), mcp.Description("Bidding team id")),
			mcp.WithString("player_id", mcp.Description("Player expected to be up")),
			mcp.WithNumber("amount", mcp.Required(), mcp.Description("Bid amount, at least next_minimum")),
		),
		s.handlePlaceBid,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"propose_trade",
			mcp.WithDescription("Propose a player swap during the trade window"),
			mcp.WithString("auction_id", mcp.Required(), mcp.Description("Auction id")),
			mcp.WithString("initiator_team_id", mcp.Required(), mcp.Description("Proposing team")),
			mcp.WithString("counterparty_team_id", mcp.Required(), mcp.Description("Receiving team")),
			mcp.WithString("initiator_players", mcp.Required(), mcp.Description("Comma separated player ids given")),
			mcp.WithString("counterparty_players", mcp.Required(), mcp.Description("Comma separated player ids requested")),
		),
		s.handleProposeTrade,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"respond_trade",
			mcp.WithDescription("Accept or reject a pending trade as its counterparty"),
			mcp.WithString("auction_id", mcp.Required(), mcp.Description("Auction id")),
			mcp.WithString("trade_id", mcp.Required(), mcp.Description("Trade id")),
			mcp.WithString("team_id", mcp.Required(), mcp.Description("Counterparty team id")),
			mcp.WithString("decision", mcp.Required(), mcp.Description("accept|reject")),
			mcp.WithString("reason", mcp.Description("Optional rejection reason")),
		),
		s.handleRespondTrade,
	)
}

func (s *Server) handlePlaceBid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	auctionID, err := request.RequireString("auction_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	teamID, err := request.RequireString("team_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	amount, err := request.RequireFloat("amount")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	whole, ok := wholeAmount(amount)
	if !ok {
		return toolError("invalid_request", "amount must be a whole number of rupees"), nil
	}
	res, err := s.coord.PlaceBid(ctx, auctionID, teamID, request.GetString("player_id", ""), whole)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleProposeTrade(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	auctionID, err := request.RequireString("auction_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	req := runtime.ProposeTradeRequest{
		InitiatorTeamID:     request.GetString("initiator_team_id", ""),
		CounterpartyTeamID:  request.GetString("counterparty_team_id", ""),
		InitiatorPlayers:    splitIDs(request.GetString("initiator_players", "")),
		CounterpartyPlayers: splitIDs(request.GetString("counterparty_players", "")),
	}
	if req.InitiatorTeamID == "" || req.CounterpartyTeamID == "" {
		return toolError("invalid_request", "both team ids are required"), nil
	}
	tr, err := s.coord.ProposeTrade(ctx, auctionID, req)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(tr), nil
}

func (s *Server) handleRespondTrade(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	auctionID, err := request.RequireString("auction_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	tradeID, err := request.RequireString("trade_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	teamID, err := request.RequireString("team_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	var tr auction.Trade
	switch request.GetString("decision", "") {
	case "accept":
		tr, err = s.coord.AcceptTrade(ctx, auctionID, tradeID, teamID)
	case "reject":
		tr, err = s.coord.RejectTrade(ctx, auctionID, tradeID, teamID, request.GetString("reason", ""))
	default:
		return toolError("invalid_request", "decision must be accept|reject"), nil
	}
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(tr), nil
}

func splitIDs(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// wholeAmount converts a JSON number to rupees. Fractions, non-finite values
// and anything outside the int64 range are refused.
func wholeAmount(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, false
	}
	return int64(v), true
}
