package runtime

import (
	"time"

	"player-auction/internal/auction"
)

type CreateAuctionRequest struct {
	ID     string          `json:"id,omitempty"`
	Name   string          `json:"name"`
	Config *auction.Config `json:"config,omitempty"`
}

type AddTeamRequest struct {
	ID       string              `json:"id,omitempty"`
	Name     string              `json:"name"`
	Retained []auction.Retention `json:"retained,omitempty"`
}

type AddPlayerRequest struct {
	ID     string                         `json:"id,omitempty"`
	Name   string                         `json:"name"`
	Role   string                         `json:"role,omitempty"`
	Fields map[string]auction.CustomField `json:"custom_fields,omitempty"`
}

type ProposeTradeRequest struct {
	InitiatorTeamID     string   `json:"initiator_team_id"`
	CounterpartyTeamID  string   `json:"counterparty_team_id"`
	InitiatorPlayers    []string `json:"initiator_players"`
	CounterpartyPlayers []string `json:"counterparty_players"`
}

// AuctionState is a consistent read of one auction taken under its lock.
type AuctionState struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Status              auction.Status       `json:"status"`
	CurrentRound        int                  `json:"current_round"`
	Config              auction.Config       `json:"config"`
	Undecided           []string             `json:"undecided"`
	Bidding             auction.BiddingState `json:"bidding"`
	NextMinimum         int64                `json:"next_minimum"`
	CompletedAt         *time.Time           `json:"completed_at,omitempty"`
	TradeWindowClosesAt *time.Time           `json:"trade_window_closes_at,omitempty"`
	Teams               []TeamView           `json:"teams"`
	Players             []PlayerView         `json:"players"`
	Trades              []auction.Trade      `json:"trades"`
}

type TeamView struct {
	auction.TeamPurse
	Name       string              `json:"name"`
	Bought     []auction.Purchase  `json:"bought"`
	Retained   []auction.Retention `json:"retained"`
	TradesUsed int                 `json:"trades_used"`
}

type PlayerView struct {
	ID           string                         `json:"id"`
	Name         string                         `json:"name"`
	Role         string                         `json:"role,omitempty"`
	Status       auction.PlayerStatus           `json:"status"`
	SoldTo       string                         `json:"sold_to,omitempty"`
	SoldAmount   int64                          `json:"sold_amount,omitempty"`
	SoldInRound  int                            `json:"sold_in_round,omitempty"`
	RoundHistory []auction.RoundEntry           `json:"round_history"`
	StatusReason string                         `json:"status_reason,omitempty"`
	LockedBy     string                         `json:"locked_by,omitempty"`
	CustomFields map[string]auction.CustomField `json:"custom_fields,omitempty"`
}
