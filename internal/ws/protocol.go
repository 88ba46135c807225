package ws

import "player-auction/internal/auction"

const ProtocolVersion = "1.0"

type SpectateMessage struct {
	Type      string `json:"type"`
	AuctionID string `json:"auction_id"`
}

type BidMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	AuctionID string `json:"auction_id,omitempty"`
	TeamID    string `json:"team_id"`
	PlayerID  string `json:"player_id"`
	Amount    int64  `json:"amount"`
}

type BidResult struct {
	Type            string             `json:"type"`
	ProtocolVersion string             `json:"protocol_version"`
	RequestID       string             `json:"request_id,omitempty"`
	Ok              bool               `json:"ok"`
	Error           string             `json:"error,omitempty"`
	Result          *auction.BidResult `json:"result,omitempty"`
}

type SpectateResult struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ok              bool   `json:"ok"`
	Error           string `json:"error,omitempty"`
	AuctionID       string `json:"auction_id,omitempty"`
}

// Event is one outbound engine change pushed to subscribers.
type Event struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AuctionID       string `json:"auction_id"`
	EventID         string `json:"event_id"`
	Event           string `json:"event"`
	ServerTS        int64  `json:"server_ts"`
	Data            any    `json:"data"`
}
