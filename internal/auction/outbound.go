package auction

type OutboundKind string

const (
	OutBiddingState  OutboundKind = "bidding_state"
	OutAudit         OutboundKind = "audit"
	OutAction        OutboundKind = "action"
	OutAuctionStatus OutboundKind = "auction_status"
	OutTrade         OutboundKind = "trade"
	OutPurseMovement OutboundKind = "purse_movement"
)

// Outbound is a change notification for the realtime transport layer.
type Outbound struct {
	Kind      OutboundKind
	AuctionID string
	Data      any
}

type BiddingUpdate struct {
	AuctionID   string       `json:"auction_id"`
	Status      Status       `json:"status"`
	Round       int          `json:"round"`
	Bidding     BiddingState `json:"bidding"`
	NextMinimum int64        `json:"next_minimum,omitempty"`
	Teams       []TeamPurse  `json:"teams,omitempty"`
}

type StatusUpdate struct {
	AuctionID string `json:"auction_id"`
	Status    Status `json:"status"`
	Round     int    `json:"round"`
}

// PurseMovement is one signed change to a team purse.
type PurseMovement struct {
	TeamID  string `json:"team_id"`
	Delta   int64  `json:"delta"`
	Balance int64  `json:"balance"`
	Reason  string `json:"reason"`
	RefType string `json:"ref_type"`
	RefID   string `json:"ref_id"`
}

const (
	PurseSaleDebit        = "sale_debit"
	PurseRefundCredit     = "refund_credit"
	PurseSettlementDebit  = "settlement_debit"
	PurseSettlementCredit = "settlement_credit"
)
