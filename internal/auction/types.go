package auction

import "time"

type Status string

const (
	StatusDraft       Status = "draft"
	StatusConfigured  Status = "configured"
	StatusLive        Status = "live"
	StatusPaused      Status = "paused"
	StatusCompleted   Status = "completed"
	StatusTradeWindow Status = "trade_window"
	StatusFinalized   Status = "finalized"
)

type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseRevealed   Phase = "revealed"
	PhaseOpen       Phase = "open"
	PhaseGoingOnce  Phase = "going_once"
	PhaseGoingTwice Phase = "going_twice"
	PhaseSold       Phase = "sold"
	PhaseUnsold     Phase = "unsold"
)

// Biddable reports whether bids are accepted in the phase.
func (p Phase) Biddable() bool {
	return p == PhaseOpen || p == PhaseGoingOnce || p == PhaseGoingTwice
}

type PlayerStatus string

const (
	PlayerPool         PlayerStatus = "pool"
	PlayerInAuction    PlayerStatus = "in_auction"
	PlayerSold         PlayerStatus = "sold"
	PlayerUnsold       PlayerStatus = "unsold"
	PlayerDisqualified PlayerStatus = "disqualified"
	PlayerIneligible   PlayerStatus = "ineligible"
)

type RoundResult string

const (
	RoundSold   RoundResult = "sold"
	RoundUnsold RoundResult = "unsold"
)

type Auction struct {
	ID           string
	Name         string
	Config       Config
	Status       Status
	CurrentRound int
	Undecided    []string
	Bidding      BiddingState
	CompletedAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Bid struct {
	TeamID string    `json:"team_id"`
	Amount int64     `json:"amount"`
	At     time.Time `json:"at"`
}

// BiddingState is the single player-under-auction slot of an Auction.
type BiddingState struct {
	PlayerID       string        `json:"player_id,omitempty"`
	Phase          Phase         `json:"phase"`
	CurrentBid     int64         `json:"current_bid"`
	CurrentTeamID  string        `json:"current_team_id,omitempty"`
	History        []Bid         `json:"history"`
	TimerExpiresAt time.Time     `json:"timer_expires_at"`
	TimerGen       int64         `json:"timer_gen"`
	PausedRemain   time.Duration `json:"paused_remain,omitempty"`
	PriorStatus    PlayerStatus  `json:"prior_status,omitempty"`
	RevealIndex    int           `json:"reveal_index"`
}

func (b BiddingState) Active() bool {
	return b.PlayerID != "" && b.Phase != PhaseWaiting
}

type Purchase struct {
	PlayerID string `json:"player_id"`
	Price    int64  `json:"price"`
	Round    int    `json:"round"`
}

type Retention struct {
	Name string `json:"name"`
	Cost int64  `json:"cost,omitempty"`
}

type Team struct {
	ID             string
	AuctionID      string
	Name           string
	PurseValue     int64
	PurseRemaining int64
	Bought         []Purchase
	Retained       []Retention
	TradesUsed     int
}

func (t *Team) SquadSize() int {
	return len(t.Bought) + len(t.Retained)
}

func (t *Team) purchaseIndex(playerID string) int {
	for i, p := range t.Bought {
		if p.PlayerID == playerID {
			return i
		}
	}
	return -1
}

func (t *Team) removePurchase(playerID string) (Purchase, bool) {
	i := t.purchaseIndex(playerID)
	if i < 0 {
		return Purchase{}, false
	}
	p := t.Bought[i]
	t.Bought = append(t.Bought[:i:i], t.Bought[i+1:]...)
	return p, true
}

type RoundEntry struct {
	Round          int         `json:"round"`
	Result         RoundResult `json:"result"`
	HighestBid     int64       `json:"highest_bid"`
	HighestBidTeam string      `json:"highest_bid_team,omitempty"`
}

type Player struct {
	ID           string
	AuctionID    string
	Name         string
	Role         string
	Status       PlayerStatus
	SoldTo       string
	SoldAmount   int64
	SoldInRound  int
	RoundHistory []RoundEntry
	StatusReason string
	CustomFields map[string]CustomField
}

func (p *Player) clearSale() {
	p.SoldTo = ""
	p.SoldAmount = 0
	p.SoldInRound = 0
}

type TeamPurse struct {
	TeamID         string `json:"team_id"`
	PurseValue     int64  `json:"purse_value"`
	PurseRemaining int64  `json:"purse_remaining"`
	SquadSize      int    `json:"squad_size"`
	MaxBid         int64  `json:"max_bid"`
}
