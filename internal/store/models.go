package store

import (
	"time"

	"player-auction/internal/auction"
)

// Changes is everything one engine mutation appended. Roster requests a
// rewrite of teams, players and trades alongside the auction row.
type Changes struct {
	Roster bool
	Events []auction.ActionEvent
	Audit  []auction.AuditEntry
	Purse  []PurseEntry
}

func (c Changes) Empty() bool {
	return len(c.Events) == 0 && len(c.Audit) == 0 && len(c.Purse) == 0
}

// PurseEntry is one row of the purse journal.
type PurseEntry struct {
	ID        string    `json:"id"`
	AuctionID string    `json:"auction_id"`
	TeamID    string    `json:"team_id"`
	Delta     int64     `json:"delta"`
	Balance   int64     `json:"balance"`
	Reason    string    `json:"reason"`
	RefType   string    `json:"ref_type"`
	RefID     string    `json:"ref_id"`
	CreatedAt time.Time `json:"created_at"`
}

type AuctionSummary struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    auction.Status `json:"status"`
	UpdatedAt time.Time      `json:"updated_at"`
}
