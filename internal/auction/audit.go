package auction

import "time"

type AuditKind string

const (
	AuditBidAccepted  AuditKind = "bid_accepted"
	AuditBidRejected  AuditKind = "bid_rejected"
	AuditBidVoided    AuditKind = "bid_voided"
	AuditPlayerSold   AuditKind = "player_sold"
	AuditPlayerUnsold AuditKind = "player_unsold"
	AuditUndo         AuditKind = "undo"
)

// AuditEntry is a public, append-only record. Rejection reasons are not
// private.
type AuditEntry struct {
	Seq       int64     `json:"seq"`
	AuctionID string    `json:"auction_id"`
	At        time.Time `json:"at"`
	Kind      AuditKind `json:"kind"`
	Round     int       `json:"round"`
	PlayerID  string    `json:"player_id,omitempty"`
	TeamID    string    `json:"team_id,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Actor     string    `json:"actor,omitempty"`
}

func (e *Engine) audit(now time.Time, entry AuditEntry) AuditEntry {
	e.auditSeq++
	entry.Seq = e.auditSeq
	entry.AuctionID = e.Auction.ID
	entry.At = now
	entry.Round = e.Auction.CurrentRound
	e.Audit = append(e.Audit, entry)
	e.emit(OutAudit, entry)
	return entry
}

// RecentAudit returns up to n most recent entries, newest first.
func (e *Engine) RecentAudit(n int) []AuditEntry {
	if n <= 0 || n > len(e.Audit) {
		n = len(e.Audit)
	}
	out := make([]AuditEntry, 0, n)
	for i := len(e.Audit) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, e.Audit[i])
	}
	return out
}
