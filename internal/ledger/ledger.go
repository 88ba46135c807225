package ledger

import (
	"context"
	"time"

	"player-auction/internal/auction"
	"player-auction/internal/store"
)

// Ledger keeps the purse journal: one signed row per purse movement.
type Ledger struct {
	Store *store.Store
}

func New(s *store.Store) *Ledger {
	return &Ledger{Store: s}
}

// Entries turns the purse movements in out into journal rows.
func Entries(auctionID string, out []auction.Outbound, now time.Time) []store.PurseEntry {
	var entries []store.PurseEntry
	for _, o := range out {
		if o.Kind != auction.OutPurseMovement {
			continue
		}
		m := o.Data.(auction.PurseMovement)
		entries = append(entries, store.PurseEntry{
			ID:        store.NewID(),
			AuctionID: auctionID,
			TeamID:    m.TeamID,
			Delta:     m.Delta,
			Balance:   m.Balance,
			Reason:    m.Reason,
			RefType:   m.RefType,
			RefID:     m.RefID,
			CreatedAt: now,
		})
	}
	return entries
}

type Mismatch struct {
	TeamID   string `json:"team_id"`
	Journal  int64  `json:"journal"`
	Expected int64  `json:"expected"`
}

// Diff compares journal sums per team with the movement implied by each
// team's live purse. Retention costs are charged at setup and never
// journaled.
func Diff(e *auction.Engine, sums map[string]int64) []Mismatch {
	var out []Mismatch
	for _, id := range e.TeamIDs() {
		t := e.Teams[id]
		start := t.PurseValue
		for _, r := range t.Retained {
			start -= r.Cost
		}
		expected := t.PurseRemaining - start
		if sums[id] != expected {
			out = append(out, Mismatch{TeamID: id, Journal: sums[id], Expected: expected})
		}
	}
	return out
}

// Reconcile checks the persisted journal against the engine's purses.
func (l *Ledger) Reconcile(ctx context.Context, e *auction.Engine) ([]Mismatch, error) {
	sums, err := l.Store.SumPurseDeltas(ctx, e.Auction.ID)
	if err != nil {
		return nil, err
	}
	return Diff(e, sums), nil
}
