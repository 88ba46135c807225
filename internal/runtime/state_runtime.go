package runtime

import (
	"context"
	"maps"
	"slices"

	"player-auction/internal/auction"
	"player-auction/internal/ledger"
)

func snapshot(e *auction.Engine) AuctionState {
	a := e.Auction
	b := a.Bidding
	b.History = slices.Clone(b.History)
	st := AuctionState{
		ID:           a.ID,
		Name:         a.Name,
		Status:       a.Status,
		CurrentRound: a.CurrentRound,
		Config:       a.Config,
		Undecided:    slices.Clone(a.Undecided),
		Bidding:      b,
		NextMinimum:  e.NextMinimum(),
		Teams:        []TeamView{},
		Players:      []PlayerView{},
		Trades:       []auction.Trade{},
	}
	st.Config.Tiers = slices.Clone(a.Config.Tiers)
	if !a.CompletedAt.IsZero() {
		completed := a.CompletedAt
		closes := e.TradeWindowClosesAt()
		st.CompletedAt = &completed
		st.TradeWindowClosesAt = &closes
	}
	for _, id := range e.TeamIDs() {
		t := e.Teams[id]
		st.Teams = append(st.Teams, TeamView{
			TeamPurse:  auction.PurseOf(t, a.Config),
			Name:       t.Name,
			Bought:     slices.Clone(t.Bought),
			Retained:   slices.Clone(t.Retained),
			TradesUsed: t.TradesUsed,
		})
	}
	for _, id := range e.PlayerIDs() {
		p := e.Players[id]
		lockedBy, _ := e.Locked(id)
		st.Players = append(st.Players, PlayerView{
			ID:           p.ID,
			Name:         p.Name,
			Role:         p.Role,
			Status:       p.Status,
			SoldTo:       p.SoldTo,
			SoldAmount:   p.SoldAmount,
			SoldInRound:  p.SoldInRound,
			RoundHistory: slices.Clone(p.RoundHistory),
			StatusReason: p.StatusReason,
			LockedBy:     lockedBy,
			CustomFields: maps.Clone(p.CustomFields),
		})
	}
	for _, tr := range e.TradeList() {
		cp := *tr
		cp.InitiatorPlayers = slices.Clone(tr.InitiatorPlayers)
		cp.CounterpartyPlayers = slices.Clone(tr.CounterpartyPlayers)
		st.Trades = append(st.Trades, cp)
	}
	return st
}

// State returns the current state of an auction.
func (c *Coordinator) State(auctionID string) (*AuctionState, error) {
	rt, err := c.runtime(auctionID)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	st := snapshot(rt.engine)
	return &st, nil
}

func (c *Coordinator) Purses(auctionID string) ([]auction.TeamPurse, error) {
	rt, err := c.runtime(auctionID)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.engine.Purses(), nil
}

// RecentAudit returns up to n audit entries, newest first. The store is the
// source once every change has been saved; while a save backlog remains the
// engine's copy is served so nothing goes missing.
func (c *Coordinator) RecentAudit(ctx context.Context, auctionID string, n int) ([]auction.AuditEntry, error) {
	rt, err := c.runtime(auctionID)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if c.store != nil && c.persistLocked(ctx, rt, false) {
		return c.store.RecentAudit(ctx, auctionID, n)
	}
	return rt.engine.RecentAudit(n), nil
}

// RecentEvents returns up to n action events, newest first.
func (c *Coordinator) RecentEvents(ctx context.Context, auctionID string, n int) ([]auction.ActionEvent, error) {
	rt, err := c.runtime(auctionID)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if c.store != nil && c.persistLocked(ctx, rt, false) {
		return c.store.RecentEvents(ctx, auctionID, n)
	}
	return rt.engine.RecentEvents(n), nil
}

// Reconcile compares the purse journal with the live purses. It refuses to
// run while journal rows are still waiting to be saved.
func (c *Coordinator) Reconcile(ctx context.Context, auctionID string) ([]ledger.Mismatch, error) {
	if c.ledger == nil {
		return nil, ErrLedgerUnavailable
	}
	rt, err := c.runtime(auctionID)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !c.persistLocked(ctx, rt, false) {
		return nil, ErrPersistPending
	}
	return c.ledger.Reconcile(ctx, rt.engine)
}
