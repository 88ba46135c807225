package runtime

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"player-auction/internal/auction"
	"player-auction/internal/ledger"
	"player-auction/internal/store"
)

// apply runs fn under the auction lock and commits whatever it produced, even
// when fn fails: rejected bids still leave audit entries behind. roster asks
// for a full team and player rewrite on success.
func (c *Coordinator) apply(ctx context.Context, auctionID string, roster bool, fn func(rt *auctionRuntime, now time.Time) error) error {
	rt, err := c.runtime(auctionID)
	if err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	now := c.opts.now()
	opErr := fn(rt, now)
	c.commitLocked(ctx, rt, now, roster && opErr == nil)
	return opErr
}

// commitLocked drains the engine, persists everything past the saved
// watermark, fans the outbound events out and re-arms the phase timer.
func (c *Coordinator) commitLocked(ctx context.Context, rt *auctionRuntime, now time.Time, roster bool) {
	out := rt.engine.Drain()
	rt.pendingPurse = append(rt.pendingPurse, ledger.Entries(rt.id, out, now)...)
	rt.rosterDirty = rt.rosterDirty || roster || touchesRoster(out)
	c.persistLocked(ctx, rt, len(out) > 0)

	pub := c.currentPublisher()
	for _, o := range out {
		logOutbound(o)
		ev := rt.buffer.Append(string(o.Kind), rt.id, o.Data)
		if pub != nil {
			pub.Publish(ev)
		}
	}
	c.scheduleLocked(rt, now)
}

// persistLocked saves the unsaved tail of the runtime. The watermark only
// moves on success, so a failed save is retried by the next commit or flush.
// The save outlives a cancelled request.
func (c *Coordinator) persistLocked(ctx context.Context, rt *auctionRuntime, force bool) bool {
	if c.store == nil {
		rt.markSaved()
		return true
	}
	if !force && !rt.unsaved() {
		return true
	}
	e := rt.engine
	ch := store.Changes{
		Roster: rt.rosterDirty,
		Events: append(slices.Clone(rt.rewritten), e.Events[rt.savedEvents:]...),
		Audit:  e.Audit[rt.savedAudit:],
		Purse:  rt.pendingPurse,
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := c.store.SaveAuction(saveCtx, e, ch); err != nil {
		metricPersistErrors.Add(1)
		log.Error().
			Err(err).
			Str("auction_id", rt.id).
			Int("pending_events", len(ch.Events)).
			Int("pending_audit", len(ch.Audit)).
			Int("pending_purse", len(ch.Purse)).
			Msg("persist auction failed")
		return false
	}
	rt.markSaved()
	return true
}

// FlushPending retries the saves that failed earlier and returns how many
// auctions still have unsaved changes.
func (c *Coordinator) FlushPending(ctx context.Context) int {
	left := 0
	for _, rt := range c.runtimes() {
		rt.mu.Lock()
		if !c.persistLocked(ctx, rt, false) {
			left++
		}
		rt.mu.Unlock()
	}
	return left
}

func touchesRoster(out []auction.Outbound) bool {
	for _, o := range out {
		switch o.Kind {
		case auction.OutAction, auction.OutTrade, auction.OutPurseMovement, auction.OutAuctionStatus:
			return true
		}
	}
	return false
}

func logOutbound(o auction.Outbound) {
	switch d := o.Data.(type) {
	case auction.ActionEvent:
		switch d.Type {
		case auction.ActionPlayerSold:
			metricSalesTotal.Add(1)
		case auction.ActionUndo:
			metricUndoTotal.Add(1)
		case auction.ActionTradeExecuted:
			metricTradesExecuted.Add(1)
		}
		log.Info().
			Str("auction_id", o.AuctionID).
			Int64("seq", d.Seq).
			Str("action", string(d.Type)).
			Str("player_id", d.Forward.PlayerID).
			Str("team_id", d.Forward.TeamID).
			Int64("amount", d.Forward.Amount).
			Str("actor", d.Actor).
			Msg("auction_action")
	case auction.AuditEntry:
		switch d.Kind {
		case auction.AuditBidRejected:
			metricBidsRejected.Add(1)
			log.Debug().
				Str("auction_id", o.AuctionID).
				Str("player_id", d.PlayerID).
				Str("team_id", d.TeamID).
				Int64("amount", d.Amount).
				Str("reason", d.Reason).
				Msg("bid_rejected")
		case auction.AuditBidAccepted:
			log.Debug().
				Str("auction_id", o.AuctionID).
				Str("player_id", d.PlayerID).
				Str("team_id", d.TeamID).
				Int64("amount", d.Amount).
				Msg("bid_accepted")
		}
	case auction.Trade:
		log.Info().
			Str("auction_id", o.AuctionID).
			Str("trade_id", d.ID).
			Str("status", string(d.Status)).
			Int64("settlement", d.SettlementAmount).
			Msg("trade_updated")
	}
}
