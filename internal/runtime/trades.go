package runtime

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"player-auction/internal/auction"
	"player-auction/internal/store"
)

func (c *Coordinator) ProposeTrade(ctx context.Context, auctionID string, req ProposeTradeRequest) (auction.Trade, error) {
	return c.trade(ctx, auctionID, func(e *auction.Engine, now time.Time) (*auction.Trade, error) {
		return e.ProposeTrade(now, store.NewPrefixedID("trd"), req.InitiatorTeamID, req.CounterpartyTeamID, req.InitiatorPlayers, req.CounterpartyPlayers)
	})
}

func (c *Coordinator) AcceptTrade(ctx context.Context, auctionID, tradeID, teamID string) (auction.Trade, error) {
	return c.trade(ctx, auctionID, func(e *auction.Engine, now time.Time) (*auction.Trade, error) {
		return e.AcceptTrade(now, tradeID, teamID)
	})
}

func (c *Coordinator) RejectTrade(ctx context.Context, auctionID, tradeID, teamID, reason string) (auction.Trade, error) {
	return c.trade(ctx, auctionID, func(e *auction.Engine, now time.Time) (*auction.Trade, error) {
		return e.RejectTrade(now, tradeID, teamID, reason)
	})
}

func (c *Coordinator) WithdrawTrade(ctx context.Context, auctionID, tradeID, teamID string) (auction.Trade, error) {
	return c.trade(ctx, auctionID, func(e *auction.Engine, now time.Time) (*auction.Trade, error) {
		return e.WithdrawTrade(now, tradeID, teamID)
	})
}

func (c *Coordinator) CancelTrade(ctx context.Context, auctionID, tradeID, actor, reason string) (auction.Trade, error) {
	return c.trade(ctx, auctionID, func(e *auction.Engine, now time.Time) (*auction.Trade, error) {
		return e.CancelTrade(now, tradeID, actor, reason)
	})
}

func (c *Coordinator) ExecuteTrade(ctx context.Context, auctionID, tradeID, actor string) (auction.Trade, error) {
	return c.trade(ctx, auctionID, func(e *auction.Engine, now time.Time) (*auction.Trade, error) {
		return e.ExecuteTrade(now, tradeID, actor)
	})
}

// trade runs one trade transition and returns a copy of the resulting trade.
func (c *Coordinator) trade(ctx context.Context, auctionID string, fn func(e *auction.Engine, now time.Time) (*auction.Trade, error)) (auction.Trade, error) {
	var out auction.Trade
	err := c.apply(ctx, auctionID, true, func(rt *auctionRuntime, now time.Time) error {
		tr, err := fn(rt.engine, now)
		if err != nil {
			return err
		}
		out = *tr
		return nil
	})
	return out, err
}

// ExpireTrades expires open trades of every auction whose trade window has
// closed.
func (c *Coordinator) ExpireTrades(ctx context.Context) int {
	total := 0
	for _, rt := range c.runtimes() {
		rt.mu.Lock()
		now := c.opts.now()
		if n := rt.engine.ExpireOpen(now); n > 0 {
			total += n
			metricTradesExpired.Add(int64(n))
			log.Info().Str("auction_id", rt.id).Int("expired", n).Msg("trades_expired")
			c.commitLocked(ctx, rt, now, true)
		}
		rt.mu.Unlock()
	}
	return total
}
