package runtime

import (
	"context"
	"time"

	"player-auction/internal/auction"
)

// PlaceBid submits a bid for the player currently up. An empty playerID
// targets whoever is up when the bid is applied.
func (c *Coordinator) PlaceBid(ctx context.Context, auctionID, teamID, playerID string, amount int64) (auction.BidResult, error) {
	metricBidsTotal.Add(1)
	var res auction.BidResult
	err := c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		target := playerID
		if target == "" {
			target = rt.engine.Auction.Bidding.PlayerID
		}
		if !c.limiter.allow(auctionID, teamID) {
			metricBidsRateLimited.Add(1)
			res = rt.engine.RejectBid(now, teamID, target, amount, ErrRateLimited)
			return ErrRateLimited
		}
		var err error
		res, err = rt.engine.PlaceBid(now, teamID, target, amount)
		return err
	})
	return res, err
}

// RevealNext brings playerID, or the head of the undecided list when empty,
// up for bidding.
func (c *Coordinator) RevealNext(ctx context.Context, auctionID, playerID, actor string) (string, error) {
	var revealed string
	err := c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		p, err := rt.engine.RevealNext(now, playerID, actor)
		if err != nil {
			return err
		}
		revealed = p.ID
		return nil
	})
	return revealed, err
}

func (c *Coordinator) VoidCurrent(ctx context.Context, auctionID, actor, reason string) error {
	return c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.VoidCurrent(now, actor, reason)
	})
}

func (c *Coordinator) AdvanceRound(ctx context.Context, auctionID, actor string) (auction.RoundOutcome, error) {
	var out auction.RoundOutcome
	err := c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		var err error
		out, err = rt.engine.AdvanceRound(now, actor)
		return err
	})
	return out, err
}
