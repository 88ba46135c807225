package runtime

import (
	"context"
	"time"

	"player-auction/internal/auction"
)

func (c *Coordinator) AssignDirect(ctx context.Context, auctionID, playerID, teamID string, amount int64, actor string) error {
	return c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.AssignDirect(now, playerID, teamID, amount, actor)
	})
}

func (c *Coordinator) ReturnToPool(ctx context.Context, auctionID, playerID, actor string) error {
	return c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.ReturnToPool(now, playerID, actor)
	})
}

func (c *Coordinator) Disqualify(ctx context.Context, auctionID, playerID, reason, actor string) error {
	return c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.Disqualify(now, playerID, reason, actor)
	})
}

func (c *Coordinator) MarkIneligible(ctx context.Context, auctionID, playerID, reason, actor string) error {
	return c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.MarkIneligible(now, playerID, reason, actor)
	})
}

func (c *Coordinator) Reinstate(ctx context.Context, auctionID, playerID, reason, actor string) error {
	return c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.Reinstate(now, playerID, reason, actor)
	})
}

// UndoLast reverts the most recent undoable action and returns it, marked
// undone.
func (c *Coordinator) UndoLast(ctx context.Context, auctionID, actor string) (auction.ActionEvent, error) {
	var undone auction.ActionEvent
	err := c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		ev, err := rt.engine.UndoLast(now, actor)
		if err != nil {
			return err
		}
		undone = ev
		rt.rewritten = append(rt.rewritten, ev)
		return nil
	})
	return undone, err
}
