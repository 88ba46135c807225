package runtime

import (
	"context"
	"time"

	"player-auction/internal/auction"
	"player-auction/internal/store"
)

func (c *Coordinator) Configure(ctx context.Context, auctionID string, cfg auction.Config) error {
	return c.apply(ctx, auctionID, true, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.Configure(now, cfg)
	})
}

func (c *Coordinator) AddTeam(ctx context.Context, auctionID string, req AddTeamRequest) (*auction.TeamPurse, error) {
	var out auction.TeamPurse
	err := c.apply(ctx, auctionID, true, func(rt *auctionRuntime, now time.Time) error {
		id := req.ID
		if id == "" {
			id = store.NewPrefixedID("team")
		}
		t, err := rt.engine.AddTeam(now, id, req.Name, req.Retained)
		if err != nil {
			return err
		}
		out = auction.PurseOf(t, rt.engine.Auction.Config)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Coordinator) AddPlayer(ctx context.Context, auctionID string, req AddPlayerRequest) (string, error) {
	var id string
	err := c.apply(ctx, auctionID, true, func(rt *auctionRuntime, now time.Time) error {
		id = req.ID
		if id == "" {
			id = store.NewPrefixedID("plr")
		}
		_, err := rt.engine.AddPlayer(now, id, req.Name, req.Role, req.Fields)
		return err
	})
	return id, err
}

func (c *Coordinator) Start(ctx context.Context, auctionID, actor string) error {
	return c.apply(ctx, auctionID, true, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.Start(now, actor)
	})
}

func (c *Coordinator) Pause(ctx context.Context, auctionID, actor string) error {
	return c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.Pause(now, actor)
	})
}

func (c *Coordinator) Resume(ctx context.Context, auctionID, actor string) error {
	return c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.Resume(now, actor)
	})
}

func (c *Coordinator) OpenTradeWindow(ctx context.Context, auctionID, actor string) error {
	return c.apply(ctx, auctionID, false, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.OpenTradeWindow(now, actor)
	})
}

func (c *Coordinator) Finalize(ctx context.Context, auctionID, actor string) error {
	return c.apply(ctx, auctionID, true, func(rt *auctionRuntime, now time.Time) error {
		return rt.engine.Finalize(now, actor)
	})
}
