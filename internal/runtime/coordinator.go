package runtime

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"player-auction/internal/auction"
	"player-auction/internal/store"
	"player-auction/internal/stream"
)

func (c *Coordinator) runtime(auctionID string) (*auctionRuntime, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rt := c.auctions[auctionID]
	if rt == nil {
		return nil, auction.ErrAuctionNotFound
	}
	return rt, nil
}

// register adds a runtime for e unless the id is taken. saved marks the
// engine's current history as already persisted.
func (c *Coordinator) register(e *auction.Engine, saved bool) (*auctionRuntime, error) {
	rt := &auctionRuntime{
		id:     e.Auction.ID,
		engine: e,
		buffer: stream.NewEventBuffer(c.opts.EventBufferSize),
	}
	if saved {
		rt.markSaved()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.auctions[rt.id]; ok {
		return nil, auction.ErrDuplicateID
	}
	c.auctions[rt.id] = rt
	return rt, nil
}

func (c *Coordinator) runtimes() []*auctionRuntime {
	c.mu.Lock()
	defer c.mu.Unlock()
	rts := make([]*auctionRuntime, 0, len(c.auctions))
	for _, rt := range c.auctions {
		rts = append(rts, rt)
	}
	return rts
}

func (c *Coordinator) Exists(auctionID string) bool {
	_, err := c.runtime(auctionID)
	return err == nil
}

// Buffer returns the public event buffer of an auction.
func (c *Coordinator) Buffer(auctionID string) (*stream.EventBuffer, error) {
	rt, err := c.runtime(auctionID)
	if err != nil {
		return nil, err
	}
	return rt.buffer, nil
}

// CreateAuction starts a draft auction with cfg, or the coordinator defaults
// when cfg is nil.
func (c *Coordinator) CreateAuction(ctx context.Context, req CreateAuctionRequest) (*AuctionState, error) {
	cfg := c.opts.Defaults
	if req.Config != nil {
		cfg = *req.Config
	}
	now := c.opts.now()
	id := req.ID
	if id == "" {
		id = store.NewPrefixedID("auc")
	}
	e := auction.NewEngine(&auction.Auction{ID: id, Name: req.Name, Config: cfg, CreatedAt: now, UpdatedAt: now})
	if err := e.Configure(now, cfg); err != nil {
		return nil, err
	}
	rt, err := c.register(e, false)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	c.commitLocked(ctx, rt, now, true)
	state := snapshot(rt.engine)
	rt.mu.Unlock()
	log.Info().Str("auction_id", id).Str("name", req.Name).Msg("auction_created")
	return &state, nil
}

// Recover loads every persisted auction and re-arms running phase timers.
func (c *Coordinator) Recover(ctx context.Context) (int, error) {
	if c.store == nil {
		return 0, nil
	}
	list, err := c.store.ListAuctions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list auctions: %w", err)
	}
	for _, s := range list {
		e, err := c.store.LoadAuction(ctx, s.ID)
		if err != nil {
			return 0, fmt.Errorf("load auction %s: %w", s.ID, err)
		}
		rt, err := c.register(e, true)
		if err != nil {
			return 0, fmt.Errorf("register auction %s: %w", s.ID, err)
		}
		rt.mu.Lock()
		c.scheduleLocked(rt, c.opts.now())
		rt.mu.Unlock()
		metricAuctionsLoaded.Add(1)
		log.Info().
			Str("auction_id", s.ID).
			Str("status", string(e.Auction.Status)).
			Int("round", e.Auction.CurrentRound).
			Msg("auction_recovered")
	}
	return len(list), nil
}

// List summarizes every loaded auction, most recently updated first.
func (c *Coordinator) List() []store.AuctionSummary {
	rts := c.runtimes()
	out := make([]store.AuctionSummary, 0, len(rts))
	for _, rt := range rts {
		rt.mu.Lock()
		a := rt.engine.Auction
		out = append(out, store.AuctionSummary{ID: a.ID, Name: a.Name, Status: a.Status, UpdatedAt: a.UpdatedAt})
		rt.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// Close stops every timer, makes a last attempt at unsaved changes and closes
// the event buffers.
func (c *Coordinator) Close() {
	for _, rt := range c.runtimes() {
		rt.mu.Lock()
		c.persistLocked(context.Background(), rt, false)
		if rt.stopTimer != nil {
			rt.stopTimer()
			rt.stopTimer = nil
		}
		rt.buffer.Close()
		rt.mu.Unlock()
		c.limiter.forget(rt.id)
	}
}
