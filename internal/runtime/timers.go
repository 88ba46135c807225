package runtime

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"player-auction/internal/auction"
)

// scheduleLocked keeps exactly one pending timer per auction, armed for the
// current bidding generation. A paused or idle auction has none.
func (c *Coordinator) scheduleLocked(rt *auctionRuntime, now time.Time) {
	a := rt.engine.Auction
	b := a.Bidding
	want := a.Status == auction.StatusLive && b.Active() && !b.TimerExpiresAt.IsZero()
	if want && rt.stopTimer != nil && rt.timerGen == b.TimerGen {
		return
	}
	if rt.stopTimer != nil {
		rt.stopTimer()
		rt.stopTimer = nil
		rt.timerGen = 0
	}
	if !want {
		return
	}
	gen := b.TimerGen
	rt.timerGen = gen
	rt.stopTimer = c.opts.after(b.TimerExpiresAt.Sub(now), func() { c.fire(rt, gen) })
}

// fire submits a timer expiry as an ordinary serialized mutation. Expiries
// from a superseded generation change nothing.
func (c *Coordinator) fire(rt *auctionRuntime, gen int64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.timerGen == gen {
		rt.stopTimer = nil
		rt.timerGen = 0
	}
	now := c.opts.now()
	b := rt.engine.Auction.Bidding
	if !rt.engine.HandleTimer(now, gen) {
		metricStaleTimerFires.Add(1)
		return
	}
	metricTimerFires.Add(1)
	log.Info().
		Str("auction_id", rt.id).
		Str("player_id", b.PlayerID).
		Str("from_phase", string(b.Phase)).
		Str("to_phase", string(rt.engine.Auction.Bidding.Phase)).
		Int64("gen", gen).
		Msg("timer_fired")
	c.commitLocked(context.Background(), rt, now, false)
}
