package runtime

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"player-auction/internal/auction"
	"player-auction/internal/stream"
)

var t0 = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

// fakeTimers records scheduled callbacks instead of running them.
type fakeTimers struct {
	mu      sync.Mutex
	pending []*fakeTimer
}

func (ft *fakeTimers) after(d time.Duration, f func()) func() bool {
	t := &fakeTimer{d: d, f: f}
	ft.mu.Lock()
	ft.pending = append(ft.pending, t)
	ft.mu.Unlock()
	return func() bool {
		ft.mu.Lock()
		defer ft.mu.Unlock()
		was := !t.stopped
		t.stopped = true
		return was
	}
}

// live returns the armed timers.
func (ft *fakeTimers) live() []*fakeTimer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	var out []*fakeTimer
	for _, t := range ft.pending {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the single armed timer after advancing the clock by its delay.
func (ft *fakeTimers) fire(t *testing.T, clock *fakeClock) *fakeTimer {
	t.Helper()
	live := ft.live()
	if len(live) != 1 {
		t.Fatalf("expected one armed timer, got %d", len(live))
	}
	tm := live[0]
	ft.mu.Lock()
	tm.stopped = true
	ft.mu.Unlock()
	clock.Advance(tm.d)
	tm.f()
	return tm
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []stream.StreamEvent
}

func (p *recordingPublisher) Publish(ev stream.StreamEvent) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *recordingPublisher) kinds() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := map[string]int{}
	for _, ev := range p.events {
		out[ev.Event]++
	}
	return out
}

func testDefaults() auction.Config {
	cfg := auction.DefaultConfig()
	cfg.MinSquadSize = 1
	cfg.MaxSquadSize = 5
	return cfg
}

func newTestCoordinator(t *testing.T, opts Options) (*Coordinator, *fakeTimers, *fakeClock) {
	t.Helper()
	return newTestCoordinatorWithStore(t, opts, nil)
}

func newTestCoordinatorWithStore(t *testing.T, opts Options, st Persister) (*Coordinator, *fakeTimers, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: t0}
	timers := &fakeTimers{}
	if opts.Defaults.BasePrice == 0 {
		opts.Defaults = testDefaults()
	}
	opts.now = clock.Now
	opts.after = timers.after
	c := NewCoordinator(st, nil, opts)
	t.Cleanup(c.Close)
	return c, timers, clock
}

// setupLive creates a live auction with teams T1..Tn and players P1..Pm.
func setupLive(t *testing.T, c *Coordinator, teams, players int) string {
	t.Helper()
	ctx := context.Background()
	st, err := c.CreateAuction(ctx, CreateAuctionRequest{ID: "auc-1", Name: "test"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 1; i <= teams; i++ {
		if _, err := c.AddTeam(ctx, st.ID, AddTeamRequest{ID: fmt.Sprintf("T%d", i), Name: fmt.Sprintf("Team %d", i)}); err != nil {
			t.Fatalf("add team: %v", err)
		}
	}
	for i := 1; i <= players; i++ {
		if _, err := c.AddPlayer(ctx, st.ID, AddPlayerRequest{ID: fmt.Sprintf("P%d", i), Name: fmt.Sprintf("Player %d", i)}); err != nil {
			t.Fatalf("add player: %v", err)
		}
	}
	if err := c.Start(ctx, st.ID, "admin"); err != nil {
		t.Fatalf("start: %v", err)
	}
	return st.ID
}

// openBidding reveals playerID and runs the reveal delay.
func openBidding(t *testing.T, c *Coordinator, timers *fakeTimers, clock *fakeClock, auctionID, playerID string) {
	t.Helper()
	if _, err := c.RevealNext(context.Background(), auctionID, playerID, "admin"); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	timers.fire(t, clock)
	st, _ := c.State(auctionID)
	if st.Bidding.Phase != auction.PhaseOpen {
		t.Fatalf("expected open bidding, got %s", st.Bidding.Phase)
	}
}
