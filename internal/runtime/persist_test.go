package runtime

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"player-auction/internal/auction"
	"player-auction/internal/store"
)

// memStore keeps saved rows in memory and can be switched to fail every save.
type memStore struct {
	mu      sync.Mutex
	fail    bool
	saves   int
	ctxErrs []error
	audit   map[int64]auction.AuditEntry
	events  map[int64]auction.ActionEvent
	purse   map[string]store.PurseEntry
}

func newMemStore() *memStore {
	return &memStore{
		audit:  map[int64]auction.AuditEntry{},
		events: map[int64]auction.ActionEvent{},
		purse:  map[string]store.PurseEntry{},
	}
}

func (s *memStore) setFail(v bool) {
	s.mu.Lock()
	s.fail = v
	s.mu.Unlock()
}

func (s *memStore) SaveAuction(ctx context.Context, _ *auction.Engine, ch store.Changes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	if s.fail {
		return errors.New("connection refused")
	}
	s.saves++
	for _, a := range ch.Audit {
		s.audit[a.Seq] = a
	}
	for _, ev := range ch.Events {
		s.events[ev.Seq] = ev
	}
	for _, p := range ch.Purse {
		s.purse[p.ID] = p
	}
	return nil
}

func (s *memStore) LoadAuction(context.Context, string) (*auction.Engine, error) {
	return nil, store.ErrNotFound
}

func (s *memStore) ListAuctions(context.Context) ([]store.AuctionSummary, error) {
	return nil, nil
}

func (s *memStore) RecentAudit(_ context.Context, _ string, n int) ([]auction.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auction.AuditEntry, 0, len(s.audit))
	for _, a := range s.audit {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out, nil
}

func (s *memStore) RecentEvents(_ context.Context, _ string, n int) ([]auction.ActionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auction.ActionEvent, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out, nil
}

func (s *memStore) debits(teamID string) []store.PurseEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.PurseEntry
	for _, p := range s.purse {
		if p.TeamID == teamID && p.Delta < 0 {
			out = append(out, p)
		}
	}
	return out
}

func TestFailedSaveIsResentOnNextCommit(t *testing.T) {
	st := newMemStore()
	c, _, _ := newTestCoordinatorWithStore(t, Options{}, st)
	id := setupLive(t, c, 2, 2)
	ctx := context.Background()

	st.setFail(true)
	if err := c.AssignDirect(ctx, id, "P1", "T1", 400000, "admin"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := c.PlaceBid(ctx, id, "T2", "", 100000); err == nil {
		t.Fatalf("expected bid with nobody up to be rejected")
	}
	audit, err := c.RecentAudit(ctx, id, 1)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(audit) != 1 || audit[0].Kind != auction.AuditBidRejected || audit[0].TeamID != "T2" {
		t.Fatalf("unsaved rejection missing from audit: %+v", audit)
	}
	if len(st.debits("T1")) != 0 {
		t.Fatalf("failing store recorded a debit")
	}

	st.setFail(false)
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := c.PlaceBid(cancelled, id, "T1", "", 100000); err == nil {
		t.Fatalf("expected second rejection")
	}

	saved, err := st.RecentAudit(ctx, id, 0)
	if err != nil {
		t.Fatalf("stored audit: %v", err)
	}
	var rejected []string
	for _, a := range saved {
		if a.Kind == auction.AuditBidRejected {
			rejected = append(rejected, a.TeamID)
		}
	}
	if len(rejected) != 2 {
		t.Fatalf("expected both rejections stored, got %v", rejected)
	}
	for i, a := range saved {
		if want := int64(len(saved) - i); a.Seq != want {
			t.Fatalf("audit sequence has a gap at %d: %+v", want, saved)
		}
	}
	events, _ := st.RecentEvents(ctx, id, 0)
	var override bool
	for _, ev := range events {
		override = override || (ev.Type == auction.ActionManualOverride && ev.Forward.PlayerID == "P1")
	}
	if !override {
		t.Fatalf("assignment event lost: %+v", events)
	}
	if d := st.debits("T1"); len(d) != 1 || d[0].Delta != -400000 {
		t.Fatalf("expected one journal debit for T1, got %+v", d)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	for i, err := range st.ctxErrs {
		if err != nil {
			t.Fatalf("save %d ran with a cancelled context: %v", i, err)
		}
	}
}

func TestFlushPendingRetriesBacklog(t *testing.T) {
	st := newMemStore()
	c, _, _ := newTestCoordinatorWithStore(t, Options{}, st)
	id := setupLive(t, c, 2, 2)
	ctx := context.Background()

	st.setFail(true)
	if err := c.AssignDirect(ctx, id, "P2", "T2", 250000, "admin"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if n := c.FlushPending(ctx); n != 1 {
		t.Fatalf("expected one auction with a backlog, got %d", n)
	}

	st.setFail(false)
	if n := c.FlushPending(ctx); n != 0 {
		t.Fatalf("backlog not flushed: %d", n)
	}
	if d := st.debits("T2"); len(d) != 1 || d[0].Delta != -250000 {
		t.Fatalf("expected flushed debit, got %+v", d)
	}
	st.mu.Lock()
	saves := st.saves
	st.mu.Unlock()
	if n := c.FlushPending(ctx); n != 0 {
		t.Fatalf("clean runtime reported backlog: %d", n)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.saves != saves {
		t.Fatalf("flush without changes saved again")
	}
}
