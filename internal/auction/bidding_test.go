package auction

import (
	"errors"
	"testing"
	"time"
)

func TestTieredBiddingScenario(t *testing.T) {
	e := newLiveEngine(t, testConfig(), 2, 1)
	now := t0
	reveal(t, e, now, "P1")

	bid(t, e, now, "T1", 100000)
	bid(t, e, now, "T2", 110000)
	res, err := e.PlaceBid(now, "T1", "P1", 115000)
	if !errors.Is(err, ErrBidBelowIncrement) || res.Accepted {
		t.Fatalf("expected below-increment rejection, got %v %+v", err, res)
	}
	if res.NextMinimum != 135000 || res.CurrentBid != 110000 {
		t.Fatalf("unexpected rejection result %+v", res)
	}
	bid(t, e, now, "T1", 135000)
	closeOut(t, e, now)

	p := e.Players["P1"]
	if p.Status != PlayerSold || p.SoldTo != "T1" || p.SoldAmount != 135000 || p.SoldInRound != 1 {
		t.Fatalf("unexpected sale %+v", p)
	}
	if got := e.Teams["T1"].PurseRemaining; got != 10000000-135000 {
		t.Fatalf("expected buyer purse debited, got %d", got)
	}
	if len(p.RoundHistory) != 1 || p.RoundHistory[0].HighestBid != 135000 {
		t.Fatalf("unexpected history %+v", p.RoundHistory)
	}

	var rejected, accepted int
	for _, a := range e.Audit {
		switch a.Kind {
		case AuditBidRejected:
			rejected++
			if a.Reason != "bid_below_increment" {
				t.Fatalf("unexpected reject reason %q", a.Reason)
			}
		case AuditBidAccepted:
			accepted++
		}
	}
	if accepted != 3 || rejected != 1 {
		t.Fatalf("expected 3 accepted 1 rejected, got %d %d", accepted, rejected)
	}
}

func TestIncrementBoundaryAlwaysHolds(t *testing.T) {
	cfg := testConfig()
	for _, start := range []int64{100000, 250000, 500000, 600000} {
		e := newLiveEngine(t, cfg, 2, 1)
		reveal(t, e, t0, "P1")
		bid(t, e, t0, "T1", start)
		inc := IncrementFor(start, cfg.Tiers)
		if _, err := e.PlaceBid(t0, "T2", "P1", start+inc-1); err == nil {
			t.Fatalf("start %d: bid one below increment accepted", start)
		}
		if _, err := e.PlaceBid(t0, "T2", "P1", start+inc); err != nil {
			t.Fatalf("start %d: exact increment rejected: %v", start, err)
		}
	}
}

func TestBidRejectionReasons(t *testing.T) {
	e := newLiveEngine(t, testConfig(), 3, 2)
	if _, err := e.PlaceBid(t0, "T1", "P1", 100000); !errors.Is(err, ErrPlayerNotOpen) {
		t.Fatalf("expected player not open, got %v", err)
	}
	reveal(t, e, t0, "P1")
	if _, err := e.PlaceBid(t0, "T9", "P1", 100000); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected team not found, got %v", err)
	}
	if _, err := e.PlaceBid(t0, "T1", "P2", 100000); !errors.Is(err, ErrPlayerNotOpen) {
		t.Fatalf("expected wrong player rejected, got %v", err)
	}
	if _, err := e.PlaceBid(t0, "T1", "P1", 90000); !errors.Is(err, ErrBidBelowIncrement) {
		t.Fatalf("expected below base rejected, got %v", err)
	}
	bid(t, e, t0, "T1", 100000)
	if _, err := e.PlaceBid(t0, "T1", "P1", 200000); !errors.Is(err, ErrAlreadyLeading) {
		t.Fatalf("expected already leading, got %v", err)
	}
	if _, err := e.PlaceBid(t0, "T2", "P1", 100000); !errors.Is(err, ErrStaleBid) {
		t.Fatalf("expected stale bid, got %v", err)
	}
	if _, err := e.PlaceBid(t0, "T3", "P1", 20000000); !errors.Is(err, ErrInsufficientPurse) {
		t.Fatalf("expected insufficient purse, got %v", err)
	}
	if e.Auction.Bidding.CurrentBid != 100000 || e.Auction.Bidding.CurrentTeamID != "T1" {
		t.Fatalf("rejections changed state: %+v", e.Auction.Bidding)
	}
}

func TestSquadFullTeamCannotBid(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSquadSize = 2
	e := newLiveEngine(t, cfg, 2, 3)
	sell(t, e, t0, "P1", "T1", 100000)
	sell(t, e, t0, "P2", "T1", 100000)
	reveal(t, e, t0, "P3")
	if _, err := e.PlaceBid(t0, "T1", "P3", 100000); !errors.Is(err, ErrSquadFull) {
		t.Fatalf("expected squad full, got %v", err)
	}
}

func TestBidResetsTimerAndSupersedesPending(t *testing.T) {
	e := newLiveEngine(t, testConfig(), 2, 1)
	reveal(t, e, t0, "P1")
	fire(t, e, t0.Add(30*time.Second))
	if e.Auction.Bidding.Phase != PhaseGoingOnce {
		t.Fatalf("expected going once, got %s", e.Auction.Bidding.Phase)
	}
	stale := e.Auction.Bidding.TimerGen
	at := t0.Add(32 * time.Second)
	bid(t, e, at, "T1", 100000)
	b := e.Auction.Bidding
	if b.Phase != PhaseOpen {
		t.Fatalf("bid should reopen bidding, got %s", b.Phase)
	}
	if want := at.Add(e.Auction.Config.Timers.BidReset); !b.TimerExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, b.TimerExpiresAt)
	}
	if e.HandleTimer(at, stale) {
		t.Fatalf("superseded timer fired")
	}
	if e.Auction.Bidding.Phase != PhaseOpen {
		t.Fatalf("superseded timer changed phase")
	}
}

func TestNoBidsClosesUnsold(t *testing.T) {
	e := newLiveEngine(t, testConfig(), 2, 2)
	reveal(t, e, t0, "P1")
	closeOut(t, e, t0)
	p := e.Players["P1"]
	if p.Status != PlayerUnsold || len(p.RoundHistory) != 1 || p.RoundHistory[0].Result != RoundUnsold {
		t.Fatalf("expected unsold with history, got %+v", p)
	}
	if e.Auction.Bidding.Phase != PhaseWaiting || e.Auction.Bidding.PlayerID != "" {
		t.Fatalf("expected waiting slot, got %+v", e.Auction.Bidding)
	}
}

func TestRevealRejectsWhileBidding(t *testing.T) {
	e := newLiveEngine(t, testConfig(), 2, 2)
	reveal(t, e, t0, "P1")
	if _, err := e.RevealNext(t0, "", "admin"); !errors.Is(err, ErrBiddingInProgress) {
		t.Fatalf("expected bidding in progress, got %v", err)
	}
	inAuction := 0
	for _, p := range e.Players {
		if p.Status == PlayerInAuction {
			inAuction++
		}
	}
	if inAuction != 1 {
		t.Fatalf("expected exactly one player in auction, got %d", inAuction)
	}
}

func TestVoidCurrentRestoresPlayer(t *testing.T) {
	e := newLiveEngine(t, testConfig(), 2, 3)
	reveal(t, e, t0, "P2")
	bid(t, e, t0, "T1", 100000)
	if err := e.VoidCurrent(t0, "admin", "wrong player"); err != nil {
		t.Fatalf("void: %v", err)
	}
	if got := e.Auction.Undecided; len(got) != 3 || got[1] != "P2" {
		t.Fatalf("expected P2 back at index 1, got %v", got)
	}
	if e.Players["P2"].Status != PlayerPool {
		t.Fatalf("expected pool, got %s", e.Players["P2"].Status)
	}
	if e.Teams["T1"].PurseRemaining != e.Teams["T1"].PurseValue {
		t.Fatalf("void must not charge the leader")
	}
	last := e.Audit[len(e.Audit)-1]
	if last.Kind != AuditBidVoided || last.Reason != "wrong player" || last.Amount != 100000 {
		t.Fatalf("unexpected void audit %+v", last)
	}
	if _, err := e.UndoLast(t0, "admin"); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("void must not be undoable, got %v", err)
	}
}

func TestPauseFreezesTimer(t *testing.T) {
	e := newLiveEngine(t, testConfig(), 2, 1)
	reveal(t, e, t0, "P1")
	gen := e.Auction.Bidding.TimerGen
	if err := e.Pause(t0.Add(10*time.Second), "admin"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if e.HandleTimer(t0.Add(30*time.Second), gen) {
		t.Fatalf("timer fired while paused")
	}
	if _, err := e.PlaceBid(t0, "T1", "P1", 100000); !errors.Is(err, ErrAuctionNotLive) {
		t.Fatalf("expected not live, got %v", err)
	}
	resumeAt := t0.Add(time.Minute)
	if err := e.Resume(resumeAt, "admin"); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if want := resumeAt.Add(20 * time.Second); !e.Auction.Bidding.TimerExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, e.Auction.Bidding.TimerExpiresAt)
	}
}

func TestOutboundCarriesBiddingAndPurses(t *testing.T) {
	e := newLiveEngine(t, testConfig(), 2, 1)
	reveal(t, e, t0, "P1")
	e.Drain()
	bid(t, e, t0, "T1", 100000)
	out := e.Drain()
	var sawAudit, sawState bool
	for _, o := range out {
		switch o.Kind {
		case OutAudit:
			sawAudit = true
		case OutBiddingState:
			up := o.Data.(BiddingUpdate)
			if len(up.Teams) != 1 || up.Teams[0].TeamID != "T1" || up.NextMinimum != 110000 {
				t.Fatalf("unexpected update %+v", up)
			}
			sawState = true
		}
	}
	if !sawAudit || !sawState {
		t.Fatalf("expected audit and bidding state, got %+v", out)
	}
	if len(e.Drain()) != 0 {
		t.Fatalf("drain should clear outbox")
	}
}

func TestRejectBidAuditsWithoutChangingState(t *testing.T) {
	e := newLiveEngine(t, testConfig(), 2, 1)
	reveal(t, e, t0, "P1")
	bid(t, e, t0, "T1", 100000)
	before := e.Auction.Bidding.TimerGen

	res := e.RejectBid(t0, "T2", "P1", 110000, errors.New("rate_limited"))
	if res.Accepted || res.Reason != "rate_limited" || res.CurrentBid != 100000 {
		t.Fatalf("unexpected result %+v", res)
	}
	b := e.Auction.Bidding
	if b.CurrentTeamID != "T1" || b.TimerGen != before || len(b.History) != 1 {
		t.Fatalf("rejection changed bidding %+v", b)
	}
	last := e.Audit[len(e.Audit)-1]
	if last.Kind != AuditBidRejected || last.Reason != "rate_limited" || last.TeamID != "T2" {
		t.Fatalf("unexpected audit %+v", last)
	}
}
