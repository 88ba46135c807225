package auction

import (
	"fmt"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinSquadSize = 2
	cfg.MaxSquadSize = 5
	return cfg
}

// newLiveEngine builds a live auction with teams T1..Tn and players P1..Pm.
func newLiveEngine(t *testing.T, cfg Config, teams, players int) *Engine {
	t.Helper()
	e := newConfiguredEngine(t, cfg, teams, players)
	if err := e.Start(t0, "admin"); err != nil {
		t.Fatalf("start: %v", err)
	}
	e.Drain()
	return e
}

func newConfiguredEngine(t *testing.T, cfg Config, teams, players int) *Engine {
	t.Helper()
	e := NewEngine(&Auction{ID: "auc-1", Name: "test", CreatedAt: t0})
	if err := e.Configure(t0, cfg); err != nil {
		t.Fatalf("configure: %v", err)
	}
	for i := 1; i <= teams; i++ {
		if _, err := e.AddTeam(t0, fmt.Sprintf("T%d", i), fmt.Sprintf("Team %d", i), nil); err != nil {
			t.Fatalf("add team %d: %v", i, err)
		}
	}
	for i := 1; i <= players; i++ {
		if _, err := e.AddPlayer(t0, fmt.Sprintf("P%d", i), fmt.Sprintf("Player %d", i), "batter", nil); err != nil {
			t.Fatalf("add player %d: %v", i, err)
		}
	}
	return e
}

// fire runs the currently scheduled timer.
func fire(t *testing.T, e *Engine, now time.Time) {
	t.Helper()
	if !e.HandleTimer(now, e.Auction.Bidding.TimerGen) {
		t.Fatalf("timer did not fire in phase %s", e.Auction.Bidding.Phase)
	}
}

func reveal(t *testing.T, e *Engine, now time.Time, playerID string) {
	t.Helper()
	if _, err := e.RevealNext(now, playerID, "admin"); err != nil {
		t.Fatalf("reveal %s: %v", playerID, err)
	}
	if e.Auction.Bidding.Phase == PhaseRevealed {
		fire(t, e, now)
	}
}

func bid(t *testing.T, e *Engine, now time.Time, teamID string, amount int64) {
	t.Helper()
	if _, err := e.PlaceBid(now, teamID, e.Auction.Bidding.PlayerID, amount); err != nil {
		t.Fatalf("bid %s %d: %v", teamID, amount, err)
	}
}

// closeOut lets the open, going-once and going-twice timers expire.
func closeOut(t *testing.T, e *Engine, now time.Time) {
	t.Helper()
	for i := 0; i < 3; i++ {
		fire(t, e, now)
	}
	if e.Auction.Bidding.Active() {
		t.Fatalf("expected session closed, phase %s", e.Auction.Bidding.Phase)
	}
}

func sell(t *testing.T, e *Engine, now time.Time, playerID, teamID string, amount int64) {
	t.Helper()
	reveal(t, e, now, playerID)
	bid(t, e, now, teamID, amount)
	closeOut(t, e, now)
	if p := e.Players[playerID]; p.Status != PlayerSold || p.SoldTo != teamID {
		t.Fatalf("expected %s sold to %s, got %s/%s", playerID, teamID, p.Status, p.SoldTo)
	}
}

func checkPurseBounds(t *testing.T, e *Engine) {
	t.Helper()
	for id, tm := range e.Teams {
		if tm.PurseRemaining < 0 || tm.PurseRemaining > tm.PurseValue {
			t.Fatalf("team %s purse out of bounds: %d/%d", id, tm.PurseRemaining, tm.PurseValue)
		}
	}
}
