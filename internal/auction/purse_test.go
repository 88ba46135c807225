package auction

import (
	"errors"
	"testing"
)

func TestMaxBidReservesBaseForMandatorySlots(t *testing.T) {
	cfg := Config{BasePrice: 50000, MinSquadSize: 5, MaxSquadSize: 8}
	team := &Team{
		PurseValue:     500000,
		PurseRemaining: 500000,
		Retained:       []Retention{{Name: "r1"}, {Name: "r2"}},
	}
	if got := MaxBid(team, cfg); got != 400000 {
		t.Fatalf("expected max bid 400000, got %d", got)
	}
}

func TestMaxBidEqualsPurseOnceMinimumMet(t *testing.T) {
	cfg := Config{BasePrice: 50000, MinSquadSize: 2, MaxSquadSize: 8}
	for _, remaining := range []int64{0, 1, 49999, 50000, 730000} {
		team := &Team{
			PurseValue:     1000000,
			PurseRemaining: remaining,
			Bought:         []Purchase{{PlayerID: "a"}, {PlayerID: "b"}},
		}
		if got := MaxBid(team, cfg); got != remaining {
			t.Fatalf("remaining %d: expected max bid %d, got %d", remaining, remaining, got)
		}
	}
}

func TestMaxBidClampsToBasePrice(t *testing.T) {
	cfg := Config{BasePrice: 50000, MinSquadSize: 5, MaxSquadSize: 8}
	team := &Team{PurseValue: 500000, PurseRemaining: 120000}
	if got := MaxBid(team, cfg); got != 50000 {
		t.Fatalf("expected clamp to base 50000, got %d", got)
	}
	team.PurseRemaining = 40000
	if got := MaxBid(team, cfg); got != 0 {
		t.Fatalf("expected 0 when base unaffordable, got %d", got)
	}
}

func TestPurseOfReportsZeroWhenSquadFull(t *testing.T) {
	cfg := Config{BasePrice: 10, MinSquadSize: 1, MaxSquadSize: 1}
	team := &Team{PurseValue: 100, PurseRemaining: 100, Bought: []Purchase{{PlayerID: "x"}}}
	if !SquadFull(team, cfg) {
		t.Fatalf("expected squad full")
	}
	if p := PurseOf(team, cfg); p.MaxBid != 0 || p.SquadSize != 1 {
		t.Fatalf("unexpected purse view %+v", p)
	}
}

func TestDebitCreditBounds(t *testing.T) {
	team := &Team{PurseValue: 100, PurseRemaining: 60}
	if err := Debit(team, 61); !errors.Is(err, ErrInsufficientPurse) {
		t.Fatalf("expected insufficient purse, got %v", err)
	}
	if team.PurseRemaining != 60 {
		t.Fatalf("failed debit changed purse: %d", team.PurseRemaining)
	}
	if err := Credit(team, 41); !errors.Is(err, ErrPurseOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if err := Debit(team, -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if err := Credit(team, 40); err != nil || team.PurseRemaining != 100 {
		t.Fatalf("credit: err=%v remaining=%d", err, team.PurseRemaining)
	}
}

func TestTransferIsAllOrNothing(t *testing.T) {
	from := &Team{PurseValue: 100, PurseRemaining: 50}
	to := &Team{PurseValue: 100, PurseRemaining: 90}
	if err := Transfer(from, to, 20); !errors.Is(err, ErrPurseOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if from.PurseRemaining != 50 || to.PurseRemaining != 90 {
		t.Fatalf("failed transfer moved money: %d %d", from.PurseRemaining, to.PurseRemaining)
	}
	if err := Transfer(from, to, 10); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if from.PurseRemaining+to.PurseRemaining != 140 {
		t.Fatalf("transfer changed total: %d", from.PurseRemaining+to.PurseRemaining)
	}
}
