package main

import (
	"testing"

	"player-auction/internal/auction"
	"player-auction/internal/config"
)

func TestDecide(t *testing.T) {
	cfg := config.BotConfig{TeamID: "T1", MaxPrice: 300000}
	open := auction.BiddingState{PlayerID: "P1", Phase: auction.PhaseOpen, CurrentBid: 200000, CurrentTeamID: "T2"}
	cases := []struct {
		name string
		up   auction.BiddingUpdate
		want int64
		ok   bool
	}{
		{"outbid", auction.BiddingUpdate{Status: auction.StatusLive, Bidding: open, NextMinimum: 225000}, 225000, true},
		{"leading", auction.BiddingUpdate{Status: auction.StatusLive, Bidding: auction.BiddingState{PlayerID: "P1", Phase: auction.PhaseOpen, CurrentTeamID: "T1"}, NextMinimum: 225000}, 0, false},
		{"over ceiling", auction.BiddingUpdate{Status: auction.StatusLive, Bidding: open, NextMinimum: 325000}, 0, false},
		{"revealed", auction.BiddingUpdate{Status: auction.StatusLive, Bidding: auction.BiddingState{PlayerID: "P1", Phase: auction.PhaseRevealed}, NextMinimum: 100000}, 0, false},
		{"paused", auction.BiddingUpdate{Status: auction.StatusPaused, Bidding: open, NextMinimum: 225000}, 0, false},
		{"purse short", auction.BiddingUpdate{Status: auction.StatusLive, Bidding: open, NextMinimum: 225000, Teams: []auction.TeamPurse{{TeamID: "T1", MaxBid: 150000}}}, 0, false},
	}
	for _, tc := range cases {
		got, ok := decide(cfg, tc.up)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: got %d %v, want %d %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
