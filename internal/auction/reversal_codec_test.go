package auction

import "testing"

func TestReversalCodecKeepsVariant(t *testing.T) {
	in := []Reversal{
		SaleReversal{PlayerID: "P1", TeamID: "T1", Amount: 120000, PriorStatus: PlayerPool, UndecidedIndex: 2},
		DisqualifyReversal{PlayerID: "P2", PriorStatus: PlayerUnsold, AppliedStatus: PlayerIneligible, UndecidedIndex: -1},
		OverrideReversal{PlayerID: "P3", Prior: PlayerMark{Status: PlayerSold, SoldTo: "T2", SoldAmount: 5}, Applied: PlayerMark{Status: PlayerPool}},
	}
	for _, r := range in {
		b, err := EncodeReversal(r)
		if err != nil {
			t.Fatalf("encode %T: %v", r, err)
		}
		out, err := DecodeReversal(r.Kind(), b)
		if err != nil {
			t.Fatalf("decode %T: %v", r, err)
		}
		if out != r {
			t.Fatalf("round trip changed %T: %+v vs %+v", r, out, r)
		}
	}
	if r, err := DecodeReversal(ActionPlayerRevealed, nil); r != nil || err != nil {
		t.Fatalf("informational event should decode to nil, got %v %v", r, err)
	}
}
