package game

import "testing"

// biddingState returns a state mid-bidding with dealer at seat 3 and seat 0
// first to act.
func biddingState() *GameState {
	g := NewGameState(testPlayers(), 32)
	g.Phase = PhaseBidding
	g.DealerIndex = 3
	g.CurrentPlayerIndex = 0
	return g
}

func TestAllPassForcesDealerBid(t *testing.T) {
	g := biddingState()
	for seat := 0; seat < 4; seat++ {
		if err := g.ProcessBid(seat, 0); err != nil {
			t.Fatalf("seat %d pass: %v", seat, err)
		}
	}
	if g.BidderID != g.Players[3].ID {
		t.Fatalf("bidder = %q, want dealer %q", g.BidderID, g.Players[3].ID)
	}
	if g.HighBid != MinBid {
		t.Fatalf("high bid = %d, want forced minimum %d", g.HighBid, MinBid)
	}
	if g.Phase != PhaseTrumpSelection {
		t.Fatalf("phase = %s, want trump-selection", g.Phase)
	}
	if g.CurrentPlayerIndex != 3 {
		t.Fatalf("turn = %d, want bid winner 3", g.CurrentPlayerIndex)
	}
}

func TestDealerStealsAtCap(t *testing.T) {
	g := biddingState()
	if err := g.ProcessBid(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.ProcessBid(1, MaxBid); err != nil {
		t.Fatal(err)
	}
	if err := g.ProcessBid(2, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.ProcessBid(3, MaxBid); err != nil {
		t.Fatalf("dealer matching the cap: %v", err)
	}
	if g.BidderID != g.Players[3].ID {
		t.Fatalf("bidder = %q, want dealer after steal", g.BidderID)
	}
	if g.HighBid != MaxBid {
		t.Fatalf("high bid = %d, want %d", g.HighBid, MaxBid)
	}
}

func TestBidMonotonicity(t *testing.T) {
	g := biddingState()
	if err := g.ProcessBid(0, 6); err != nil {
		t.Fatal(err)
	}
	before := g.BidderID
	// A non-dealer matching the high bid is recorded as a pass.
	if err := g.ProcessBid(1, 6); err != nil {
		t.Fatal(err)
	}
	if g.HighBid != 6 {
		t.Fatalf("high bid moved to %d", g.HighBid)
	}
	if g.BidderID != before {
		t.Fatalf("bidder changed on a non-raising bid")
	}
	if *g.Players[1].Bid != 0 {
		t.Fatalf("non-raising bid recorded as %d, want pass", *g.Players[1].Bid)
	}
}

func TestValidateBid(t *testing.T) {
	g := biddingState()
	g.HighBid = 7
	cases := []struct {
		name   string
		seat   int
		amount int
		ok     bool
	}{
		{"pass always legal", 0, 0, true},
		{"raise legal", 0, 8, true},
		{"match rejected", 0, 7, false},
		{"under rejected", 0, 6, false},
		{"over max rejected", 0, 10, false},
		{"under min rejected", 0, 4, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := g.ValidateBid(tc.seat, tc.amount)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}

	g.HighBid = MaxBid
	if err := g.ValidateBid(3, MaxBid); err != nil {
		t.Fatalf("dealer matching the cap should be legal: %v", err)
	}
	if err := g.ValidateBid(1, MaxBid); err == nil {
		t.Fatal("non-dealer matching the cap should be illegal")
	}
}

func TestBidOutOfTurn(t *testing.T) {
	g := biddingState()
	if err := g.ProcessBid(2, 5); err == nil {
		t.Fatal("expected out-of-turn error")
	}
}

func TestSelectTrump(t *testing.T) {
	g := biddingState()
	for seat := 0; seat < 4; seat++ {
		if err := g.ProcessBid(seat, 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.SelectTrump(0, Hearts); err == nil {
		t.Fatal("only the bid winner selects trump")
	}
	if err := g.SelectTrump(3, "stars"); err == nil {
		t.Fatal("expected invalid suit error")
	}
	if err := g.SelectTrump(3, Hearts); err != nil {
		t.Fatalf("SelectTrump: %v", err)
	}
	if g.TrumpSuit != Hearts || g.Phase != PhasePurgeDraw {
		t.Fatalf("trump=%s phase=%s after selection", g.TrumpSuit, g.Phase)
	}
}
