package game

import (
	"math/rand"
	"testing"
)

// purgeState builds a hand-crafted purge-draw state with hearts trump and
// seat 0 holding the bid. Seat 0 holds eight trumps and one club, seats 1 and
// 3 hold two trumps each, seat 2 holds none; the remaining 16 cards form the
// stock.
func purgeState(t *testing.T) *GameState {
	t.Helper()
	g := NewGameState(testPlayers(), 32)
	g.Phase = PhasePurgeDraw
	g.DealerIndex = 3
	g.TrumpSuit = Hearts
	g.HighBid = 5
	bid := 5
	g.Players[0].Bid = &bid
	g.BidderID = g.Players[0].ID
	g.CurrentPlayerIndex = 0

	hands := [4][]Card{
		{
			{Rank: "A", Suit: Hearts}, {Rank: "K", Suit: Hearts},
			{Rank: "Q", Suit: Hearts}, {Rank: "J", Suit: Hearts},
			{Rank: "10", Suit: Hearts}, {Rank: "9", Suit: Hearts},
			{Rank: "5", Suit: Hearts}, {Rank: "2", Suit: Hearts},
			{Rank: "2", Suit: Clubs},
		},
		{
			{Rank: "3", Suit: Hearts}, {Rank: "4", Suit: Hearts},
			{Rank: "3", Suit: Clubs}, {Rank: "4", Suit: Clubs},
			{Rank: "5", Suit: Clubs}, {Rank: "6", Suit: Clubs},
			{Rank: "7", Suit: Clubs}, {Rank: "8", Suit: Clubs},
			{Rank: "9", Suit: Clubs},
		},
		{
			{Rank: "2", Suit: Spades}, {Rank: "3", Suit: Spades},
			{Rank: "4", Suit: Spades}, {Rank: "5", Suit: Spades},
			{Rank: "6", Suit: Spades}, {Rank: "7", Suit: Spades},
			{Rank: "8", Suit: Spades}, {Rank: "9", Suit: Spades},
			{Rank: "10", Suit: Spades},
		},
		{
			{Rank: "6", Suit: Hearts}, {Rank: "7", Suit: Hearts},
			{Rank: "2", Suit: Diamonds}, {Rank: "3", Suit: Diamonds},
			{Rank: "4", Suit: Diamonds}, {Rank: "5", Suit: Diamonds},
			{Rank: "6", Suit: Diamonds}, {Rank: "7", Suit: Diamonds},
			{Rank: "8", Suit: Diamonds},
		},
	}
	dealt := map[string]bool{}
	for i := range hands {
		g.Players[i].Hand = hands[i]
		for _, c := range hands[i] {
			dealt[c.ID()] = true
		}
	}
	for _, c := range NewDeck() {
		if !dealt[c.ID()] {
			g.Stock = append(g.Stock, c)
		}
	}
	if len(g.Stock) != 16 {
		t.Fatalf("stock built with %d cards, want 16", len(g.Stock))
	}
	return g
}

func TestPurgeAndDrawAuto(t *testing.T) {
	g := purgeState(t)
	rng := rand.New(rand.NewSource(5))
	if err := g.PerformPurgeAndDraw(rng, nil); err != nil {
		t.Fatalf("PerformPurgeAndDraw: %v", err)
	}

	for i, p := range g.Players {
		if len(p.Hand) != HandSize {
			t.Fatalf("seat %d holds %d cards, want %d", i, len(p.Hand), HandSize)
		}
	}
	// The auto reduction keeps the Five and Jack and sheds the weakest.
	bidderHand := g.Players[0].Hand
	if !containsCard(bidderHand, Card{Rank: "5", Suit: Hearts}) {
		t.Fatal("auto discard shed the Five of trump")
	}
	if !containsCard(bidderHand, Card{Rank: "J", Suit: Hearts}) {
		t.Fatal("auto discard shed the Jack of trump")
	}
	if containsCard(bidderHand, Card{Rank: "9", Suit: Hearts}) ||
		containsCard(bidderHand, Card{Rank: "2", Suit: Hearts}) {
		t.Fatal("auto discard kept a weak trump over a stronger one")
	}
	if containsCard(bidderHand, Card{Rank: "2", Suit: Clubs}) {
		t.Fatal("non-trump survived the purge")
	}

	if g.Phase != PhasePlaying {
		t.Fatalf("phase = %s, want playing", g.Phase)
	}
	if g.TrickNumber != 1 || g.CurrentPlayerIndex != 0 {
		t.Fatalf("trick=%d current=%d, want bid winner on lead of trick 1", g.TrickNumber, g.CurrentPlayerIndex)
	}
	// 16 in stock, 14 needed to refill: two cards sleep.
	if len(g.SleptCards) != 2 || len(g.Stock) != 0 {
		t.Fatalf("slept=%d stock=%d after redraw", len(g.SleptCards), len(g.Stock))
	}
	assertFullDeck(t, g, "after auto purge")
}

func TestPurgeQueuesHumanDiscards(t *testing.T) {
	g := purgeState(t)
	rng := rand.New(rand.NewSource(5))
	human := func(seat int) bool { return seat != 0 }
	if err := g.PerformPurgeAndDraw(rng, human); err != nil {
		t.Fatalf("PerformPurgeAndDraw: %v", err)
	}

	if g.Phase != PhaseDiscardTrump {
		t.Fatalf("phase = %s, want discard-trump", g.Phase)
	}
	if g.CurrentPlayerIndex != 0 || len(g.PendingDiscards) != 1 || g.PendingDiscards[0] != 0 {
		t.Fatalf("queue=%v current=%d", g.PendingDiscards, g.CurrentPlayerIndex)
	}

	if err := g.DiscardTrumpCard(1, Card{Rank: "3", Suit: Hearts}, rng); err == nil {
		t.Fatal("expected out-of-turn rejection")
	}
	if err := g.DiscardTrumpCard(0, Card{Rank: "2", Suit: Clubs}, rng); err == nil {
		t.Fatal("expected card-not-held rejection for a purged card")
	}

	if err := g.DiscardTrumpCard(0, Card{Rank: "2", Suit: Hearts}, rng); err != nil {
		t.Fatal(err)
	}
	if g.Phase != PhaseDiscardTrump {
		t.Fatal("one discard left, phase should hold")
	}
	if err := g.DiscardTrumpCard(0, Card{Rank: "9", Suit: Hearts}, rng); err != nil {
		t.Fatal(err)
	}

	if g.Phase != PhasePlaying {
		t.Fatalf("phase = %s, want playing after queue drains", g.Phase)
	}
	if len(g.Players[0].Hand) != HandSize {
		t.Fatalf("bidder holds %d cards", len(g.Players[0].Hand))
	}
	assertFullDeck(t, g, "after human discards")
}

func TestDrawReshufflesDiscardPile(t *testing.T) {
	g := purgeState(t)
	// Starve the stock so the redraw has to recycle the discard pile.
	g.DiscardPile = append(g.DiscardPile, g.Stock[2:]...)
	g.Stock = g.Stock[:2]

	rng := rand.New(rand.NewSource(9))
	if err := g.PerformPurgeAndDraw(rng, nil); err != nil {
		t.Fatalf("PerformPurgeAndDraw: %v", err)
	}
	for i, p := range g.Players {
		if len(p.Hand) != HandSize {
			t.Fatalf("seat %d holds %d cards after reshuffle", i, len(p.Hand))
		}
	}
	if g.Phase != PhasePlaying {
		t.Fatalf("phase = %s, want playing", g.Phase)
	}
	assertFullDeck(t, g, "after reshuffle redraw")
}

func TestPurgeFromWrongPhase(t *testing.T) {
	g := NewGameState(testPlayers(), 32)
	g.Phase = PhaseBidding
	if err := g.PerformPurgeAndDraw(rand.New(rand.NewSource(1)), nil); err == nil {
		t.Fatal("expected phase error")
	}
}
