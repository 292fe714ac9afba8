package cpu

import (
	"math/rand"
	"testing"

	"catch5/internal/game"
)

func tablePlayers() []*game.Player {
	names := []string{"n", "e", "s", "w"}
	out := make([]*game.Player, 4)
	for i, n := range names {
		out[i] = &game.Player{ID: n, Name: n}
	}
	return out
}

// tableState builds a playing-phase state with hearts trump and the given
// trick already on the table.
func tableState(trick []game.PlayedCard, hands [4][]game.Card) *game.GameState {
	g := game.NewGameState(tablePlayers(), 32)
	g.Phase = game.PhasePlaying
	g.TrumpSuit = game.Hearts
	g.CurrentTrick = trick
	for i := range hands {
		g.Players[i].Hand = hands[i]
	}
	return g
}

func TestCaptureFiveOnTable(t *testing.T) {
	trick := []game.PlayedCard{
		{Card: game.Card{Rank: "7", Suit: game.Hearts}, SeatIndex: 0},
		{Card: game.Card{Rank: "5", Suit: game.Hearts}, SeatIndex: 1},
	}
	st := tableState(trick, [4][]game.Card{
		{}, {},
		h("Ah", "3h"),
		{},
	})
	st.CurrentPlayerIndex = 2
	got := ChooseCard(st, 2)
	if got != (game.Card{Rank: "A", Suit: game.Hearts}) {
		t.Fatalf("played %v with the Five on the table, want the ace of trump", got)
	}
}

func TestFeedPartnerPoints(t *testing.T) {
	trick := []game.PlayedCard{
		{Card: game.Card{Rank: "3", Suit: game.Clubs}, SeatIndex: 0},
		{Card: game.Card{Rank: "A", Suit: game.Clubs}, SeatIndex: 1},
		{Card: game.Card{Rank: "6", Suit: game.Clubs}, SeatIndex: 2},
	}
	st := tableState(trick, [4][]game.Card{
		{}, {}, {},
		h("10c", "4c"),
	})
	st.CurrentPlayerIndex = 3
	got := ChooseCard(st, 3)
	if got != (game.Card{Rank: "10", Suit: game.Clubs}) {
		t.Fatalf("played %v behind a winning partner, want to feed the ten", got)
	}
}

func TestNeverLeadsFiveOfTrump(t *testing.T) {
	st := tableState(nil, [4][]game.Card{
		h("5h", "2h", "Kh", "3c"),
		{}, {}, {},
	})
	st.CurrentPlayerIndex = 0
	got := ChooseCard(st, 0)
	if got == (game.Card{Rank: "5", Suit: game.Hearts}) {
		t.Fatal("led the Five of trump")
	}
	if got != (game.Card{Rank: "K", Suit: game.Hearts}) {
		t.Fatalf("led %v, want the strong trump lead", got)
	}

	// With no safe trump to lead, the Five still stays home.
	st = tableState(nil, [4][]game.Card{
		h("5h", "2h", "3c"),
		{}, {}, {},
	})
	if got := ChooseCard(st, 0); got == (game.Card{Rank: "5", Suit: game.Hearts}) {
		t.Fatal("led the Five of trump with a sluff available")
	}
}

func TestSluffsCheapestWhenBeaten(t *testing.T) {
	trick := []game.PlayedCard{
		{Card: game.Card{Rank: "A", Suit: game.Hearts}, SeatIndex: 0},
	}
	st := tableState(trick, [4][]game.Card{
		{},
		h("3c", "10s", "4h"),
		{}, {},
	})
	st.CurrentPlayerIndex = 1
	// Holding trump under a trump lead, the only legal card is the low trump.
	got := ChooseCard(st, 1)
	if got != (game.Card{Rank: "4", Suit: game.Hearts}) {
		t.Fatalf("played %v under the ace of trump, want the low trump", got)
	}
}

// TestChooseCardAlwaysLegal drives whole CPU-vs-CPU rounds through the rules
// engine; any illegal choice surfaces as a PlayCard error.
func TestChooseCardAlwaysLegal(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := game.NewGameState(tablePlayers(), 32)
		if err := g.DrawForDealer(rng); err != nil {
			t.Fatal(err)
		}
		if err := g.DealCards(rng); err != nil {
			t.Fatal(err)
		}

		for g.Phase == game.PhaseBidding {
			seat := g.CurrentPlayerIndex
			bid := ChooseBid(g.Players[seat].Hand, g.HighBid, seat == g.DealerIndex, DefaultTuning(), rng)
			if err := g.ProcessBid(seat, bid); err != nil {
				t.Fatalf("seed %d: bid %d: %v", seed, bid, err)
			}
		}
		bidder := g.CurrentPlayerIndex
		if err := g.SelectTrump(bidder, ChooseTrump(g.Players[bidder].Hand)); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if err := g.PerformPurgeAndDraw(rng, nil); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		for g.Phase == game.PhasePlaying {
			seat := g.CurrentPlayerIndex
			card := ChooseCard(g, seat)
			if err := g.PlayCard(seat, card); err != nil {
				t.Fatalf("seed %d: seat %d chose illegal %v: %v", seed, seat, card, err)
			}
		}
	}
}
