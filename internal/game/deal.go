package game

import (
	"fmt"
	"math/rand"
)

// DrawForDealer runs the first-dealer tie-break draw: every seat draws one
// card from a shuffled deck and the highest rank takes the deal. Ties redraw
// all four seats. The final draw is kept in DealerDrawCards for display.
func (g *GameState) DrawForDealer(rng *rand.Rand) error {
	if g.Phase != PhaseSetup && g.Phase != PhaseDealerDraw && g.Phase != PhaseGameOver {
		return fmt.Errorf("%w: dealer draw from %s", ErrWrongPhase, g.Phase)
	}
	for {
		deck := ShuffledDeck(rng)
		draws := make([]PlayedCard, 4)
		best, bestSeat, tied := -1, -1, false
		for seat := 0; seat < 4; seat++ {
			draws[seat] = PlayedCard{Card: deck[seat], SeatIndex: seat}
			if o := deck[seat].Order(); o > best {
				best, bestSeat, tied = o, seat, false
			} else if o == best {
				tied = true
			}
		}
		g.DealerDrawCards = draws
		if !tied {
			g.DealerIndex = bestSeat
			g.Phase = PhaseDealing
			return nil
		}
	}
}

// DealCards shuffles a fresh deck, deals nine cards to each seat in order
// starting left of the dealer, and opens bidding. The remainder becomes the
// stock for the purge-and-draw redraw.
func (g *GameState) DealCards(rng *rand.Rand) error {
	if g.Phase != PhaseDealing && g.Phase != PhaseScoring {
		return fmt.Errorf("%w: deal from %s", ErrWrongPhase, g.Phase)
	}
	deck := ShuffledDeck(rng)

	for _, p := range g.Players {
		p.Hand = nil
		p.TricksWon = nil
		p.Bid = nil
	}
	g.TrumpSuit = ""
	g.HighBid = 0
	g.BidderID = ""
	g.CurrentTrick = nil
	g.LastTrick = nil
	g.TrickNumber = 1
	g.DiscardPile = nil
	g.SleptCards = nil
	g.PendingDiscards = nil
	g.LastRound = nil

	seat := nextSeat(g.DealerIndex)
	for dealt := 0; dealt < 4*DealtCards; dealt++ {
		g.Players[seat].Hand = append(g.Players[seat].Hand, deck[0])
		deck = deck[1:]
		seat = nextSeat(seat)
	}
	g.Stock = deck

	g.Phase = PhaseBidding
	g.CurrentPlayerIndex = nextSeat(g.DealerIndex)
	return nil
}

// StartNextRound rotates the deal and starts the next hand. Valid only from
// the scoring phase.
func (g *GameState) StartNextRound(rng *rand.Rand) error {
	if g.Phase != PhaseScoring {
		return fmt.Errorf("%w: next round from %s", ErrWrongPhase, g.Phase)
	}
	g.DealerIndex = nextSeat(g.DealerIndex)
	return g.DealCards(rng)
}

// ResetForNewGame clears scores and returns to the dealer draw after a
// finished game.
func (g *GameState) ResetForNewGame(rng *rand.Rand) error {
	if g.Phase != PhaseGameOver {
		return fmt.Errorf("%w: new game from %s", ErrWrongPhase, g.Phase)
	}
	for _, t := range g.Teams {
		t.Score = 0
	}
	for _, p := range g.Players {
		p.Hand = nil
		p.TricksWon = nil
		p.Bid = nil
	}
	g.WinnerTeamID = ""
	g.LastRound = nil
	g.Phase = PhaseDealerDraw
	if err := g.DrawForDealer(rng); err != nil {
		return err
	}
	return g.DealCards(rng)
}
