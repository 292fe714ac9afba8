package game

import (
	"fmt"
	"math/rand"
	"sort"
)

// TrumpKeepValue ranks how much a trump card is worth keeping. The Five and
// Jack carry scoring weight well beyond their rank, so forced discards shed
// them last.
func TrumpKeepValue(c Card) int {
	switch c.Rank {
	case "5":
		return 100
	case "J":
		return 60
	default:
		return c.Order()
	}
}

// PerformPurgeAndDraw discards every non-trump card from every hand, reduces
// oversized trump holdings, and redraws each seat up to the hand size from
// the stock, bid winner first. Seats that must choose which trumps to shed
// are queued in PendingDiscards and handled through DiscardTrumpCard; in
// that case the phase becomes discard-trump and the draw happens once the
// queue empties.
func (g *GameState) PerformPurgeAndDraw(rng *rand.Rand, autoReduce func(seat int) bool) error {
	if g.Phase != PhasePurgeDraw {
		return fmt.Errorf("%w: purge during %s", ErrWrongPhase, g.Phase)
	}

	for _, p := range g.Players {
		kept := p.Hand[:0:0]
		for _, c := range p.Hand {
			if c.Suit == g.TrumpSuit {
				kept = append(kept, c)
			} else {
				g.DiscardPile = append(g.DiscardPile, c)
			}
		}
		p.Hand = kept
	}

	g.PendingDiscards = nil
	for seat, p := range g.Players {
		if len(p.Hand) <= HandSize {
			continue
		}
		if autoReduce != nil && !autoReduce(seat) {
			g.PendingDiscards = append(g.PendingDiscards, seat)
			continue
		}
		g.autoDiscardTrump(seat)
	}

	if len(g.PendingDiscards) > 0 {
		g.Phase = PhaseDiscardTrump
		g.CurrentPlayerIndex = g.PendingDiscards[0]
		return nil
	}
	return g.drawToHandSize(rng)
}

// autoDiscardTrump sheds the least valuable trumps until the seat is at the
// hand size.
func (g *GameState) autoDiscardTrump(seat int) {
	p := g.Players[seat]
	sort.Slice(p.Hand, func(i, j int) bool {
		return TrumpKeepValue(p.Hand[i]) > TrumpKeepValue(p.Hand[j])
	})
	for len(p.Hand) > HandSize {
		g.DiscardPile = append(g.DiscardPile, p.Hand[len(p.Hand)-1])
		p.Hand = p.Hand[:len(p.Hand)-1]
	}
}

// DiscardTrumpCard applies one human-chosen discard during the discard-trump
// phase. When the acting seat reaches the hand size the next queued seat
// acts; when the queue is empty the redraw runs.
func (g *GameState) DiscardTrumpCard(seat int, card Card, rng *rand.Rand) error {
	if g.Phase != PhaseDiscardTrump {
		return fmt.Errorf("%w: discard during %s", ErrWrongPhase, g.Phase)
	}
	if len(g.PendingDiscards) == 0 || g.PendingDiscards[0] != seat || seat != g.CurrentPlayerIndex {
		return ErrNotYourTurn
	}
	p := g.Players[seat]
	hand, ok := removeCard(p.Hand, card)
	if !ok {
		return ErrCardNotHeld
	}
	p.Hand = hand
	g.DiscardPile = append(g.DiscardPile, card)

	if len(p.Hand) > HandSize {
		return nil
	}
	g.PendingDiscards = g.PendingDiscards[1:]
	if len(g.PendingDiscards) > 0 {
		g.CurrentPlayerIndex = g.PendingDiscards[0]
		return nil
	}
	return g.drawToHandSize(rng)
}

// drawToHandSize deals each seat back up to the hand size from the stock in
// turn order starting with the bid winner, reshuffling the discard pile into
// a new stock if the stock runs dry. Whatever stock remains is slept for the
// round.
func (g *GameState) drawToHandSize(rng *rand.Rand) error {
	seat := g.bidderSeat()
	for i := 0; i < 4; i++ {
		p := g.Players[seat]
		for len(p.Hand) < HandSize {
			if len(g.Stock) == 0 {
				if len(g.DiscardPile) == 0 {
					return fmt.Errorf("stock and discard pile both empty drawing for seat %d", seat)
				}
				g.Stock = g.DiscardPile
				g.DiscardPile = nil
				rng.Shuffle(len(g.Stock), func(a, b int) {
					g.Stock[a], g.Stock[b] = g.Stock[b], g.Stock[a]
				})
			}
			p.Hand = append(p.Hand, g.Stock[0])
			g.Stock = g.Stock[1:]
		}
		seat = nextSeat(seat)
	}

	g.SleptCards = g.Stock
	g.Stock = nil
	g.Phase = PhasePlaying
	g.TrickNumber = 1
	g.CurrentPlayerIndex = g.bidderSeat()
	return nil
}
