package game

import "fmt"

// ValidateBid reports whether the given amount is a legal bid for the seat.
// Zero is always a legal pass. A non-zero bid must be within range and exceed
// the running high bid, except that the dealer may match MaxBid to claim it
// outright.
func (g *GameState) ValidateBid(seat, amount int) error {
	if amount == 0 {
		return nil
	}
	if amount < MinBid || amount > MaxBid {
		return fmt.Errorf("%w: bid %d out of range", ErrIllegalBid, amount)
	}
	if amount > g.HighBid {
		return nil
	}
	if seat == g.DealerIndex && amount == MaxBid && g.HighBid == MaxBid {
		return nil
	}
	return fmt.Errorf("%w: bid %d does not beat %d", ErrIllegalBid, amount, g.HighBid)
}

// ProcessBid records the acting seat's bid (0 = pass) and advances the turn.
// A non-dealer bid that does not beat the high bid is recorded as a pass.
// When all four seats have bid and nobody claimed the hand, the dealer is
// forced to the minimum bid so bidding never closes without a bidder. Once
// bidding closes the turn passes to the bid winner for trump selection.
func (g *GameState) ProcessBid(seat, amount int) error {
	if g.Phase != PhaseBidding {
		return fmt.Errorf("%w: bid during %s", ErrWrongPhase, g.Phase)
	}
	if seat != g.CurrentPlayerIndex {
		return ErrNotYourTurn
	}

	p := g.Players[seat]
	switch {
	case amount == 0:
		zero := 0
		p.Bid = &zero
	case seat == g.DealerIndex && amount == MaxBid && g.HighBid == MaxBid:
		// Dealer steals at the cap.
		bid := amount
		p.Bid = &bid
		g.BidderID = p.ID
	case amount > g.HighBid && amount >= MinBid && amount <= MaxBid:
		bid := amount
		p.Bid = &bid
		g.HighBid = amount
		g.BidderID = p.ID
	default:
		// Pass-equivalent: too low, out of range, or a non-dealer match.
		zero := 0
		p.Bid = &zero
	}

	if g.biddingComplete() {
		if g.HighBid == 0 {
			// All four passed: the dealer is stuck with the minimum bid.
			dealer := g.Players[g.DealerIndex]
			forced := MinBid
			dealer.Bid = &forced
			g.HighBid = MinBid
			g.BidderID = dealer.ID
		}
		g.Phase = PhaseTrumpSelection
		g.CurrentPlayerIndex = g.bidderSeat()
		return nil
	}

	g.CurrentPlayerIndex = nextSeat(seat)
	return nil
}

func (g *GameState) biddingComplete() bool {
	for _, p := range g.Players {
		if p.Bid == nil {
			return false
		}
	}
	return true
}

// SelectTrump records the bid winner's trump suit and moves to the
// purge-and-draw step.
func (g *GameState) SelectTrump(seat int, suit Suit) error {
	if g.Phase != PhaseTrumpSelection {
		return fmt.Errorf("%w: trump selection during %s", ErrWrongPhase, g.Phase)
	}
	if seat != g.CurrentPlayerIndex || seat != g.bidderSeat() {
		return ErrNotYourTurn
	}
	switch suit {
	case Hearts, Diamonds, Clubs, Spades:
	default:
		return fmt.Errorf("invalid trump suit %q", suit)
	}
	g.TrumpSuit = suit
	g.Phase = PhasePurgeDraw
	return nil
}
