// Package cpu chooses bids, trump, discards and card plays for CPU seats.
// Card selection is an ordered list of named strategies tried in priority
// order; each returns a card or no opinion and the first opinion wins.
package cpu

import (
	"math/rand"

	"catch5/internal/game"
)

// Tuning holds the adjustable heuristic thresholds. Exact CPU skill is not a
// correctness contract, so these stay configuration rather than constants.
type Tuning struct {
	// Suit strength required before bidding N points.
	BidSix   int
	BidSeven int
	BidEight int
	BidNine  int
	// Percent chance an on-the-fence hand stretches one bid higher.
	StretchChance int
}

// DefaultTuning mirrors the hand-tuned values the heuristics were built
// against.
func DefaultTuning() Tuning {
	return Tuning{
		BidSix:        55,
		BidSeven:      75,
		BidEight:      95,
		BidNine:       115,
		StretchChance: 20,
	}
}

// suitStrength scores a hand's potential in one suit. Scoring cards weigh
// far more than rank alone: the Five is five points if kept safe, the Jack
// and High are points, and raw length buys control of the redraw.
func suitStrength(hand []game.Card, suit game.Suit) int {
	score := 0
	for _, c := range hand {
		if c.Suit != suit {
			continue
		}
		score += 8
		switch c.Rank {
		case "A":
			score += 22
		case "K":
			score += 14
		case "Q":
			score += 8
		case "J":
			score += 18
		case "5":
			score += 25
		case "2":
			score += 12 // likely Low
		default:
			score += c.Order()
		}
	}
	return score
}

func bestSuit(hand []game.Card) (game.Suit, int) {
	best, bestScore := game.Hearts, -1
	for _, s := range game.Suits {
		if sc := suitStrength(hand, s); sc > bestScore {
			best, bestScore = s, sc
		}
	}
	return best, bestScore
}

// ChooseBid maps best-suit strength to a bid, passing when the hand cannot
// beat the running high bid. The dealer steals at the cap when strong enough.
func ChooseBid(hand []game.Card, highBid int, isDealer bool, t Tuning, rng *rand.Rand) int {
	_, strength := bestSuit(hand)

	bid := 0
	switch {
	case strength >= t.BidNine:
		bid = 9
	case strength >= t.BidEight:
		bid = 8
	case strength >= t.BidSeven:
		bid = 7
	case strength >= t.BidSix:
		bid = 6
	case strength >= t.BidSix-10:
		bid = game.MinBid
	}
	if bid > 0 && bid < game.MaxBid && rng.Intn(100) < t.StretchChance {
		bid++
	}

	if isDealer && highBid == game.MaxBid && bid >= game.MaxBid {
		return game.MaxBid
	}
	if bid <= highBid {
		return 0
	}
	return bid
}

// ChooseTrump picks the strongest suit in the hand.
func ChooseTrump(hand []game.Card) game.Suit {
	s, _ := bestSuit(hand)
	return s
}

// ChooseDiscard picks the trump the seat can best afford to shed when forced
// below the hand size.
func ChooseDiscard(hand []game.Card, trump game.Suit) game.Card {
	var pick game.Card
	best := -1
	for _, c := range hand {
		if c.Suit != trump {
			return c
		}
		if best == -1 || game.TrumpKeepValue(c) < best {
			best = game.TrumpKeepValue(c)
			pick = c
		}
	}
	return pick
}
