package game

import "math/rand"

// Suit represents a card suit.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank represents a card rank, ace high.
type Rank string

var Ranks = []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

var rankOrder = map[Rank]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8,
	"9": 9, "10": 10, "J": 11, "Q": 12, "K": 13, "A": 14,
}

// gamePoints are the card values counted toward the Game category.
var gamePoints = map[Rank]int{
	"10": 10, "A": 4, "K": 3, "Q": 2, "J": 1,
}

// Card is an immutable rank/suit pair. Exactly one instance of each pair
// exists per live deck.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// ID returns the stable identity string for the card, e.g. "5-hearts".
func (c Card) ID() string {
	return string(c.Rank) + "-" + string(c.Suit)
}

// Order returns the ace-high rank order of the card (2..14).
func (c Card) Order() int {
	return rankOrder[c.Rank]
}

// GamePoints returns the card's point value for the Game category.
func (c Card) GamePoints() int {
	return gamePoints[c.Rank]
}

// NewDeck returns a full 52-card deck in suit/rank order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffledDeck returns a freshly shuffled 52-card deck.
func ShuffledDeck(rng *rand.Rand) []Card {
	deck := NewDeck()
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// SortHand orders cards by suit then descending rank. The order is
// insignificant for rules but stable for display.
func SortHand(hand []Card) {
	suitIdx := map[Suit]int{Hearts: 0, Diamonds: 1, Clubs: 2, Spades: 3}
	for i := 0; i < len(hand); i++ {
		for j := i + 1; j < len(hand); j++ {
			si, sj := suitIdx[hand[i].Suit], suitIdx[hand[j].Suit]
			if sj < si || (sj == si && hand[j].Order() > hand[i].Order()) {
				hand[i], hand[j] = hand[j], hand[i]
			}
		}
	}
}

func removeCard(hand []Card, card Card) ([]Card, bool) {
	for i, c := range hand {
		if c == card {
			return append(hand[:i], hand[i+1:]...), true
		}
	}
	return hand, false
}

func containsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}
