package cpu

import "catch5/internal/game"

// turnContext is the public state a strategy may consult plus the acting
// seat's own hand.
type turnContext struct {
	state *game.GameState
	seat  int
	hand  []game.Card
	legal []game.Card
	trump game.Suit
}

type strategy struct {
	name string
	pick func(turnContext) (game.Card, bool)
}

// strategies run in priority order; the first one with an opinion decides
// the play.
var strategies = []strategy{
	{"capture-five", captureFive},
	{"win-with-points-on-table", winWithPointsOnTable},
	{"feed-partner", feedPartner},
	{"lead-strong-trump", leadStrongTrump},
	{"sluff-cheapest", sluffCheapest},
}

// ChooseCard picks the seat's play by running the strategy table. The
// fallthrough always produces a card, so the result is always legal.
func ChooseCard(state *game.GameState, seat int) game.Card {
	p := state.Players[seat]
	ctx := turnContext{
		state: state,
		seat:  seat,
		hand:  p.Hand,
		legal: game.LegalPlays(p.Hand, state.CurrentTrick, state.TrumpSuit),
		trump: state.TrumpSuit,
	}
	for _, s := range strategies {
		if c, ok := s.pick(ctx); ok {
			return c
		}
	}
	return ctx.legal[0]
}

// trickWinnerSoFar resolves who currently holds an incomplete trick.
func trickWinnerSoFar(trick []game.PlayedCard, trump game.Suit) (int, game.Card) {
	winner := trick[0]
	for _, pc := range trick[1:] {
		if beatsInTrick(pc.Card, winner.Card, trick[0].Card.Suit, trump) {
			winner = pc
		}
	}
	return winner.SeatIndex, winner.Card
}

func beatsInTrick(c, against game.Card, led game.Suit, trump game.Suit) bool {
	if c.Suit == trump && against.Suit != trump {
		return true
	}
	if c.Suit != trump && against.Suit == trump {
		return false
	}
	if c.Suit == against.Suit {
		return c.Order() > against.Order()
	}
	return c.Suit == led
}

// cheapestWinning returns the lowest card that would take the trick as it
// stands.
func cheapestWinning(ctx turnContext) (game.Card, bool) {
	if len(ctx.state.CurrentTrick) == 0 {
		return game.Card{}, false
	}
	_, winning := trickWinnerSoFar(ctx.state.CurrentTrick, ctx.trump)
	led := ctx.state.CurrentTrick[0].Card.Suit
	var pick game.Card
	found := false
	for _, c := range ctx.legal {
		if !beatsInTrick(c, winning, led, ctx.trump) {
			continue
		}
		if !found || playCost(c, ctx.trump) < playCost(pick, ctx.trump) {
			pick, found = c, true
		}
	}
	return pick, found
}

// playCost orders cards by how reluctant the CPU is to spend them.
func playCost(c game.Card, trump game.Suit) int {
	cost := c.Order()
	if c.Suit == trump {
		cost += 20 + game.TrumpKeepValue(c)
	}
	cost += c.GamePoints() * 2
	return cost
}

// trickPoints sums the scoring weight currently sitting in the trick.
func trickPoints(trick []game.PlayedCard, trump game.Suit) int {
	pts := 0
	for _, pc := range trick {
		pts += pc.Card.GamePoints()
		if pc.Card.Suit == trump && pc.Card.Rank == "5" {
			pts += 10
		}
		if pc.Card.Suit == trump && pc.Card.Rank == "J" {
			pts += 4
		}
	}
	return pts
}

func partnerSeat(seat int) int { return (seat + 2) % 4 }

// captureFive: the Five of trump on the table is the round's biggest prize;
// take it if any legal card wins the trick.
func captureFive(ctx turnContext) (game.Card, bool) {
	for _, pc := range ctx.state.CurrentTrick {
		if pc.Card.Suit == ctx.trump && pc.Card.Rank == "5" {
			winner, _ := trickWinnerSoFar(ctx.state.CurrentTrick, ctx.trump)
			if winner == partnerSeat(ctx.seat) && len(ctx.state.CurrentTrick) == 3 {
				return game.Card{}, false // partner already has it locked
			}
			return cheapestWinning(ctx)
		}
	}
	return game.Card{}, false
}

// winWithPointsOnTable: contest tricks that are worth something, with the
// cheapest card that takes them.
func winWithPointsOnTable(ctx turnContext) (game.Card, bool) {
	trick := ctx.state.CurrentTrick
	if len(trick) == 0 || trickPoints(trick, ctx.trump) < 3 {
		return game.Card{}, false
	}
	winner, _ := trickWinnerSoFar(trick, ctx.trump)
	if winner == partnerSeat(ctx.seat) {
		return game.Card{}, false
	}
	return cheapestWinning(ctx)
}

// feedPartner: drop point cards only when the partner is winning and no
// opponent acts after this seat.
func feedPartner(ctx turnContext) (game.Card, bool) {
	trick := ctx.state.CurrentTrick
	if len(trick) != 3 {
		return game.Card{}, false
	}
	winner, _ := trickWinnerSoFar(trick, ctx.trump)
	if winner != partnerSeat(ctx.seat) {
		return game.Card{}, false
	}
	var pick game.Card
	found := false
	for _, c := range ctx.legal {
		if c.Suit == ctx.trump && (c.Rank == "5" || c.Rank == "2") {
			continue // never throw the Five; the Two is the Low
		}
		if c.GamePoints() == 0 {
			continue
		}
		if !found || c.GamePoints() > pick.GamePoints() {
			pick, found = c, true
		}
	}
	return pick, found
}

// leadStrongTrump: open tricks with the strongest trump, but never lead the
// Five or the Two of trump.
func leadStrongTrump(ctx turnContext) (game.Card, bool) {
	if len(ctx.state.CurrentTrick) != 0 {
		return game.Card{}, false
	}
	var pick game.Card
	found := false
	for _, c := range ctx.legal {
		if c.Suit != ctx.trump || c.Rank == "5" || c.Rank == "2" {
			continue
		}
		if !found || c.Order() > pick.Order() {
			pick, found = c, true
		}
	}
	return pick, found
}

// sluffCheapest: concede the trick as cheaply as possible.
func sluffCheapest(ctx turnContext) (game.Card, bool) {
	var pick game.Card
	found := false
	for _, c := range ctx.legal {
		if !found || playCost(c, ctx.trump) < playCost(pick, ctx.trump) {
			pick, found = c, true
		}
	}
	return pick, found
}
