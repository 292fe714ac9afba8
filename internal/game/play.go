package game

import "fmt"

// CanPlayCard reports whether a card is legal to play given the hand, the
// trick so far, and the trump suit. The first card of a trick is always
// legal. Trump may be played at any time. A non-trump card must follow the
// led suit unless the hand holds none of it.
func CanPlayCard(card Card, hand []Card, currentTrick []PlayedCard, trumpSuit Suit) bool {
	if len(currentTrick) == 0 {
		return true
	}
	if card.Suit == trumpSuit {
		return true
	}
	ledSuit := currentTrick[0].Card.Suit
	if card.Suit == ledSuit {
		return true
	}
	for _, c := range hand {
		if c.Suit == ledSuit {
			return false
		}
	}
	return true
}

// LegalPlays returns the subset of the hand playable against the current
// trick.
func LegalPlays(hand []Card, currentTrick []PlayedCard, trumpSuit Suit) []Card {
	var out []Card
	for _, c := range hand {
		if CanPlayCard(c, hand, currentTrick, trumpSuit) {
			out = append(out, c)
		}
	}
	return out
}

// DetermineTrickWinner resolves a complete trick: trump beats everything,
// otherwise the highest card of the led suit wins, ace high. Pure in
// (cards, trumpSuit); the led suit is the first card played.
func DetermineTrickWinner(trick []PlayedCard, trumpSuit Suit) (int, error) {
	if len(trick) != 4 {
		return -1, fmt.Errorf("trick resolved with %d cards", len(trick))
	}
	ledSuit := trick[0].Card.Suit
	winner := trick[0]
	for _, pc := range trick[1:] {
		if beats(pc.Card, winner.Card, ledSuit, trumpSuit) {
			winner = pc
		}
	}
	return winner.SeatIndex, nil
}

func beats(c, against Card, ledSuit, trumpSuit Suit) bool {
	if c.Suit == trumpSuit && against.Suit != trumpSuit {
		return true
	}
	if c.Suit != trumpSuit && against.Suit == trumpSuit {
		return false
	}
	if c.Suit == against.Suit {
		return c.Order() > against.Order()
	}
	// Neither is trump and suits differ: only the led suit can win.
	return c.Suit == ledSuit
}

// PlayCard removes the card from the acting seat's hand and appends it to
// the current trick. A fourth card resolves the trick: the winner collects
// the cards, leads the next trick, and the round ends after the sixth trick
// or as soon as the early-termination rule fires.
func (g *GameState) PlayCard(seat int, card Card) error {
	if g.Phase != PhasePlaying {
		return fmt.Errorf("%w: play during %s", ErrWrongPhase, g.Phase)
	}
	if seat != g.CurrentPlayerIndex {
		return ErrNotYourTurn
	}
	p := g.Players[seat]
	if !containsCard(p.Hand, card) {
		return ErrCardNotHeld
	}
	if !CanPlayCard(card, p.Hand, g.CurrentTrick, g.TrumpSuit) {
		return ErrIllegalPlay
	}

	p.Hand, _ = removeCard(p.Hand, card)
	g.CurrentTrick = append(g.CurrentTrick, PlayedCard{Card: card, SeatIndex: seat})

	if len(g.CurrentTrick) < 4 {
		g.CurrentPlayerIndex = nextSeat(seat)
		return nil
	}

	winner, err := DetermineTrickWinner(g.CurrentTrick, g.TrumpSuit)
	if err != nil {
		return err
	}
	wp := g.Players[winner]
	for _, pc := range g.CurrentTrick {
		wp.TricksWon = append(wp.TricksWon, pc.Card)
	}
	g.LastTrick = g.CurrentTrick
	g.CurrentTrick = nil
	g.CurrentPlayerIndex = winner

	if g.TrickNumber >= TricksPerRound {
		g.finishRound(false)
		return nil
	}
	if g.roundDecided() {
		g.finishRound(true)
		return nil
	}
	g.TrickNumber++
	return nil
}

// settledRoundScores tallies only the categories no remaining play can take
// away: the Five and Jack once captured, High and Low once no better trump is
// left in any hand, and never Game. Ending a round on this tally means a
// still-contestable category can never decide a game.
func (g *GameState) settledRoundScores() *RoundResult {
	result := &RoundResult{TeamPoints: map[string]int{"team1": 0, "team2": 0}}

	highOrder, lowOrder := -1, 15
	for _, p := range g.Players {
		for _, c := range p.TricksWon {
			if c.Suit != g.TrumpSuit {
				continue
			}
			if c.Order() > highOrder {
				highOrder = c.Order()
				result.HighTeam = p.TeamID
			}
			if c.Order() < lowOrder {
				lowOrder = c.Order()
				result.LowTeam = p.TeamID
			}
			if c.Rank == "J" {
				result.JackTeam = p.TeamID
			}
			if c.Rank == "5" {
				result.FiveTeam = p.TeamID
			}
		}
	}
	for _, p := range g.Players {
		for _, c := range p.Hand {
			if c.Suit != g.TrumpSuit {
				continue
			}
			if c.Order() > highOrder {
				result.HighTeam = ""
			}
			if c.Order() < lowOrder {
				result.LowTeam = ""
			}
		}
	}

	if result.HighTeam != "" {
		result.TeamPoints[result.HighTeam]++
	}
	if result.LowTeam != "" {
		result.TeamPoints[result.LowTeam]++
	}
	if result.JackTeam != "" {
		result.TeamPoints[result.JackTeam]++
	}
	if result.FiveTeam != "" {
		result.TeamPoints[result.FiveTeam] += 5
	}
	return result
}

// roundDecided reports whether the remaining tricks can no longer change the
// outcome: the non-bidding team has already settled enough points to reach
// the target (they can never be set), or the bidding team has reached the
// target with their bid settled. Only settled categories count; a High
// credited while a higher trump is still in a hand decides nothing yet.
func (g *GameState) roundDecided() bool {
	settled := g.settledRoundScores()
	bidderTeam := g.Players[g.bidderSeat()].TeamID
	for _, t := range g.Teams {
		pts := settled.TeamPoints[t.ID]
		if t.Score+pts < g.TargetScore {
			continue
		}
		if t.ID != bidderTeam {
			return true
		}
		if pts >= g.HighBid {
			return true
		}
	}
	return false
}

// finishRound scores the round, applies the team deltas, and moves to
// scoring or, if a team has reached the target, game over. The set penalty
// only applies to a round played to completion: an early finish means either
// the non-bidding team already won outright, or the bidding team already
// made their bid. An early finish also awards only the settled categories,
// since the rest could still have gone either way.
func (g *GameState) finishRound(early bool) {
	result := g.CalculateRoundScores()
	if early {
		result = g.settledRoundScores()
	}
	bidderTeam := g.Players[g.bidderSeat()].TeamID
	result.BidderTeam = bidderTeam
	result.Bid = g.HighBid
	result.Deltas = map[string]int{}

	for _, t := range g.Teams {
		pts := result.TeamPoints[t.ID]
		delta := pts
		if !early && t.ID == bidderTeam && pts < g.HighBid {
			result.WasSet = true
			delta = -g.HighBid
		}
		result.Deltas[t.ID] = delta
		t.Score += delta
	}
	g.LastRound = result

	if g.CheckGameOver() {
		g.WinnerTeamID = g.winnerTeam(bidderTeam)
		g.Phase = PhaseGameOver
		return
	}
	g.Phase = PhaseScoring
}

// CheckGameOver reports whether any team has reached the target score.
func (g *GameState) CheckGameOver() bool {
	for _, t := range g.Teams {
		if t.Score >= g.TargetScore {
			return true
		}
	}
	return false
}

// winnerTeam picks the winning team once a target is reached. If both teams
// cross in the same round the bidding team goes out first.
func (g *GameState) winnerTeam(bidderTeam string) string {
	var over []*Team
	for _, t := range g.Teams {
		if t.Score >= g.TargetScore {
			over = append(over, t)
		}
	}
	if len(over) == 1 {
		return over[0].ID
	}
	return bidderTeam
}
