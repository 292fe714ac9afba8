package game

// CalculateRoundScores awards the five scoring categories over the cards
// captured so far: one point each for High (highest trump captured), Low
// (lowest trump captured) and the Jack of trump, five points for the Five of
// trump, and one point for Game (highest card-point total, unawarded on an
// exact tie). Set-penalty accounting is applied by the caller.
func (g *GameState) CalculateRoundScores() *RoundResult {
	result := &RoundResult{TeamPoints: map[string]int{"team1": 0, "team2": 0}}

	highOrder, lowOrder := -1, 15
	gameTotals := map[string]int{"team1": 0, "team2": 0}

	for _, p := range g.Players {
		for _, c := range p.TricksWon {
			gameTotals[p.TeamID] += c.GamePoints()
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
	switch {
	case gameTotals["team1"] > gameTotals["team2"]:
		result.GameTeam = "team1"
	case gameTotals["team2"] > gameTotals["team1"]:
		result.GameTeam = "team2"
	}
	if result.GameTeam != "" {
		result.TeamPoints[result.GameTeam]++
	}
	return result
}
