package game

import "errors"

// Phase represents the game phase.
type Phase string

const (
	PhaseSetup          Phase = "setup"
	PhaseDealerDraw     Phase = "dealer-draw"
	PhaseDealing        Phase = "dealing"
	PhaseBidding        Phase = "bidding"
	PhaseTrumpSelection Phase = "trump-selection"
	PhasePurgeDraw      Phase = "purge-draw"
	PhaseDiscardTrump   Phase = "discard-trump"
	PhasePlaying        Phase = "playing"
	PhaseScoring        Phase = "scoring"
	PhaseGameOver       Phase = "game-over"
)

const (
	MinBid             = 5
	MaxBid             = 9
	DealtCards         = 9
	HandSize           = 6
	TricksPerRound     = 6
	DefaultTargetScore = 32
)

var (
	ErrWrongPhase  = errors.New("action not valid in current phase")
	ErrNotYourTurn = errors.New("not your turn")
	ErrCardNotHeld = errors.New("card not in hand")
	ErrIllegalBid  = errors.New("bid must exceed the current high bid")
	ErrIllegalPlay = errors.New("must follow suit or play trump")
)

// Player occupies one of the four seats.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsHuman   bool   `json:"isHuman"`
	TeamID    string `json:"teamId"`
	Hand      []Card `json:"hand"`
	Bid       *int   `json:"bid"`
	TricksWon []Card `json:"tricksWon"`
}

// Team holds the cumulative score for a pair of seats (0&2 vs 1&3).
type Team struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// PlayedCard pairs a card with the seat that played it.
type PlayedCard struct {
	Card      Card `json:"card"`
	SeatIndex int  `json:"seatIndex"`
}

// RoundResult is the scoring breakdown shown after a round.
type RoundResult struct {
	HighTeam   string         `json:"highTeam,omitempty"`
	LowTeam    string         `json:"lowTeam,omitempty"`
	JackTeam   string         `json:"jackTeam,omitempty"`
	FiveTeam   string         `json:"fiveTeam,omitempty"`
	GameTeam   string         `json:"gameTeam,omitempty"` // empty on tie
	TeamPoints map[string]int `json:"teamPoints"`
	BidderTeam string         `json:"bidderTeam"`
	Bid        int            `json:"bid"`
	WasSet     bool           `json:"wasSet"`
	Deltas     map[string]int `json:"deltas"`
}

// GameState is the single authoritative aggregate owned by a room. All
// mutation goes through the rules functions in this package; the room
// serializes access.
type GameState struct {
	Phase              Phase        `json:"phase"`
	Players            []*Player    `json:"players"`
	Teams              []*Team      `json:"teams"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	DealerIndex        int          `json:"dealerIndex"`
	TrumpSuit          Suit         `json:"trumpSuit,omitempty"`
	HighBid            int          `json:"highBid"`
	BidderID           string       `json:"bidderId,omitempty"`
	CurrentTrick       []PlayedCard `json:"currentTrick"`
	LastTrick          []PlayedCard `json:"lastTrick,omitempty"`
	TrickNumber        int          `json:"trickNumber"`
	Stock              []Card       `json:"stock"`
	DiscardPile        []Card       `json:"discardPile"`
	SleptCards         []Card       `json:"sleptCards,omitempty"`
	TargetScore        int          `json:"targetScore"`
	DealerDrawCards    []PlayedCard `json:"dealerDrawCards,omitempty"`
	// PendingDiscards lists seats that still hold more than HandSize trump
	// cards and must choose discards, in acting order.
	PendingDiscards []int        `json:"pendingDiscards,omitempty"`
	LastRound       *RoundResult `json:"lastRound,omitempty"`
	WinnerTeamID    string       `json:"winnerTeamId,omitempty"`
}

// NewGameState builds the setup-phase state for four seated players.
// Seats 0&2 form team1, seats 1&3 form team2.
func NewGameState(players []*Player, targetScore int) *GameState {
	if targetScore <= 0 {
		targetScore = DefaultTargetScore
	}
	for i, p := range players {
		if i%2 == 0 {
			p.TeamID = "team1"
		} else {
			p.TeamID = "team2"
		}
	}
	return &GameState{
		Phase:       PhaseSetup,
		Players:     players,
		Teams:       []*Team{{ID: "team1"}, {ID: "team2"}},
		TargetScore: targetScore,
	}
}

// PlayerBySeat returns the player at the given seat index.
func (g *GameState) PlayerBySeat(seat int) *Player {
	return g.Players[seat]
}

// SeatOf returns the seat index for a player id, or -1.
func (g *GameState) SeatOf(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (g *GameState) team(id string) *Team {
	for _, t := range g.Teams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (g *GameState) bidderSeat() int {
	return g.SeatOf(g.BidderID)
}

func nextSeat(seat int) int {
	return (seat + 1) % 4
}
