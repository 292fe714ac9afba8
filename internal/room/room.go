package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"catch5/internal/config"
	"catch5/internal/cpu"
	"catch5/internal/game"
)

var (
	ErrRoomFull      = errors.New("room is full")
	ErrRoomStarted   = errors.New("game already started")
	ErrRoomNotReady  = errors.New("room is not full")
	ErrNotHost       = errors.New("only the host can do that")
	ErrUnknownToken  = errors.New("unknown or stale player token")
	ErrSeatTaken     = errors.New("seat is taken")
	ErrSeatEmpty     = errors.New("seat is empty")
	ErrNotSeated     = errors.New("connection holds no seat in this room")
	ErrUnknownAction = errors.New("unknown action")
	ErrBadPayload    = errors.New("invalid action payload")
)

const maxChatLen = 280

// Seat is one of the four fixed positions. A seat is empty, held by a human
// behind a reconnect token, or occupied by a CPU.
type Seat struct {
	Occupied  bool
	IsCPU     bool
	Name      string
	PlayerID  string
	Token     string // reconnect token, bearer secret; empty for CPUs
	PIN       string // optional stats identity
	Connected bool
}

// ChatMessage is one entry in the bounded chat history.
type ChatMessage struct {
	From      string    `json:"from"`
	SeatIndex int       `json:"seatIndex"` // -1 for spectators
	Content   string    `json:"content"`
	ChatType  string    `json:"chatType"` // "text" or "emoji"
	SentAt    time.Time `json:"sentAt"`
}

// SeatSummary is the public view of one seat used in lobby messages.
type SeatSummary struct {
	SeatIndex int    `json:"seatIndex"`
	Name      string `json:"name,omitempty"`
	Occupied  bool   `json:"occupied"`
	IsCPU     bool   `json:"isCpu"`
	Connected bool   `json:"connected"`
	TeamID    string `json:"teamId"`
}

// Broadcaster fans an event out to every connection bound to a room.
type Broadcaster interface {
	Broadcast(roomCode string, event string, data interface{})
}

// StatsRecorder receives optional side-writes when rounds and games finish.
type StatsRecorder interface {
	RecordGame(pin string, won bool)
	RecordBid(pin string, made bool)
}

// Room owns the canonical state for one game. Every mutation runs under the
// room mutex, so actions within a room are totally ordered while distinct
// rooms stay independent.
type Room struct {
	code string

	mu         sync.Mutex
	seats      [4]Seat
	gameState  *game.GameState
	chat       []ChatMessage
	spectators map[string]struct{}
	hostSeat   int
	started    bool
	closed     bool

	deckColor   string
	targetScore int

	createdAt  time.Time
	lastActive time.Time

	// gen invalidates scheduled CPU moves and turn timeouts: a timer only
	// fires if the generation it captured is still current.
	gen   uint64
	timer *time.Timer

	cfg   config.Config
	rng   *rand.Rand
	log   *zap.SugaredLogger
	bcast Broadcaster
	stats StatsRecorder
}

func newRoom(code, creatorName, pin, deckColor string, targetScore int, cfg config.Config, log *zap.SugaredLogger, bcast Broadcaster, stats StatsRecorder) (*Room, string) {
	now := time.Now()
	r := &Room{
		code:        code,
		spectators:  map[string]struct{}{},
		hostSeat:    0,
		deckColor:   deckColor,
		targetScore: targetScore,
		createdAt:   now,
		lastActive:  now,
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(now.UnixNano())),
		log:         log.With("room", code),
		bcast:       bcast,
		stats:       stats,
	}
	token := uuid.NewString()
	r.seats[0] = Seat{
		Occupied:  true,
		Name:      creatorName,
		PlayerID:  uuid.NewString(),
		Token:     token,
		PIN:       pin,
		Connected: true,
	}
	return r, token
}

func (r *Room) Code() string { return r.code }

func (r *Room) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Close tears the room down and invalidates any scheduled timer.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
	}
}

// Expired reports whether the room should be reaped: nobody connected for
// the grace period, or no activity at all for the idle TTL.
func (r *Room) Expired(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	anyLive := len(r.spectators) > 0
	for _, s := range r.seats {
		if s.Occupied && !s.IsCPU && s.Connected {
			anyLive = true
		}
	}
	if !anyLive && now.Sub(r.lastActive) > r.cfg.EmptyRoomGrace {
		return true
	}
	return now.Sub(r.lastActive) > r.cfg.RoomIdleTTL
}

// --- seat lifecycle ---

// Join binds a new human to an open seat and issues that seat's reconnect
// token. Without a preference the first open seat is used. A taken preferred
// seat is an error, not a fallback: the client picked it from a preview, and
// seating the player somewhere they did not choose would silently change
// their team.
func (r *Room) Join(name, pin string, preferredSeat int) (int, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return -1, "", ErrRoomStarted
	}
	seat := -1
	if preferredSeat >= 0 && preferredSeat < 4 {
		if r.seats[preferredSeat].Occupied {
			return -1, "", ErrSeatTaken
		}
		seat = preferredSeat
	} else {
		for i := range r.seats {
			if !r.seats[i].Occupied {
				seat = i
				break
			}
		}
	}
	if seat == -1 {
		return -1, "", ErrRoomFull
	}
	token := uuid.NewString()
	r.seats[seat] = Seat{
		Occupied:  true,
		Name:      name,
		PlayerID:  uuid.NewString(),
		Token:     token,
		PIN:       pin,
		Connected: true,
	}
	r.touch()
	return seat, token, nil
}

// Rejoin reclaims the seat bound to a reconnect token. Game progress is
// untouched; the connection is simply rebound.
func (r *Room) Rejoin(token string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.seats {
		s := &r.seats[i]
		if s.Occupied && !s.IsCPU && s.Token == token {
			s.Connected = true
			r.touch()
			return i, nil
		}
	}
	return -1, ErrUnknownToken
}

// Disconnected marks a seat's connection as gone without vacating it. The
// seat keeps its place in turn order so a reconnect resumes exactly where
// play left off.
func (r *Room) Disconnected(seat int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seat < 0 || seat > 3 || !r.seats[seat].Occupied {
		return
	}
	r.seats[seat].Connected = false
	r.touch()
}

// Leave vacates a seat and revokes its token. Leaving mid-game hands the
// seat to a CPU so the other three can finish; leaving before the start
// simply empties it. Returns true when no humans remain seated.
func (r *Room) Leave(seat int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seat < 0 || seat > 3 || !r.seats[seat].Occupied {
		return r.noHumansLocked()
	}
	if r.started {
		name := r.seats[seat].Name + " (CPU)"
		r.seats[seat] = Seat{Occupied: true, IsCPU: true, Name: name, PlayerID: r.seats[seat].PlayerID}
		if r.gameState != nil {
			r.gameState.Players[seat].IsHuman = false
		}
		r.scheduleNextLocked()
	} else {
		r.seats[seat] = Seat{}
		if seat == r.hostSeat {
			r.transferHostLocked()
		}
	}
	r.touch()
	return r.noHumansLocked()
}

func (r *Room) noHumansLocked() bool {
	for _, s := range r.seats {
		if s.Occupied && !s.IsCPU {
			return false
		}
	}
	return true
}

func (r *Room) transferHostLocked() {
	for i, s := range r.seats {
		if s.Occupied && !s.IsCPU {
			r.hostSeat = i
			return
		}
	}
}

// Spectate registers a read-only viewer.
func (r *Room) Spectate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spectators[id] = struct{}{}
	r.touch()
}

func (r *Room) DropSpectator(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.spectators, id)
}

// --- lobby seat management (host only, before the game starts) ---

func (r *Room) hostGuard(bySeat int) error {
	if r.started {
		return ErrRoomStarted
	}
	if bySeat != r.hostSeat {
		return ErrNotHost
	}
	return nil
}

func (r *Room) AddCPU(bySeat, target int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hostGuard(bySeat); err != nil {
		return err
	}
	if target < 0 || target > 3 || r.seats[target].Occupied {
		return ErrSeatTaken
	}
	r.seats[target] = Seat{
		Occupied: true,
		IsCPU:    true,
		Name:     cpuName(target),
		PlayerID: "cpu-" + uuid.NewString(),
	}
	r.touch()
	return nil
}

func (r *Room) RemoveCPU(bySeat, target int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hostGuard(bySeat); err != nil {
		return err
	}
	if target < 0 || target > 3 || !r.seats[target].Occupied || !r.seats[target].IsCPU {
		return ErrSeatEmpty
	}
	r.seats[target] = Seat{}
	r.touch()
	return nil
}

func (r *Room) SwapSeats(bySeat, a, b int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hostGuard(bySeat); err != nil {
		return err
	}
	if a < 0 || a > 3 || b < 0 || b > 3 || a == b {
		return ErrBadPayload
	}
	r.seats[a], r.seats[b] = r.seats[b], r.seats[a]
	if r.hostSeat == a {
		r.hostSeat = b
	} else if r.hostSeat == b {
		r.hostSeat = a
	}
	r.touch()
	return nil
}

func (r *Room) RandomizeTeams(bySeat int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hostGuard(bySeat); err != nil {
		return err
	}
	r.rng.Shuffle(4, func(i, j int) {
		r.seats[i], r.seats[j] = r.seats[j], r.seats[i]
		if r.hostSeat == i {
			r.hostSeat = j
		} else if r.hostSeat == j {
			r.hostSeat = i
		}
	})
	r.touch()
	return nil
}

var cpuNames = []string{"Ada", "Grace", "Alan", "Edsger"}

func cpuName(seat int) string {
	return cpuNames[seat%len(cpuNames)] + " (CPU)"
}

// --- game flow ---

// StartGame builds the game state from the seated players, runs the dealer
// draw and the first deal, and begins scheduling turns.
func (r *Room) StartGame(bySeat int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrRoomStarted
	}
	if bySeat != r.hostSeat {
		return ErrNotHost
	}
	for _, s := range r.seats {
		if !s.Occupied {
			return ErrRoomNotReady
		}
	}

	players := make([]*game.Player, 4)
	for i, s := range r.seats {
		players[i] = &game.Player{ID: s.PlayerID, Name: s.Name, IsHuman: !s.IsCPU}
	}
	g := game.NewGameState(players, r.targetScore)
	if err := g.DrawForDealer(r.rng); err != nil {
		return err
	}
	if err := g.DealCards(r.rng); err != nil {
		return err
	}
	r.gameState = g
	r.started = true
	r.touch()
	r.afterMutationLocked()
	return nil
}

// HandleAction dispatches one player_action envelope for a seated player.
// Turn gating happens here and again inside the rules engine; spectators
// never reach this path.
func (r *Room) HandleAction(seat int, action string, data json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gameState == nil {
		return game.ErrWrongPhase
	}
	g := r.gameState

	var err error
	switch action {
	case "bid":
		var p struct {
			Amount int `json:"amount"`
		}
		if err = json.Unmarshal(data, &p); err != nil {
			return ErrBadPayload
		}
		if err = g.ValidateBid(seat, p.Amount); err != nil {
			return err
		}
		err = g.ProcessBid(seat, p.Amount)

	case "select_trump":
		var p struct {
			Suit game.Suit `json:"suit"`
		}
		if err = json.Unmarshal(data, &p); err != nil {
			return ErrBadPayload
		}
		err = g.SelectTrump(seat, p.Suit)

	case "purge_draw_complete":
		if seat != g.CurrentPlayerIndex {
			return game.ErrNotYourTurn
		}
		err = g.PerformPurgeAndDraw(r.rng, r.autoReduce)

	case "discard_trump":
		var p struct {
			Card game.Card `json:"card"`
		}
		if err = json.Unmarshal(data, &p); err != nil {
			return ErrBadPayload
		}
		err = g.DiscardTrumpCard(seat, p.Card, r.rng)

	case "play_card":
		var p struct {
			Card game.Card `json:"card"`
		}
		if err = json.Unmarshal(data, &p); err != nil {
			return ErrBadPayload
		}
		if err = g.PlayCard(seat, p.Card); err == nil {
			r.afterRoundLocked()
		}

	case "continue":
		err = r.continueLocked(seat)

	case "sort_hand":
		game.SortHand(g.Players[seat].Hand)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err != nil {
		return err
	}
	r.touch()
	r.afterMutationLocked()
	return nil
}

// continueLocked advances out of a summary phase: scoring rolls into the
// next deal, game over starts a fresh game. Any human seat may drive it;
// repeats fail the phase check and are harmless.
func (r *Room) continueLocked(seat int) error {
	if r.seats[seat].IsCPU {
		return ErrNotSeated
	}
	g := r.gameState
	switch g.Phase {
	case game.PhaseScoring:
		return g.StartNextRound(r.rng)
	case game.PhaseGameOver:
		return g.ResetForNewGame(r.rng)
	default:
		return game.ErrWrongPhase
	}
}

// autoReduce tells the purge step whether a seat's oversized trump holding
// may be reduced automatically. CPU seats always are; humans choose.
func (r *Room) autoReduce(seat int) bool {
	return r.seats[seat].IsCPU
}

// afterRoundLocked handles round/game boundaries reached by the last play:
// stats side-writes and the optional auto-claim shortcut.
func (r *Room) afterRoundLocked() {
	g := r.gameState
	switch g.Phase {
	case game.PhasePlaying:
		if r.cfg.AutoClaim {
			r.tryAutoClaimLocked()
		}
	case game.PhaseScoring, game.PhaseGameOver:
		r.recordRoundStatsLocked()
		if g.Phase == game.PhaseGameOver {
			r.recordGameStatsLocked()
		}
	}
}

func (r *Room) recordRoundStatsLocked() {
	if r.stats == nil || r.gameState.LastRound == nil {
		return
	}
	res := r.gameState.LastRound
	bidderSeat := r.gameState.SeatOf(r.gameState.BidderID)
	if bidderSeat < 0 {
		return
	}
	if pin := r.seats[bidderSeat].PIN; pin != "" {
		r.stats.RecordBid(pin, !res.WasSet)
	}
}

func (r *Room) recordGameStatsLocked() {
	if r.stats == nil {
		return
	}
	winner := r.gameState.WinnerTeamID
	for i, s := range r.seats {
		if s.PIN == "" {
			continue
		}
		r.stats.RecordGame(s.PIN, r.gameState.Players[i].TeamID == winner)
	}
}

// tryAutoClaimLocked awards the remaining tricks when the seat on lead holds
// nothing but trump and every trump still in play. The tricks are pushed
// through the normal resolver so scoring matches playing them out.
func (r *Room) tryAutoClaimLocked() {
	g := r.gameState
	if len(g.CurrentTrick) != 0 {
		return
	}
	leader := g.CurrentPlayerIndex
	for _, c := range g.Players[leader].Hand {
		if c.Suit != g.TrumpSuit {
			return
		}
	}
	if len(g.Players[leader].Hand) == 0 {
		return
	}
	for i, p := range g.Players {
		if i == leader {
			continue
		}
		for _, c := range p.Hand {
			if c.Suit == g.TrumpSuit {
				return
			}
		}
	}
	for g.Phase == game.PhasePlaying {
		seat := g.CurrentPlayerIndex
		legal := game.LegalPlays(g.Players[seat].Hand, g.CurrentTrick, g.TrumpSuit)
		if len(legal) == 0 {
			r.log.Errorw("auto-claim found no legal play", "seat", seat)
			return
		}
		if err := g.PlayCard(seat, legal[0]); err != nil {
			r.log.Errorw("auto-claim play rejected", "seat", seat, "err", err)
			return
		}
	}
	r.afterRoundLocked()
}

// --- chat ---

// Chat appends a message to the bounded history and broadcasts it. Chat has
// no game-state effect and no legality constraints beyond length.
func (r *Room) Chat(from string, seat int, content, chatType string) error {
	if content == "" || len(content) > maxChatLen {
		return ErrBadPayload
	}
	if chatType != "emoji" {
		chatType = "text"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := ChatMessage{From: from, SeatIndex: seat, Content: content, ChatType: chatType, SentAt: time.Now()}
	r.chat = append(r.chat, msg)
	if max := r.cfg.ChatHistory; max > 0 && len(r.chat) > max {
		r.chat = r.chat[len(r.chat)-max:]
	}
	r.touch()
	r.bcast.Broadcast(r.code, "chat_message", map[string]interface{}{"message": msg})
	return nil
}

// ChatHistory returns a copy of the retained chat, replayed on rejoin.
func (r *Room) ChatHistory() []ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ChatMessage(nil), r.chat...)
}

// --- snapshots ---

// SeatSummaries is the players[] payload used by lobby/seat events.
func (r *Room) SeatSummaries() []SeatSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seatSummariesLocked()
}

func (r *Room) seatSummariesLocked() []SeatSummary {
	out := make([]SeatSummary, 4)
	for i, s := range r.seats {
		team := "team1"
		if i%2 == 1 {
			team = "team2"
		}
		out[i] = SeatSummary{
			SeatIndex: i,
			Name:      s.Name,
			Occupied:  s.Occupied,
			IsCPU:     s.IsCPU,
			Connected: s.Connected,
			TeamID:    team,
		}
	}
	return out
}

// Snapshot is the full-state payload for game_state broadcasts and join
// replies. The game state is frozen to JSON while the room lock is held, so
// callers may marshal the result after the lock is gone without racing later
// mutations.
func (r *Room) Snapshot() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() map[string]interface{} {
	state, err := json.Marshal(r.gameState)
	if err != nil {
		r.log.Errorw("snapshot marshal failed", "err", err)
		state = []byte("null")
	}
	return map[string]interface{}{
		"gameState": json.RawMessage(state),
		"players":   r.seatSummariesLocked(),
		"deckColor": r.deckColor,
		"hostSeat":  r.hostSeat,
	}
}

// BroadcastSeats pushes a seats_updated event, used after lobby changes.
func (r *Room) BroadcastSeats() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bcast.Broadcast(r.code, "seats_updated", map[string]interface{}{"players": r.seatSummariesLocked()})
}

func (r *Room) touch() {
	r.lastActive = time.Now()
}

// --- scheduling ---

// afterMutationLocked broadcasts the new state and schedules whatever the
// state now waits on: a CPU move after a thinking delay, or a turn timeout
// for a human.
func (r *Room) afterMutationLocked() {
	r.bcast.Broadcast(r.code, "game_state", r.snapshotLocked())
	r.scheduleNextLocked()
}

func (r *Room) scheduleNextLocked() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.closed || r.gameState == nil {
		return
	}
	g := r.gameState
	switch g.Phase {
	case game.PhaseBidding, game.PhaseTrumpSelection, game.PhasePurgeDraw, game.PhaseDiscardTrump, game.PhasePlaying:
	default:
		return
	}

	seat := g.CurrentPlayerIndex
	gen := r.gen
	if r.seats[seat].IsCPU {
		delay := r.cfg.CPUDelayMin
		if spread := r.cfg.CPUDelayMax - r.cfg.CPUDelayMin; spread > 0 {
			delay += time.Duration(r.rng.Int63n(int64(spread)))
		}
		r.timer = time.AfterFunc(delay, func() { r.cpuTurn(gen) })
		return
	}
	r.timer = time.AfterFunc(r.cfg.TurnTimeout, func() { r.turnTimeout(gen) })
}

// cpuTurn applies a scheduled CPU action through the same rules entry points
// a human action uses. A stale generation means the state it was scheduled
// against is gone, so the move is discarded.
func (r *Room) cpuTurn(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || r.closed || r.gameState == nil {
		return
	}
	g := r.gameState
	seat := g.CurrentPlayerIndex
	if !r.seats[seat].IsCPU {
		return
	}

	tuning := cpu.Tuning{
		BidSix:        r.cfg.BidSix,
		BidSeven:      r.cfg.BidSeven,
		BidEight:      r.cfg.BidEight,
		BidNine:       r.cfg.BidNine,
		StretchChance: r.cfg.StretchChance,
	}

	var err error
	switch g.Phase {
	case game.PhaseBidding:
		amount := cpu.ChooseBid(g.Players[seat].Hand, g.HighBid, seat == g.DealerIndex, tuning, r.rng)
		err = g.ProcessBid(seat, amount)
	case game.PhaseTrumpSelection:
		err = g.SelectTrump(seat, cpu.ChooseTrump(g.Players[seat].Hand))
	case game.PhasePurgeDraw:
		err = g.PerformPurgeAndDraw(r.rng, r.autoReduce)
	case game.PhaseDiscardTrump:
		err = g.DiscardTrumpCard(seat, cpu.ChooseDiscard(g.Players[seat].Hand, g.TrumpSuit), r.rng)
	case game.PhasePlaying:
		if err = g.PlayCard(seat, cpu.ChooseCard(g, seat)); err == nil {
			r.afterRoundLocked()
		}
	default:
		return
	}
	if err != nil {
		r.log.Errorw("cpu action rejected", "seat", seat, "phase", g.Phase, "err", err)
		return
	}
	r.touch()
	r.afterMutationLocked()
}

// turnTimeout applies the deterministic default for an unresponsive human:
// auto-pass in bidding, the first legal card in play, and the engine's
// automatic choices elsewhere, so the game can never stall.
func (r *Room) turnTimeout(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || r.closed || r.gameState == nil {
		return
	}
	g := r.gameState
	seat := g.CurrentPlayerIndex

	var err error
	switch g.Phase {
	case game.PhaseBidding:
		err = g.ProcessBid(seat, 0)
	case game.PhaseTrumpSelection:
		err = g.SelectTrump(seat, cpu.ChooseTrump(g.Players[seat].Hand))
	case game.PhasePurgeDraw:
		err = g.PerformPurgeAndDraw(r.rng, r.autoReduce)
	case game.PhaseDiscardTrump:
		err = g.DiscardTrumpCard(seat, cpu.ChooseDiscard(g.Players[seat].Hand, g.TrumpSuit), r.rng)
	case game.PhasePlaying:
		legal := game.LegalPlays(g.Players[seat].Hand, g.CurrentTrick, g.TrumpSuit)
		if len(legal) == 0 {
			r.log.Errorw("timeout with no legal play", "seat", seat)
			return
		}
		if err = g.PlayCard(seat, legal[0]); err == nil {
			r.afterRoundLocked()
		}
	default:
		return
	}
	if err != nil {
		r.log.Errorw("timeout action rejected", "seat", seat, "phase", g.Phase, "err", err)
		return
	}
	r.log.Infow("turn timed out", "seat", seat, "phase", g.Phase)
	r.touch()
	r.afterMutationLocked()
}
