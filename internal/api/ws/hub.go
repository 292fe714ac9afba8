package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"catch5/internal/game"
	"catch5/internal/room"
)

// envelope is the wire format in both directions.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Hub terminates websocket connections, resolves their identity, routes
// player actions to rooms, and fans room broadcasts back out. It is the sole
// translator between internal failures and client-visible error messages.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	manager *room.Manager
	log     *zap.SugaredLogger
}

func NewHub(manager *room.Manager, log *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		manager: manager,
		log:     log,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWS upgrades the connection and runs its read loop. The client is
// unbound until it sends a create or join request.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("upgrade failed", "err", err)
		return
	}
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		id:   uuid.NewString(),
		seat: -1,
	}
	go client.writePump()
	h.readLoop(client)
}

func (h *Hub) readLoop(c *Client) {
	defer h.unregister(c)
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			h.sendError(c, "malformed message", false)
			continue
		}
		h.dispatch(c, env)
	}
}

func (h *Hub) dispatch(c *Client, env envelope) {
	switch env.Type {
	case "ping":
		h.sendTo(c, "pong", nil)
	case "create_room":
		h.handleCreate(c, env.Data)
	case "join_room":
		h.handleJoin(c, env.Data)
	case "preview_room":
		h.handlePreview(c, env.Data)
	case "start_game":
		h.withSeat(c, func(r *room.Room) error { return r.StartGame(c.seat) })
	case "player_action":
		h.handleAction(c, env.Data)
	case "leave_room":
		h.handleLeave(c)
	case "add_cpu":
		h.handleSeatOp(c, env.Data, func(r *room.Room, p seatPayload) error {
			return r.AddCPU(c.seat, p.SeatIndex)
		})
	case "remove_cpu":
		h.handleSeatOp(c, env.Data, func(r *room.Room, p seatPayload) error {
			return r.RemoveCPU(c.seat, p.SeatIndex)
		})
	case "swap_seats":
		h.handleSwap(c, env.Data)
	case "randomize_teams":
		h.withSeat(c, func(r *room.Room) error {
			if err := r.RandomizeTeams(c.seat); err != nil {
				return err
			}
			r.BroadcastSeats()
			return nil
		})
	case "send_chat":
		h.handleChat(c, env.Data)
	default:
		h.sendError(c, "unknown message type", false)
	}
}

func (h *Hub) handleCreate(c *Client, data json.RawMessage) {
	var p struct {
		PlayerName  string `json:"playerName"`
		PIN         string `json:"pin"`
		DeckColor   string `json:"deckColor"`
		TargetScore int    `json:"targetScore"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		h.sendError(c, "invalid create_room payload", false)
		return
	}
	if c.bound() || c.spectator {
		h.sendError(c, "already in a room", false)
		return
	}
	r, seat, token := h.manager.CreateRoom(p.PlayerName, p.PIN, p.DeckColor, p.TargetScore)
	h.register(c, r.Code(), seat, false)
	h.sendTo(c, "room_created", gin.H{
		"roomCode":    r.Code(),
		"playerToken": token,
		"seatIndex":   seat,
		"players":     r.SeatSummaries(),
	})
}

func (h *Hub) handleJoin(c *Client, data json.RawMessage) {
	var p struct {
		RoomCode      string `json:"roomCode"`
		PlayerName    string `json:"playerName"`
		PlayerToken   string `json:"playerToken"`
		PreferredSeat *int   `json:"preferredSeat"`
		Spectate      bool   `json:"spectate"`
		PIN           string `json:"pin"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		h.sendError(c, "invalid join_room payload", false)
		return
	}
	// A connection holds at most one binding; joining elsewhere requires an
	// explicit leave first, or the old room would keep this connection in its
	// fan-out set with the seat marked connected.
	if c.bound() || c.spectator {
		h.sendError(c, "already in a room", false)
		return
	}
	r, ok := h.manager.Get(p.RoomCode)
	if !ok {
		// A presented token for a dead room is a stale credential.
		h.sendError(c, "room not found", p.PlayerToken != "")
		return
	}

	if p.PlayerToken != "" {
		seat, err := r.Rejoin(p.PlayerToken)
		if err != nil {
			h.sendError(c, "session expired", true)
			return
		}
		h.register(c, r.Code(), seat, false)
		h.sendTo(c, "rejoined", gin.H{
			"roomCode":    r.Code(),
			"playerToken": p.PlayerToken,
			"seatIndex":   seat,
			"players":     r.SeatSummaries(),
			"gameState":   r.Snapshot(),
			"chat":        r.ChatHistory(),
		})
		h.broadcast(r.Code(), "player_reconnected", gin.H{"players": r.SeatSummaries()})
		return
	}

	if p.Spectate {
		r.Spectate(c.id)
		h.register(c, r.Code(), -1, true)
		h.sendTo(c, "joined", gin.H{
			"roomCode":  r.Code(),
			"spectator": true,
			"players":   r.SeatSummaries(),
			"gameState": r.Snapshot(),
			"chat":      r.ChatHistory(),
		})
		return
	}

	preferred := -1
	if p.PreferredSeat != nil {
		preferred = *p.PreferredSeat
	}
	seat, token, err := r.Join(p.PlayerName, p.PIN, preferred)
	if err != nil {
		h.roomError(c, err)
		return
	}
	h.register(c, r.Code(), seat, false)
	h.sendTo(c, "joined", gin.H{
		"roomCode":    r.Code(),
		"playerToken": token,
		"seatIndex":   seat,
		"players":     r.SeatSummaries(),
		"chat":        r.ChatHistory(),
	})
	h.broadcast(r.Code(), "player_joined", gin.H{"players": r.SeatSummaries()})
}

func (h *Hub) handlePreview(c *Client, data json.RawMessage) {
	var p struct {
		RoomCode string `json:"roomCode"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		h.sendError(c, "invalid preview_room payload", false)
		return
	}
	r, ok := h.manager.Get(p.RoomCode)
	if !ok {
		h.sendError(c, "room not found", false)
		return
	}
	h.sendTo(c, "room_preview", gin.H{
		"roomCode": r.Code(),
		"started":  r.Started(),
		"players":  r.SeatSummaries(),
	})
}

func (h *Hub) handleAction(c *Client, data json.RawMessage) {
	var p struct {
		Action string          `json:"action"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		h.sendError(c, "invalid player_action payload", false)
		return
	}
	h.withSeat(c, func(r *room.Room) error {
		return r.HandleAction(c.seat, p.Action, p.Data)
	})
}

func (h *Hub) handleLeave(c *Client) {
	if c.roomCode == "" {
		h.sendError(c, "not in a room", false)
		return
	}
	r, ok := h.manager.Get(c.roomCode)
	if ok {
		if c.spectator {
			r.DropSpectator(c.id)
		} else if empty := r.Leave(c.seat); empty && !r.Started() {
			h.manager.Remove(r.Code())
		}
		if _, still := h.manager.Get(c.roomCode); still {
			h.broadcast(c.roomCode, "seats_updated", gin.H{"players": r.SeatSummaries()})
		}
	}
	h.deregister(c)
	h.sendTo(c, "left", gin.H{})
}

type seatPayload struct {
	SeatIndex int `json:"seatIndex"`
}

func (h *Hub) handleSeatOp(c *Client, data json.RawMessage, op func(*room.Room, seatPayload) error) {
	var p seatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.sendError(c, "invalid payload", false)
		return
	}
	h.withSeat(c, func(r *room.Room) error {
		if err := op(r, p); err != nil {
			return err
		}
		r.BroadcastSeats()
		return nil
	})
}

func (h *Hub) handleSwap(c *Client, data json.RawMessage) {
	var p struct {
		Seat1 int `json:"seat1"`
		Seat2 int `json:"seat2"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		h.sendError(c, "invalid swap_seats payload", false)
		return
	}
	h.withSeat(c, func(r *room.Room) error {
		if err := r.SwapSeats(c.seat, p.Seat1, p.Seat2); err != nil {
			return err
		}
		r.BroadcastSeats()
		return nil
	})
}

func (h *Hub) handleChat(c *Client, data json.RawMessage) {
	var p struct {
		Content  string `json:"content"`
		ChatType string `json:"chatType"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		h.sendError(c, "invalid send_chat payload", false)
		return
	}
	if c.roomCode == "" {
		h.sendError(c, "not in a room", false)
		return
	}
	r, ok := h.manager.Get(c.roomCode)
	if !ok {
		h.sendError(c, "room unavailable", true)
		return
	}
	from := "spectator"
	if c.seat >= 0 {
		from = r.SeatSummaries()[c.seat].Name
	}
	if err := r.Chat(from, c.seat, p.Content, p.ChatType); err != nil {
		h.roomError(c, err)
	}
}

// withSeat runs op against the client's bound room, translating failures
// into error replies for the sender only.
func (h *Hub) withSeat(c *Client, op func(*room.Room) error) {
	if !c.bound() {
		h.sendError(c, "no seat held in any room", false)
		return
	}
	r, ok := h.manager.Get(c.roomCode)
	if !ok {
		h.sendError(c, "room unavailable", true)
		return
	}
	if err := op(r); err != nil {
		h.roomError(c, err)
	}
}

// roomError maps internal errors onto the client-visible taxonomy. Illegal
// moves and protocol errors go to the sender only; stale-session errors also
// tell the client to drop its stored credential.
func (h *Hub) roomError(c *Client, err error) {
	clear := errors.Is(err, room.ErrUnknownToken) || errors.Is(err, room.ErrRoomNotFound)
	switch {
	case errors.Is(err, game.ErrIllegalPlay):
		h.sendError(c, "must follow suit or play trump", false)
	case errors.Is(err, game.ErrIllegalBid):
		h.sendError(c, err.Error(), false)
	default:
		h.sendError(c, err.Error(), clear)
	}
}

// --- registry / fan-out ---

func (h *Hub) register(c *Client, code string, seat int, spectator bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.roomCode = code
	c.seat = seat
	c.spectator = spectator
	if _, ok := h.rooms[code]; !ok {
		h.rooms[code] = make(map[*Client]struct{})
	}
	h.rooms[code][c] = struct{}{}
}

func (h *Hub) deregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.roomCode != "" {
		if conns, ok := h.rooms[c.roomCode]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.rooms, c.roomCode)
			}
		}
	}
	c.roomCode = ""
	c.seat = -1
	c.spectator = false
}

// unregister handles a dropped connection: the seat is marked disconnected
// but never vacated, so the player's turn-order position survives for a
// reconnect.
func (h *Hub) unregister(c *Client) {
	code, seat, spectator := c.roomCode, c.seat, c.spectator
	h.deregister(c)
	close(c.send)

	if code == "" {
		return
	}
	r, ok := h.manager.Get(code)
	if !ok {
		return
	}
	if spectator {
		r.DropSpectator(c.id)
		return
	}
	if seat >= 0 {
		r.Disconnected(seat)
		h.broadcast(code, "player_disconnected", gin.H{"players": r.SeatSummaries()})
	}
}

// Broadcast implements room.Broadcaster. Marshalling happens once; slow
// clients are dropped rather than allowed to block the room.
func (h *Hub) Broadcast(roomCode string, event string, data interface{}) {
	h.broadcast(roomCode, event, data)
}

func (h *Hub) broadcast(roomCode, event string, data interface{}) {
	payload, err := json.Marshal(gin.H{"type": event, "data": data})
	if err != nil {
		h.log.Errorw("broadcast marshal failed", "event", event, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomCode] {
		select {
		case c.send <- payload:
		default:
			h.log.Warnw("dropping slow client", "room", roomCode)
			c.conn.Close()
		}
	}
}

func (h *Hub) sendTo(c *Client, event string, data interface{}) {
	payload, err := json.Marshal(gin.H{"type": event, "data": data})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.conn.Close()
	}
}

func (h *Hub) sendError(c *Client, msg string, clearSession bool) {
	data := gin.H{"message": msg}
	if clearSession {
		data["clearSession"] = true
	}
	h.sendTo(c, "error", data)
}
