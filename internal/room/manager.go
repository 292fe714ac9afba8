package room

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"catch5/internal/config"
	"catch5/internal/game"
)

var ErrRoomNotFound = errors.New("room not found")

// Store is the registry backing: room code to live room. Implementations
// must be safe for concurrent use; it is the only structure shared across
// rooms.
type Store interface {
	GetRoom(code string) (*Room, bool)
	SaveRoom(r *Room)
	DeleteRoom(code string)
	Rooms() []*Room
}

// Manager creates, looks up and expires rooms.
type Manager struct {
	store Store
	stats StatsRecorder
	cfg   config.Config
	hub   Broadcaster
	log   *zap.SugaredLogger
}

func NewManager(s Store, stats StatsRecorder, cfg config.Config, log *zap.SugaredLogger) *Manager {
	return &Manager{
		store: s,
		stats: stats,
		cfg:   cfg,
		log:   log,
	}
}

// SetHub wires the broadcaster after construction; the hub needs the
// manager first.
func (m *Manager) SetHub(hub Broadcaster) {
	m.hub = hub
}

// CreateRoom allocates a fresh room with the creator in seat 0 and returns
// the room plus the creator's seat and reconnect token.
func (m *Manager) CreateRoom(creatorName, pin, deckColor string, targetScore int) (*Room, int, string) {
	if creatorName == "" {
		creatorName = "Player"
	}
	if targetScore <= 0 {
		targetScore = game.DefaultTargetScore
	}
	code := m.freshCode()
	r, token := newRoom(code, creatorName, pin, deckColor, targetScore, m.cfg, m.log, m.hub, m.stats)
	m.store.SaveRoom(r)
	m.log.Infow("room created", "room", code, "creator", creatorName, "target", targetScore)
	return r, 0, token
}

func (m *Manager) Get(code string) (*Room, bool) {
	return m.store.GetRoom(code)
}

// Remove tears a room down and drops it from the registry.
func (m *Manager) Remove(code string) {
	if r, ok := m.store.GetRoom(code); ok {
		r.Close()
		m.store.DeleteRoom(code)
		m.log.Infow("room removed", "room", code)
	}
}

// ExpireStale reaps rooms that have been empty past the grace period or idle
// past the TTL. Returns the number removed.
func (m *Manager) ExpireStale(now time.Time) int {
	n := 0
	for _, r := range m.store.Rooms() {
		if r.Expired(now) {
			m.Remove(r.Code())
			n++
		}
	}
	return n
}

// Janitor runs the expiry sweep until the context is cancelled.
func (m *Manager) Janitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := m.ExpireStale(now); n > 0 {
				m.log.Infow("expired rooms", "count", n)
			}
		}
	}
}

const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func (m *Manager) freshCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for {
		b := make([]byte, 6)
		for i := range b {
			b[i] = letters[rng.Intn(len(letters))]
		}
		if _, taken := m.store.GetRoom(string(b)); !taken {
			return string(b)
		}
	}
}
