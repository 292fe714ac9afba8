package store

import "sync"

// PlayerStats are the cross-session counters kept per out-of-band player
// identity (PIN). They are side-writes only; nothing in the game depends on
// them.
type PlayerStats struct {
	PIN         string `json:"pin"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	BidsTaken   int    `json:"bidsTaken"`
	BidsMade    int    `json:"bidsMade"`
	RoundsSet   int    `json:"roundsSet"`
	GamesPlayed int    `json:"gamesPlayed"`
}

// MemoryStats is the in-memory stats store.
type MemoryStats struct {
	mu    sync.RWMutex
	stats map[string]*PlayerStats
}

func NewMemoryStats() *MemoryStats {
	return &MemoryStats{stats: map[string]*PlayerStats{}}
}

func (m *MemoryStats) get(pin string) *PlayerStats {
	s, ok := m.stats[pin]
	if !ok {
		s = &PlayerStats{PIN: pin}
		m.stats[pin] = s
	}
	return s
}

// RecordGame records one finished game for a PIN.
func (m *MemoryStats) RecordGame(pin string, won bool) {
	if pin == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.get(pin)
	s.GamesPlayed++
	if won {
		s.Wins++
	} else {
		s.Losses++
	}
}

// RecordBid records one bid outcome for a PIN.
func (m *MemoryStats) RecordBid(pin string, made bool) {
	if pin == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.get(pin)
	s.BidsTaken++
	if made {
		s.BidsMade++
	} else {
		s.RoundsSet++
	}
}

// Leaderboard returns a copy of every tracked player's stats.
func (m *MemoryStats) Leaderboard() []PlayerStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PlayerStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, *s)
	}
	return out
}
