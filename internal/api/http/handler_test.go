package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catch5/internal/config"
	"catch5/internal/room"
	"catch5/internal/store"
)

func testRouter(t *testing.T) (*gin.Engine, *room.Manager, *store.MemoryStats) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	stats := store.NewMemoryStats()
	rm := room.NewManager(store.NewMemoryStore(), stats, config.Config{}, zap.NewNop().Sugar())

	r := gin.New()
	r.GET("/health", HealthHandler())
	r.GET("/rooms/:code/preview", PreviewHandler(rm))
	r.GET("/leaderboard", LeaderboardHandler(stats))
	return r, rm, stats
}

func TestHealth(t *testing.T) {
	r, _, _ := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPreview(t *testing.T) {
	r, rm, _ := testRouter(t)
	rx, _, _ := rm.CreateRoom("alice", "", "red", 32)
	t.Cleanup(rx.Close)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/"+rx.Code()+"/preview", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		RoomCode string `json:"roomCode"`
		Started  bool   `json:"started"`
		Players  []struct {
			Name     string `json:"name"`
			Occupied bool   `json:"occupied"`
		} `json:"players"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.RoomCode != rx.Code() || body.Started {
		t.Fatalf("preview = %+v", body)
	}
	if len(body.Players) != 4 || !body.Players[0].Occupied || body.Players[0].Name != "alice" {
		t.Fatalf("players = %+v", body.Players)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/NOPE99/preview", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing room status = %d", w.Code)
	}
}

func TestLeaderboardSorted(t *testing.T) {
	r, _, stats := testRouter(t)
	stats.RecordGame("1111", true)
	stats.RecordGame("1111", true)
	stats.RecordGame("2222", true)
	stats.RecordGame("2222", false)
	stats.RecordGame("3333", false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Leaderboard []store.PlayerStats `json:"leaderboard"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Leaderboard) != 3 {
		t.Fatalf("%d rows", len(body.Leaderboard))
	}
	if body.Leaderboard[0].PIN != "1111" || body.Leaderboard[2].PIN != "3333" {
		t.Fatalf("order = %s, %s, %s", body.Leaderboard[0].PIN, body.Leaderboard[1].PIN, body.Leaderboard[2].PIN)
	}
}
