package http

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"catch5/internal/room"
	"catch5/internal/store"
)

func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// PreviewHandler lets a prospective joiner see which seats are open before
// committing. Read-only; no seat is bound.
func PreviewHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		rx, ok := rm.Get(code)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"roomCode": rx.Code(),
			"started":  rx.Started(),
			"players":  rx.SeatSummaries(),
		})
	}
}

// LeaderboardHandler exposes the cross-session stats counters, most wins
// first.
func LeaderboardHandler(stats *store.MemoryStats) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows := stats.Leaderboard()
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Wins != rows[j].Wins {
				return rows[i].Wins > rows[j].Wins
			}
			return rows[i].GamesPlayed > rows[j].GamesPlayed
		})
		c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
	}
}
