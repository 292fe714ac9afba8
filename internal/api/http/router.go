package http

import (
	"github.com/gin-gonic/gin"

	"catch5/internal/api/ws"
	"catch5/internal/room"
	"catch5/internal/store"
)

// SetupRouter wires the websocket endpoint and the small read-only REST
// surface around it.
func SetupRouter(rm *room.Manager, stats *store.MemoryStats, hub *ws.Hub) *gin.Engine {
	r := gin.Default()

	r.GET("/ws", hub.HandleWS)

	r.GET("/health", HealthHandler())
	r.GET("/rooms/:code/preview", PreviewHandler(rm))
	r.GET("/leaderboard", LeaderboardHandler(stats))

	return r
}
