package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	httpapi "catch5/internal/api/http"
	"catch5/internal/api/ws"
	"catch5/internal/config"
	"catch5/internal/room"
	"catch5/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := config.Load()
	rooms := store.NewMemoryStore()
	stats := store.NewMemoryStats()

	rm := room.NewManager(rooms, stats, cfg, log)
	hub := ws.NewHub(rm, log)
	rm.SetHub(hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rm.Janitor(ctx, time.Minute)

	r := httpapi.SetupRouter(rm, stats, hub)
	log.Infow("listening", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalw("server exited", "err", err)
	}
}
