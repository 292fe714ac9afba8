package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the server settings, all overridable from the environment.
type Config struct {
	HTTPAddr string

	TurnTimeout    time.Duration // bound on a human bidding/playing turn
	CPUDelayMin    time.Duration // CPU "thinking time" lower bound
	CPUDelayMax    time.Duration
	EmptyRoomGrace time.Duration // empty room lifetime before expiry
	RoomIdleTTL    time.Duration // inactive room lifetime before expiry

	ChatHistory int
	AutoClaim   bool

	// CPU bidding thresholds, see cpu.Tuning.
	BidSix        int
	BidSeven      int
	BidEight      int
	BidNine       int
	StretchChance int
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() Config {
	return Config{
		HTTPAddr:       getenvStr("CATCH5_ADDR", ":8080"),
		TurnTimeout:    getenvDuration("CATCH5_TURN_TIMEOUT", 45*time.Second),
		CPUDelayMin:    getenvDuration("CATCH5_CPU_DELAY_MIN", 800*time.Millisecond),
		CPUDelayMax:    getenvDuration("CATCH5_CPU_DELAY_MAX", 2200*time.Millisecond),
		EmptyRoomGrace: getenvDuration("CATCH5_EMPTY_ROOM_GRACE", 10*time.Minute),
		RoomIdleTTL:    getenvDuration("CATCH5_ROOM_IDLE_TTL", 2*time.Hour),
		ChatHistory:    getenvInt("CATCH5_CHAT_HISTORY", 100),
		AutoClaim:      getenvBool("CATCH5_AUTO_CLAIM", false),
		BidSix:         getenvInt("CATCH5_BID_SIX", 55),
		BidSeven:       getenvInt("CATCH5_BID_SEVEN", 75),
		BidEight:       getenvInt("CATCH5_BID_EIGHT", 95),
		BidNine:        getenvInt("CATCH5_BID_NINE", 115),
		StretchChance:  getenvInt("CATCH5_BID_STRETCH", 20),
	}
}
