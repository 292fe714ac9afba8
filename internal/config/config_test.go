package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.TurnTimeout != 45*time.Second {
		t.Fatalf("turn timeout = %v", cfg.TurnTimeout)
	}
	if cfg.CPUDelayMin >= cfg.CPUDelayMax {
		t.Fatalf("cpu delay bounds %v >= %v", cfg.CPUDelayMin, cfg.CPUDelayMax)
	}
	if cfg.AutoClaim {
		t.Fatal("auto-claim must default off")
	}
	if cfg.ChatHistory != 100 {
		t.Fatalf("chat history = %d", cfg.ChatHistory)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CATCH5_ADDR", ":9999")
	t.Setenv("CATCH5_TURN_TIMEOUT", "10s")
	t.Setenv("CATCH5_AUTO_CLAIM", "true")
	t.Setenv("CATCH5_BID_NINE", "200")

	cfg := Load()
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("addr override ignored: %q", cfg.HTTPAddr)
	}
	if cfg.TurnTimeout != 10*time.Second {
		t.Fatalf("timeout override ignored: %v", cfg.TurnTimeout)
	}
	if !cfg.AutoClaim {
		t.Fatal("bool override ignored")
	}
	if cfg.BidNine != 200 {
		t.Fatalf("int override ignored: %d", cfg.BidNine)
	}
}

func TestBadEnvFallsBack(t *testing.T) {
	t.Setenv("CATCH5_TURN_TIMEOUT", "not-a-duration")
	t.Setenv("CATCH5_CHAT_HISTORY", "lots")
	cfg := Load()
	if cfg.TurnTimeout != 45*time.Second || cfg.ChatHistory != 100 {
		t.Fatalf("bad env did not fall back: %v %d", cfg.TurnTimeout, cfg.ChatHistory)
	}
}
