package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.MaxSessions != 1000 || cfg.StartLimit != 5 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.LLMTimeout() != 30*time.Second || cfg.StartLimitWindow() != 10*time.Minute || cfg.JWTTTL() != 4*time.Hour {
		t.Fatalf("unexpected durations %+v", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("MAX_SESSIONS", "50")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLMProvider != "gemini" || cfg.SessionTTL() != 15*time.Minute || cfg.MaxSessions != 50 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
