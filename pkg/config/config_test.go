package config

import (
	"testing"
	"time"
)

func TestLoadTokenTTLs(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "45")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "2")
	cfg := Load()
	if cfg.AccessTokenTTL != 45*time.Minute {
		t.Fatalf("access ttl: %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 48*time.Hour {
		t.Fatalf("refresh ttl: %v", cfg.RefreshTokenTTL)
	}
}

func TestLoadTokenTTLDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "")
	cfg := Load()
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("access ttl default: %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("refresh ttl default: %v", cfg.RefreshTokenTTL)
	}
}
