// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Process-wide secrets, read-only after startup.
	SigningSecret    string // HMAC key for bearer/renewal capabilities
	EncryptionSecret string // key for credential-at-rest encryption

	// Token lifetimes: access in minutes, refresh in days.
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Postgres
	DatabaseURL string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:              env("CLOUDPILOT_ENV", "dev"),
		HTTPAddr:         env("CLOUDPILOT_HTTP_ADDR", ":8080"),
		SigningSecret:    env("JWT_SIGNING_SECRET", ""),
		EncryptionSecret: env("ENCRYPTION_SECRET", ""),
		AccessTokenTTL:   envDur("ACCESS_TOKEN_TTL_MIN", 30) * time.Minute,
		RefreshTokenTTL:  envDur("REFRESH_TOKEN_TTL_DAYS", 7) * 24 * time.Hour,
		DatabaseURL:      env("DATABASE_URL", ""),
	}
	if cfg.SigningSecret == "" {
		log.Println("[WARN] JWT_SIGNING_SECRET not set — issued tokens will not survive restarts in dev")
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set — using in-memory credential store for dev")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
