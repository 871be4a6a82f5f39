// Package config reads the process-wide settings from the environment,
// in the teacher repo's struct-of-env-lookups style (api/shared/configs),
// generalized into a constructor so tests can build a Config without
// touching os.Getenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               int
	SecretKey          []byte
	MaxOnlineGames     int
	MovePeriod         time.Duration
	DatabaseURL        string
	RematchWindow      time.Duration
	OutboundQueueSize  int
	GinMode            string
	AllowedOrigins     []string
}

// Load reads Config from the environment, applying the defaults from
// the engine spec's config table. SECRET_KEY and DATABASE_URL are
// required; everything else has a default.
func Load() (Config, error) {
	cfg := Config{
		Host:              getEnvOr("HOST", "0.0.0.0"),
		GinMode:           getEnvOr("GIN_MODE", "debug"),
		MaxOnlineGames:    1000,
		MovePeriod:        10 * time.Second,
		RematchWindow:     30 * time.Second,
		OutboundQueueSize: 64,
	}

	var err error
	if cfg.Port, err = getIntEnvOr("PORT", 8000); err != nil {
		return Config{}, err
	}
	if cfg.MaxOnlineGames, err = getIntEnvOr("MAX_ONLINE_GAMES", cfg.MaxOnlineGames); err != nil {
		return Config{}, err
	}
	if movePeriodSecs, err := getIntEnvOr("MOVE_PERIOD", 10); err != nil {
		return Config{}, err
	} else {
		cfg.MovePeriod = time.Duration(movePeriodSecs) * time.Second
	}
	if rematchSecs, err := getIntEnvOr("REMATCH_WINDOW", 30); err != nil {
		return Config{}, err
	} else {
		cfg.RematchWindow = time.Duration(rematchSecs) * time.Second
	}
	if cfg.OutboundQueueSize, err = getIntEnvOr("OUTBOUND_QUEUE_SIZE", 64); err != nil {
		return Config{}, err
	}

	secret, ok := os.LookupEnv("SECRET_KEY")
	if !ok || secret == "" {
		return Config{}, fmt.Errorf("config: SECRET_KEY is required")
	}
	cfg.SecretKey = []byte(secret)

	dbURL, ok := os.LookupEnv("DATABASE_URL")
	if !ok || dbURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required")
	}
	cfg.DatabaseURL = dbURL

	if origins, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok && origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	} else if cfg.GinMode == "release" {
		return Config{}, fmt.Errorf("config: ALLOWED_ORIGINS is required in release mode")
	}

	return cfg, nil
}

func getEnvOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getIntEnvOr(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}
