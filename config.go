package main

import (
	"os"
	"strings"
	"time"
)

// config is read once at startup from the environment (after .env is loaded).
type config struct {
	Env          string
	Port         string
	DBURL        string
	DiningAPIURL string
	DiningAPIKey string
	RedisURL     string // optional; menu responses are not cached when empty
	MenuCacheTTL time.Duration
	CORSOrigins  []string
}

func loadConfig() config {
	cfg := config{
		Env:          envOr("APP_ENV", "development"),
		Port:         envOr("PORT", "3000"),
		DBURL:        os.Getenv("DB_URL"),
		DiningAPIURL: strings.TrimRight(envOr("DINING_API_URL", "https://go.apis.huit.harvard.edu/ats/dining/v3"), "/"),
		DiningAPIKey: os.Getenv("DINING_API_KEY"),
		RedisURL:     os.Getenv("REDIS_URL"),
		MenuCacheTTL: 30 * time.Minute,
		CORSOrigins:  []string{"http://localhost:5173"},
	}
	if v := os.Getenv("MENU_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.MenuCacheTTL = d
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}
	return cfg
}

func envOr(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}
