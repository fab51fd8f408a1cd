package config

import (
	"os"
	"time"
)

type Config struct {
	APIBaseURL  string
	Workers     int
	HTTPTimeout time.Duration
	CachePath   string
	CacheTTL    time.Duration
}

func Load() Config {
	return Config{
		APIBaseURL:  getEnv("PERMITWATCH_API_URL", "https://www.recreation.gov/api"),
		Workers:     getEnvInt("PERMITWATCH_WORKERS", 3),
		HTTPTimeout: time.Duration(getEnvInt("PERMITWATCH_HTTP_TIMEOUT", 30)) * time.Second,
		CachePath:   getEnv("PERMITWATCH_CACHE", ""),
		CacheTTL:    time.Duration(getEnvInt("PERMITWATCH_CACHE_TTL", 24)) * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}
