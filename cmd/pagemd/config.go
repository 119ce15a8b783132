package main

import (
	"os"
	"strconv"
)

// ServeConfig is populated from environment variables. A .env file is
// auto-loaded via godotenv; real environment variables take precedence.
type ServeConfig struct {
	Addr            string
	DBPath          string
	ContentPath     string
	SiteName        string
	SiteURL         string
	SiteDescription string
	RateLimit       int
	RateWindowSec   int
	CacheControl    string
}

// LoadServeConfig reads serve configuration from the environment.
func LoadServeConfig() ServeConfig {
	return ServeConfig{
		Addr:            getEnv("PAGEMD_ADDR", ":8080"),
		DBPath:          getEnv("PAGEMD_DB", ""),
		ContentPath:     getEnv("PAGEMD_CONTENT", ""),
		SiteName:        getEnv("PAGEMD_SITE_NAME", "pagemd"),
		SiteURL:         getEnv("PAGEMD_SITE_URL", "http://localhost:8080"),
		SiteDescription: getEnv("PAGEMD_SITE_DESCRIPTION", ""),
		RateLimit:       getEnvInt("PAGEMD_RATE_LIMIT", 10),
		RateWindowSec:   getEnvInt("PAGEMD_RATE_WINDOW_SEC", 60),
		CacheControl:    getEnv("PAGEMD_CACHE_CONTROL", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
