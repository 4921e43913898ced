// Package config loads the process configuration from environment variables.
// Credentials use the same variable names as the skills they belong to.
package config

import (
	"os"
	"strconv"
)

// Config is the full process configuration. Skills whose credentials are
// empty are simply not wired up.
type Config struct {
	Port string

	// OpenWeatherMap (weather skill)
	OpenWeatherAPIKey string
	WeatherRPS        float64 // request rate against OpenWeatherMap
	WeatherBurst      int

	// LINE Messaging API (line skill)
	LineChannelAccessToken string
	LineChannelSecret      string

	// Notion (notion skill)
	NotionAPIKey string

	// Rakuten Ichiba (rakuten skill)
	RakutenAppID       string
	RakutenAffiliateID string

	// Per-client request budget of the HTTP API, per minute.
	APIRateLimit int
}

// Load reads the configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:                   getEnv("PORT", "8080"),
		OpenWeatherAPIKey:      os.Getenv("OPENWEATHERMAP_API_KEY"),
		WeatherRPS:             getFloatEnv("OPENWEATHERMAP_RPS", 1.0),
		WeatherBurst:           getIntEnv("OPENWEATHERMAP_BURST", 5),
		LineChannelAccessToken: os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		LineChannelSecret:      os.Getenv("LINE_CHANNEL_SECRET"),
		NotionAPIKey:           os.Getenv("NOTION_API_KEY"),
		RakutenAppID:           os.Getenv("RAKUTEN_APP_ID"),
		RakutenAffiliateID:     os.Getenv("RAKUTEN_AFFILIATE_ID"),
		APIRateLimit:           getIntEnv("API_RATE_LIMIT", 100),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
