package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Access tokens are deliberately short-lived: they are verified by signature
// alone, so revocation only bites once they expire. Refresh tokens last
// longer and are revocable through the store.
const (
	DefaultAccessTokenTTL  = 15 * time.Second
	DefaultRefreshTokenTTL = time.Hour
)

type Config struct {
	Env                string
	Port               string
	DBURL              string
	RedisURL           string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func Load() *Config {
	// .env is a local development convenience; absence is not an error.
	_ = godotenv.Load()

	return &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DBURL:              mustGetEnv("DB_URL"),
		RedisURL:           getEnv("REDIS_URL", ""),
		AccessTokenSecret:  mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     getEnvAsSeconds("ACCESS_TOKEN_TTL", DefaultAccessTokenTTL),
		RefreshTokenTTL:    getEnvAsSeconds("REFRESH_TOKEN_TTL", DefaultRefreshTokenTTL),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsSeconds(key string, defaultVal time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Invalid value for %s, using default %s", key, defaultVal)
		return defaultVal
	}
	return time.Duration(val) * time.Second
}
