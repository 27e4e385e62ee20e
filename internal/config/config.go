package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"smartgrocery/internal/scheduler"
)

// Config collects everything the binaries need from the environment.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	ListenAddr  string

	LogLevel  string
	LogFormat string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Cron scheduler.CronSpecs
}

// Load reads .env if present, then the environment. Only DATABASE_URL and
// JWT_SECRET are mandatory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      durationEnv("JWT_TTL", 24*time.Hour),
		ListenAddr:  stringEnv("LISTEN_ADDR", ":8080"),

		LogLevel:  stringEnv("LOG_LEVEL", "info"),
		LogFormat: stringEnv("LOG_FORMAT", "json"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intEnv("REDIS_DB", 0),

		Cron: scheduler.CronSpecs{
			Soon:     os.Getenv("CRON_EXPIRING"),
			Critical: os.Getenv("CRON_CRITICAL"),
			Expired:  os.Getenv("CRON_EXPIRED"),
			Status:   os.Getenv("CRON_STATUS"),
			Cleanup:  os.Getenv("CRON_CLEANUP"),
		},
	}
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
