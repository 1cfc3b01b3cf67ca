package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Bounds on the outbound fetch performed by the URL import.
	ImportFetchTimeout  time.Duration
	ImportMaxFetchBytes int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	fetchTimeout, err := time.ParseDuration(getEnv("IMPORT_FETCH_TIMEOUT", "30s"))
	if err != nil {
		fetchTimeout = 30 * time.Second
	}

	maxFetchBytes, err := strconv.ParseInt(getEnv("IMPORT_MAX_FETCH_BYTES", "10485760"), 10, 64)
	if err != nil || maxFetchBytes <= 0 {
		maxFetchBytes = 10 << 20
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:       getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry: accessExpiry,

		ImportFetchTimeout:  fetchTimeout,
		ImportMaxFetchBytes: maxFetchBytes,
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
