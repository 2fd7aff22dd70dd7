// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the HTTP server.
type Config struct {
	Env          string // application environment ("dev", "prod")
	Port         string // HTTP port to listen on
	JWTSecret    string // HS256 secret shared with token issuers
	ManifestPath string // YAML file the inventory is seeded from
	LogLevel     string // debug, info, warn, error
	AMQPURL      string // empty disables the AMQP notification sink
}

// Load reads .env when present and then the environment.  JWT_SECRET is
// required; everything else has a default.
func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "8080"),
		JWTSecret:    must("JWT_SECRET"),
		ManifestPath: envStr("MANIFEST_PATH", "data/flights.yaml"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		AMQPURL:      AMQPURL(),
	}
}

// AMQPURL returns RABBITMQ_URL, falling back to AMQP_URL.
func AMQPURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves a required environment variable and exits when it is
// unset or empty.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
