package config

import (
	"os"
	"time"
)

// Config captures process level configuration so main stays lean. Stores are
// selected by which connection settings are present: Postgres wins over
// Redis, and the in-memory stores are the fallback for local development.
type Config struct {
	Addr        string
	LogLevel    string
	RedisURL    string
	PostgresDSN string

	// DebounceWindow is how long an idle editing session waits before its
	// progress is flushed to storage. Navigation and explicit saves always
	// flush immediately regardless of this window.
	DebounceWindow time.Duration

	// KafkaBrokers is a comma separated broker list; empty disables the
	// kafka audit sink.
	KafkaBrokers string
	AuditTopic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:           getenv("PORTAL_ADDR", ":8080"),
		LogLevel:       getenv("PORTAL_LOG_LEVEL", "info"),
		RedisURL:       os.Getenv("PORTAL_REDIS_URL"),
		PostgresDSN:    os.Getenv("PORTAL_POSTGRES_DSN"),
		DebounceWindow: 5 * time.Minute,
		KafkaBrokers:   os.Getenv("PORTAL_KAFKA_BROKERS"),
		AuditTopic:     getenv("PORTAL_AUDIT_TOPIC", "certification-audit"),
	}

	if raw := os.Getenv("PORTAL_DEBOUNCE_WINDOW"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.DebounceWindow = d
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
