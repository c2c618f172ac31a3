package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server needs, read from CODEE_* environment
// variables so main stays lean.
type Config struct {
	Addr string

	// RulesPath is where the rule tree lives; the default tree is written
	// there on first start.
	RulesPath string

	// AdultAgeLimit is the exclusive upper age bound for eligibility.
	AdultAgeLimit float64

	// FactTTL is how long an inactive conversation keeps its facts.
	FactTTL time.Duration

	// JWTSigningKey guards the rule administration endpoints.
	JWTSigningKey string

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// RedisConfig configures the shared fact store. An empty URL disables Redis
// and the server falls back to the in-memory store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures decision persistence. An empty DSN disables it.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig configures decision publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables with dev defaults.
func FromEnv() Config {
	return Config{
		Addr:          envString("CODEE_ADDR", ":8080"),
		RulesPath:     envString("CODEE_RULES_PATH", "rules/eligibility_rules.json"),
		AdultAgeLimit: envFloat("CODEE_ADULT_AGE_LIMIT", 62),
		FactTTL:       envDuration("CODEE_FACT_TTL", 30*time.Minute),
		// Dev default, override in production.
		JWTSigningKey: envString("CODEE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Redis: RedisConfig{
			URL:          os.Getenv("CODEE_REDIS_URL"),
			PoolSize:     envInt("CODEE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CODEE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("CODEE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("CODEE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("CODEE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("CODEE_POSTGRES_DSN"),
		},
		Kafka: KafkaConfig{
			Brokers: envList("CODEE_KAFKA_BROKERS"),
			Topic:   envString("CODEE_KAFKA_TOPIC", "codee.audit.decisions"),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
