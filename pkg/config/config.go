package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort int
	HTTPPort int

	// MongoURI is the store connection string. DATABASE_URL is honoured when
	// MONGO_URI is unset.
	MongoURI      string
	MongoDatabase string

	RequestTimeout     time.Duration
	PricingConcurrency int
	// ReleaseTimeout bounds compensation after a failed placement.
	ReleaseTimeout time.Duration
	PublishTimeout time.Duration

	KafkaBrokers []string
	OrderTopic   string

	RedisURL       string
	IdempotencyTTL time.Duration
}

func Load() Config {
	return Config{
		AppEnv:             getEnv("APP_ENV", "dev"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HTTPPort:           getEnvInt("HTTP_PORT", 8080),
		GRPCPort:           getEnvInt("GRPC_PORT", 8081),
		MongoURI:           getEnv("MONGO_URI", getEnv("DATABASE_URL", "mongodb://localhost:27017")),
		MongoDatabase:      getEnv("MONGO_DATABASE", "ecommerce_db"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		PricingConcurrency: getEnvInt("PRICING_CONCURRENCY", 10),
		ReleaseTimeout:     getEnvDuration("RELEASE_TIMEOUT", 5*time.Second),
		PublishTimeout:     getEnvDuration("PUBLISH_TIMEOUT", 3*time.Second),
		KafkaBrokers:       splitCSV(os.Getenv("KAFKA_BROKERS")),
		OrderTopic:         getEnv("ORDER_TOPIC", "OrderPlaced"),
		RedisURL:           getEnv("REDIS_URL", ""),
		IdempotencyTTL:     getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

// getEnvDuration accepts Go duration strings ("750ms", "5s") or a bare number of
// milliseconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
