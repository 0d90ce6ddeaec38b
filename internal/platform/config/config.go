package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean; anything unset falls back to a dev default.
type Server struct {
	Addr            string
	DatabaseURL     string
	Redis           RedisConfig
	KafkaBrokers    []string
	KafkaFeedTopic  string
	JWTSigningKey   string
	JWTIssuer       string
	JWTAudience     string
	ShutdownTimeout time.Duration
}

// RedisConfig carries connection tuning for the optional Redis mirror.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("RESONA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "resona"
	}
	audience := os.Getenv("JWT_AUDIENCE")
	if audience == "" {
		audience = "resona-clients"
	}

	topic := os.Getenv("KAFKA_FEED_TOPIC")
	if topic == "" {
		topic = "resona.activity.feed"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers:    splitComma(os.Getenv("KAFKA_BROKERS")),
		KafkaFeedTopic:  topic,
		JWTSigningKey:   jwtSigningKey,
		JWTIssuer:       issuer,
		JWTAudience:     audience,
		ShutdownTimeout: 10 * time.Second,
	}
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
