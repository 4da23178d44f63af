package config

import (
	"os"
	"strings"
	"time"
)

// Redirects holds the host URLs the service hands back on validation
// failures. The host turns these into actual redirects.
type Redirects struct {
	Register    string
	ItemPost    string
	ItemEdit    string
	UserProfile string
	Base        string
}

// Config captures everything cmd/server needs to wire the service.
// Empty Postgres/Redis/Kafka values mean "not configured" and select
// in-memory fallbacks, keeping development setups dependency-free.
type Config struct {
	Addr        string
	PostgresDSN string
	RedisURL    string
	KafkaSeeds  []string
	AuditTopic  string
	AdminToken  string

	// StashTTL bounds how long captured registration extras survive when the
	// record-created event never fires (abandoned stash garbage).
	StashTTL time.Duration
	// FormTTL bounds repopulation snapshots and flash messages.
	FormTTL time.Duration

	Redirects Redirects
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:        envOr("RFM_ADDR", ":8080"),
		PostgresDSN: os.Getenv("RFM_POSTGRES_DSN"),
		RedisURL:    os.Getenv("RFM_REDIS_URL"),
		AuditTopic:  envOr("RFM_AUDIT_TOPIC", "rfm.audit"),
		AdminToken:  os.Getenv("RFM_ADMIN_TOKEN"),
		StashTTL:    durationOr("RFM_STASH_TTL", time.Hour),
		FormTTL:     durationOr("RFM_FORM_TTL", 30*time.Minute),
		Redirects: Redirects{
			Register:    envOr("RFM_URL_REGISTER", "/register"),
			ItemPost:    envOr("RFM_URL_ITEM_POST", "/item/new"),
			ItemEdit:    envOr("RFM_URL_ITEM_EDIT", "/item/edit"),
			UserProfile: envOr("RFM_URL_PROFILE", "/user/profile"),
			Base:        envOr("RFM_URL_BASE", "/"),
		},
	}
	if seeds := os.Getenv("RFM_KAFKA_SEEDS"); seeds != "" {
		cfg.KafkaSeeds = strings.Split(seeds, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
