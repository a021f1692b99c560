package main

import (
	"errors"
	"time"

	"ShopCart/pkg/kit"
)

type config struct {
	Port     string
	LogLevel string

	SessionSecret    string
	SessionTTL       time.Duration
	SessionRateLimit int

	// CatalogURL is optional. Without it products are taken as sent.
	CatalogURL string

	// RedisAddr is optional. Without it receipts live in process memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ReceiptTTL    time.Duration

	AdminToken     string
	MetricsEnabled bool
	MetricsToken   string
}

func loadConfig() (config, error) {
	cfg := config{
		Port:     kit.Getenv("PORT", "8083"),
		LogLevel: kit.Getenv("LOG_LEVEL", "info"),

		SessionSecret:    kit.Getenv("SESSION_SECRET", ""),
		SessionTTL:       kit.GetenvDuration("SESSION_TTL", 30*time.Minute),
		SessionRateLimit: kit.GetenvInt("SESSION_RATE_LIMIT", 10),

		CatalogURL: kit.Getenv("CATALOG_URL", ""),

		RedisAddr:     kit.Getenv("REDIS_ADDR", ""),
		RedisPassword: kit.Getenv("REDIS_PASSWORD", ""),
		RedisDB:       kit.GetenvInt("REDIS_DB", 0),
		ReceiptTTL:    kit.GetenvDuration("RECEIPT_TTL", 24*time.Hour),

		AdminToken:     kit.Getenv("ADMIN_TOKEN", ""),
		MetricsEnabled: kit.GetenvBool("METRICS_ENABLED", true),
		MetricsToken:   kit.Getenv("METRICS_TOKEN", ""),
	}

	if len(cfg.SessionSecret) < 32 {
		return cfg, errors.New("SESSION_SECRET is required and must be at least 32 chars")
	}
	return cfg, nil
}
