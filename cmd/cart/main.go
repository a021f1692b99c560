package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ShopCart/internal/cart"
	"ShopCart/internal/session"
	"ShopCart/pkg/kit"
)

func main() {
	service := "cart"

	cfg, err := loadConfig()
	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	if err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	s := &cart.Server{
		Carts:      cart.NewRegistry(),
		Sessions:   session.NewTokenMaker(cfg.SessionSecret),
		SessionTTL: cfg.SessionTTL,
		Log:        log,
	}

	if cfg.CatalogURL != "" {
		s.Catalog = cart.NewCatalogClient(cfg.CatalogURL)
	} else {
		log.Warn("CATALOG_URL not set, products are not resolved")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pctx).Err(); err != nil {
			log.Warn("redis not reachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()

		s.Receipts = cart.NewRedisReceiptStore(rdb, cfg.ReceiptTTL)
	} else {
		log.Info("REDIS_ADDR not set, receipts kept in memory")
		s.Receipts = cart.NewMemReceiptStore()
	}

	if cfg.AdminToken == "" {
		log.Warn("ADMIN_TOKEN not set, admin endpoints are closed")
	}

	reg := prometheus.NewRegistry()
	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:                log,
		Service:            service,
		Registry:           reg,
		MetricsEnabled:     cfg.MetricsEnabled,
		MetricsToken:       cfg.MetricsToken,
		AdminToken:         cfg.AdminToken,
		SessionLimitPerMin: cfg.SessionRateLimit,
	})

	if err := kit.RunHTTPServer(context.Background(), ":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
