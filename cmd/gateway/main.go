package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ShopCart/internal/gateway"
	"ShopCart/pkg/kit"
)

func main() {
	service := "gateway"
	log := kit.NewLogger(service, kit.Getenv("LOG_LEVEL", "info"))
	defer func() { _ = log.Sync() }()

	port := kit.Getenv("PORT", "8080")

	secret := kit.Getenv("SESSION_SECRET", "")
	if len(secret) < 32 {
		log.Fatal("SESSION_SECRET is required and must be at least 32 chars")
	}

	deps := gateway.Deps{
		SessionSecret: secret,
		CartURL:       kit.Getenv("CART_URL", "http://cart:8083"),
		CatalogURL:    kit.Getenv("CATALOG_URL", "http://catalog:8082"),
	}

	reg := prometheus.NewRegistry()
	h, err := gateway.NewHandler(deps, gateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: kit.GetenvBool("METRICS_ENABLED", true),
		MetricsToken:   kit.Getenv("METRICS_TOKEN", ""),
	})
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(context.Background(), ":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
