package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ShopCart/internal/catalog"
	"ShopCart/pkg/kit"
)

func main() {
	service := "catalog"
	log := kit.NewLogger(service, kit.Getenv("LOG_LEVEL", "info"))
	defer func() { _ = log.Sync() }()

	port := kit.Getenv("PORT", "8082")

	var store catalog.Store = catalog.NewStore()
	if dsn := kit.Getenv("DATABASE_URL", ""); dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := catalog.OpenPostgres(ctx, dsn)
		cancel()
		if err != nil {
			log.Fatal("open postgres failed", zap.Error(err))
		}
		defer func() { _ = db.Close() }()

		store = catalog.NewPostgresStore(db)
		log.Info("catalog backed by postgres")
	} else {
		log.Info("DATABASE_URL not set, using seeded in-memory catalog")
	}

	reg := prometheus.NewRegistry()
	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: kit.GetenvBool("METRICS_ENABLED", true),
		MetricsToken:   kit.Getenv("METRICS_TOKEN", ""),
	})

	if err := kit.RunHTTPServer(context.Background(), ":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
