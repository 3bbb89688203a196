package main

import (
	"context"
	"log"

	"doceasy-be/internal/bootstrap"
	"doceasy-be/internal/config"
	"doceasy-be/internal/server"
	"doceasy-be/internal/tracer"
	"doceasy-be/pkg/database"
)

func main() {
	// 0. Tracing (opt-in via OTEL_ENABLED)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load configuration
	cfg := config.Load()

	// 2. Connect database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Background workers
	go func() {
		log.Println("Background: Starting document consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()
	container.RetentionService.Start(context.Background())
	container.MarketDataService.Start(context.Background())

	// 5. Serve
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
