package main

import (
	"context"
	"log"

	"notehub-be/internal/bootstrap"
	"notehub-be/internal/config"
	"notehub-be/internal/server"
	"notehub-be/internal/tracer"
	"notehub-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Start Background Services
	// An unrecoverable consumer failure takes the whole process down with it:
	// a silently dead activity pipeline is worse than a visible restart.
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
			if shutdownErr := srv.Shutdown(); shutdownErr != nil {
				log.Printf("Server shutdown error: %v", shutdownErr)
			}
			log.Fatal("Consumer service terminated, exiting")
		}
	}()

	// 6. Run Server
	log.Fatal(srv.Run())
}
