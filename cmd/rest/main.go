package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discharge-care-be/internal/bootstrap"
	"discharge-care-be/internal/config"
	"discharge-care-be/internal/server"
	"discharge-care-be/internal/service"
	"discharge-care-be/internal/tracer"
	"discharge-care-be/pkg/database"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.LogLevel)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg, prometheus.DefaultRegisterer)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Logger.Error("MAIN", "Consumer service failed to start", map[string]interface{}{"error": err.Error()})
	}

	// Startup indexing is idempotent: unchanged files are skipped by content hash.
	go func() {
		_, err := container.IndexingService.IndexDirectory(ctx, cfg.Rag.KnowledgeDir)
		if errors.Is(err, service.ErrKnowledgeDirMissing) {
			container.Logger.Warn("MAIN", "Knowledge directory missing, starting with an empty index", map[string]interface{}{"dir": cfg.Rag.KnowledgeDir})
		} else if err != nil {
			container.Logger.Error("MAIN", "Startup indexing failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			container.Logger.Error("MAIN", "Server shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		container.Logger.Error("MAIN", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
