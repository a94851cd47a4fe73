package main

import (
	"context"
	"log"

	"resframe/adapters/excel"
	"resframe/adapters/postgres"
	"resframe/adapters/resfile"
	"resframe/app"
	"resframe/internal/api"
	"resframe/internal/config"
	"resframe/internal/derived"
	"resframe/internal/logging"
	"resframe/ports"
	"resframe/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewFromEnv()

	if cfg.Paths.ResultFile == "" {
		log.Fatal("RESULT_FILE must point at a result table (CSV or XLSX)")
	}

	ctx := context.Background()

	var repo ports.RunRepository
	if cfg.Database.Enabled {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		repo = postgres.NewRunRepository(db)
		logger.Info("run persistence enabled")
	} else {
		logger.Warn("DATABASE_URL not set; runs will not be persisted")
	}

	service := app.NewResultService(derived.NewDefaultRegistry(), repo, excel.NewWriter(), logger)

	reader := resfile.NewReader(cfg.Paths.ResultFile, resfile.WithLogger(logger))
	sets, err := service.Load(ctx, reader)
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	go func() {
		if err := api.NewOpsRouter(logger).Run(cfg.Server.OpsPort); err != nil {
			logger.Error("ops listener: %v", err)
		}
	}()

	server := ui.NewServer(service, sets[0], logger)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
