package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"lottolab/adapters/api"
	"lottolab/adapters/dhlottery"
	"lottolab/adapters/excel"
	"lottolab/adapters/file"
	"lottolab/adapters/postgres"
	"lottolab/app"
	"lottolab/internal"
	"lottolab/internal/analysis"
	"lottolab/internal/config"
	"lottolab/internal/errors"
	"lottolab/internal/migration"
	"lottolab/internal/snapshot"
	"lottolab/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	logger := internal.NewDefaultLogger()

	repo, store, err := initStorage(cfg, logger)
	if err != nil {
		log.Fatalf("Storage initialization failed: %v", err)
	}

	if cfg.Lotto.ExcelFile != "" {
		if err := seedFromExcel(cfg.Lotto.ExcelFile, repo, logger); err != nil {
			log.Fatalf("Excel seed failed: %v", err)
		}
	}

	aggregator := analysis.NewAggregator(cfg.Analysis, logger)
	cache := snapshot.NewCache(store, logger)

	analysisSvc := app.NewAnalysisService(repo, aggregator, cache, logger)
	syncSvc := app.NewSyncService(dhlottery.NewClient(cfg.Lotto.SourceURL), repo, logger)
	drawSvc := app.NewDrawService(repo)

	server := api.NewServer(analysisSvc, syncSvc, drawSvc, logger)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initStorage wires the draw repository and snapshot store for the
// configured backend. The file backend keeps snapshots in memory only.
func initStorage(cfg *config.Config, logger *internal.Logger) (ports.DrawRepository, ports.SnapshotStore, error) {
	switch cfg.Lotto.StorageBackend {
	case "postgres":
		db, err := initDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres draw storage")
		return postgres.NewDrawRepository(db), postgres.NewSnapshotRepository(db), nil
	default:
		logger.Info("using file draw storage at %s", cfg.Lotto.DataFile)
		return file.NewDrawRepository(cfg.Lotto.DataFile), nil, nil
	}
}

// initDatabase connects to postgres and applies migrations.
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return nil, errors.Wrap(err, "migrations failed")
	}
	return db, nil
}

// seedFromExcel imports a historical draw export into the repository.
// Already-stored draw numbers are skipped, so re-seeding is harmless.
func seedFromExcel(path string, repo ports.DrawRepository, logger *internal.Logger) error {
	records, err := excel.NewDrawReader(path).ReadDraws()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	inserted, err := repo.SaveDraws(ctx, records)
	if err != nil {
		return err
	}
	logger.Info("seeded %d new draws from %s (%d rows read)", inserted, path, len(records))
	return nil
}
