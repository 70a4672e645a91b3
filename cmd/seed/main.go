package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-api/internal/auth"
	"github.com/spec-kit/catalog-api/internal/config"
	"github.com/spec-kit/catalog-api/internal/observability"
	"github.com/spec-kit/catalog-api/internal/persistence"
	"github.com/spec-kit/catalog-api/internal/repository"
	"github.com/spec-kit/catalog-api/internal/seed"
	"github.com/spec-kit/catalog-api/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	seeder := seed.New(
		repository.NewUserRepository(pg.PoolHandle()),
		repository.NewProductRepository(pg.PoolHandle()),
		auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		logger,
	)
	if err := seeder.Run(ctx, seed.DefaultAccounts(cfg.Seed)); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete")
}
