// Package main применяет миграции таблицы profiles.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/magabrotheeeer/executive-coach/internal/config"
	"github.com/magabrotheeeer/executive-coach/internal/migrations"
	"github.com/magabrotheeeer/executive-coach/internal/storage"
)

func main() {
	migrationsPath := flag.String("migrations-path", "", "directory with migration files")
	flag.Parse()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	path := cfg.MigrationsPath
	if *migrationsPath != "" {
		path = *migrationsPath
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to postgres", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(db.DB, path); err != nil {
		logger.Error("failed to apply migrations", slog.Any("err", err))
		os.Exit(1)
	}

	if err := db.CheckDatabaseReady(context.Background()); err != nil {
		logger.Error("schema is not ready after migrations", slog.Any("err", err))
		os.Exit(1)
	}

	version, dirty, err := migrations.Version(db.DB, path)
	if err != nil {
		logger.Error("failed to read migration version", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("migrations applied", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}
