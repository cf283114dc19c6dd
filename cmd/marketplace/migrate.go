package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/massitfab/marketplace/internal/config"
	"github.com/massitfab/marketplace/internal/models"
	pkgdb "github.com/massitfab/marketplace/pkg/db"
	"github.com/massitfab/marketplace/pkg/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
		logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
		slog.SetDefault(logger)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, err := pkgdb.Open(ctx, cfg.DatabaseURL, pkgdb.DefaultPool())
		if err != nil {
			return err
		}
		defer pkgdb.Close(db)

		if err := models.Migrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrate_success", "models", len(models.All()))
		return nil
	},
}
