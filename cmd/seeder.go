package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/clinic-management/internal/app"
	"github.com/frahmantamala/clinic-management/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed permissions, roles, staff positions and the admin account",
	Long:  `Seed the permission catalog, the default roles and staff positions with their grants, and the administrator account. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		logger.InitWithOptions(logger.Options{
			Env:    cfg.Env,
			Level:  cfg.Observability.Logging.Level,
			Format: cfg.Observability.Logging.Format,
		})
		appLog := logger.LoggerWrapper()

		db, _, err := initDB(cfg, appLog)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer closeDB(db, appLog)

		application, err := app.New(cfg, db, sqlDriver, appLog)
		if err != nil {
			log.Fatalf("failed to initialize application: %v", err)
		}

		ctx := context.Background()
		if clearData {
			if err := application.ClearGrants(ctx); err != nil {
				log.Fatalf("failed to clear grants: %v", err)
			}
			appLog.Info("cleared role and position grants")
		}
		if err := application.Seed(ctx); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		if err := application.Bus.Drain(ctx); err != nil {
			appLog.Error("event bus drain error", "error", err)
		}
		appLog.Info("seeding finished")
	},
}
