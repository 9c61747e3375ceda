package cmd

import (
	"database/sql"

	"github.com/spf13/cobra"
	"github.com/templui/fittrack/internal/config"
	"github.com/templui/fittrack/internal/db"
	"github.com/templui/fittrack/internal/logger"
)

func MigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}

	migrate.AddCommand(
		migrateCommand("up", "Apply all pending migrations", db.RunMigrations),
		migrateCommand("down", "Roll back the most recent migration", db.MigrateDown),
		migrateCommand("status", "Show the state of every migration", db.MigrationStatus),
	)
	return migrate
}

func migrateCommand(use, short string, run func(conn *sql.DB, driver string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

			conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(conn) }()

			return run(conn.DB, cfg.DBDriver)
		},
	}
}
