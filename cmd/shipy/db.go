package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/shipy/pkg/config"
	"github.com/dmitrymomot/shipy/pkg/db"
	"github.com/dmitrymomot/shipy/pkg/logger"
)

var errNoDatabaseURL = errors.New("no database URL: pass --url or set DATABASE_URL")

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database tasks",
	}
	cmd.AddCommand(dbMigrateCmd())
	return cmd
}

func dbMigrateCmd() *cobra.Command {
	var (
		dir     string
		url     string
		table   string
		cfgPath string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		Long: `Apply goose migrations from --dir to the PostgreSQL database.
The URL comes from --url, or DATABASE_URL from the environment, .env or
the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				cfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				url = cfg.DatabaseURL
			}
			if url == "" {
				return errNoDatabaseURL
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), level)
			return db.MigrateDir(cmd.Context(), url, dir, table, log)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "migrations", "directory with migration files")
	cmd.Flags().StringVar(&url, "url", "", "database URL (default $DATABASE_URL)")
	cmd.Flags().StringVar(&table, "table", db.DefaultMigrationsTable, "migrations bookkeeping table")
	cmd.Flags().StringVar(&cfgPath, "config", os.Getenv("SHIPY_CONFIG"), "optional YAML config file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every migration step")
	return cmd
}
