package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending *.sql migration found at the root of migrations.
// An empty table name means DefaultMigrationsTable.
//
// Example:
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	sub, _ := fs.Sub(migrations, "migrations")
//	err := db.Migrate(ctx, pool, sub, "", log)
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	// OpenDBFromPool shares the pool's connections; closing it would not
	// release them, so it is left open.
	return migrate(ctx, stdlib.OpenDBFromPool(pool), migrations, table, log)
}

// MigrateDir applies the migrations in dir against the database at url.
// Used by the CLI, which has no pool of its own.
func MigrateDir(ctx context.Context, url, dir, table string, log *slog.Logger) error {
	cfg, err := pgxpoolConfig(url)
	if err != nil {
		return err
	}
	sqlDB := stdlib.OpenDB(*cfg.ConnConfig)
	defer sqlDB.Close()

	return migrate(ctx, sqlDB, os.DirFS(dir), table, log)
}

// MigrateHook returns a startup hook that runs Migrate.
//
// Example:
//
//	app.Run(":8000", shipy.StartupHook(db.MigrateHook(pool, migrations, "", log)))
func MigrateHook(pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		return Migrate(ctx, pool, migrations, table, log)
	}
}

func migrate(ctx context.Context, sqlDB *sql.DB, migrations fs.FS, table string, log *slog.Logger) error {
	if table == "" {
		table = DefaultMigrationsTable
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(table)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

func pgxpoolConfig(url string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	return cfg, nil
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf only logs; goose returns the error to the caller.
func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
