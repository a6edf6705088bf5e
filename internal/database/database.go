// Package database opens the PostgreSQL pool behind the catalog and keeps
// its two-table schema (categories, apis) current with embedded goose
// migrations.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Connect opens a pgx-backed pool for dsn and pings it.
//
// The pool serves short read queries: paged catalog fetches, ID lookups and
// the JSON search. Import batches run one at a time, so a modest pool is
// enough for both.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog db: %w", err)
	}
	slog.Info("catalog database connected")
	return db, nil
}

// Migrate brings the catalog schema up to the newest embedded migration.
func Migrate(db *sql.DB) error {
	if err := useEmbedded(); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply catalog migrations: %w", err)
	}
	slog.Info("catalog schema up to date")
	return nil
}

// Version reports the catalog schema version goose has recorded; 0 means
// nothing has been applied.
func Version(db *sql.DB) (int64, error) {
	if err := useEmbedded(); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("read catalog schema version: %w", err)
	}
	return v, nil
}

func useEmbedded() error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	return nil
}
