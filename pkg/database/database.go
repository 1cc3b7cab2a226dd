package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/Abraxas-365/resumescan/pkg/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var (
	//go:embed sql/*
	f embed.FS
)

// Connect opens a pooled Postgres connection
func Connect(cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	b, err := f.ReadFile("sql/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read the schema file: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(b)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
