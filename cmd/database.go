package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"fulfillment/internal/adapters/out/postgres/orderrepo"

	"github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects gorm to the configured database.
func OpenDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(cfg.DSN(cfg.DBName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// CreateDatabaseIfNotExists connects to the maintenance database through
// lib/pq and creates cfg.DBName when it is missing.
func CreateDatabaseIfNotExists(ctx context.Context, cfg Config) error {
	db, err := sql.Open("postgres", cfg.DSN("postgres"))
	if err != nil {
		return fmt.Errorf("failed to open maintenance database: %w", err)
	}
	defer db.Close()

	var exists bool
	if err = db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to look up database %s: %w", cfg.DBName, err)
	}
	if exists {
		return nil
	}

	if _, err = db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(cfg.DBName)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
	}
	return nil
}

// Migrate creates or updates the order tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(orderrepo.Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
