// Package database centralises sqlx connection helpers.  The driver is
// go-sql-driver/mysql, which also works with MariaDB.
//
// Public entry points:
//
//	Open(ctx, dsn)                           – conservative pool sizes.
//	OpenWithOptions(ctx, dsn, maxOpen, maxIdle) – fine-grained control.
//	Migrate(ctx, db, stmts)                  – apply idempotent DDL in order.
//
// Both open helpers Ping the database before returning so callers can fail
// fast during bootstrap.  Callers should Close() the returned *sqlx.DB when
// no longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Pool defaults used by Open.
const (
	DefaultMaxOpen = 15
	DefaultMaxIdle = 5
	connLifetime   = 30 * time.Minute
)

// Open returns a *sqlx.DB with 15 max open, 5 idle, and a 30-minute
// connection lifetime.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, DefaultMaxOpen, DefaultMaxIdle)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle.  Zero values fall
// back to the Open defaults.
func OpenWithOptions(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}
	configure(db, maxOpen, maxIdle)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return db, nil
}

func configure(db *sqlx.DB, maxOpen, maxIdle int) {
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpen
	}
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connLifetime)
}

// Migrate executes stmts in order and stops at the first failure.
func Migrate(ctx context.Context, db *sqlx.DB, stmts []string) error {
	for i, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("database: migration %d: %w", i, err)
		}
	}
	if len(stmts) > 0 {
		zap.L().Info("migrations applied", zap.Int("count", len(stmts)))
	}
	return nil
}
