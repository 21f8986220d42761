package postgres

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/logger"
)

// DB wraps sqlx.DB with the configured connection pool
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// NewDB opens a postgres connection pool from the configuration
func NewDB(cfg *config.Configuration, log *logger.Logger) (*DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	log.Infow("connected to postgres",
		"host", cfg.Postgres.Host,
		"database", cfg.Postgres.DBName,
	)

	return &DB{DB: db, logger: log}, nil
}

// Close closes the underlying connection pool
func (d *DB) Close() error {
	return d.DB.Close()
}
