// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"demo-generator/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL connection used for insights and demo logs.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pool. It does not dial; call Ping to verify connectivity.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB returns the underlying *sql.DB.
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}

// schemaStatements create the tables the service reads and writes. Each is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS industry_insights (
		id           TEXT PRIMARY KEY,
		industry     TEXT NOT NULL,
		insight_type TEXT NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL,
		metric       TEXT NOT NULL DEFAULT '',
		source       TEXT NOT NULL DEFAULT '',
		confidence   DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_active    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_industry_insights_industry ON industry_insights (industry, insight_type)`,
	`CREATE TABLE IF NOT EXISTS demo_logs (
		demo_id         TEXT PRIMARY KEY,
		business_name   TEXT NOT NULL,
		industry        TEXT NOT NULL,
		recipient_email TEXT NOT NULL DEFAULT '',
		success         BOOLEAN NOT NULL,
		email_sent      BOOLEAN NOT NULL,
		posts_count     INTEGER NOT NULL,
		graphics_count  INTEGER NOT NULL,
		has_pdf         BOOLEAN NOT NULL,
		processing_ms   BIGINT NOT NULL,
		tokens_used     INTEGER NOT NULL,
		estimated_cost  NUMERIC(10, 4) NOT NULL,
		errors          JSONB NOT NULL DEFAULT '[]',
		warnings        JSONB NOT NULL DEFAULT '[]',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates missing tables.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
