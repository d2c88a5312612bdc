package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Registers the "mysql" driver with database/sql.
	_ "github.com/go-sql-driver/mysql"
)

// stepsSchema is the table this store writes to. Kept here so deployments
// without a migration tool can bootstrap the table.
const stepsSchema = `
CREATE TABLE IF NOT EXISTS steps (
    task_id              VARCHAR(64)  NOT NULL,
    step_id              VARCHAR(64)  NOT NULL,
    organization_id      VARCHAR(64)  NOT NULL,
    llm_cost_milli_cents BIGINT       NOT NULL DEFAULT 0,
    updated_at           TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
        ON UPDATE CURRENT_TIMESTAMP,
    PRIMARY KEY (organization_id, task_id, step_id)
)`

// MySQLConfig configures the MySQL-backed step store connection pool.
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MySQLStepStore persists per-step cost totals in MySQL.
type MySQLStepStore struct {
	db *sql.DB
}

// NewMySQLStepStore opens the connection pool, verifies connectivity, and
// ensures the steps table exists.
func NewMySQLStepStore(ctx context.Context, cfg MySQLConfig) (*MySQLStepStore, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("mysql DSN is required")
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(20)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(10)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	if _, err := db.ExecContext(ctx, stepsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure steps table: %w", err)
	}

	return &MySQLStepStore{db: db}, nil
}

// AddIncrementalCost upserts the step row and adds the cost delta to its
// running total.
func (s *MySQLStepStore) AddIncrementalCost(ctx context.Context, taskID, stepID, organizationID string, costMilliCents int64) error {
	const query = `
INSERT INTO steps (task_id, step_id, organization_id, llm_cost_milli_cents)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE llm_cost_milli_cents = llm_cost_milli_cents + VALUES(llm_cost_milli_cents)`

	if _, err := s.db.ExecContext(ctx, query, taskID, stepID, organizationID, costMilliCents); err != nil {
		return fmt.Errorf("failed to update step cost: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *MySQLStepStore) Close() error {
	return s.db.Close()
}
