package postgres

import (
	"context"
	"errors"
	"fmt"
)

// HealthCheck reports whether the ledger is reachable and migrated.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a ledger health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping fails when the database is down or the migrations table is missing.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var applied int64
	if err := h.pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	if applied == 0 {
		return errors.New("ledger: no migrations applied")
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "ledger"
}
