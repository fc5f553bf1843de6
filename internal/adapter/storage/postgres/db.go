package postgres

import (
	"context"
	"fmt"

	"wager-treasury/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ApplicationName tags ledger sessions in pg_stat_activity.
const ApplicationName = "wager-treasury"

// NewPool opens the ledger pool. Sessions run in UTC because the daily
// payout and transfer counters are keyed by UTC calendar day.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := ledgerPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating ledger pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging ledger database %s/%s: %w", cfg.Host, cfg.DBName, err)
	}

	log.Info().
		Str("component", "ledger").
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Int32("max_conns", cfg.MaxConns).
		Msg("ledger pool established")

	return pool, nil
}

func ledgerPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	rp := poolCfg.ConnConfig.RuntimeParams
	rp["application_name"] = ApplicationName
	rp["timezone"] = "UTC"
	return poolCfg, nil
}
