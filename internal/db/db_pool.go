package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolConfig struct {
	MaxConns          int
	MinConns          int
	HealthCheckPeriod time.Duration
	PoolTimeout       time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	ApplicationName   string
}

// NewPool connects with exponential backoff between attempts. A pool is only
// returned once it answered a ping.
func NewPool(ctx context.Context, dsn string, cfg PoolConfig, log *slog.Logger) (*pgxpool.Pool, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	conf.MaxConns = int32(cfg.MaxConns)
	conf.MinConns = int32(cfg.MinConns)
	conf.HealthCheckPeriod = cfg.HealthCheckPeriod
	conf.MaxConnLifetime = 30 * time.Minute
	conf.MaxConnIdleTime = 5 * time.Minute
	if cfg.ApplicationName != "" {
		conf.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}
	conf.ConnConfig.ConnectTimeout = cfg.PoolTimeout

	attempts := max(cfg.RetryAttempts, 1)

	var pool *pgxpool.Pool
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.RetryDelay * time.Duration(1<<(i-1))):
			}
		}

		pool, err = pgxpool.NewWithConfig(ctx, conf)
		if err != nil {
			log.Warn("failed to create connection pool",
				slog.Int("attempt", i+1),
				slog.Int("max_attempts", attempts),
				slog.String("error", err.Error()))
			continue
		}

		if err = pool.Ping(ctx); err != nil {
			log.Warn("database ping failed",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()))
			pool.Close()
			continue
		}

		log.Info("connected to database")
		return pool, nil
	}

	return nil, fmt.Errorf("failed to create connection pool after %d attempts: %w", attempts, err)
}
