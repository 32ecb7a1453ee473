package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nft-market-backend/pkg/logger"
)

// DBConfig groups every parameter needed to connect to PostgreSQL.
type DBConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DBName   string
	SSLMode  string

	// Connection pool
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration

	// Retry behaviour on startup
	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
}

// PostgresDB wraps the pgx connection pool and its lifecycle.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	Config *DBConfig
}

func New(cfg *DBConfig) *PostgresDB {
	return &PostgresDB{Config: cfg}
}

func (db *PostgresDB) connString() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		db.Config.Username,
		db.Config.Password,
		db.Config.Host,
		db.Config.Port,
		db.Config.DBName,
		db.Config.SSLMode,
	)
}

func (db *PostgresDB) poolConfig() (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(db.connString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = db.Config.MaxConns
	config.MinConns = db.Config.MinConns
	config.MaxConnLifetime = db.Config.MaxConnLifetime
	config.MaxConnIdleTime = db.Config.MaxConnIdleTime
	config.HealthCheckPeriod = db.Config.HealthCheckPeriod
	config.ConnConfig.ConnectTimeout = db.Config.ConnectTimeout

	return config, nil
}

// Connect establishes the pool, retrying with a linear backoff.
func (db *PostgresDB) Connect(ctx context.Context) error {
	config, err := db.poolConfig()
	if err != nil {
		return err
	}

	var pool *pgxpool.Pool
	var lastErr error

	for attempt := 1; attempt <= db.Config.MaxRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, db.Config.ConnectTimeout)
		pool, lastErr = pgxpool.NewWithConfig(connectCtx, config)
		cancel()

		if lastErr == nil {
			if err := pool.Ping(ctx); err != nil {
				pool.Close()
				lastErr = err
			} else {
				db.Pool = pool
				logger.Info("database connected", map[string]interface{}{
					"host":    db.Config.Host,
					"db":      db.Config.DBName,
					"attempt": attempt,
				})
				return nil
			}
		}

		logger.Warn("database connection attempt failed", map[string]interface{}{
			"attempt": attempt,
			"max":     db.Config.MaxRetries,
			"error":   lastErr.Error(),
		})

		if attempt < db.Config.MaxRetries {
			select {
			case <-time.After(db.Config.RetryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed to connect to database after %d attempts: %w", db.Config.MaxRetries, lastErr)
}

// Ping verifies the database is reachable. Used by the health endpoint.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close shuts the pool down. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}
	db.Pool.Close()
	db.Pool = nil
	return nil
}
