// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"order-loadgen/internal/common/config"
)

// connections are recycled so a failover behind the host name is picked up
const connMaxLifetime = 5 * time.Minute

// PostgresClient is the order store's handle on Postgres: statements with
// a context, a health check and shutdown.
type PostgresClient struct {
	db *sql.DB
}

// NewPostgres opens a pool for cfg. No connection is made until first use;
// callers Ping to find out whether the server is reachable.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
	}
	sizePool(db, cfg)
	return NewPostgresFromDB(db), nil
}

func NewPostgresFromDB(db *sql.DB) *PostgresClient {
	return &PostgresClient{db: db}
}

// sizePool leaves database/sql defaults in place for unset limits.
func sizePool(db *sql.DB, cfg config.PostgresConfig) {
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	db.SetConnMaxLifetime(connMaxLifetime)
}

func (c *PostgresClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

func (c *PostgresClient) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return c.db.QueryRowContext(ctx, query, args...)
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	return c.db.Close()
}
