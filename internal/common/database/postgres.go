package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"now-hiring/internal/common/config"

	_ "github.com/lib/pq"
)

// Dialect names the SQL flavour behind a SQLClient. Both accept $n placeholders;
// they differ in column types for DDL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// SQLClient wraps the SQL database connection
type SQLClient struct {
	DB      *sql.DB
	Dialect Dialect
}

// Open connects to the driver named in cfg.
func Open(cfg config.DatabaseConfig) (*SQLClient, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgres(cfg.Postgres)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*SQLClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &SQLClient{DB: db, Dialect: DialectPostgres}, nil
}

// Ping tests the database connection
func (c *SQLClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
