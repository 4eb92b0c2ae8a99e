package database

import (
	"database/sql"
	"fmt"

	"now-hiring/internal/common/config"

	_ "modernc.org/sqlite"
)

// NewSQLite opens an embedded SQLite database, used for single-node installs and local runs.
func NewSQLite(cfg config.SQLiteConfig) (*SQLClient, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)

	return &SQLClient{DB: db, Dialect: DialectSQLite}, nil
}
