package recordstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"now-hiring/internal/common/config"
	"now-hiring/internal/common/database"
	"now-hiring/internal/common/logger"
)

// New returns the store for the configured strategy.
func New(cfg *Config, client *database.SQLClient, log logger.Logger) (Store, error) {
	switch cfg.Strategy {
	case config.StrategyColumns:
		return NewColumnStore(client.DB, client.Dialect, log), nil
	case config.StrategyDocument:
		return NewDocumentStore(client.DB, client.Dialect, log), nil
	default:
		return nil, fmt.Errorf("unknown storage strategy %q", cfg.Strategy)
	}
}

// schema creates a table on first use. A failed attempt is retried on the
// next call instead of being remembered.
type schema struct {
	mu    sync.Mutex
	ready bool
	ddl   string
}

func (s *schema) ensure(ctx context.Context, db *sql.DB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if _, err := db.ExecContext(ctx, s.ddl); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaFailed, err)
	}
	s.ready = true
	return nil
}

func blobType(d database.Dialect) string {
	if d == database.DialectPostgres {
		return "BYTEA"
	}
	return "BLOB"
}

func jsonType(d database.Dialect) string {
	if d == database.DialectPostgres {
		return "JSONB"
	}
	return "TEXT"
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
