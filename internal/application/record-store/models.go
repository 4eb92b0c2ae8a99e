package recordstore

import (
	"context"
	"errors"
	"time"

	"now-hiring/internal/models"
)

var (
	ErrSchemaFailed = errors.New("SCHEMA_INIT_FAILED")
	ErrInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrNotFound     = errors.New("RECORD_NOT_FOUND")
)

// Store persists one application per call. There is no update or delete path.
type Store interface {
	Save(ctx context.Context, record *models.ApplicationRecord) (*Saved, error)
	Get(ctx context.Context, id string) (*models.ApplicationRecord, error)
	Strategy() string
}

// Saved identifies a stored record.
type Saved struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
