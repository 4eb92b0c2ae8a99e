package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"now-hiring/internal/common/config"
	"now-hiring/internal/common/database"
	"now-hiring/internal/common/logger"
	"now-hiring/internal/models"

	"github.com/google/uuid"
)

const documentDDL = `
CREATE TABLE IF NOT EXISTS applications_extended (
	id TEXT PRIMARY KEY,
	payload %s NOT NULL,
	photo_data TEXT,
	resume_data TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// DocumentStore keeps the whole record as one JSON payload, with each
// attachment alongside as a data: URI.
type DocumentStore struct {
	db     *sql.DB
	schema *schema
	logger logger.Logger
	now    func() time.Time
}

func NewDocumentStore(db *sql.DB, dialect database.Dialect, log logger.Logger) *DocumentStore {
	return &DocumentStore{
		db:     db,
		schema: &schema{ddl: fmt.Sprintf(documentDDL, jsonType(dialect))},
		logger: log.WithFields(map[string]interface{}{"component": "record-store", "strategy": config.StrategyDocument}),
		now:    time.Now,
	}
}

func (s *DocumentStore) Strategy() string { return config.StrategyDocument }

// attachmentNames travels inside the payload so Get can restore filenames.
type document struct {
	models.ApplicationRecord
	AttachmentNames map[models.AttachmentSlot]string `json:"attachmentNames,omitempty"`
}

func (s *DocumentStore) Save(ctx context.Context, r *models.ApplicationRecord) (*Saved, error) {
	if err := s.schema.ensure(ctx, s.db); err != nil {
		return nil, err
	}

	doc := document{ApplicationRecord: *r}
	var photo, resume sql.NullString
	for _, slot := range models.AttachmentSlots {
		att := r.Attachments.Get(slot)
		if att == nil || len(att.Data) == 0 {
			continue
		}
		if doc.AttachmentNames == nil {
			doc.AttachmentNames = make(map[models.AttachmentSlot]string)
		}
		doc.AttachmentNames[slot] = att.Filename
		switch slot {
		case models.SlotPhoto:
			photo = nullable(att.DataURI())
		case models.SlotResume:
			resume = nullable(att.DataURI())
		}
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", ErrInsertFailed, err)
	}

	id := uuid.New().String()
	createdAt := s.now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications_extended (id, payload, photo_data, resume_data, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, string(payload), photo, resume, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	s.logger.Info("application document created", map[string]interface{}{
		"applicationId": id,
		"position":      r.Job.Position,
		"payloadBytes":  len(payload),
	})
	return &Saved{ID: id, CreatedAt: createdAt}, nil
}

func (s *DocumentStore) Get(ctx context.Context, id string) (*models.ApplicationRecord, error) {
	if err := s.schema.ensure(ctx, s.db); err != nil {
		return nil, err
	}

	var payload string
	var photo, resume sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT payload, photo_data, resume_data
		FROM applications_extended WHERE id = $1`, id).Scan(&payload, &photo, &resume)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query application %s: %w", id, err)
	}

	var doc document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("decode payload %s: %w", id, err)
	}

	r := doc.ApplicationRecord
	for slot, uri := range map[models.AttachmentSlot]sql.NullString{models.SlotPhoto: photo, models.SlotResume: resume} {
		if !uri.Valid {
			continue
		}
		att, err := models.ParseDataURI(uri.String)
		if err != nil {
			return nil, fmt.Errorf("decode %s of %s: %w", slot, id, err)
		}
		att.Filename = doc.AttachmentNames[slot]
		if err := r.Attachments.Set(slot, att); err != nil {
			return nil, err
		}
	}
	return &r, nil
}
