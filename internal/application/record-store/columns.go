package recordstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"now-hiring/internal/common/config"
	"now-hiring/internal/common/database"
	"now-hiring/internal/common/logger"
	"now-hiring/internal/models"

	"github.com/google/uuid"
)

const columnsDDL = `
CREATE TABLE IF NOT EXISTS applications (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	position TEXT NOT NULL,
	message TEXT,
	source TEXT,
	photo_name TEXT,
	photo_type TEXT,
	photo %s,
	created_at TIMESTAMP NOT NULL
)`

// ColumnStore keeps the contact scalars and the photo in named columns,
// the layout of the first-generation applications table. Other scalars,
// the structured sections and the resume are not stored; use the document
// strategy to keep the whole record.
type ColumnStore struct {
	db     *sql.DB
	schema *schema
	logger logger.Logger
	now    func() time.Time
}

func NewColumnStore(db *sql.DB, dialect database.Dialect, log logger.Logger) *ColumnStore {
	return &ColumnStore{
		db:     db,
		schema: &schema{ddl: fmt.Sprintf(columnsDDL, blobType(dialect))},
		logger: log.WithFields(map[string]interface{}{"component": "record-store", "strategy": config.StrategyColumns}),
		now:    time.Now,
	}
}

func (s *ColumnStore) Strategy() string { return config.StrategyColumns }

func (s *ColumnStore) Save(ctx context.Context, r *models.ApplicationRecord) (*Saved, error) {
	if err := s.schema.ensure(ctx, s.db); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	createdAt := s.now().UTC()

	var photoName, photoType sql.NullString
	var photo interface{}
	if att := r.Attachments.Photo; att != nil && len(att.Data) > 0 {
		photoName = nullable(att.Filename)
		photoType = nullable(att.ContentType)
		photo = att.Data
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, first_name, last_name, email, phone, position,
			message, source, photo_name, photo_type, photo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id,
		r.PersonalInfo.FirstName,
		r.PersonalInfo.LastName,
		r.PersonalInfo.Email,
		nullable(r.PersonalInfo.Phone),
		r.Job.Position,
		nullable(r.Message),
		nullable(r.Source),
		photoName,
		photoType,
		photo,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	s.logger.Info("application record created", map[string]interface{}{
		"applicationId": id,
		"position":      r.Job.Position,
		"hasPhoto":      photo != nil,
	})
	return &Saved{ID: id, CreatedAt: createdAt}, nil
}

func (s *ColumnStore) Get(ctx context.Context, id string) (*models.ApplicationRecord, error) {
	if err := s.schema.ensure(ctx, s.db); err != nil {
		return nil, err
	}

	var (
		r                                       models.ApplicationRecord
		phone, message, source, photoName, mime sql.NullString
		photo                                   []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT first_name, last_name, email, phone, position,
			message, source, photo_name, photo_type, photo
		FROM applications WHERE id = $1`, id).Scan(
		&r.PersonalInfo.FirstName,
		&r.PersonalInfo.LastName,
		&r.PersonalInfo.Email,
		&phone,
		&r.Job.Position,
		&message,
		&source,
		&photoName,
		&mime,
		&photo,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query application %s: %w", id, err)
	}

	r.PersonalInfo.Phone = phone.String
	r.Message = message.String
	r.Source = source.String
	if len(photo) > 0 {
		r.Attachments.Photo = &models.Attachment{
			Filename:    photoName.String,
			ContentType: mime.String,
			Data:        photo,
		}
	}
	return &r, nil
}
