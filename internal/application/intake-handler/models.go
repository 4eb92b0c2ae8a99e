package intakehandler

import (
	"context"

	recordstore "now-hiring/internal/application/record-store"
	sendnotification "now-hiring/internal/application/send-notification"
	"now-hiring/internal/models"
)

// Notifier delivers the hiring-team notification for a stored application.
type Notifier interface {
	Notify(ctx context.Context, r *models.ApplicationRecord) (*sendnotification.Output, error)
}

// Throttle decides whether a client may submit now.
type Throttle interface {
	Allow(ctx context.Context, client string) (bool, error)
}

// Output is the result of one accepted submission.
type Output struct {
	ID        string
	Persisted bool
}

// Store is the persistence contract the handler depends on.
type Store = recordstore.Store

// Submission outcomes used as metric labels.
const (
	OutcomeAccepted = "accepted"
)
