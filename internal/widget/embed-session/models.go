package embedsession

import (
	"context"
	"errors"

	submissioncodec "now-hiring/internal/application/submission-codec"
	"now-hiring/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrNotEmbedded       = errors.New("session is not embedded")
)

// Stage is the screen the embedded form shows.
type Stage string

const (
	Landing Stage = "landing"
	Form    Stage = "form"
	Success Stage = "success"
)

// Submitter sends a finished record; *submissioncodec.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, record *models.ApplicationRecord) (*submissioncodec.Result, error)
}

// Poster delivers a message to the parent window.
type Poster interface {
	PostMessage(ctx context.Context, data string) error
}

// Options configures one session.
type Options struct {
	// Embedded is set when the form runs inside the widget frame.
	Embedded bool
	// Source is the host page the widget was opened from.
	Source string
}
