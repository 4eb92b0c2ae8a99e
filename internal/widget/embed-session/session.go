package embedsession

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	formstate "now-hiring/internal/application/form-state"
	submissioncodec "now-hiring/internal/application/submission-codec"
	"now-hiring/internal/common/logger"
	widgetcontroller "now-hiring/internal/widget/widget-controller"
)

// Session drives one visit to the application form. Embedded sessions open
// on a landing screen; direct visits start on the form.
type Session struct {
	opts      Options
	submitter Submitter
	poster    Poster
	logger    logger.Logger

	mu     sync.Mutex
	stage  Stage
	form   *formstate.Model
	result *submissioncodec.Result
}

func New(opts Options, submitter Submitter, poster Poster, log logger.Logger) *Session {
	s := &Session{
		opts:      opts,
		submitter: submitter,
		poster:    poster,
		logger: log.WithFields(map[string]interface{}{
			"component": "embed-session",
			"embedded":  opts.Embedded,
		}),
		form:  formstate.NewWithSource(opts.Source),
		stage: Form,
	}
	if opts.Embedded {
		s.stage = Landing
	}
	return s
}

// OptionsFromURL reads a form page address. Only the embed path runs embedded.
func OptionsFromURL(u *url.URL) Options {
	return Options{
		Embedded: u.Path == widgetcontroller.EmbedPath,
		Source:   u.Query().Get("source"),
	}
}

func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Begin leaves the landing screen.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(Landing, Form)
}

// Edit applies fn to the form under edit. Edits are only accepted on the form screen.
func (s *Session) Edit(fn func(*formstate.Model) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != Form {
		return fmt.Errorf("%w: edit in %s", ErrInvalidTransition, s.stage)
	}
	return fn(s.form)
}

// Submit sends a snapshot of the form and moves to Success once the server
// confirms. On failure the session stays on the form with its edits intact.
func (s *Session) Submit(ctx context.Context) (*submissioncodec.Result, error) {
	s.mu.Lock()
	if s.stage != Form {
		stage := s.stage
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: submit in %s", ErrInvalidTransition, stage)
	}
	record := s.form.Snapshot()
	s.mu.Unlock()

	result, err := s.submitter.Submit(ctx, &record)
	if err != nil {
		s.logger.Warn("submission failed", map[string]interface{}{"error": err})
		return result, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	if err := s.transition(Form, Success); err != nil {
		return result, err
	}
	s.logger.Info("application submitted", map[string]interface{}{
		"id":     result.ID,
		"source": record.Source,
	})
	return result, nil
}

// Result is the confirmation of the last successful submission.
func (s *Session) Result() *submissioncodec.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Restart returns from Success to an empty form that keeps the source.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(Success, Form); err != nil {
		return err
	}
	s.form.Reset(true)
	s.result = nil
	return nil
}

// Close asks the host page to close the widget.
func (s *Session) Close(ctx context.Context) error {
	if !s.opts.Embedded {
		return ErrNotEmbedded
	}
	return s.poster.PostMessage(ctx, widgetcontroller.CloseSignal)
}

// transition requires s.mu.
func (s *Session) transition(from, to Stage) error {
	if s.stage != from {
		return fmt.Errorf("%w: %s to %s from %s", ErrInvalidTransition, from, to, s.stage)
	}
	s.stage = to
	return nil
}

// HostPoster delivers straight to a host controller in the same process.
type HostPoster struct {
	Host   *widgetcontroller.Controller
	Origin string
}

func (p HostPoster) PostMessage(_ context.Context, data string) error {
	p.Host.HandleMessage(widgetcontroller.Message{Origin: p.Origin, Data: data})
	return nil
}
