package embedsession

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	formstate "now-hiring/internal/application/form-state"
	submissioncodec "now-hiring/internal/application/submission-codec"
	"now-hiring/internal/common/logger"
	"now-hiring/internal/models"
	widgetcontroller "now-hiring/internal/widget/widget-controller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockSubmitter struct {
	SubmitFunc func(ctx context.Context, record *models.ApplicationRecord) (*submissioncodec.Result, error)
	records    []models.ApplicationRecord
}

func (m *MockSubmitter) Submit(ctx context.Context, record *models.ApplicationRecord) (*submissioncodec.Result, error) {
	m.records = append(m.records, *record)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, record)
	}
	return &submissioncodec.Result{Success: true, ID: "app-1"}, nil
}

type MockPoster struct {
	messages []string
}

func (m *MockPoster) PostMessage(_ context.Context, data string) error {
	m.messages = append(m.messages, data)
	return nil
}

const hostPage = "https://shop.example.org/"

func fillName(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.Edit(func(m *formstate.Model) error {
		if err := m.Update(formstate.ScalarField{Name: "firstName"}, formstate.Text("Jane")); err != nil {
			return err
		}
		return m.Update(formstate.ScalarField{Name: "lastName"}, formstate.Text("Doe"))
	}))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestNew_InitialStage(t *testing.T) {
	embedded := New(Options{Embedded: true, Source: hostPage}, &MockSubmitter{}, &MockPoster{}, logger.NewTestLogger(t))
	assert.Equal(t, Landing, embedded.Stage())

	direct := New(Options{}, &MockSubmitter{}, nil, logger.NewTestLogger(t))
	assert.Equal(t, Form, direct.Stage())
	assert.ErrorIs(t, direct.Begin(), ErrInvalidTransition)
}

func TestSession_FullCycle(t *testing.T) {
	sub := &MockSubmitter{}
	s := New(Options{Embedded: true, Source: hostPage}, sub, &MockPoster{}, logger.NewTestLogger(t))

	assert.ErrorIs(t, s.Edit(func(*formstate.Model) error { return nil }), ErrInvalidTransition, "no edits on the landing screen")
	require.NoError(t, s.Begin())
	assert.Equal(t, Form, s.Stage())

	fillName(t, s)
	result, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "app-1", result.ID)
	assert.Equal(t, Success, s.Stage())
	assert.Equal(t, result, s.Result())

	require.Len(t, sub.records, 1)
	assert.Equal(t, "Jane", sub.records[0].PersonalInfo.FirstName)
	assert.Equal(t, hostPage, sub.records[0].Source)

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition, "no second send from Success")

	require.NoError(t, s.Restart())
	assert.Equal(t, Form, s.Stage())
	assert.Nil(t, s.Result())

	require.NoError(t, s.Edit(func(m *formstate.Model) error {
		r := m.Snapshot()
		assert.Empty(t, r.PersonalInfo.FirstName)
		assert.Equal(t, hostPage, r.Source, "restart keeps the source")
		return nil
	}))
}

func TestSession_SubmittedRecordIsImmutable(t *testing.T) {
	sub := &MockSubmitter{}
	s := New(Options{Source: hostPage}, sub, nil, logger.NewTestLogger(t))
	fillName(t, s)

	_, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Restart())
	require.NoError(t, s.Edit(func(m *formstate.Model) error {
		return m.Update(formstate.ScalarField{Name: "firstName"}, formstate.Text("Other"))
	}))

	assert.Equal(t, "Jane", sub.records[0].PersonalInfo.FirstName)
}

func TestSession_SubmitFailureKeepsForm(t *testing.T) {
	sub := &MockSubmitter{
		SubmitFunc: func(ctx context.Context, record *models.ApplicationRecord) (*submissioncodec.Result, error) {
			return &submissioncodec.Result{Error: "Missing required fields"}, submissioncodec.ErrSubmissionRejected
		},
	}
	s := New(Options{}, sub, nil, logger.NewTestLogger(t))
	fillName(t, s)

	result, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, submissioncodec.ErrSubmissionRejected)
	assert.Equal(t, "Missing required fields", result.Error)
	assert.Equal(t, Form, s.Stage())

	require.NoError(t, s.Edit(func(m *formstate.Model) error {
		assert.Equal(t, "Jane", m.Snapshot().PersonalInfo.FirstName)
		return nil
	}))
	assert.ErrorIs(t, s.Restart(), ErrInvalidTransition)
}

func TestSession_Close(t *testing.T) {
	poster := &MockPoster{}
	s := New(Options{Embedded: true}, &MockSubmitter{}, poster, logger.NewTestLogger(t))

	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, []string{"close-widget"}, poster.messages)

	direct := New(Options{}, &MockSubmitter{}, poster, logger.NewTestLogger(t))
	assert.ErrorIs(t, direct.Close(context.Background()), ErrNotEmbedded)
}

func TestSession_CloseReachesHost(t *testing.T) {
	cfg := &widgetcontroller.Config{
		Origin:        "https://jobs.example.com",
		AutoOpenDelay: time.Hour,
		RootPath:      "/",
		MarkerKey:     "hiring-widget-dismissed",
	}
	markers := widgetcontroller.NewMemoryMarkers()
	host, err := widgetcontroller.New(cfg, widgetcontroller.Host{URL: hostPage}, markers, nil, logger.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, host.Attach())
	t.Cleanup(host.Detach)
	require.NoError(t, host.Activate())

	frame, err := url.Parse(host.View().FrameSrc)
	require.NoError(t, err)
	opts := OptionsFromURL(frame)
	assert.True(t, opts.Embedded)
	assert.Equal(t, hostPage, opts.Source)

	s := New(opts, &MockSubmitter{}, HostPoster{Host: host, Origin: cfg.Origin}, logger.NewTestLogger(t))
	require.NoError(t, s.Close(context.Background()))

	v := host.View()
	assert.Equal(t, widgetcontroller.Collapsed, v.State)
	assert.True(t, v.Minimized)
	_, seen := markers.Get("hiring-widget-dismissed")
	assert.True(t, seen)
}

func TestOptionsFromURL_Direct(t *testing.T) {
	u, err := url.Parse("https://jobs.example.com/?source=ignored")
	require.NoError(t, err)
	opts := OptionsFromURL(u)
	assert.False(t, opts.Embedded)
}

func TestSession_ContextCancelled(t *testing.T) {
	sub := &MockSubmitter{
		SubmitFunc: func(ctx context.Context, record *models.ApplicationRecord) (*submissioncodec.Result, error) {
			return nil, ctx.Err()
		},
	}
	s := New(Options{}, sub, nil, logger.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Submit(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Form, s.Stage())
}
