package intakehandler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	submissioncodec "now-hiring/internal/application/submission-codec"
	stderrors "now-hiring/internal/common/errors"
	"now-hiring/internal/common/logger"
	"now-hiring/internal/common/metrics"
	"now-hiring/internal/common/validation"
	"now-hiring/internal/models"
)

// Handler serves the submission endpoint: validate, persist, then notify
// in the background.
type Handler struct {
	config   *Config
	store    Store
	notifier Notifier
	throttle Throttle
	errors   *stderrors.ErrorHandler
	logger   logger.Logger

	inflight sync.WaitGroup
}

// NewHandler builds the endpoint. notifier and throttle may be nil.
func NewHandler(config *Config, store Store, notifier Notifier, throttle Throttle, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"component": "intake-handler"})
	return &Handler{
		config:   config,
		store:    store,
		notifier: notifier,
		throttle: throttle,
		errors:   stderrors.NewErrorHandler(l),
		logger:   l,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := OutcomeAccepted
	defer func() {
		metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
		metrics.SubmissionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	fail := func(err error) {
		outcome = strings.ToLower(string(stderrors.Normalize(err).Code))
		h.errors.WriteError(w, err)
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		outcome = "method_not_allowed"
		stderrors.WriteJSON(w, http.StatusMethodNotAllowed, stderrors.Response{Error: "Method not allowed"})
		return
	}

	client := clientIP(r)
	if err := h.checkThrottle(r.Context(), client); err != nil {
		fail(err)
		return
	}

	decoded, err := h.decode(w, r)
	if err != nil {
		fail(err)
		return
	}

	out, err := h.Execute(r.Context(), &decoded.Record)
	if err != nil {
		fail(err)
		return
	}

	stderrors.WriteJSON(w, http.StatusOK, submissioncodec.Result{Success: true, ID: out.ID})
}

func (h *Handler) checkThrottle(ctx context.Context, client string) error {
	if h.throttle == nil {
		return nil
	}
	allowed, err := h.throttle.Allow(ctx, client)
	if err != nil {
		// limiter errors fail open
		h.logger.Warn("throttle check failed", map[string]interface{}{
			"client": client,
			"error":  err,
		})
		return nil
	}
	if !allowed {
		metrics.ThrottledRequests.Inc()
		return stderrors.NewRateLimitedError(client)
	}
	return nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*submissioncodec.Decoded, error) {
	if h.config.MaxRequestBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxRequestBytes)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, stderrors.NewInvalidRequestError(err)
	}

	decoded, err := submissioncodec.Decode(mr, submissioncodec.Limits{MaxAttachmentBytes: h.config.MaxAttachmentBytes})
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, stderrors.NewAttachmentTooLargeError("request", tooBig.Limit)
		}
		return nil, err
	}

	for _, issue := range decoded.Issues {
		metrics.DecodeIssues.WithLabelValues(issue.Field).Inc()
		h.logger.Warn("structured field defaulted", map[string]interface{}{
			"field": issue.Field,
			"error": stderrors.NewDecodeFailedError(issue.Field, issue.Err),
		})
	}
	if len(decoded.Unknown) > 0 {
		h.logger.Debug("ignored unknown parts", map[string]interface{}{"parts": decoded.Unknown})
	}
	return decoded, nil
}

// Execute runs the pipeline on an already decoded record. Validation failure
// has no side effects. A persistence failure fails the call only under the
// strict policy. Notification never affects the result.
func (h *Handler) Execute(ctx context.Context, record *models.ApplicationRecord) (*Output, error) {
	if err := h.validate(record); err != nil {
		return nil, err
	}

	out := &Output{}
	saved, err := h.store.Save(ctx, record)
	if err != nil {
		metrics.PersistenceFailures.WithLabelValues(h.store.Strategy()).Inc()
		h.logger.Error("failed to persist application", map[string]interface{}{
			"strategy": h.store.Strategy(),
			"policy":   h.config.PersistencePolicy,
			"error":    err,
		})
		if h.config.strict() {
			return nil, stderrors.NewPersistenceFailedError(h.store.Strategy(), err)
		}
	} else {
		out.ID = saved.ID
		out.Persisted = true
	}

	h.notifyAsync(ctx, out.ID, record.Clone())

	h.logger.Info("application accepted", map[string]interface{}{
		"applicationId": out.ID,
		"persisted":     out.Persisted,
		"position":      record.Job.Position,
	})
	return out, nil
}

func (h *Handler) validate(record *models.ApplicationRecord) error {
	result, err := validation.ValidateApplication(record, validation.ApplicationSchemaOptions{
		Positions: h.config.Positions,
	})
	if err != nil {
		return stderrors.NewInternalError(err)
	}
	if result.Valid {
		return nil
	}
	fields := result.Fields()
	return stderrors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; ")).
		WithMetadata("fields", fields)
}

// notifyAsync delivers on its own goroutine, detached from the request's
// cancellation and bounded by NotifyTimeout.
func (h *Handler) notifyAsync(parent context.Context, id string, record models.ApplicationRecord) {
	if h.notifier == nil {
		return
	}

	h.inflight.Add(1)
	metrics.NotificationsInFlight.Inc()

	go func() {
		defer h.inflight.Done()
		defer metrics.NotificationsInFlight.Dec()
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("notification panicked", map[string]interface{}{
					"applicationId": id,
					"panic":         rec,
				})
			}
		}()

		ctx := context.WithoutCancel(parent)
		if h.config.NotifyTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.config.NotifyTimeout)
			defer cancel()
		}

		out, err := h.notifier.Notify(ctx, &record)
		if err != nil {
			h.logger.Error("notification failed", map[string]interface{}{
				"applicationId": id,
				"error":         err,
			})
			return
		}
		h.logger.Info("notification delivered", map[string]interface{}{
			"applicationId":  id,
			"notificationId": out.NotificationID,
			"status":         out.Status(),
		})
	}()
}

// Drain waits for background notifications, or for ctx to end.
func (h *Handler) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type clientIPKey struct{}

// WithClientIP attaches the client address resolved by the router, which
// knows which proxies to trust.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// clientIP keys the throttle. Forwarding headers are never read here; only
// an address resolved upstream or the connection's remote address counts.
func clientIP(r *http.Request) string {
	if ip, _ := r.Context().Value(clientIPKey{}).(string); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
