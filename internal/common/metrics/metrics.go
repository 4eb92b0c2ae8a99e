package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of application submissions by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_submission_duration_seconds",
			Help:    "Duration of submission handling in seconds, excluding notification delivery",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_persistence_failures_total",
			Help: "Total number of failed record writes by storage strategy",
		},
		[]string{"strategy"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_notifications_total",
			Help: "Total number of notification deliveries by channel and status",
		},
		[]string{"channel", "status"},
	)

	DecodeIssues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_decode_issues_total",
			Help: "Structured fields that failed to parse and were defaulted",
		},
		[]string{"field"},
	)

	ThrottledRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_throttled_requests_total",
			Help: "Submissions rejected by the per-client rate limit",
		},
	)

	NotificationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_notifications_in_flight",
			Help: "Notification deliveries currently running",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)
