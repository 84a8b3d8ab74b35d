package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "edutask"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	TasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Tasks created by admins.",
	})

	CompletionsFannedOut = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completions_fanned_out_total",
		Help:      "Pending completions created by task fan-out.",
	})

	CompletionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_toggles_total",
		Help:      "Completion state changes by action (complete, uncomplete).",
	}, []string{"action"})
)
