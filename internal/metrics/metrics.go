package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foraginglink_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "foraginglink_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	RejectedWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foraginglink_rejected_writes_total",
		Help: "Writes rejected by a business rule, by reason.",
	}, []string{"reason"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foraginglink_course_registrations_total",
		Help: "Course registration lifecycle events.",
	}, []string{"event"})

	SMSFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foraginglink_sms_failures_total",
		Help: "Notifications that could not be delivered.",
	})
)
