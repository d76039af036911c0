package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	gradingRequestsTotal  *prometheus.CounterVec
	gradingLatencySeconds *prometheus.HistogramVec
	gradingErrorsTotal    *prometheus.CounterVec
	webhookCallsTotal     *prometheus.CounterVec
	reviewsDecidedTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for grading observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		gradingRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_requests_total",
			Help: "Total number of grading API requests served.",
		}, []string{"method", "route", "status"})

		gradingLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grading_latency_seconds",
			Help:    "Latency distribution for grading API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		gradingErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_errors_total",
			Help: "Total number of error responses returned by grading endpoints.",
		}, []string{"method", "route", "status"})

		webhookCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_webhook_calls_total",
			Help: "Total number of outbound AI workflow webhook calls.",
		}, []string{"action", "outcome"})

		reviewsDecidedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_reviews_decided_total",
			Help: "Total number of review decisions by outcome.",
		}, []string{"action"})

		prometheus.MustRegister(
			gradingRequestsTotal, gradingLatencySeconds, gradingErrorsTotal,
			webhookCallsTotal, reviewsDecidedTotal,
		)
	})
}

// GradingRequests exposes the counter for grading requests.
func GradingRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingRequestsTotal
}

// GradingLatency exposes the latency histogram for grading requests.
func GradingLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return gradingLatencySeconds
}

// GradingErrors exposes the counter for grading error responses.
func GradingErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingErrorsTotal
}

// WebhookCalls exposes the counter for outbound webhook calls.
func WebhookCalls() *prometheus.CounterVec {
	RegisterMetrics()
	return webhookCallsTotal
}

// ReviewsDecided exposes the counter for review decisions.
func ReviewsDecided() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewsDecidedTotal
}
