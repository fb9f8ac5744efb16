// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/quire/pkg/core"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quire_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quire_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	Authorizations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quire_authorizations_total",
			Help: "Outcomes of wallet authorization checks by operation",
		},
		[]string{"operation", "result"},
	)
)

// AuthorizationResult maps the outcome of a note operation onto the "result" label.
func AuthorizationResult(err error) string {
	switch {
	case err == nil:
		return "allowed"
	case errors.Is(err, core.ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, core.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, core.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, core.ErrNotFound):
		return "not_found"
	case errors.Is(err, core.ErrMissingFields):
		return "missing_fields"
	default:
		return "error"
	}
}

// ObserveAuthorization counts one authorization outcome.
func ObserveAuthorization(operation string, err error) {
	Authorizations.WithLabelValues(operation, AuthorizationResult(err)).Inc()
}
