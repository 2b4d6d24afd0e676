// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the GiftLink collectors. A nil *Metrics records nothing.
type Metrics struct {
	AuthRequests *prometheus.CounterVec
	AuthDuration *prometheus.HistogramVec
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftlink_auth_requests_total",
				Help: "Auth operations by operation and outcome (ok, client_error, internal_error)",
			},
			[]string{"operation", "outcome"},
		),
		AuthDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "giftlink_auth_duration_seconds",
				Help: "Auth operation latency. Password hashing dominates.",
				// bcrypt at cost 10 sits around 50-100ms.
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giftlink_http_requests_total",
				Help: "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "status"},
		),
	}

	reg.MustRegister(m.AuthRequests, m.AuthDuration, m.HTTPRequests)
	return m
}

// ObserveAuth records one auth operation.
func (m *Metrics) ObserveAuth(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AuthRequests.WithLabelValues(operation, outcome).Inc()
	m.AuthDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveHTTP records one HTTP response.
func (m *Metrics) ObserveHTTP(route, method string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}
