// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics defines the Prometheus metrics of the session subsystem.
// It is the single source of truth for metric names, labels and help
// strings.
//
// Metrics live in a dedicated registry owned by [PrometheusRecorder], so that
// several recorders (one per test) never collide on registration.
package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/go-auth-session/models"
)

const namespace = "auth_session"

// Operation outcomes used as the "result" label.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected"
	ResultStale    = "stale"
)

// Recorder receives session events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// Transition records a session state change.
	Transition(from, to models.SessionStatus)
	// Operation records the outcome of a SessionController operation
	// ("login", "register", "update_user", ...).
	Operation(op, result string)
	// ForcedLogout records a session ended by a server 401.
	ForcedLogout()
}

// PrometheusRecorder implements [Recorder] on top of a private registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	// transitionsTotal counts state changes.
	// Labels:
	//   - from, to: SessionStatus names ("loading", "authenticated", ...)
	transitionsTotal *prometheus.CounterVec

	// operationsTotal counts SessionController operations.
	// Labels:
	//   - operation: "initialize", "login", "register", "logout", "update_user",
	//     "refresh", "deactivate"
	//   - result: "success", "failure", "rejected" or "stale"
	operationsTotal *prometheus.CounterVec

	// forcedLogoutsTotal counts sessions ended by a 401 from the server.
	forcedLogoutsTotal prometheus.Counter

	// authenticated is 1 while a user is signed in.
	authenticated prometheus.Gauge
}

func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_transitions_total",
				Help:      "Total number of session state transitions.",
			},
			[]string{"from", "to"},
		),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of session operations, by operation and result.",
			},
			[]string{"operation", "result"},
		),
		forcedLogoutsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forced_logouts_total",
				Help:      "Total number of sessions ended because the server answered 401.",
			},
		),
		authenticated: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "authenticated",
				Help:      "1 while a user is signed in, 0 otherwise.",
			},
		),
	}

	r.registry.MustRegister(
		r.transitionsTotal,
		r.operationsTotal,
		r.forcedLogoutsTotal,
		r.authenticated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

func (r *PrometheusRecorder) Transition(from, to models.SessionStatus) {
	r.transitionsTotal.WithLabelValues(from.String(), to.String()).Inc()

	if to == models.SessionAuthenticated {
		r.authenticated.Set(1)
	} else if from == models.SessionAuthenticated {
		r.authenticated.Set(0)
	}
}

func (r *PrometheusRecorder) Operation(op, result string) {
	r.operationsTotal.WithLabelValues(op, result).Inc()
}

func (r *PrometheusRecorder) ForcedLogout() {
	r.forcedLogoutsTotal.Inc()
}

// Gatherer exposes the registry, e.g. for tests.
func (r *PrometheusRecorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry at GET /metrics.
func (r *PrometheusRecorder) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))

	return router
}

type nopRecorder struct{}

// Nop returns a [Recorder] that discards everything.
func Nop() Recorder {
	return nopRecorder{}
}

func (nopRecorder) Transition(models.SessionStatus, models.SessionStatus) {}
func (nopRecorder) Operation(string, string)                              {}
func (nopRecorder) ForcedLogout()                                         {}
