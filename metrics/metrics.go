// Package metrics records orchestration metrics. The Prometheus
// implementation is opt-in; the default is the no-op recorder so the
// library stays passive unless the host process enables it.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics sink the coordinator and broadcaster report to.
type Recorder interface {
	// RecordAuthAttempt records one provider invocation during the
	// authentication scan.
	RecordAuthAttempt(provider string, success bool, duration time.Duration)

	// RecordProviderResolutionFailure records a descriptor whose provider
	// could not be constructed.
	RecordProviderResolutionFailure(providerType string)

	// RecordAuthorisationBroadcast records the listener fan-out of one
	// authorise call.
	RecordAuthorisationBroadcast(listeners int)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds the Prometheus collectors.
type Metrics struct {
	AuthAttemptsTotal        *prometheus.CounterVec
	AuthAttemptDuration      *prometheus.HistogramVec
	ResolutionFailuresTotal  *prometheus.CounterVec
	AuthorisationListenerFan prometheus.Histogram
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns the process-wide Recorder. With enabled=false it returns
// the no-op recorder; with enabled=true it registers the Prometheus
// collectors exactly once and returns the shared Metrics instance.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = &Metrics{
			AuthAttemptsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "authchain_auth_attempts_total",
				Help: "Authentication attempts by provider and result",
			}, []string{"provider", "result"}),
			AuthAttemptDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "authchain_auth_attempt_duration_seconds",
				Help:    "Duration of individual provider authenticate calls",
				Buckets: prometheus.DefBuckets,
			}, []string{"provider"}),
			ResolutionFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "authchain_provider_resolution_failures_total",
				Help: "Provider descriptors that could not be constructed",
			}, []string{"provider_type"}),
			AuthorisationListenerFan: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "authchain_authorisation_listeners",
				Help:    "Listener fan-out per authorise broadcast",
				Buckets: []float64{0, 1, 2, 5, 10, 25},
			}),
		}
	})
	return defaultMetrics
}

// RecordAuthAttempt implements Recorder.
func (m *Metrics) RecordAuthAttempt(provider string, success bool, duration time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	m.AuthAttemptsTotal.WithLabelValues(provider, result).Inc()
	m.AuthAttemptDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordProviderResolutionFailure implements Recorder.
func (m *Metrics) RecordProviderResolutionFailure(providerType string) {
	m.ResolutionFailuresTotal.WithLabelValues(providerType).Inc()
}

// RecordAuthorisationBroadcast implements Recorder.
func (m *Metrics) RecordAuthorisationBroadcast(listeners int) {
	m.AuthorisationListenerFan.Observe(float64(listeners))
}
