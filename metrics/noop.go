package metrics

import "time"

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NoopMetrics is a Recorder that discards everything. Zero overhead when
// metrics are disabled.
type NoopMetrics struct{}

// NewNoopMetrics creates a no-op recorder.
func NewNoopMetrics() *NoopMetrics { return &NoopMetrics{} }

func (*NoopMetrics) RecordAuthAttempt(provider string, success bool, duration time.Duration) {}
func (*NoopMetrics) RecordProviderResolutionFailure(providerType string)                     {}
func (*NoopMetrics) RecordAuthorisationBroadcast(listeners int)                              {}
