package clients

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes recorded by UpstreamMetrics.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

// UpstreamMetrics counts and times calls to external collaborators. A nil
// *UpstreamMetrics records nothing.
type UpstreamMetrics struct {
	Calls    *prometheus.CounterVec   // labels: service, outcome
	Duration *prometheus.HistogramVec // labels: service
	Open     *prometheus.GaugeVec     // labels: service
}

// Observe records one call that started at start and finished with err.
func (m *UpstreamMetrics) Observe(service string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	switch {
	case IsOpenError(err):
		outcome = OutcomeRejected
	case err != nil:
		outcome = OutcomeError
	}
	if m.Calls != nil {
		m.Calls.WithLabelValues(service, outcome).Inc()
	}
	if m.Duration != nil && outcome != OutcomeRejected {
		m.Duration.WithLabelValues(service).Observe(time.Since(start).Seconds())
	}
}

// ObserveBreaker sets the open gauge for cb's service to 1 while cb rejects
// calls and back to 0 once it closes.
func (m *UpstreamMetrics) ObserveBreaker(cb *CircuitBreaker) {
	if m == nil || m.Open == nil || cb == nil {
		return
	}
	open := 0.0
	if cb.IsOpen() {
		open = 1
	}
	m.Open.WithLabelValues(cb.Name()).Set(open)
}
