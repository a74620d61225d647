package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const svNamespace = "sigverify"

// Outcome labels
const (
	OutcomeValid     = "valid"
	OutcomeInvalid   = "invalid"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Recorder receives verification telemetry
type Recorder interface {
	// ObserveVerification records one finished verification
	ObserveVerification(path string, outcome string, elapsed time.Duration)
	// IncProviderError counts a failed round trip to the chain data provider
	IncProviderError(operation string)
}

// VerifierMetrics is a Recorder backed by prometheus collectors
type VerifierMetrics struct {
	numVerifications *prometheus.CounterVec
	numProviderError *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// NewVerifierMetrics registers the verifier collectors on reg
func NewVerifierMetrics(reg prometheus.Registerer) *VerifierMetrics {
	return &VerifierMetrics{
		numVerifications: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: svNamespace,
				Name:      "verifications_total",
				Help:      "The number of signature verifications by decision path and outcome",
			}, []string{"path", "outcome"}),

		numProviderError: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: svNamespace,
				Name:      "provider_errors_total",
				Help:      "The number of chain provider failures. A rising count means verdicts are not being produced",
			}, []string{"operation"}),

		latency: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: svNamespace,
				Name:      "verification_duration_seconds",
				Help:      "Wall time of a verification including every provider round trip",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
			}, []string{"path"}),
	}
}

func (m *VerifierMetrics) ObserveVerification(path string, outcome string, elapsed time.Duration) {
	m.numVerifications.WithLabelValues(path, outcome).Inc()
	m.latency.WithLabelValues(path).Observe(elapsed.Seconds())
}

func (m *VerifierMetrics) IncProviderError(operation string) {
	m.numProviderError.WithLabelValues(operation).Inc()
}

// NoopRecorder discards everything
type NoopRecorder struct{}

func (NoopRecorder) ObserveVerification(string, string, time.Duration) {}
func (NoopRecorder) IncProviderError(string)                           {}
