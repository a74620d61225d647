package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, family := range families {
		byName[family.GetName()] = family
	}
	return byName
}

func labelsOf(m *dto.Metric) map[string]string {
	labels := map[string]string{}
	for _, pair := range m.GetLabel() {
		labels[pair.GetName()] = pair.GetValue()
	}
	return labels
}

func TestVerifierMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewVerifierMetrics(reg)

	m.ObserveVerification("erc1271", OutcomeValid, 20*time.Millisecond)
	m.ObserveVerification("erc1271", OutcomeValid, 30*time.Millisecond)
	m.ObserveVerification("erc6492", OutcomeInvalid, time.Second)
	m.IncProviderError("get_code")

	families := gather(t, reg)

	verifications := families["sigverify_verifications_total"]
	require.NotNil(t, verifications)
	counts := map[string]float64{}
	for _, metric := range verifications.GetMetric() {
		labels := labelsOf(metric)
		counts[labels["path"]+"/"+labels["outcome"]] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"erc1271/valid": 2, "erc6492/invalid": 1}, counts)

	providerErrors := families["sigverify_provider_errors_total"]
	require.NotNil(t, providerErrors)
	require.Len(t, providerErrors.GetMetric(), 1)
	assert.Equal(t, "get_code", labelsOf(providerErrors.GetMetric()[0])["operation"])
	assert.Equal(t, float64(1), providerErrors.GetMetric()[0].GetCounter().GetValue())

	latency := families["sigverify_verification_duration_seconds"]
	require.NotNil(t, latency)
	var samples uint64
	for _, metric := range latency.GetMetric() {
		samples += metric.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), samples)
}

func TestNewVerifierMetricsRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewVerifierMetrics(reg)
	assert.Panics(t, func() { NewVerifierMetrics(reg) })
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveVerification("eoa", OutcomeValid, time.Millisecond)
	r.IncProviderError("verify")
}
