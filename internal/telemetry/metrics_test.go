package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRecordFetchUpdatesCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, Labels{Mode: "simulation", DNSCache: "off", Workers: "4"})

	m.RecordFetch(200, 0.05, true)
	m.RecordFetch(500, 0.10, false)

	successMetric := &dto.Metric{}
	require.NoError(t, m.FetchSuccessTotal.(prometheus.Metric).Write(successMetric))
	require.Equal(t, float64(1), successMetric.GetCounter().GetValue())

	failureMetric := &dto.Metric{}
	require.NoError(t, m.FetchFailureTotal.(prometheus.Metric).Write(failureMetric))
	require.Equal(t, float64(1), failureMetric.GetCounter().GetValue())

	pagesMetric := &dto.Metric{}
	require.NoError(t, m.PagesCrawledTotal.(prometheus.Metric).Write(pagesMetric))
	require.Equal(t, float64(2), pagesMetric.GetCounter().GetValue())

	durationMetric := &dto.Metric{}
	require.NoError(t, m.RequestDurationSeconds.(prometheus.Metric).Write(durationMetric))
	require.Equal(t, uint64(2), durationMetric.GetHistogram().GetSampleCount())
}

func TestDNSCacheMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, Labels{Mode: "real", DNSCache: "on", Workers: "1"})

	m.RecordDNSHit()
	m.RecordDNSMiss()
	m.SetDNSCacheSize(3)

	sizeMetric := &dto.Metric{}
	require.NoError(t, m.DNSCacheSize.(prometheus.Metric).Write(sizeMetric))
	require.Equal(t, float64(3), sizeMetric.GetGauge().GetValue())
}
