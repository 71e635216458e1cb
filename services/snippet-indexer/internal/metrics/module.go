package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once     sync.Once
	instance *Metrics
)

func Get() *Metrics {
	once.Do(func() {
		instance = newMetrics()
	})
	return instance
}

type Metrics struct {
	ingestProcessCounter     *prometheus.CounterVec
	ingestLatencyHistogram   *prometheus.HistogramVec
	snippetsExtractedCounter *prometheus.CounterVec
	searchLatencyHistogram   *prometheus.HistogramVec
}

func newMetrics() *Metrics {
	return &Metrics{
		ingestProcessCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_process_total",
				Help: "Total number of processed ingest events",
			},
			[]string{"status"},
		),
		ingestLatencyHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ingest_process_latency_seconds",
				Help:    "Latency of processing ingest events",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		snippetsExtractedCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snippets_extracted_total",
				Help: "Total number of snippets extracted from source files",
			},
			[]string{"kind"},
		),
		searchLatencyHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Latency of search requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
	}
}

type Status string

const (
	Success Status = "success"
	Failure Status = "failure"
)

func (m *Metrics) ObserveIngestProcessing(status Status) {
	m.ingestProcessCounter.With(prometheus.Labels{"status": string(status)}).Inc()
}

func (m *Metrics) ObserveIngestLatency(status Status, start time.Time) {
	m.ingestLatencyHistogram.With(prometheus.Labels{"status": string(status)}).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveSnippetsExtracted(kind string, count int) {
	m.snippetsExtractedCounter.WithLabelValues(kind).Add(float64(count))
}

func (m *Metrics) ObserveSearchLatency(mode string, start time.Time) {
	m.searchLatencyHistogram.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}

func Init(address string) {
	metrics := Get()
	prometheus.MustRegister(
		metrics.ingestProcessCounter,
		metrics.ingestLatencyHistogram,
		metrics.snippetsExtractedCounter,
		metrics.searchLatencyHistogram,
	)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(address, nil); err != nil {
			log.GetLogger().WithError(err).Fatal("failed to serve prometheus metrics")
		}
	}()
}
