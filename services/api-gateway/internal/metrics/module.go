package metrics

import (
	"net/http"
	"sync"

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
	kafkaPublishCounter  *prometheus.CounterVec
	ingestAcceptsCounter *prometheus.CounterVec
}

func newMetrics() *Metrics {
	return &Metrics{
		kafkaPublishCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kafka_publish_total",
				Help: "Total number of kafka publish",
			},
			[]string{"status"},
		),
		ingestAcceptsCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_accepted_total",
				Help: "Total number of accepted ingest requests",
			},
			[]string{"source"},
		),
	}
}

func (m *Metrics) ObserveKafkaPublish(status string) {
	m.kafkaPublishCounter.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveIngestAccepted(source string) {
	m.ingestAcceptsCounter.WithLabelValues(source).Inc()
}

func Init(address string) {
	metrics := Get()
	prometheus.MustRegister(
		metrics.kafkaPublishCounter,
		metrics.ingestAcceptsCounter,
	)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(address, nil); err != nil {
			log.GetLogger().WithError(err).Fatal("failed to start metrics server")
		}
	}()
}
