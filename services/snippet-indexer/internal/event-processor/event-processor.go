package event_processor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/kafka"
	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/pkg/models"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/metrics"
)

const ingestTimeout = 10 * time.Minute

type Module struct {
	pipeline      *Pipeline
	consumerClint kafka.Consumer
	workerCount   int32
}

func NewModule(pipeline *Pipeline, consumerClint kafka.Consumer, workerCount int32) *Module {
	return &Module{
		pipeline:      pipeline,
		consumerClint: consumerClint,
		workerCount:   workerCount,
	}
}

func (m *Module) Start() {
	logger := log.GetLogger()
	for i := 0; i < int(m.workerCount); i++ {
		go func() {
			for kafkaMessage := range m.consumerClint.Channel() {
				start := time.Now()
				var err error
				var event models.IngestEvent
				err = json.Unmarshal(kafkaMessage.Value, &event)
				if err != nil {
					logger.WithError(err).Error("failed to unmarshal event")
					continue
				}

				if err = m.process(&event); err == nil {
					if err := m.consumerClint.CommitMessage(kafkaMessage); err != nil {
						logger.WithError(err).Error("failed to commit message")
					}
				} else {
					logger.WithError(err).Warn("failed to process message")
				}

				// observe metrics
				go func() {
					status := metrics.Success
					if err != nil {
						status = metrics.Failure
					}
					metrics.Get().ObserveIngestProcessing(status)
					metrics.Get().ObserveIngestLatency(status, start)
				}()
			}
		}()
	}
}

func (m *Module) process(event *models.IngestEvent) error {
	logger := log.GetLogger()
	logger.Infof("processing ingest job = %v", models.GetJobIdentifier(event))

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	return m.pipeline.Run(ctx, event)
}
