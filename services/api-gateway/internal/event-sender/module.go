package event_sender

import (
	"context"
	"encoding/json"
	"time"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/kafka"
	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	"github.com/G4ertner/kRPC-docs-MCP/pkg/retry"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/pkg/models"
)

type Module struct {
	eventTopic string
	producer   kafka.Producer
}

func New(producer kafka.Producer, eventTopic string) *Module {
	return &Module{
		producer:   producer,
		eventTopic: eventTopic,
	}
}

func (m *Module) ProcessEvent(ctx context.Context, event *models.IngestEvent) error {
	logger := log.GetLogger()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		logger.WithError(err).Error("failed to marshal event")
		return err
	}

	retrier := retry.New[bool](retry.Options{
		MaxRetries: 3,
		Strategy:   retry.ExponentialBackoff(time.Second),
	})
	_, err = retrier.Do(ctx, func() (bool, error) {
		err = m.producer.Send(m.eventTopic, eventBytes)
		if err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		logger.WithError(err).Error("failed to send event to kafka")
		return err
	}

	return nil
}
