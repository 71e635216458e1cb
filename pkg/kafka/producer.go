package kafka

import (
	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type kafkaProducer struct {
	conf           ProducerConfig
	client         *kafka.Producer
	metricsHandler MetricsHandler
}

type ProducerOption func(p *kafkaProducer)

func WithMetricsHandler(handler MetricsHandler) ProducerOption {
	return func(p *kafkaProducer) {
		p.metricsHandler = handler
	}
}

func NewProducer(conf ProducerConfig, opts ...ProducerOption) (Producer, error) {
	client, err := kafka.NewProducer(&kafka.ConfigMap{
		bootstrapServersKey: conf.Brokers,
	})
	if err != nil {
		return nil, err
	}

	producer := &kafkaProducer{
		conf:   conf,
		client: client,
	}

	for _, opt := range opts {
		opt(producer)
	}

	return producer, nil
}

func (p *kafkaProducer) Send(topic string, value []byte) error {
	err := p.client.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)

	p.observePublish(err)
	return err
}

func (p *kafkaProducer) observePublish(err error) {
	if p.metricsHandler == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		status = statusFailure
	}
	p.metricsHandler(status)
}

func (p *kafkaProducer) Close() {
	p.client.Flush(5000)
	p.client.Close()
}
