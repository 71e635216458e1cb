package kafka

import (
	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
)

const defaultPollTimeoutMs = 2000

type kafkaConsumer struct {
	conf         ConsumerConfig
	client       *kafka.Consumer
	messagesChan chan *kafka.Message
}

type ConsumerOption func(c *kafkaConsumer)

func NewConsumer(conf ConsumerConfig, opts ...ConsumerOption) (Consumer, error) {
	client, err := kafka.NewConsumer(&kafka.ConfigMap{
		bootstrapServersKey: conf.Brokers,
		groupIdKey:          conf.GroupID,
		autoOffsetResetKey:  conf.AutoOffset,
		enableAutoCommitKey: false,
	})
	if err != nil {
		log.GetLogger().WithError(err).Fatal("failed to connect to kafka")
	}

	if err := client.SubscribeTopics(conf.Topics, nil); err != nil {
		log.GetLogger().WithError(err).Fatal("failed to subscribe to topics")
	}

	consumer := &kafkaConsumer{
		conf:         conf,
		client:       client,
		messagesChan: make(chan *kafka.Message),
	}

	for _, opt := range opts {
		opt(consumer)
	}

	return consumer, nil
}

func (c *kafkaConsumer) Start() error {
	for {
		ev := c.client.Poll(defaultPollTimeoutMs)
		switch e := ev.(type) {
		case *kafka.Message:
			if e.TopicPartition.Error != nil {
				return e.TopicPartition.Error
			}
			c.messagesChan <- e
		case kafka.Error:
			return e
		case nil:
		}
	}
}

func (c *kafkaConsumer) Close() error {
	close(c.messagesChan)
	return c.client.Close()
}

func (c *kafkaConsumer) CommitMessage(msg *kafka.Message) error {
	_, err := c.client.CommitMessage(msg)
	return err
}

func (c *kafkaConsumer) Channel() chan *kafka.Message {
	return c.messagesChan
}
