package internal

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/kafka"
	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/api"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/internal/config"
	eventsender "github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/internal/event-sender"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/internal/metrics"
)

type Service struct {
	httpServer    *http.Server
	kafkaProducer kafka.Producer
}

func (s *Service) Start() {
	logger := log.GetLogger()
	serviceConfig, err := config.LoadConfig("./config.yaml")
	if err != nil {
		logger.WithError(err).Fatal("failed to load config.yaml")
	}

	err = s.connectToServices(serviceConfig)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to services")
	}

	eventSenderModule := eventsender.New(s.kafkaProducer, serviceConfig.Kafka.Topic)
	handler := api.NewHandler(serviceConfig, eventSenderModule)
	r := handler.RegisterRoutes()
	s.httpServer = &http.Server{
		Addr:    serviceConfig.HttpServer.Address,
		Handler: r,
	}

	logger.Info("server running on " + serviceConfig.HttpServer.Address)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("failed to start http server")
	}
}

func (s *Service) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s.httpServer.Shutdown(ctx)
	s.kafkaProducer.Close()
}

func (s *Service) connectToServices(serviceConfig *config.Config) error {
	// connect to prometheus
	metrics.Init(serviceConfig.Prometheus.Address)

	// connect to kafka
	kafkaProducer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: serviceConfig.Kafka.Brokers,
	}, kafka.WithMetricsHandler(metrics.Get().ObserveKafkaPublish))
	if err != nil {
		return err
	}
	s.kafkaProducer = kafkaProducer
	return nil
}
