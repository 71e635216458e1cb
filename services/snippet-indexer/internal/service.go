package internal

import (
	"context"
	"errors"
	"net/http"
	"time"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	chromaembedding "github.com/amikos-tech/chroma-go/pkg/embeddings/openai"
	"github.com/google/go-github/v58/github"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	langchainopenai "github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/oauth2"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/kafka"
	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/api"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/config"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/embedder"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/enrich"
	eventprocessor "github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/event-processor"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/fetcher"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/metrics"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/repositories"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/search"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/snapshot"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/store"
)

const defaultCacheSize = 4096

type Service struct {
	httpServer      *http.Server
	embeddingClient embedder.EmbeddingClient
	llm             llms.Model
	chromaClient    chroma.Client
	repoFetcher     fetcher.Fetcher
	kafkaConsumer   kafka.Consumer
}

func (s *Service) Start() {
	logger := log.GetLogger()
	serviceConfig, err := config.LoadConfig("./config.yaml")
	if err != nil {
		logger.WithError(err).Fatal("failed to load config.yaml")
	}

	logger.WithFields(logrus.Fields{
		"llm_model":       serviceConfig.LLM.Model,
		"llm_base_url":    serviceConfig.LLM.APIBaseURL,
		"embedding_model": serviceConfig.Embedding.Model,
		"worker_count":    serviceConfig.WorkerCount,
		"store_dir":       serviceConfig.Store.Dir,
	}).Info("Config loaded for snippet indexer")

	if err := s.ConnectToServices(serviceConfig); err != nil {
		logger.WithError(err).Fatal("failed to connect to services")
	}

	snippetStore := store.New(serviceConfig.Store.Dir)
	registry := snapshot.NewRegistry()
	searchCfg := searchConfigFrom(serviceConfig)

	pipelineOpts := []eventprocessor.PipelineOption{
		eventprocessor.WithLicenseDefaults(serviceConfig.Extract.DefaultLicense, serviceConfig.Extract.DefaultLicenseURL),
	}

	if s.chromaClient != nil && s.embeddingClient != nil {
		openaiEmbeddingFunc, err := chromaembedding.NewOpenAIEmbeddingFunction(
			serviceConfig.LLM.OpenApiKey,
			chromaembedding.WithBaseURL(serviceConfig.Embedding.APIBaseURL),
			chromaembedding.WithModel(chromaembedding.EmbeddingModel(serviceConfig.Embedding.Model)),
		)
		if err != nil {
			logger.WithError(err).Fatal("failed to create openai embedding function")
		}
		embeddingsRepo, err := repositories.NewEmbeddingRepository(s.chromaClient, openaiEmbeddingFunc, serviceConfig.ChromaDB.CollectionName)
		if err != nil {
			logger.WithError(err).Fatal("failed to create embeddings repository")
		}
		snapshotEmbedder := embedder.NewSnapshotEmbedder(s.embeddingClient, embeddingsRepo, serviceConfig.Embedding.Model)
		pipelineOpts = append(pipelineOpts, eventprocessor.WithEmbedding(snapshotEmbedder, embeddingsRepo, s.embeddingClient))
	}

	if s.llm != nil {
		cacheSize := serviceConfig.LLM.CacheSize
		if cacheSize <= 0 {
			cacheSize = defaultCacheSize
		}
		cache, err := enrich.NewCache(cacheSize)
		if err != nil {
			logger.WithError(err).Fatal("failed to create enrichment cache")
		}
		summarizer := enrich.NewSummarizer(s.llm, serviceConfig.LLM.Model, serviceConfig.LLM.MaxTokens, cache)
		pipelineOpts = append(pipelineOpts, eventprocessor.WithSummarizer(summarizer))
	}

	var reranker search.Reranker
	if serviceConfig.LLM.OpenApiKey != "" {
		reranker = enrich.NewOpenAiReranker(serviceConfig.LLM.OpenApiKey, serviceConfig.LLM.Model)
	} else {
		reranker = enrich.OverlapReranker{}
	}
	pipelineOpts = append(pipelineOpts, eventprocessor.WithReranker(reranker))

	pipeline := eventprocessor.NewPipeline(s.repoFetcher, snippetStore, registry, searchCfg, serviceConfig.Store.Dir, pipelineOpts...)
	eventProcessor := eventprocessor.NewModule(pipeline, s.kafkaConsumer, serviceConfig.WorkerCount)

	eventProcessor.Start()
	// the poll loop only returns on broker errors; it must not block the
	// retrieval API below
	go func() {
		if err := s.kafkaConsumer.Start(); err != nil {
			logger.WithError(err).Error("kafka consumer stopped")
		}
	}()

	handler := api.NewHandler(serviceConfig, registry)
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
	if s.httpServer != nil {
		s.httpServer.Shutdown(ctx)
	}
	if s.chromaClient != nil {
		s.chromaClient.Close()
	}
	if s.kafkaConsumer != nil {
		s.kafkaConsumer.Close()
	}
}

func (s *Service) ConnectToServices(serviceConfig *config.Config) error {
	// connect to embedding client
	if serviceConfig.LLM.OpenApiKey != "" && serviceConfig.Embedding.APIBaseURL != "" {
		embeddingClientConfig := openai.DefaultConfig(serviceConfig.LLM.OpenApiKey)
		embeddingClientConfig.BaseURL = serviceConfig.Embedding.APIBaseURL
		s.embeddingClient = embedder.NewOpenAiEmbeddingClient(openai.NewClientWithConfig(embeddingClientConfig))
	}

	// connect to llm client
	if serviceConfig.LLM.OpenApiKey != "" {
		llm, err := langchainopenai.New(
			langchainopenai.WithBaseURL(serviceConfig.LLM.APIBaseURL),
			langchainopenai.WithModel(serviceConfig.LLM.Model),
			langchainopenai.WithToken(serviceConfig.LLM.OpenApiKey),
		)
		if err != nil {
			return err
		}
		s.llm = llm
	}

	// connect to chroma db client
	if serviceConfig.ChromaDB.Address != "" {
		chromaClient, err := chroma.NewHTTPClient(chroma.WithBaseURL(serviceConfig.ChromaDB.Address))
		if err != nil {
			return err
		}
		s.chromaClient = chromaClient
	}

	// connect to github
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: serviceConfig.Github.AccessToken})
	tc := oauth2.NewClient(context.Background(), ts)
	s.repoFetcher = fetcher.NewGithub(github.NewClient(tc))

	// connect to prometheus
	metrics.Init(serviceConfig.Prometheus.Address)

	// connect to kafka
	var err error
	s.kafkaConsumer, err = kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:    serviceConfig.Kafka.Brokers,
		GroupID:    serviceConfig.Kafka.GroupID,
		Topics:     []string{serviceConfig.Kafka.Topics},
		AutoOffset: serviceConfig.Kafka.AutoOffset,
	})
	if err != nil {
		return err
	}

	return nil
}

func searchConfigFrom(serviceConfig *config.Config) search.Config {
	cfg := search.DefaultConfig()
	if serviceConfig.Search.AlphaKeyword > 0 {
		cfg.AlphaKeyword = serviceConfig.Search.AlphaKeyword
	}
	if serviceConfig.Search.AlphaVector > 0 {
		cfg.AlphaVector = serviceConfig.Search.AlphaVector
	}
	if serviceConfig.Search.BetaRerank > 0 {
		cfg.BetaRerank = serviceConfig.Search.BetaRerank
	}
	if serviceConfig.Search.TopM > 0 {
		cfg.TopM = serviceConfig.Search.TopM
	}
	if serviceConfig.Embedding.Model != "" {
		cfg.EmbedModel = serviceConfig.Embedding.Model
	}
	return cfg
}
