package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env         string           `yaml:"env" json:"env"`
	WorkerCount int32            `yaml:"worker_count" json:"worker_count"`
	Prometheus  PrometheusConfig `yaml:"prometheus" json:"prometheus"`
	HttpServer  HttpServer       `yaml:"http_server" json:"http_server"`
	LLM         LLMSection       `yaml:"llm" json:"llm"`
	Embedding   EmbeddingSection `yaml:"embedding" json:"embedding"`
	ChromaDB    ChromaDBSection  `yaml:"chroma_db" json:"chroma_db"`
	Github      GithubSection    `yaml:"github" json:"github"`
	Kafka       KafkaSection     `yaml:"kafka" json:"kafka"`
	Store       StoreSection     `yaml:"store" json:"store"`
	Extract     ExtractSection   `yaml:"extract" json:"extract"`
	Search      SearchSection    `yaml:"search" json:"search"`
	Resolve     ResolveSection   `yaml:"resolve" json:"resolve"`
}

type PrometheusConfig struct {
	Address string `yaml:"address" json:"address"`
}

type HttpServer struct {
	Address string `yaml:"address" json:"address"`
}

type KafkaSection struct {
	Brokers    string `yaml:"brokers" json:"brokers"`
	GroupID    string `yaml:"group_id" json:"group_id"`
	Topics     string `yaml:"topics" json:"topics"`
	AutoOffset string `yaml:"auto_offset" json:"auto_offset"`
}

type GithubSection struct {
	AccessToken string `yaml:"access_token" json:"access_token"`
}

type ChromaDBSection struct {
	Address        string `yaml:"address"`
	CollectionName string `yaml:"collection_name" json:"collection_name"`
}

type LLMSection struct {
	APIBaseURL  string  `yaml:"api_base_url"`
	OpenApiKey  string  `yaml:"openapi_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	CacheSize   int     `yaml:"cache_size"`
}

type EmbeddingSection struct {
	APIBaseURL string `yaml:"api_base_url"`
	Model      string `yaml:"model"`
}

type StoreSection struct {
	Dir string `yaml:"dir"`
}

type ExtractSection struct {
	DefaultLicense    string `yaml:"default_license"`
	DefaultLicenseURL string `yaml:"default_license_url"`
}

type SearchSection struct {
	AlphaKeyword float64 `yaml:"alpha_keyword"`
	AlphaVector  float64 `yaml:"alpha_vector"`
	BetaRerank   float64 `yaml:"beta_rerank"`
	TopM         int     `yaml:"top_m"`
	DefaultK     int     `yaml:"default_k"`
}

type ResolveSection struct {
	MaxBytes int `yaml:"max_bytes"`
	MaxNodes int `yaml:"max_nodes"`
}

func LoadConfig(path string) (*Config, error) {
	config := &Config{
		LLM: LLMSection{
			OpenApiKey: os.Getenv("LLM_OPEN_AI_API_KEY"),
		},
		Github: GithubSection{
			AccessToken: os.Getenv("GITHUB_ACCESS_TOKEN"),
		},
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
