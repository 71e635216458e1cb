package event_processor

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	gwmodels "github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/pkg/models"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/deps"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/embedder"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/enrich"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/extractor"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/fetcher"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/keyword"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/metrics"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/repositories"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/resolver"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/search"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/snapshot"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/store"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/symbols"
)

const extractWorkers = 8

// Pipeline turns one ingest event into a published snapshot: fetch, extract,
// resolve dependencies, enrich, persist, index, embed, swap.
type Pipeline struct {
	fetcher         fetcher.Fetcher
	snippetStore    *store.SnippetStore
	snapshotEmbed   *embedder.SnapshotEmbedder
	summarizer      *enrich.Summarizer
	embeddingsRepo  repositories.EmbeddingsRepository
	embeddingClient embedder.EmbeddingClient
	reranker        search.Reranker
	registry        *snapshot.Registry
	searchCfg       search.Config
	indexDir        string
	license         string
	licenseURL      string
}

type PipelineOption func(p *Pipeline)

// WithEmbedding enables vector indexing of each snapshot.
func WithEmbedding(snapshotEmbed *embedder.SnapshotEmbedder, embeddingsRepo repositories.EmbeddingsRepository, embeddingClient embedder.EmbeddingClient) PipelineOption {
	return func(p *Pipeline) {
		p.snapshotEmbed = snapshotEmbed
		p.embeddingsRepo = embeddingsRepo
		p.embeddingClient = embeddingClient
	}
}

// WithSummarizer enables LLM enrichment of snippet metadata.
func WithSummarizer(summarizer *enrich.Summarizer) PipelineOption {
	return func(p *Pipeline) {
		p.summarizer = summarizer
	}
}

func WithReranker(reranker search.Reranker) PipelineOption {
	return func(p *Pipeline) {
		p.reranker = reranker
	}
}

// WithLicenseDefaults seeds the governance fields of extracted records.
func WithLicenseDefaults(license, licenseURL string) PipelineOption {
	return func(p *Pipeline) {
		p.license = license
		p.licenseURL = licenseURL
	}
}

func NewPipeline(repoFetcher fetcher.Fetcher, snippetStore *store.SnippetStore, registry *snapshot.Registry, searchCfg search.Config, indexDir string, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fetcher:      repoFetcher,
		snippetStore: snippetStore,
		registry:     registry,
		searchCfg:    searchCfg,
		indexDir:     indexDir,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type fileResult struct {
	path     string
	snippets []*models.Snippet
}

func (p *Pipeline) Run(ctx context.Context, event *gwmodels.IngestEvent) error {
	logger := log.GetLogger()

	checkout, err := p.fetcher.Fetch(ctx, event.RepoURL, event.Ref)
	if err != nil {
		logger.WithError(err).Error("failed to fetch repository")
		return err
	}
	snapshotID := store.SnapshotID(checkout.Repo, checkout.Commit)
	logger.WithFields(logrus.Fields{
		"snapshot_id": snapshotID,
		"commit":      checkout.Commit,
		"files":       len(checkout.Files),
	}).Info("repository fetched")

	perFile, err := p.extractAll(ctx, checkout)
	if err != nil {
		return err
	}

	all := flatten(perFile)
	if len(all) == 0 {
		return fmt.Errorf("no snippets extracted from %s@%s", checkout.Repo, checkout.Commit)
	}

	table, err := symbols.Build(all)
	if err != nil {
		logger.WithError(err).Error("symbol table has conflicts")
		return err
	}

	if err := p.resolveDependencies(ctx, checkout, perFile, table); err != nil {
		return err
	}

	if p.summarizer != nil {
		if err := p.summarizer.Enrich(ctx, all); err != nil {
			return err
		}
	}

	if err := p.snippetStore.SaveSnapshot(snapshotID, all); err != nil {
		logger.WithError(err).Error("failed to persist snapshot")
		return err
	}

	keywordIdx := keyword.Build(all, keyword.DefaultConfig())
	if p.indexDir != "" {
		if err := keywordIdx.Save(filepath.Join(p.indexDir, snapshotID+".json")); err != nil {
			logger.WithError(err).Error("failed to persist keyword index")
			return err
		}
	}

	var vectors search.VectorSearcher
	if p.snapshotEmbed != nil {
		if err := p.snapshotEmbed.EmbedSnapshot(ctx, snapshotID, all); err != nil {
			logger.WithError(err).Error("failed to embed snapshot")
			return err
		}
		vectors = search.NewRepositoryVectorStore(p.embeddingsRepo, snapshotID)
	}

	p.registry.Swap(&snapshot.Snapshot{
		ID:       snapshotID,
		Snippets: all,
		Symbols:  table,
		Keyword:  keywordIdx,
		Resolver: resolver.New(all),
		Engine:   search.NewEngine(p.searchCfg, keywordIdx, vectors, p.embeddingClient, p.reranker),
	})

	logger.WithFields(logrus.Fields{
		"snapshot_id": snapshotID,
		"snippets":    len(all),
		"symbols":     table.Len(),
	}).Info("snapshot published")
	return nil
}

// extractAll parses every fetched file concurrently. A file that fails to
// parse is logged and dropped; the rest of the batch goes through.
func (p *Pipeline) extractAll(ctx context.Context, checkout *fetcher.Checkout) (map[string]fileResult, error) {
	logger := log.GetLogger()

	jobs := make(chan fetcher.SourceFile)
	results := make(map[string]fileResult, len(checkout.Files))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < extractWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				snippets, err := extractor.ExtractFile(ctx, file.Content, extractor.Provenance{
					Repo:       checkout.Repo,
					Commit:     checkout.Commit,
					Path:       file.Path,
					License:    p.license,
					LicenseURL: p.licenseURL,
				})
				if err != nil {
					logger.WithError(err).WithField("path", file.Path).Warn("failed to extract file")
					continue
				}
				mu.Lock()
				results[file.Path] = fileResult{path: file.Path, snippets: snippets}
				mu.Unlock()
			}
		}()
	}

	for _, file := range checkout.Files {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- file:
		}
	}
	close(jobs)
	wg.Wait()

	for _, result := range results {
		counts := map[string]int{}
		for _, snippet := range result.snippets {
			counts[string(snippet.Kind)]++
		}
		for kind, count := range counts {
			metrics.Get().ObserveSnippetsExtracted(kind, count)
		}
	}
	return results, nil
}

func (p *Pipeline) resolveDependencies(ctx context.Context, checkout *fetcher.Checkout, perFile map[string]fileResult, table *symbols.Table) error {
	logger := log.GetLogger()

	contents := make(map[string][]byte, len(checkout.Files))
	for _, file := range checkout.Files {
		contents[file.Path] = file.Content
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, extractWorkers)
	for path, result := range perFile {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(path string, result fileResult) {
			defer wg.Done()
			defer func() { <-sem }()
			fileCalls, err := deps.Analyze(ctx, contents[path], path)
			if err != nil {
				logger.WithError(err).WithField("path", path).Warn("failed to analyze dependencies")
				return
			}
			deps.Attach(result.snippets, deps.Resolve(fileCalls, table))
		}(path, result)
	}
	wg.Wait()
	return ctx.Err()
}

// flatten orders snippets by path then start line so downstream artifacts
// come out the same for the same input.
func flatten(perFile map[string]fileResult) []*models.Snippet {
	paths := make([]string, 0, len(perFile))
	for path := range perFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var all []*models.Snippet
	for _, path := range paths {
		snippets := perFile[path].snippets
		sort.Slice(snippets, func(i, j int) bool {
			if snippets[i].StartLine != snippets[j].StartLine {
				return snippets[i].StartLine < snippets[j].StartLine
			}
			return snippets[i].ID < snippets[j].ID
		})
		all = append(all, snippets...)
	}
	return all
}
