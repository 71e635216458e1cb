// Package search fuses keyword and vector ranking signals into one ordering,
// with an optional external re-rank pass over the fused head.
package search

import (
	"context"
	"sort"
	"time"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/embedder"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/keyword"
)

const previewChars = 200

type Config struct {
	AlphaKeyword float64       `yaml:"alpha_keyword" json:"alpha_keyword"`
	AlphaVector  float64       `yaml:"alpha_vector" json:"alpha_vector"`
	BetaRerank   float64       `yaml:"beta_rerank" json:"beta_rerank"`
	TopM         int           `yaml:"top_m" json:"top_m"`
	EmbedTimeout time.Duration `yaml:"embed_timeout" json:"embed_timeout"`
	EmbedModel   string        `yaml:"embed_model" json:"embed_model"`
}

func DefaultConfig() Config {
	return Config{
		AlphaKeyword: 0.5,
		AlphaVector:  0.5,
		BetaRerank:   0.7,
		TopM:         30,
		EmbedTimeout: 10 * time.Second,
		EmbedModel:   "text-embedding-3-small",
	}
}

// RerankCandidate is the trimmed view handed to the external re-rank
// collaborator.
type RerankCandidate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
}

// Reranker supplies an opaque 0..1 relevance score per candidate. A failing
// reranker never fails the query; the fused order stands.
type Reranker interface {
	Score(ctx context.Context, query string, candidates []RerankCandidate) (map[string]float64, error)
}

type Options struct {
	K                 int
	UseAnd            bool
	Category          string
	ExcludeRestricted bool
	Rerank            bool
}

type Result struct {
	ID           string   `json:"id"`
	Score        float64  `json:"score"`
	KeywordScore float64  `json:"kw_score"`
	VectorScore  float64  `json:"vec_score"`
	RerankScore  float64  `json:"rerank_score,omitempty"`
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	Categories   []string `json:"categories"`
	Preview      string   `json:"preview"`
}

// Engine performs hybrid retrieval over one immutable index snapshot.
type Engine struct {
	cfg         Config
	keywordIdx  *keyword.Index
	vectors     VectorSearcher
	embedClient embedder.EmbeddingClient
	reranker    Reranker
}

func NewEngine(cfg Config, keywordIdx *keyword.Index, vectors VectorSearcher, embedClient embedder.EmbeddingClient, reranker Reranker) *Engine {
	if cfg.TopM <= 0 {
		cfg.TopM = DefaultConfig().TopM
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = DefaultConfig().EmbedTimeout
	}
	return &Engine{
		cfg:         cfg,
		keywordIdx:  keywordIdx,
		vectors:     vectors,
		embedClient: embedClient,
		reranker:    reranker,
	}
}

// Search always returns a structured result; when the embedding collaborator
// is unavailable it degrades to keyword-only scoring.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	if opts.K <= 0 {
		opts.K = 10
	}
	topM := e.cfg.TopM
	if topM < opts.K {
		topM = opts.K
	}

	// keyword phase, filters applied inside the index
	kwHits := e.keywordIdx.Search(query, keyword.SearchOptions{
		K:                 topM,
		UseAnd:            opts.UseAnd,
		Category:          opts.Category,
		ExcludeRestricted: opts.ExcludeRestricted,
	})
	kwNorm := minMaxNormalizeHits(kwHits)

	// vector phase, degraded to empty on collaborator failure
	vecNorm := e.vectorScores(ctx, query, topM, opts)

	ids := make(map[string]struct{}, len(kwNorm)+len(vecNorm))
	for id := range kwNorm {
		ids[id] = struct{}{}
	}
	for id := range vecNorm {
		ids[id] = struct{}{}
	}

	fused := make([]Result, 0, len(ids))
	for id := range ids {
		doc, ok := e.keywordIdx.Doc(id)
		if !ok || !e.keywordIdx.Allowed(id, opts.Category, opts.ExcludeRestricted) {
			continue
		}
		kw := kwNorm[id]
		vec := vecNorm[id]
		fused = append(fused, Result{
			ID:           id,
			Score:        e.cfg.AlphaKeyword*kw + e.cfg.AlphaVector*vec,
			KeywordScore: kw,
			VectorScore:  vec,
			Name:         doc.Name,
			Path:         doc.Path,
			Categories:   doc.Categories,
			Preview:      preview(doc),
		})
	}
	sortResults(fused, func(r Result) float64 { return r.Score })

	if len(fused) > topM {
		fused = fused[:topM]
	}

	if opts.Rerank && e.reranker != nil {
		fused = e.rerank(ctx, query, fused)
	}

	if len(fused) > opts.K {
		fused = fused[:opts.K]
	}
	return fused, nil
}

func (e *Engine) vectorScores(ctx context.Context, query string, topM int, opts Options) map[string]float64 {
	logger := log.GetLogger()
	if e.vectors == nil || e.embedClient == nil {
		return nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, e.cfg.EmbedTimeout)
	defer cancel()

	vectors, err := e.embedClient.CreateEmbeddings(embedCtx, e.cfg.EmbedModel, []string{query})
	if err != nil || len(vectors) == 0 {
		logger.WithError(err).Warn("query embedding unavailable, falling back to keyword-only scoring")
		return nil
	}

	hits, err := e.vectors.Query(embedCtx, vectors[0].Embedding, topM)
	if err != nil {
		logger.WithError(err).Warn("vector search unavailable, falling back to keyword-only scoring")
		return nil
	}

	pairs := make([]scored, 0, len(hits))
	for _, h := range hits {
		if e.keywordIdx.Allowed(h.ID, opts.Category, opts.ExcludeRestricted) {
			pairs = append(pairs, scored{id: h.ID, score: h.Score})
		}
	}
	return minMaxNormalize(pairs)
}

func (e *Engine) rerank(ctx context.Context, query string, fused []Result) []Result {
	logger := log.GetLogger()

	candidates := make([]RerankCandidate, 0, len(fused))
	for _, r := range fused {
		candidates = append(candidates, RerankCandidate{
			ID:          r.ID,
			Name:        r.Name,
			Categories:  r.Categories,
			Description: r.Preview,
		})
	}

	scores, err := e.reranker.Score(ctx, query, candidates)
	if err != nil {
		logger.WithError(err).Warn("rerank unavailable, keeping fused order")
		return fused
	}

	beta := e.cfg.BetaRerank
	for i := range fused {
		rr := scores[fused[i].ID]
		fused[i].RerankScore = rr
		fused[i].Score = beta*rr + (1.0-beta)*fused[i].Score
	}
	sortResults(fused, func(r Result) float64 { return r.Score })
	return fused
}

type scored struct {
	id    string
	score float64
}

func minMaxNormalizeHits(hits []keyword.Hit) map[string]float64 {
	pairs := make([]scored, 0, len(hits))
	for _, h := range hits {
		pairs = append(pairs, scored{id: h.ID, score: h.Score})
	}
	return minMaxNormalize(pairs)
}

func minMaxNormalize(pairs []scored) map[string]float64 {
	if len(pairs) == 0 {
		return nil
	}
	mn, mx := pairs[0].score, pairs[0].score
	for _, p := range pairs[1:] {
		if p.score < mn {
			mn = p.score
		}
		if p.score > mx {
			mx = p.score
		}
	}
	out := make(map[string]float64, len(pairs))
	if mx-mn <= 1e-12 {
		for _, p := range pairs {
			out[p.id] = 1.0
		}
		return out
	}
	for _, p := range pairs {
		out[p.id] = (p.score - mn) / (mx - mn)
	}
	return out
}

func sortResults(results []Result, score func(Result) float64) {
	sort.Slice(results, func(i, j int) bool {
		si, sj := score(results[i]), score(results[j])
		if si != sj {
			return si > sj
		}
		return results[i].ID < results[j].ID
	})
}

func preview(doc keyword.DocMeta) string {
	text := doc.Description
	if text == "" {
		text = doc.Name
	}
	if len(text) > previewChars {
		text = text[:previewChars]
	}
	return text
}
