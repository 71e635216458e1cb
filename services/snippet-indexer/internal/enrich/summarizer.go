// Package enrich augments extracted snippets with LLM-generated metadata
// and provides LLM-assisted reranking for search results.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

const summaryPromptTemplate = `You are documenting a library of {{.language}} code examples.
Given the snippet below, reply with a JSON object with exactly these keys:
"description": one sentence describing what the snippet does,
"categories": a list of one to three short lowercase topic tags,
"when_to_use": one sentence describing when a caller would reach for it.

Snippet name: {{.name}}
Snippet kind: {{.kind}}

{{.code}}
`

type summaryPayload struct {
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	WhenToUse   string   `json:"when_to_use"`
}

// Summarizer fills in description, categories and when_to_use on snippets
// whose extracted metadata is only the fallback text.
type Summarizer struct {
	llm       llms.Model
	maxTokens int
	cache     *Cache
	model     string
}

func NewSummarizer(llm llms.Model, model string, maxTokens int, cache *Cache) *Summarizer {
	return &Summarizer{
		llm:       llm,
		maxTokens: maxTokens,
		cache:     cache,
		model:     model,
	}
}

// Enrich summarizes each snippet in place. A per-snippet failure is logged
// and skipped so one bad completion does not lose the batch.
func (s *Summarizer) Enrich(ctx context.Context, snippets []*models.Snippet) error {
	logger := log.GetLogger()
	for _, snippet := range snippets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if snippet.Kind == models.KindConstBlock {
			continue
		}
		if cached, ok := s.cache.Get(snippet.ID, "summarize", s.model); ok {
			applySummary(snippet, cached)
			continue
		}
		payload, err := s.summarize(ctx, snippet)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"snippet_id": snippet.ID,
				"name":       snippet.Name,
			}).Warn("failed to summarize snippet")
			continue
		}
		s.cache.Put(snippet.ID, "summarize", s.model, payload)
		applySummary(snippet, payload)
	}
	return nil
}

func (s *Summarizer) summarize(ctx context.Context, snippet *models.Snippet) (summaryPayload, error) {
	promptTemplate := prompts.NewPromptTemplate(summaryPromptTemplate, []string{"language", "name", "kind", "code"})
	chain := chains.NewLLMChain(s.llm, promptTemplate)

	result, err := chains.Predict(ctx, chain, map[string]any{
		"language": snippet.Lang,
		"name":     snippet.Name,
		"kind":     snippet.Kind,
		"code":     truncateCode(snippet.Code, 4000),
	}, chains.WithMaxTokens(s.maxTokens))
	if err != nil {
		return summaryPayload{}, err
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(extractJSONObject(result)), &payload); err != nil {
		return summaryPayload{}, fmt.Errorf("unparseable summary response: %w", err)
	}
	if payload.Description == "" {
		return summaryPayload{}, fmt.Errorf("summary response has no description")
	}
	return payload, nil
}

func applySummary(snippet *models.Snippet, payload summaryPayload) {
	snippet.Description = payload.Description
	snippet.WhenToUse = payload.WhenToUse
	for _, category := range payload.Categories {
		category = strings.ToLower(strings.TrimSpace(category))
		if category == "" || containsString(snippet.Categories, category) {
			continue
		}
		snippet.Categories = append(snippet.Categories, category)
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func truncateCode(code string, limit int) string {
	if len(code) <= limit {
		return code
	}
	return code[:limit]
}

// extractJSONObject trims chat fencing the model sometimes wraps around its
// JSON reply.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}
