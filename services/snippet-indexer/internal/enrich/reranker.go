package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/keyword"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/search"
)

const rerankSystemPrompt = `You score how relevant code snippets are to a search query.
Reply with a JSON object whose single key "scores" maps each snippet id to a
relevance score between 0.0 and 1.0. Score every id you are given.`

// OpenAiReranker asks a chat model to score candidates against the query.
type OpenAiReranker struct {
	client *openai.Client
	model  string
}

func NewOpenAiReranker(apiKey, model string) *OpenAiReranker {
	return &OpenAiReranker{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (r *OpenAiReranker) Score(ctx context.Context, query string, candidates []search.RerankCandidate) (map[string]float64, error) {
	if len(candidates) == 0 {
		return map[string]float64{}, nil
	}

	payload, err := json.Marshal(candidates)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rerankSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Query: %s\n\nCandidates:\n%s", query, payload)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("rerank completion returned no choices")
	}

	var parsed struct {
		Scores map[string]float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("unparseable rerank response: %w", err)
	}

	scores := make(map[string]float64, len(parsed.Scores))
	for id, score := range parsed.Scores {
		scores[id] = clampUnit(score)
	}
	return scores, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// OverlapReranker scores by query-token overlap against the candidate's name
// and description. It stands in for the LLM reranker in tests and in
// deployments without an API key.
type OverlapReranker struct{}

func (OverlapReranker) Score(_ context.Context, query string, candidates []search.RerankCandidate) (map[string]float64, error) {
	queryTokens := map[string]struct{}{}
	for _, tok := range keyword.Tokenize(query) {
		queryTokens[tok] = struct{}{}
	}

	scores := make(map[string]float64, len(candidates))
	for _, candidate := range candidates {
		text := candidate.Name + " " + candidate.Description + " " + strings.Join(candidate.Categories, " ")
		tokens := keyword.Tokenize(text)
		if len(tokens) == 0 || len(queryTokens) == 0 {
			scores[candidate.ID] = 0
			continue
		}
		hits := 0
		for _, tok := range tokens {
			if _, ok := queryTokens[tok]; ok {
				hits++
			}
		}
		scores[candidate.ID] = clampUnit(float64(hits) / float64(len(queryTokens)))
	}
	return scores, nil
}
