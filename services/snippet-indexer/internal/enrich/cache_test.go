package enrich

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheHitAndMiss(t *testing.T) {
	cache, err := NewCache(8)
	require.NoError(t, err)

	payload := summaryPayload{
		Description: "Computes circular orbit delta-v.",
		Categories:  []string{"orbital-mechanics"},
		WhenToUse:   "When planning a circularization burn.",
	}
	cache.Put("snippet-1", "summarize", "gpt-4o-mini", payload)

	got, ok := cache.Get("snippet-1", "summarize", "gpt-4o-mini")
	require.True(t, ok)
	require.Equal(t, payload, got)

	// a different model misses: cached output is model-specific
	_, ok = cache.Get("snippet-1", "summarize", "gpt-4o")
	require.False(t, ok)

	_, ok = cache.Get("snippet-2", "summarize", "gpt-4o-mini")
	require.False(t, ok)
}

func TestNilCacheIsSafe(t *testing.T) {
	var cache *Cache
	_, ok := cache.Get("snippet-1", "summarize", "m")
	require.False(t, ok)
	cache.Put("snippet-1", "summarize", "m", summaryPayload{})
}

func TestExtractJSONObject(t *testing.T) {
	wrapped := "Sure, here you go:\n```json\n{\"description\": \"d\"}\n```"
	require.Equal(t, `{"description": "d"}`, extractJSONObject(wrapped))
	require.Equal(t, "no braces", extractJSONObject("no braces"))
}
