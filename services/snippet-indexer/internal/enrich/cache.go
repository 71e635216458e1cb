package enrich

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache remembers LLM outputs so re-ingesting an unchanged snippet does not
// pay for a second completion. Keys are content addressed, so a new model or
// a changed snippet id misses naturally.
type Cache struct {
	entries *lru.Cache[string, summaryPayload]
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, summaryPayload](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

func cacheKey(snippetID, task, model string) string {
	sum := sha256.Sum256([]byte(snippetID + "|" + task + "|" + model))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) Get(snippetID, task, model string) (summaryPayload, bool) {
	if c == nil || c.entries == nil {
		return summaryPayload{}, false
	}
	return c.entries.Get(cacheKey(snippetID, task, model))
}

func (c *Cache) Put(snippetID, task, model string, payload summaryPayload) {
	if c == nil || c.entries == nil {
		return
	}
	c.entries.Add(cacheKey(snippetID, task, model), payload)
}
