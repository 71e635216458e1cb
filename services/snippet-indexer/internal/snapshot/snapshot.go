// Package snapshot holds the currently served index snapshot. The pipeline
// builds a complete replacement off to the side and swaps it in as one unit,
// so queries always see a consistent (snippets, index, resolver) triple.
package snapshot

import (
	"sync"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/keyword"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/resolver"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/search"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/symbols"
)

type Snapshot struct {
	ID       string
	Snippets []*models.Snippet
	Symbols  *symbols.Table
	Keyword  *keyword.Index
	Resolver *resolver.Resolver
	Engine   *search.Engine
}

type Registry struct {
	mu      sync.RWMutex
	current *Snapshot
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Swap publishes a fully built snapshot. In-flight readers keep the one they
// already picked up.
func (r *Registry) Swap(s *Snapshot) {
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
}

// Current returns the active snapshot, or nil before the first ingest.
func (r *Registry) Current() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
