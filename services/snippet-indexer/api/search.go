package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	serviceErrors "github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/errors"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/metrics"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/search"
)

type SearchRequest struct {
	Query             string `json:"query"`
	K                 int    `json:"k"`
	Mode              string `json:"mode"`
	Category          string `json:"category"`
	ExcludeRestricted bool   `json:"exclude_restricted"`
	Rerank            bool   `json:"rerank"`
}

type SearchResponse struct {
	SnapshotID string          `json:"snapshot_id"`
	Results    []search.Result `json:"results"`
}

func (h *Handler) search(c *gin.Context) {
	logger := log.GetLogger()
	start := time.Now()

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleErrorApiResponse(c, serviceErrors.ErrEmptyQuery, "failed to bind search request")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.handleErrorApiResponse(c, serviceErrors.ErrEmptyQuery, "empty search query")
		return
	}

	snap, err := h.currentSnapshot()
	if err != nil {
		h.handleErrorApiResponse(c, err, "no snapshot available")
		return
	}

	if req.K <= 0 {
		req.K = h.config.Search.DefaultK
	}
	results, err := snap.Engine.Search(c.Request.Context(), req.Query, search.Options{
		K:                 req.K,
		UseAnd:            req.Mode == "and",
		Category:          req.Category,
		ExcludeRestricted: req.ExcludeRestricted,
		Rerank:            req.Rerank,
	})
	if err != nil {
		h.handleErrorApiResponse(c, err, "search failed")
		return
	}

	mode := "hybrid"
	if req.Rerank {
		mode = "rerank"
	}
	metrics.Get().ObserveSearchLatency(mode, start)
	logger.WithField("query", req.Query).Infof("search returned %d results", len(results))

	if results == nil {
		results = []search.Result{}
	}
	h.handleSuccessfulApiResponse(c, &SearchResponse{
		SnapshotID: snap.ID,
		Results:    results,
	})
}
