package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	serviceErrors "github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/errors"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/resolver"
)

type ResolveRequest struct {
	Target   string `json:"target"`
	MaxBytes int    `json:"max_bytes"`
	MaxNodes int    `json:"max_nodes"`
}

type ResolveResponse struct {
	SnapshotID string           `json:"snapshot_id"`
	Bundle     *resolver.Result `json:"bundle"`
}

func (h *Handler) resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleErrorApiResponse(c, serviceErrors.ErrMissingTarget, "failed to bind resolve request")
		return
	}
	if strings.TrimSpace(req.Target) == "" {
		h.handleErrorApiResponse(c, serviceErrors.ErrMissingTarget, "empty resolve target")
		return
	}

	snap, err := h.currentSnapshot()
	if err != nil {
		h.handleErrorApiResponse(c, err, "no snapshot available")
		return
	}

	maxBytes := req.MaxBytes
	if maxBytes <= 0 {
		maxBytes = h.config.Resolve.MaxBytes
	}
	maxNodes := req.MaxNodes
	if maxNodes <= 0 {
		maxNodes = h.config.Resolve.MaxNodes
	}

	bundle, err := snap.Resolver.Resolve(req.Target, maxBytes, maxNodes)
	if err != nil {
		if errors.Is(err, resolver.ErrTargetNotFound) {
			h.handleErrorApiResponse(c, serviceErrors.ErrTargetNotFound, "resolve target not found")
			return
		}
		h.handleErrorApiResponse(c, err, "resolve failed")
		return
	}

	h.handleSuccessfulApiResponse(c, &ResolveResponse{
		SnapshotID: snap.ID,
		Bundle:     bundle,
	})
}

type SnapshotInfoResponse struct {
	SnapshotID string `json:"snapshot_id"`
	Snippets   int    `json:"snippets"`
	Symbols    int    `json:"symbols"`
}

func (h *Handler) snapshotInfo(c *gin.Context) {
	snap, err := h.currentSnapshot()
	if err != nil {
		h.handleErrorApiResponse(c, err, "no snapshot available")
		return
	}

	h.handleSuccessfulApiResponse(c, &SnapshotInfoResponse{
		SnapshotID: snap.ID,
		Snippets:   len(snap.Snippets),
		Symbols:    snap.Symbols.Len(),
	})
}

func (h *Handler) getSnippet(c *gin.Context) {
	snap, err := h.currentSnapshot()
	if err != nil {
		h.handleErrorApiResponse(c, err, "no snapshot available")
		return
	}

	id := c.Param("id")
	var found *models.Snippet
	for _, snippet := range snap.Snippets {
		if snippet.ID == id {
			found = snippet
			break
		}
	}
	if found == nil {
		h.handleErrorApiResponse(c, serviceErrors.ErrTargetNotFound, "snippet not found")
		return
	}

	h.handleSuccessfulApiResponse(c, found)
}
