package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	serviceErrors "github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/internal/errors"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/internal/metrics"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/pkg/models"
)

type IngestRequest struct {
	RepoURL string `json:"repo_url"`
	Ref     string `json:"ref"`
}

type IngestResponse struct {
	JobID string `json:"job_id"`
}

func (h *Handler) ingest(c *gin.Context) {
	logger := log.GetLogger()

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleErrorApiResponse(c, serviceErrors.ErrInvalidIngestRequest, "failed to bind ingest request")
		return
	}
	if strings.TrimSpace(req.RepoURL) == "" || strings.TrimSpace(req.Ref) == "" {
		h.handleErrorApiResponse(c, serviceErrors.ErrInvalidIngestRequest, "invalid ingest request")
		return
	}

	event := &models.IngestEvent{
		JobID:       uuid.NewString(),
		RepoURL:     req.RepoURL,
		Ref:         req.Ref,
		RequestedAt: models.NowISO(),
	}
	logger.Infof("received ingest request %v", models.GetJobIdentifier(event))

	if err := h.module.ProcessEvent(c.Request.Context(), event); err != nil {
		h.handleErrorApiResponse(c, err, "failed to send event to kafka")
		return
	}

	metrics.Get().ObserveIngestAccepted("api")
	h.handleSuccessfulApiResponse(c, &IngestResponse{JobID: event.JobID})
}
