package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v58/github"
	"github.com/google/uuid"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/internal/metrics"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/pkg/models"
)

// githubWebhook re-ingests a repository when its tracked branch moves.
func (h *Handler) githubWebhook(c *gin.Context) {
	logger := log.GetLogger()
	logger.Info("Received request for github webhook")

	payload, err := github.ValidatePayload(c.Request, []byte(h.config.Github.WebhookSecret))
	if err != nil {
		h.handleErrorApiResponse(c, err, "failed to validate payload")
		return
	}

	githubEvent, err := github.ParseWebHook(github.WebHookType(c.Request), payload)
	if err != nil {
		h.handleErrorApiResponse(c, err, "failed to parse webhook")
		return
	}

	switch e := githubEvent.(type) {
	case *github.PushEvent:
		event := convertPushEvent(e)
		if event == nil {
			h.handleErrorApiResponse(c, err, "failed to convert github event")
			return
		}
		logger.Infof("Received push event %v", models.GetJobIdentifier(event))
		err = h.module.ProcessEvent(c.Request.Context(), event)
		if err != nil {
			h.handleErrorApiResponse(c, err, "failed to send event to kafka")
			return
		}
		logger.Info("Successfully send webhook to kafka")
		metrics.Get().ObserveIngestAccepted("webhook")
		h.handleSuccessfulApiResponse(c, &IngestResponse{JobID: event.JobID})
		return
	}

	h.handleSuccessfulApiResponse(c, "event not found")
}

func convertPushEvent(event *github.PushEvent) *models.IngestEvent {
	if event == nil || event.Repo == nil {
		return nil
	}

	ref := strings.TrimPrefix(event.GetRef(), "refs/heads/")
	if ref == "" {
		return nil
	}

	return &models.IngestEvent{
		JobID:       uuid.NewString(),
		RepoURL:     event.GetRepo().GetCloneURL(),
		Ref:         ref,
		RequestedAt: models.NowISO(),
	}
}
