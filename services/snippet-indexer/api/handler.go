package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/config"
	serviceErrors "github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/errors"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/snapshot"
)

type Handler struct {
	config   *config.Config
	registry *snapshot.Registry
}

func NewHandler(config *config.Config, registry *snapshot.Registry) *Handler {
	return &Handler{
		config:   config,
		registry: registry,
	}
}

func (h *Handler) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": 1})
}

func (h *Handler) readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": 1})
}

func (h *Handler) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/readiness", h.readiness)
	r.POST("/liveness", h.liveness)
	r.POST("/v1/search", h.search)
	r.POST("/v1/resolve", h.resolve)
	r.GET("/v1/snapshot", h.snapshotInfo)
	r.GET("/v1/snippets/:id", h.getSnippet)

	return r
}

// currentSnapshot rejects requests that arrive before the first ingest
// has published anything.
func (h *Handler) currentSnapshot() (*snapshot.Snapshot, error) {
	snap := h.registry.Current()
	if snap == nil {
		return nil, serviceErrors.ErrNoSnapshot
	}
	return snap, nil
}

type SuccessResponse struct {
	Ok     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
}

func (h *Handler) handleSuccessfulApiResponse(c *gin.Context, response interface{}) {
	marshalled, err := json.Marshal(response)
	if err != nil {
		h.handleErrorApiResponse(c, err, "failed to marshal response")
	}

	resp := &SuccessResponse{
		Ok:     true,
		Result: marshalled,
	}
	c.JSON(http.StatusOK, resp)
	c.Abort()
}

type ErrorResponse struct {
	Ok        bool   `json:"ok"`
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

func (h *Handler) handleErrorApiResponse(c *gin.Context, err error, prompt string) {
	logger := log.GetLogger()

	var httpErr *serviceErrors.HttpError
	if errors.As(err, &httpErr) {
		if !httpErr.IsUserError {
			logger.WithError(err).Error(prompt)
		}
		resp := &ErrorResponse{
			Ok:        false,
			ErrorCode: httpErr.StatusCode,
			Message:   httpErr.Error(),
		}
		c.JSON(httpErr.StatusCode, resp)
		c.Abort()
		return
	}

	logger.WithError(err).Error(prompt)
	resp := &ErrorResponse{
		Ok:        false,
		ErrorCode: http.StatusInternalServerError,
		Message:   "Internal Server Error",
	}
	c.JSON(http.StatusInternalServerError, resp)
	c.Abort()
	return
}
