package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielpatrickdp/risk-explorer/internal/compare"
	"github.com/danielpatrickdp/risk-explorer/internal/llm"
	"github.com/danielpatrickdp/risk-explorer/internal/risk"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
	"github.com/gin-gonic/gin"
)

// #region request-types
// CompareRequest is the body of POST /compare.
type CompareRequest struct {
	Prompt string `json:"prompt"`
}

// AssessRequest is the body of POST /assess.
type AssessRequest struct {
	Prompt    string `json:"prompt"`
	ResponseA string `json:"response_a"`
	ResponseB string `json:"response_b"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// #endregion request-types

// #region handlers
// Handlers serves the HTTP API on top of a compare.Service.
type Handlers struct {
	svc    *compare.Service
	logger *slog.Logger
}

// NewHandlers creates handlers for svc.
func NewHandlers(svc *compare.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{svc: svc, logger: logger}
}

// HandleCompare runs both models on the prompt and returns the stored result.
func (h *Handlers) HandleCompare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}

	res, err := h.svc.Compare(c.Request.Context(), req.Prompt, compare.TriggerHTTP)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if res.Flags == nil {
		res.Flags = []risk.Flag{}
	}
	c.JSON(http.StatusOK, res)
}

// HandleAssess scores a caller-supplied response pair without calling models
// or persisting anything.
func (h *Handlers) HandleAssess(c *gin.Context) {
	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, risk.Assess(req.Prompt, req.ResponseA, req.ResponseB))
}

// HandleStats returns aggregate statistics over every stored run.
func (h *Handlers) HandleStats(c *gin.Context) {
	s, err := h.svc.Stats()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// HandleRun returns one stored run.
func (h *Handlers) HandleRun(c *gin.Context) {
	run, err := h.svc.Run(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// #endregion handlers

// #region errors
func (h *Handlers) writeError(c *gin.Context, err error) {
	var modelErr *compare.ModelError
	switch {
	case errors.Is(err, compare.ErrInvalidPrompt):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})
	case errors.Is(err, store.ErrRunNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: "run not found"})
	case errors.Is(err, llm.ErrMissingAPIKey):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: llm.ErrMissingAPIKey.Error()})
	case errors.As(err, &modelErr):
		h.logger.Error("model call failed", "slot", modelErr.Slot, "model", modelErr.Model, "error", modelErr.Err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Detail: "model " + modelErr.Slot + " failed"})
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "internal error"})
	}
}

// #endregion errors
