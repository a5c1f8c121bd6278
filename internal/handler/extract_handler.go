package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docintel/internal/domain"
	"docintel/internal/pipeline"
	"docintel/internal/service"
)

// ExtractHandler handles extraction endpoints.
type ExtractHandler struct {
	extractionService service.ExtractionService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(extractionService service.ExtractionService) *ExtractHandler {
	return &ExtractHandler{extractionService: extractionService}
}

// ExtractRequest is the body of POST /extract. An empty token list is a
// legal document, so only the name is bound as required. Config carries
// optional per-request threshold overrides.
type ExtractRequest struct {
	DocumentName string              `json:"document_name" binding:"required"`
	Tokens       []domain.Token      `json:"tokens"`
	Config       *pipeline.Overrides `json:"config,omitempty"`
}

// BatchExtractRequest is the body of POST /extract/batch. Emptiness is
// checked in the service so it maps to the batch-specific error code.
// Config overrides apply to every document in the batch.
type BatchExtractRequest struct {
	Documents []pipeline.BatchInput `json:"documents"`
	Config    *pipeline.Overrides   `json:"config,omitempty"`
}

// ExtractResponse pairs the persisted record's ID with the full run output.
type ExtractResponse struct {
	RecordID string          `json:"record_id"`
	Result   pipeline.Result `json:"result"`
}

// Extract handles POST /api/v1/extract
func (h *ExtractHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	rec, result, err := h.extractionService.Extract(c.Request.Context(), req.DocumentName, req.Tokens, req.Config)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, ExtractResponse{
		RecordID: rec.ID.String(),
		Result:   *result,
	})
}

// ExtractBatch handles POST /api/v1/extract/batch
func (h *ExtractHandler) ExtractBatch(c *gin.Context) {
	var req BatchExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	outcomes, err := h.extractionService.ExtractBatch(c.Request.Context(), req.Documents, req.Config)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"documents": outcomes})
}
