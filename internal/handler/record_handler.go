package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docintel/internal/domain"
	"docintel/internal/export"
	"docintel/internal/port"
	"docintel/internal/service"
)

// RecordHandler handles stored extraction record endpoints.
type RecordHandler struct {
	extractionService service.ExtractionService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(extractionService service.ExtractionService) *RecordHandler {
	return &RecordHandler{extractionService: extractionService}
}

// parseRecordFilters extracts listing filter parameters from query params.
func parseRecordFilters(c *gin.Context) (port.RecordFilters, error) {
	filters := port.RecordFilters{Limit: 50}

	filters.DocumentName = c.Query("document_name")

	if v := c.Query("is_consistent"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filters, err
		}
		filters.IsConsistent = &b
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filters, err
		}
		filters.Offset = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filters, err
		}
		filters.Limit = n
	}
	return filters, nil
}

// List handles GET /api/v1/records
func (h *RecordHandler) List(c *gin.Context) {
	filters, err := parseRecordFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_QUERY", "invalid query parameter: "+err.Error())
		return
	}

	recs, total, err := h.extractionService.ListRecords(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, recs, PagMeta{Total: total, Offset: filters.Offset, Limit: filters.Limit})
}

// Get handles GET /api/v1/records/:id
func (h *RecordHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "record id must be a valid UUID")
		return
	}

	rec, err := h.extractionService.GetRecord(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Delete handles DELETE /api/v1/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "record id must be a valid UUID")
		return
	}

	if err := h.extractionService.DeleteRecord(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": id})
}

// Export handles GET /api/v1/records/export?format=csv|xlsx
func (h *RecordHandler) Export(c *gin.Context) {
	format, err := domain.ParseExportFormat(c.DefaultQuery("format", string(domain.ExportCSV)))
	if err != nil {
		HandleError(c, err)
		return
	}

	filters, err := parseRecordFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_QUERY", "invalid query parameter: "+err.Error())
		return
	}
	// Exports are not paginated.
	filters.Offset = 0
	filters.Limit = 10000

	recs, _, err := h.extractionService.ListRecords(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("extractions", format)

	switch format {
	case domain.ExportXLSX:
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, recs); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, err)
			return
		}
		if err := w.WriteRecords(recs); err != nil {
			HandleError(c, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}
