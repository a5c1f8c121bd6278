package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docintel/internal/domain"
	"docintel/internal/handler"
	"docintel/internal/port"
	"docintel/mocks"
)

func newRecordHandler() (*handler.RecordHandler, *mocks.MockExtractionService) {
	mockSvc := new(mocks.MockExtractionService)
	return handler.NewRecordHandler(mockSvc), mockSvc
}

func getRequest(path string) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, path, http.NoBody)
	return w, c
}

func storedRecord() domain.ExtractionRecord {
	consistent := true
	return domain.ExtractionRecord{
		ID:           uuid.New(),
		DocumentName: "receipt.pdf",
		TokenCount:   14,
		Record:       json.RawMessage(`{}`),
		Validation:   json.RawMessage(`{}`),
		Diagnostics:  json.RawMessage(`{}`),
		IsConsistent: &consistent,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestRecordHandler_List(t *testing.T) {
	h, mockSvc := newRecordHandler()

	mockSvc.On("ListRecords", mock.Anything, port.RecordFilters{Limit: 50}).
		Return([]domain.ExtractionRecord{storedRecord()}, 1, nil)

	w, c := getRequest("/api/v1/records")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	mockSvc.AssertExpectations(t)
}

func TestRecordHandler_List_Filters(t *testing.T) {
	h, mockSvc := newRecordHandler()

	consistent := false
	expected := port.RecordFilters{
		DocumentName: "receipt",
		IsConsistent: &consistent,
		Offset:       10,
		Limit:        5,
	}
	mockSvc.On("ListRecords", mock.Anything, expected).Return([]domain.ExtractionRecord{}, 0, nil)

	w, c := getRequest("/api/v1/records?document_name=receipt&is_consistent=false&offset=10&limit=5")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRecordHandler_List_BadQuery(t *testing.T) {
	h, mockSvc := newRecordHandler()

	w, c := getRequest("/api/v1/records?offset=abc")
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)
}

func TestRecordHandler_Get(t *testing.T) {
	h, mockSvc := newRecordHandler()

	rec := storedRecord()
	mockSvc.On("GetRecord", mock.Anything, rec.ID).Return(&rec, nil)

	w, c := getRequest("/api/v1/records/" + rec.ID.String())
	c.Params = gin.Params{{Key: "id", Value: rec.ID.String()}}
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRecordHandler_Get_InvalidID(t *testing.T) {
	h, mockSvc := newRecordHandler()

	w, c := getRequest("/api/v1/records/not-a-uuid")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "GetRecord", mock.Anything, mock.Anything)
}

func TestRecordHandler_Get_NotFound(t *testing.T) {
	h, mockSvc := newRecordHandler()

	id := uuid.New()
	mockSvc.On("GetRecord", mock.Anything, id).Return(nil, domain.ErrNotFound)

	w, c := getRequest("/api/v1/records/" + id.String())
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordHandler_Delete(t *testing.T) {
	h, mockSvc := newRecordHandler()

	id := uuid.New()
	mockSvc.On("DeleteRecord", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/records/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRecordHandler_Export_CSV(t *testing.T) {
	h, mockSvc := newRecordHandler()

	mockSvc.On("ListRecords", mock.Anything, mock.AnythingOfType("port.RecordFilters")).
		Return([]domain.ExtractionRecord{storedRecord()}, 1, nil)

	w, c := getRequest("/api/v1/records/export")
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	// Body starts with the UTF-8 BOM, then the header row.
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "Document Name,Vendor,Date")
}

func TestRecordHandler_Export_XLSX(t *testing.T) {
	h, mockSvc := newRecordHandler()

	mockSvc.On("ListRecords", mock.Anything, mock.AnythingOfType("port.RecordFilters")).
		Return([]domain.ExtractionRecord{storedRecord()}, 1, nil)

	w, c := getRequest("/api/v1/records/export?format=xlsx")
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}

func TestRecordHandler_Export_UnsupportedFormat(t *testing.T) {
	h, mockSvc := newRecordHandler()

	w, c := getRequest("/api/v1/records/export?format=pdf")
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNSUPPORTED_FORMAT", resp.Error.Code)
}
