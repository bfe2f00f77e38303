package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/internal/service"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
)

type fakeExporter struct {
	result     *service.ExportResult
	err        error
	lastFormat string
}

func (f *fakeExporter) Render(_ context.Context, _ models.MetricFilter, format string) (*service.ExportResult, error) {
	f.lastFormat = format
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestExportHandlerDownloadCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := &fakeExporter{result: &service.ExportResult{
		Content:     []byte("unidade,valor\nUnidade Centro,2.00\n"),
		ContentType: "text/csv",
		Filename:    "scholarships.csv",
	}}
	handler := NewExportHandler(exporter)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/export?metric=scholarships&format=csv", nil)

	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", exporter.lastFormat)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=scholarships.csv", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "Unidade Centro")
}

func TestExportHandlerRequiresMetric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExporter{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/export", nil)

	handler.Download(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerPropagatesServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExporter{err: appErrors.Clone(appErrors.ErrValidation, "unsupported export format \"xlsx\"")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/export?metric=total-students&format=xlsx", nil)

	handler.Download(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "xlsx")
}
