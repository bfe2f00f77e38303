package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/internal/service"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
	"github.com/painelescolar/bi-api/pkg/response"
)

// Exporter is the service surface behind metric downloads.
type Exporter interface {
	Render(ctx context.Context, filter models.MetricFilter, format string) (*service.ExportResult, error)
}

// ExportHandler serves metric results as CSV or PDF downloads.
type ExportHandler struct {
	exporter Exporter
}

// NewExportHandler constructs the export handler.
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Download renders the requested metric in the requested format.
func (h *ExportHandler) Download(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var filter models.MetricFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "metric parameter is required"))
		return
	}

	result, err := h.exporter.Render(c.Request.Context(), filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
