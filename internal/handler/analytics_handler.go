package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/painelescolar/bi-api/internal/models"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
	"github.com/painelescolar/bi-api/pkg/response"
)

// MetricProvider is the service surface the analytics endpoints consume.
type MetricProvider interface {
	Query(ctx context.Context, filter models.MetricFilter) ([]models.MetricRow, bool, error)
}

// AnalyticsHandler exposes the registry metric endpoint.
type AnalyticsHandler struct {
	metrics MetricProvider
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(metrics MetricProvider) *AnalyticsHandler {
	return &AnalyticsHandler{metrics: metrics}
}

// Query resolves and runs one registry metric. A missing or unknown metric is
// a client error answered before any query reaches the store.
func (h *AnalyticsHandler) Query(c *gin.Context) {
	if h.metrics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var filter models.MetricFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "metric parameter is required"))
		return
	}

	rows, cacheHit, err := h.metrics.Query(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	setCacheHeader(c, cacheHit)
	response.OK(c, rows)
}

func setCacheHeader(c *gin.Context, hit bool) {
	if hit {
		c.Header("X-Cache", "HIT")
		return
	}
	c.Header("X-Cache", "MISS")
}
