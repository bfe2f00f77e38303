package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/painelescolar/bi-api/internal/dto"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
	"github.com/painelescolar/bi-api/pkg/response"
)

// FinanceProvider is the service surface behind the finance page.
type FinanceProvider interface {
	Summary(ctx context.Context) (*dto.FinanceSummaryResponse, bool, error)
}

// FinanceHandler exposes the finance summary endpoint.
type FinanceHandler struct {
	finance FinanceProvider
}

// NewFinanceHandler constructs the finance handler.
func NewFinanceHandler(finance FinanceProvider) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

// Summary returns the finance page payload.
func (h *FinanceHandler) Summary(c *gin.Context) {
	if h.finance == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	summary, cacheHit, err := h.finance.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	setCacheHeader(c, cacheHit)
	response.OK(c, summary)
}
