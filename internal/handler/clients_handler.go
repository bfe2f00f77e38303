package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/painelescolar/bi-api/internal/dto"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
	"github.com/painelescolar/bi-api/pkg/response"
)

// ClientsProvider is the service surface behind the clients page.
type ClientsProvider interface {
	Summary(ctx context.Context) (*dto.ClientsSummaryResponse, bool, error)
}

// ClientsHandler exposes the clients summary endpoint.
type ClientsHandler struct {
	clients ClientsProvider
}

// NewClientsHandler constructs the clients handler.
func NewClientsHandler(clients ClientsProvider) *ClientsHandler {
	return &ClientsHandler{clients: clients}
}

// Summary returns the clients page payload.
func (h *ClientsHandler) Summary(c *gin.Context) {
	if h.clients == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	summary, cacheHit, err := h.clients.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	setCacheHeader(c, cacheHit)
	response.OK(c, summary)
}
