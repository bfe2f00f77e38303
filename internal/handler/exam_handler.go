package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/painelescolar/bi-api/internal/dto"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
	"github.com/painelescolar/bi-api/pkg/response"
)

// ExamProvider is the service surface behind the exam pages.
type ExamProvider interface {
	National(ctx context.Context, tpEscola string) (*dto.ExamNationalResponse, bool, error)
	Breakdown(ctx context.Context, uf, tpEscola string) (*dto.ExamCityBreakdownResponse, bool, error)
}

// ExamHandler exposes the national-exam statistics endpoints.
type ExamHandler struct {
	exams ExamProvider
}

// NewExamHandler constructs the exam handler.
func NewExamHandler(exams ExamProvider) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// National returns country-wide exam stats, optionally filtered by school
// type ("Todas" or absent means unfiltered).
func (h *ExamHandler) National(c *gin.Context) {
	if h.exams == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	stats, cacheHit, err := h.exams.National(c.Request.Context(), c.Query("tp_escola"))
	if err != nil {
		response.Error(c, err)
		return
	}

	setCacheHeader(c, cacheHit)
	response.OK(c, stats)
}

// CityBreakdown returns the city drilldown for one UF. The uf parameter is
// required.
func (h *ExamHandler) CityBreakdown(c *gin.Context) {
	if h.exams == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	uf := c.Query("uf")
	if uf == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingParameter, "uf is required"))
		return
	}

	breakdown, cacheHit, err := h.exams.Breakdown(c.Request.Context(), uf, c.Query("tp_escola"))
	if err != nil {
		response.Error(c, err)
		return
	}

	setCacheHeader(c, cacheHit)
	response.OK(c, breakdown)
}
