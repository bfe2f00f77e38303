package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painelescolar/bi-api/internal/models"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
)

type fakeMetricProvider struct {
	rows       []models.MetricRow
	cacheHit   bool
	err        error
	calls      int
	lastFilter models.MetricFilter
}

func (f *fakeMetricProvider) Query(_ context.Context, filter models.MetricFilter) ([]models.MetricRow, bool, error) {
	f.calls++
	f.lastFilter = filter
	if f.err != nil {
		return nil, false, f.err
	}
	return f.rows, f.cacheHit, nil
}

func TestAnalyticsHandlerRequiresMetric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := &fakeMetricProvider{}
	handler := NewAnalyticsHandler(provider)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics", nil)

	handler.Query(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, provider.calls)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "metric parameter is required", body["error"])
}

func TestAnalyticsHandlerUnknownMetric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := &fakeMetricProvider{err: appErrors.Clone(appErrors.ErrUnknownMetric, "unknown metric \"nope\"")}
	handler := NewAnalyticsHandler(provider)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics?metric=nope", nil)

	handler.Query(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknown metric \"nope\"", body["error"])
}

func TestAnalyticsHandlerQuerySuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := &fakeMetricProvider{rows: []models.MetricRow{
		{ID: "u1|medio|3A||2026", UnitID: "u1", UnitLabel: "Unidade Centro", Year: 2026, Value: 2},
	}}
	handler := NewAnalyticsHandler(provider)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics?metric=scholarships&unidade=u1&segmento=M%C3%A9dio", nil)

	handler.Query(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "scholarships", provider.lastFilter.Metric)
	assert.Equal(t, "u1", provider.lastFilter.Unit)
	assert.Equal(t, "Médio", provider.lastFilter.Segment)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "u1|medio|3A||2026", rows[0]["id"])
	assert.Equal(t, 2.0, rows[0]["value"])
}

func TestAnalyticsHandlerCacheHitHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(&fakeMetricProvider{cacheHit: true})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics?metric=total-students", nil)

	handler.Query(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestAnalyticsHandlerQueryFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := &fakeMetricProvider{err: appErrors.Query(errors.New("connection refused"), "")}
	handler := NewAnalyticsHandler(provider)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics?metric=attendance", nil)

	handler.Query(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "query failed", body["error"])
	assert.Equal(t, "connection refused", body["details"])
}
