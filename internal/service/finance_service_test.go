package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/internal/repository"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
)

type fakeFinanceRepo struct {
	data *repository.FinanceSummaryData
	err  error
}

func (f *fakeFinanceRepo) Summary(context.Context) (*repository.FinanceSummaryData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func money(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func TestFinanceServiceSummaryComposesKPIs(t *testing.T) {
	month := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeFinanceRepo{data: &repository.FinanceSummaryData{
		Revenue: models.RevenueSummaryRow{
			TotalBilled:  money(120000),
			Received:     money(96000),
			Pending:      money(24000),
			InvoiceCount: 400,
			LateInvoices: 32,
		},
		ByMonth: []models.MonthlyRevenueRow{
			{ReferenceMonth: month.AddDate(0, -1, 0), Billed: money(11000), Received: money(9000), Pending: money(2000)},
			{ReferenceMonth: month, Billed: money(10000), Received: money(8000), Pending: money(2000)},
		},
		ByStatus: []models.InvoiceStatusRow{
			{Status: models.InvoiceStatusLate, Count: 32, Amount: money(6400)},
			{Status: models.InvoiceStatusPaid, Count: 320, Amount: money(96000)},
		},
		NPS: []models.SnapshotRow{
			{ReferenceMonth: month, Value: 75},
			{ReferenceMonth: month.AddDate(0, -1, 0), Value: 70},
		},
		HealthScore: []models.SnapshotRow{
			{ReferenceMonth: month, Value: 8.2},
			{ReferenceMonth: month.AddDate(0, -1, 0), Value: 8.5},
		},
	}}
	svc := NewFinanceService(repo, disabledCache(), nil, zap.NewNop(), time.Minute)

	resp, cacheHit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, 120000.0, resp.KPIs.TotalRevenue)
	assert.Equal(t, 96000.0, resp.KPIs.Received)
	assert.Equal(t, 24000.0, resp.KPIs.Pending)
	assert.Equal(t, 8.0, resp.KPIs.DelinquencyRate)
	assert.Equal(t, 75.0, resp.KPIs.NPS)
	assert.Equal(t, 5.0, resp.KPIs.NPSDelta)
	assert.Equal(t, 8.2, resp.KPIs.HealthScore)
	assert.InDelta(t, -0.3, resp.KPIs.HealthScoreDelta, 0.0001)

	require.Len(t, resp.RevenueByMonth, 2)
	assert.Equal(t, "2026-07", resp.RevenueByMonth[0].Month)
	assert.Equal(t, "2026-08", resp.RevenueByMonth[1].Month)

	require.Len(t, resp.StatusBreakdown, 2)
	assert.Equal(t, models.InvoiceStatusLate, resp.StatusBreakdown[0].Status)
	assert.Equal(t, 6400.0, resp.StatusBreakdown[0].Amount)
}

func TestFinanceServiceSummaryEmptyData(t *testing.T) {
	repo := &fakeFinanceRepo{data: &repository.FinanceSummaryData{}}
	svc := NewFinanceService(repo, disabledCache(), nil, zap.NewNop(), time.Minute)

	resp, _, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.KPIs.TotalRevenue)
	assert.Equal(t, 0.0, resp.KPIs.DelinquencyRate)
	assert.Equal(t, 0.0, resp.KPIs.NPSDelta)
	assert.NotNil(t, resp.RevenueByMonth)
	assert.Len(t, resp.RevenueByMonth, 0)
	assert.NotNil(t, resp.StatusBreakdown)
	assert.Len(t, resp.StatusBreakdown, 0)
}

func TestFinanceServiceSummarySingleSnapshotHasZeroDelta(t *testing.T) {
	repo := &fakeFinanceRepo{data: &repository.FinanceSummaryData{
		NPS: []models.SnapshotRow{{Value: 75}},
	}}
	svc := NewFinanceService(repo, disabledCache(), nil, zap.NewNop(), time.Minute)

	resp, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 75.0, resp.KPIs.NPS)
	assert.Equal(t, 0.0, resp.KPIs.NPSDelta)
}

func TestFinanceServiceSummaryCaching(t *testing.T) {
	repo := &fakeFinanceRepo{data: &repository.FinanceSummaryData{
		NPS: []models.SnapshotRow{{Value: 75}},
	}}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewFinanceService(repo, cacheSvc, nil, zap.NewNop(), time.Minute)

	ctx := context.Background()
	first, cacheHit, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.False(t, cacheHit)

	second, cacheHit, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, first, second)
}

func TestFinanceServiceSummaryQueryError(t *testing.T) {
	repo := &fakeFinanceRepo{err: errors.New("timeout")}
	svc := NewFinanceService(repo, disabledCache(), nil, zap.NewNop(), time.Minute)

	_, _, err := svc.Summary(context.Background())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, appErrors.ErrQueryFailed.Code, appErr.Code)
}
