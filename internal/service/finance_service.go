package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/painelescolar/bi-api/internal/aggregate"
	"github.com/painelescolar/bi-api/internal/dto"
	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/internal/repository"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
)

// FinanceSummarizer describes the persistence layer required by FinanceService.
type FinanceSummarizer interface {
	Summary(ctx context.Context) (*repository.FinanceSummaryData, error)
}

// FinanceService shapes the finance page payload: billing totals, the
// received/pending split, delinquency rate and the satisfaction block.
type FinanceService struct {
	repo     FinanceSummarizer
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewFinanceService constructs the finance service.
func NewFinanceService(repo FinanceSummarizer, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *FinanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceService{repo: repo, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL}
}

// Summary returns the finance page payload. The boolean indicates cache
// utilisation.
func (s *FinanceService) Summary(ctx context.Context) (*dto.FinanceSummaryResponse, bool, error) {
	cacheKey := makeCacheKey("finance-summary")
	var cached dto.FinanceSummaryResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	data, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, false, appErrors.Query(err, "")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("finance_summary", time.Since(start))
	}

	summary := compose(data)
	if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("cache finance summary", zap.Error(err))
	}

	return summary, false, nil
}

func compose(data *repository.FinanceSummaryData) *dto.FinanceSummaryResponse {
	nps, npsDelta := latestWithDelta(data.NPS)
	health, healthDelta := latestWithDelta(data.HealthScore)

	kpis := dto.FinanceKPIs{
		TotalRevenue:     aggregate.Float(data.Revenue.TotalBilled),
		Received:         aggregate.Float(data.Revenue.Received),
		Pending:          aggregate.Float(data.Revenue.Pending),
		DelinquencyRate:  aggregate.Percent(float64(data.Revenue.LateInvoices), float64(data.Revenue.InvoiceCount)),
		NPS:              nps,
		NPSDelta:         npsDelta,
		HealthScore:      health,
		HealthScoreDelta: healthDelta,
	}

	byMonth := make([]dto.MonthlyRevenue, 0, len(data.ByMonth))
	for _, row := range data.ByMonth {
		byMonth = append(byMonth, dto.MonthlyRevenue{
			Month:    row.ReferenceMonth.Format("2006-01"),
			Billed:   aggregate.Float(row.Billed),
			Received: aggregate.Float(row.Received),
			Pending:  aggregate.Float(row.Pending),
		})
	}

	byStatus := make([]dto.StatusSlice, 0, len(data.ByStatus))
	for _, row := range data.ByStatus {
		byStatus = append(byStatus, dto.StatusSlice{
			Status: row.Status,
			Count:  row.Count,
			Amount: aggregate.Float(row.Amount),
		})
	}

	return &dto.FinanceSummaryResponse{
		KPIs:            kpis,
		RevenueByMonth:  byMonth,
		StatusBreakdown: byStatus,
	}
}

// latestWithDelta reads a newest-first snapshot series: the headline value is
// the most recent month, the delta is newest minus the month before. Missing
// months degrade to 0.
func latestWithDelta(series []models.SnapshotRow) (latest, delta float64) {
	if len(series) == 0 {
		return 0, 0
	}
	latest = series[0].Value
	if len(series) > 1 {
		delta = aggregate.Delta(latest, series[1].Value)
	}
	return latest, delta
}
