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

// ClientsSummarizer describes the persistence layer required by ClientsService.
type ClientsSummarizer interface {
	Summary(ctx context.Context) (*repository.ClientsSummaryData, error)
}

// ClientsService shapes the clients page payload from concurrently gathered
// aggregates.
type ClientsService struct {
	repo          ClientsSummarizer
	cache         *CacheService
	metrics       *MetricsService
	logger        *zap.Logger
	cacheTTL      time.Duration
	classCapacity int
}

// NewClientsService constructs the clients service.
func NewClientsService(repo ClientsSummarizer, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration, classCapacity int) *ClientsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if classCapacity <= 0 {
		classCapacity = 40
	}
	return &ClientsService{repo: repo, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL, classCapacity: classCapacity}
}

// Summary returns the clients page payload. The boolean indicates cache
// utilisation.
func (s *ClientsService) Summary(ctx context.Context) (*dto.ClientsSummaryResponse, bool, error) {
	cacheKey := makeCacheKey("clients-summary")
	var cached dto.ClientsSummaryResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	data, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, false, appErrors.Query(err, "")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("clients_summary", time.Since(start))
	}

	summary := s.compose(data)
	if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("cache clients summary", zap.Error(err))
	}

	return summary, false, nil
}

func (s *ClientsService) compose(data *repository.ClientsSummaryData) *dto.ClientsSummaryResponse {
	kpis := dto.ClientsKPIs{
		TotalStudents:      data.KPIs.TotalStudents,
		ActiveStudents:     data.KPIs.ActiveStudents,
		DelinquentStudents: data.KPIs.DelinquentStudents,
		WithdrawnStudents:  data.KPIs.WithdrawnStudents,
		ScholarshipRate:    aggregate.Percent(float64(data.KPIs.ScholarshipCount), float64(data.KPIs.TotalStudents)),
		Siblings:           data.KPIs.SiblingCount,
		AverageAge:         aggregate.Float(data.KPIs.AverageAge),
	}

	occupancy := make([]dto.SegmentOccupancy, 0, len(data.Occupancy))
	for _, row := range data.Occupancy {
		capacity := float64(row.Classes * s.classCapacity)
		occupancy = append(occupancy, dto.SegmentOccupancy{
			SegmentID:    row.SegmentID,
			SegmentLabel: row.SegmentLabel,
			Students:     row.Students,
			Occupancy:    aggregate.Percent(float64(row.Students), capacity),
		})
	}

	return &dto.ClientsSummaryResponse{
		KPIs:               kpis,
		OccupancyBySegment: occupancy,
		GenderData:         slices(data.Gender),
		GeoData:            slices(data.Geo),
		RaceData:           slices(data.Race),
		IncomeData:         slices(data.Income),
		AgeData:            slices(data.Age),
	}
}

func slices(rows []models.DistributionRow) []dto.DistributionSlice {
	out := make([]dto.DistributionSlice, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.DistributionSlice{Name: row.Label, Value: row.Count})
	}
	return out
}
