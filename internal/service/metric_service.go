package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/internal/registry"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
)

// MetricRunner describes the executor required by MetricService.
type MetricRunner interface {
	Run(ctx context.Context, spec registry.Spec, filter models.MetricFilter) ([]models.MetricRow, error)
}

// MetricService resolves a metric identifier against the closed registry and
// executes it. Unknown metrics are rejected before any query is issued.
type MetricService struct {
	registry *registry.Registry
	repo     MetricRunner
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewMetricService constructs the metric service.
func NewMetricService(reg *registry.Registry, repo MetricRunner, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *MetricService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricService{registry: reg, repo: repo, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL}
}

// Query runs one registry metric. The boolean indicates whether the payload
// originated from cache.
func (s *MetricService) Query(ctx context.Context, filter models.MetricFilter) ([]models.MetricRow, bool, error) {
	spec, ok := s.registry.Lookup(filter.Metric)
	if !ok {
		unknown := appErrors.Clone(appErrors.ErrUnknownMetric, fmt.Sprintf("unknown metric %q", filter.Metric))
		unknown.Hint = "known metrics: " + strings.Join(s.registry.Metrics(), ", ")
		return nil, false, unknown
	}

	cacheKey := makeCacheKey("analytics", filter.Metric, cacheToken(filter.Unit), cacheToken(filter.Segment), cacheToken(filter.Class))
	var cached []models.MetricRow
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	rows, err := s.repo.Run(ctx, spec, filter)
	if err != nil {
		return nil, false, appErrors.Query(err, "")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("analytics_"+filter.Metric, time.Since(start))
	}

	if err := s.cache.Set(ctx, cacheKey, rows, s.cacheTTL); err != nil {
		s.logger.Warn("cache metric payload", zap.String("metric", filter.Metric), zap.Error(err))
	}

	return rows, false, nil
}

// Metrics lists the registered metric identifiers.
func (s *MetricService) Metrics() []string {
	return s.registry.Metrics()
}

// makeCacheKey joins the key parts positionally. Empty parts keep their slot;
// collapsing them would alias filters that set different dimensions to the
// same value.
func makeCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("bi")
	for _, part := range parts {
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}

// cacheToken canonicalises one filter dimension for the cache key: every
// wildcard spelling maps to the same token so logically identical queries
// share one entry.
func cacheToken(value string) string {
	if registry.Wildcard(value) {
		return "*"
	}
	return strings.TrimSpace(value)
}
