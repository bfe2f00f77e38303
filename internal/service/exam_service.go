package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/painelescolar/bi-api/internal/aggregate"
	"github.com/painelescolar/bi-api/internal/dto"
	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/internal/repository"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
)

const examHint = "verify the exam aggregate tables exist"

// primaryArea ranks states and cities on the charts.
const primaryArea = "mt"

// topCityLimit bounds the city drilldown list.
const topCityLimit = 10

// ExamReader describes the persistence layer required by ExamService.
type ExamReader interface {
	National(ctx context.Context, tpEscola string) (*repository.NationalData, error)
	Breakdown(ctx context.Context, uf, tpEscola string) (*repository.BreakdownData, error)
}

// ExamService recombines the pre-aggregated national-exam groups. All
// averages are rebuilt from (avg, count) pairs at the finest stored
// granularity; a zero average marks a group with no valid participants and is
// excluded from both sides of the division.
type ExamService struct {
	repo     ExamReader
	cache    *CacheService
	metrics  *MetricsService
	validate *validator.Validate
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewExamService constructs the exam service.
func NewExamService(repo ExamReader, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, cache: cache, metrics: metrics, validate: validate, logger: logger, cacheTTL: cacheTTL}
}

// National returns the country-wide stats page payload, optionally filtered
// by school type.
func (s *ExamService) National(ctx context.Context, tpEscola string) (*dto.ExamNationalResponse, bool, error) {
	cacheKey := makeCacheKey("exam-national", cacheToken(tpEscola))
	var cached dto.ExamNationalResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	data, err := s.repo.National(ctx, tpEscola)
	if err != nil {
		return nil, false, appErrors.Query(err, examHint)
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("exam_national", time.Since(start))
	}

	medias, counts := combineByArea(data.Stats)

	areas := make([]dto.ExamAreaStat, 0, len(models.ExamAreas))
	for _, area := range models.ExamAreas {
		areas = append(areas, dto.ExamAreaStat{
			ID:    area,
			Label: models.ExamAreaLabels[area],
			Media: medias[area],
			Count: counts[area],
		})
	}

	byUF := groupRows(data.Stats, func(r models.ExamStatRow) string { return r.UF })
	estados := make([]dto.ExamStateStat, 0, len(byUF))
	for _, uf := range sortedKeys(byUF) {
		estados = append(estados, stateStat(uf, byUF[uf]))
	}
	sort.Slice(estados, func(i, j int) bool { return estados[i].Media > estados[j].Media })

	resp := &dto.ExamNationalResponse{
		Total:    counts[primaryArea],
		Medias:   medias,
		Counts:   counts,
		Areas:    areas,
		Estados:  estados,
		ListaUFs: data.UFs,
	}

	if err := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); err != nil {
		s.logger.Warn("cache exam national stats", zap.Error(err))
	}

	return resp, false, nil
}

// Breakdown returns the city drilldown for one UF.
func (s *ExamService) Breakdown(ctx context.Context, uf, tpEscola string) (*dto.ExamCityBreakdownResponse, bool, error) {
	if uf == "" {
		return nil, false, appErrors.Clone(appErrors.ErrMissingParameter, "uf is required")
	}
	if err := s.validate.Struct(models.ExamBreakdownRequest{UF: uf, TpEscola: tpEscola}); err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "uf must be a two-letter state code")
	}

	cacheKey := makeCacheKey("exam-breakdown", uf, cacheToken(tpEscola))
	var cached dto.ExamCityBreakdownResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	data, err := s.repo.Breakdown(ctx, uf, tpEscola)
	if err != nil {
		return nil, false, appErrors.Query(err, examHint)
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("exam_breakdown", time.Since(start))
	}

	resp := &dto.ExamCityBreakdownResponse{UF: uf, TopCidades: []dto.ExamCityStat{}}
	if len(data.State) > 0 {
		estado := stateStat(uf, data.State)
		resp.Estado = &estado
	}

	byCity := groupRows(data.Cities, func(r models.ExamStatRow) string { return r.City })
	for _, city := range sortedKeys(byCity) {
		medias, counts := combineByArea(byCity[city])
		resp.TopCidades = append(resp.TopCidades, dto.ExamCityStat{
			Municipio: city,
			Media:     medias[primaryArea],
			Total:     counts[primaryArea],
			Medias:    medias,
		})
	}
	sort.SliceStable(resp.TopCidades, func(i, j int) bool {
		return resp.TopCidades[i].Media > resp.TopCidades[j].Media
	})
	if len(resp.TopCidades) > topCityLimit {
		resp.TopCidades = resp.TopCidades[:topCityLimit]
	}

	if err := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); err != nil {
		s.logger.Warn("cache exam breakdown", zap.Error(err))
	}

	return resp, false, nil
}

// combineByArea recombines a set of (region, school-type) groups per subject
// area. Groups whose stored average is 0 had no valid participants and are
// excluded from both the weighted sum and the participant total.
func combineByArea(rows []models.ExamStatRow) (medias, counts map[string]float64) {
	medias = make(map[string]float64, len(models.ExamAreas))
	counts = make(map[string]float64, len(models.ExamAreas))
	for _, area := range models.ExamAreas {
		groups := make([]aggregate.Group, 0, len(rows))
		var total float64
		for _, row := range rows {
			avg, count := row.Area(area)
			groups = append(groups, aggregate.Group{Average: avg, Count: count})
			if avg > 0 {
				total += count
			}
		}
		medias[area] = aggregate.WeightedMean(groups, true)
		counts[area] = total
	}
	return medias, counts
}

// stateStat combines one UF's groups: per-area weighted means first, then the
// overall mean across the five (area mean, area count) pairs. It never
// averages already-combined averages at coarser granularity.
func stateStat(uf string, rows []models.ExamStatRow) dto.ExamStateStat {
	medias, counts := combineByArea(rows)

	overall := make([]aggregate.Group, 0, len(models.ExamAreas))
	for _, area := range models.ExamAreas {
		overall = append(overall, aggregate.Group{Average: medias[area], Count: counts[area]})
	}

	return dto.ExamStateStat{
		UF:     uf,
		Media:  aggregate.WeightedMean(overall, true),
		Total:  counts[primaryArea],
		Medias: medias,
	}
}

func groupRows(rows []models.ExamStatRow, key func(models.ExamStatRow) string) map[string][]models.ExamStatRow {
	grouped := make(map[string][]models.ExamStatRow)
	for _, row := range rows {
		grouped[key(row)] = append(grouped[key(row)], row)
	}
	return grouped
}

func sortedKeys(m map[string][]models.ExamStatRow) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
