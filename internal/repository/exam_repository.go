package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/internal/registry"
)

// ExamRepository reads the pre-aggregated national-exam tables. Rows come
// back at the finest stored granularity, one per (region, school-type), so
// the service can recombine averages from (avg, count) pairs without ever
// averaging already-combined averages.
type ExamRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewExamRepository instantiates the repository.
func NewExamRepository(db *sqlx.DB, queryTimeout time.Duration) *ExamRepository {
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &ExamRepository{db: db, timeout: queryTimeout}
}

const ufStatsQuery = `SELECT uf, tp_escola, media_cn, qtd_cn, media_ch, qtd_ch, media_lc, qtd_lc, media_mt, qtd_mt, media_red, qtd_red
        FROM enem_uf_stats
        WHERE ($1::text IS NULL OR tp_escola = $1)
        ORDER BY uf, tp_escola`

const ufListQuery = `SELECT DISTINCT uf FROM enem_uf_stats ORDER BY uf`

const stateStatsQuery = `SELECT uf, tp_escola, media_cn, qtd_cn, media_ch, qtd_ch, media_lc, qtd_lc, media_mt, qtd_mt, media_red, qtd_red
        FROM enem_uf_stats
        WHERE uf = $1 AND ($2::text IS NULL OR tp_escola = $2)
        ORDER BY tp_escola`

const cityStatsQuery = `SELECT uf, municipio, tp_escola, media_cn, qtd_cn, media_ch, qtd_ch, media_lc, qtd_lc, media_mt, qtd_mt, media_red, qtd_red
        FROM enem_city_stats
        WHERE uf = $1 AND ($2::text IS NULL OR tp_escola = $2)
        ORDER BY municipio, tp_escola`

// NationalData bundles the two independent result shapes of the national
// stats page: per-group aggregate rows and the UF filter list.
type NationalData struct {
	Stats []models.ExamStatRow
	UFs   []string
}

// National issues the aggregate query and the UF list concurrently. The two
// shapes differ (per-group rows vs a flat code list), so they are separate
// statements joined in application code, never a single round trip.
func (r *ExamRepository) National(ctx context.Context, tpEscola string) (*NationalData, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data := &NationalData{}
	err := runParallel(
		func() error {
			if err := r.db.SelectContext(ctx, &data.Stats, ufStatsQuery, schoolTypeArg(tpEscola)); err != nil {
				return fmt.Errorf("query exam uf stats: %w", err)
			}
			return nil
		},
		func() error {
			if err := r.db.SelectContext(ctx, &data.UFs, ufListQuery); err != nil {
				return fmt.Errorf("query exam uf list: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// BreakdownData bundles the state aggregate and the per-municipality rows of
// one UF.
type BreakdownData struct {
	State  []models.ExamStatRow
	Cities []models.ExamStatRow
}

// Breakdown issues the state summary and the city rows for one UF
// concurrently; the shapes differ (scalar KPI block vs per-city rows) and are
// joined in application code.
func (r *ExamRepository) Breakdown(ctx context.Context, uf, tpEscola string) (*BreakdownData, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data := &BreakdownData{}
	err := runParallel(
		func() error {
			if err := r.db.SelectContext(ctx, &data.State, stateStatsQuery, uf, schoolTypeArg(tpEscola)); err != nil {
				return fmt.Errorf("query exam state stats: %w", err)
			}
			return nil
		},
		func() error {
			if err := r.db.SelectContext(ctx, &data.Cities, cityStatsQuery, uf, schoolTypeArg(tpEscola)); err != nil {
				return fmt.Errorf("query exam city stats: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// schoolTypeArg applies the wildcard convention: "Todas"/empty binds as SQL
// NULL, which the templates read as "no filter applied".
func schoolTypeArg(tpEscola string) interface{} {
	if registry.Wildcard(tpEscola) {
		return nil
	}
	return tpEscola
}
