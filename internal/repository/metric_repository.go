package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/internal/registry"
)

// MetricRepository executes registry metric queries against the shared pool.
// Rows come back loosely typed (column name → raw driver value); the registry
// transform owns the shaping and the numeric coercion.
type MetricRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewMetricRepository instantiates the repository.
func NewMetricRepository(db *sqlx.DB, queryTimeout time.Duration) *MetricRepository {
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &MetricRepository{db: db, timeout: queryTimeout}
}

// Run binds the filter into the metric's template, executes it under the
// statement timeout and transforms every row. The connection is scoped to
// this call and returned to the pool on every exit path.
func (r *MetricRepository) Run(ctx context.Context, spec registry.Spec, filter models.MetricFilter) ([]models.MetricRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, spec.Query, spec.Bind(filter)...)
	if err != nil {
		return nil, fmt.Errorf("query metric: %w", err)
	}
	defer rows.Close()

	results := make([]models.MetricRow, 0, 16)
	for rows.Next() {
		raw := map[string]interface{}{}
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scan metric row: %w", err)
		}
		results = append(results, spec.Transform(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric rows: %w", err)
	}

	return results, nil
}

// runParallel issues the given queries concurrently and joins before
// returning. The first error wins; remaining branches still run to
// completion so their connections are released.
func runParallel(fns ...func() error) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	wg.Add(len(fns))
	for _, fn := range fns {
		go func(fn func() error) {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(fn)
	}
	wg.Wait()

	return firstErr
}
