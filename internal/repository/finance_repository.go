package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/painelescolar/bi-api/internal/models"
)

// FinanceRepository aggregates monthly billing records and scalar snapshots.
type FinanceRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewFinanceRepository instantiates the repository.
func NewFinanceRepository(db *sqlx.DB, queryTimeout time.Duration) *FinanceRepository {
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &FinanceRepository{db: db, timeout: queryTimeout}
}

const revenueSummaryQuery = `SELECT SUM(amount) AS total_billed,
        SUM(amount) FILTER (WHERE status = 'paid') AS received,
        SUM(amount) FILTER (WHERE status IN ('pending', 'late')) AS pending,
        COUNT(*) AS invoice_count,
        COUNT(*) FILTER (WHERE status = 'late') AS late_invoices,
        COUNT(DISTINCT student_id) AS billed_clients
        FROM monthly_invoices`

const revenueByMonthQuery = `SELECT reference_month,
        SUM(amount) AS billed,
        SUM(amount) FILTER (WHERE status = 'paid') AS received,
        SUM(amount) FILTER (WHERE status IN ('pending', 'late')) AS pending
        FROM monthly_invoices
        WHERE reference_month >= date_trunc('month', CURRENT_DATE) - INTERVAL '11 months'
        GROUP BY reference_month
        ORDER BY reference_month`

const statusBreakdownQuery = `SELECT status, COUNT(*) AS count, SUM(amount) AS amount
        FROM monthly_invoices
        GROUP BY status
        ORDER BY status`

const snapshotSeriesQuery = `SELECT reference_month, value
        FROM monthly_snapshots
        WHERE metric_type = $1
        ORDER BY reference_month DESC
        LIMIT $2`

// FinanceSummaryData bundles the independent aggregates behind the finance
// page.
type FinanceSummaryData struct {
	Revenue     models.RevenueSummaryRow
	ByMonth     []models.MonthlyRevenueRow
	ByStatus    []models.InvoiceStatusRow
	NPS         []models.SnapshotRow
	HealthScore []models.SnapshotRow
}

// Summary fans out the finance aggregates concurrently and joins before
// returning. Snapshot series come newest-first, limited to the last two
// months for the delta computation.
func (r *FinanceRepository) Summary(ctx context.Context) (*FinanceSummaryData, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data := &FinanceSummaryData{}
	err := runParallel(
		func() error {
			if err := r.db.GetContext(ctx, &data.Revenue, revenueSummaryQuery); err != nil {
				return fmt.Errorf("query revenue summary: %w", err)
			}
			return nil
		},
		func() error {
			if err := r.db.SelectContext(ctx, &data.ByMonth, revenueByMonthQuery); err != nil {
				return fmt.Errorf("query revenue by month: %w", err)
			}
			return nil
		},
		func() error {
			if err := r.db.SelectContext(ctx, &data.ByStatus, statusBreakdownQuery); err != nil {
				return fmt.Errorf("query status breakdown: %w", err)
			}
			return nil
		},
		func() error {
			if err := r.db.SelectContext(ctx, &data.NPS, snapshotSeriesQuery, models.SnapshotNPS, 2); err != nil {
				return fmt.Errorf("query nps snapshots: %w", err)
			}
			return nil
		},
		func() error {
			if err := r.db.SelectContext(ctx, &data.HealthScore, snapshotSeriesQuery, models.SnapshotHealthScore, 2); err != nil {
				return fmt.Errorf("query health score snapshots: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return data, nil
}
