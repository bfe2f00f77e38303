package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/painelescolar/bi-api/internal/models"
)

// ClientsRepository serves the aggregate queries behind the clients page.
type ClientsRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewClientsRepository instantiates the repository.
func NewClientsRepository(db *sqlx.DB, queryTimeout time.Duration) *ClientsRepository {
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &ClientsRepository{db: db, timeout: queryTimeout}
}

// ClientsSummaryData bundles the independent aggregates the clients page
// charts. The queries share no ordering dependency and are issued
// concurrently against the shared pool.
type ClientsSummaryData struct {
	KPIs      models.ClientsKPIRow
	Occupancy []models.SegmentOccupancyRow
	Gender    []models.DistributionRow
	Geo       []models.DistributionRow
	Race      []models.DistributionRow
	Income    []models.DistributionRow
	Age       []models.DistributionRow
}

const clientsKPIQuery = `SELECT COUNT(*) AS total_students,
        COUNT(*) FILTER (WHERE status = 'active') AS active_students,
        COUNT(*) FILTER (WHERE status = 'delinquent') AS delinquent_students,
        COUNT(*) FILTER (WHERE status = 'withdrawn') AS withdrawn_students,
        COUNT(*) FILTER (WHERE scholarship) AS scholarship_count,
        COUNT(*) FILTER (WHERE has_sibling) AS sibling_count,
        AVG(EXTRACT(YEAR FROM AGE(CURRENT_DATE, birth_date))) AS average_age
        FROM students`

const segmentOccupancyQuery = `SELECT segment_id, segment_name, COUNT(*) AS students, COUNT(DISTINCT class_id) AS classes
        FROM students
        WHERE status <> 'withdrawn'
        GROUP BY segment_id, segment_name
        ORDER BY segment_id`

const genderQuery = `SELECT gender AS label, COUNT(*) AS count FROM students GROUP BY gender ORDER BY count DESC`

const geoQuery = `SELECT city AS label, COUNT(*) AS count FROM students GROUP BY city ORDER BY count DESC LIMIT 10`

const raceQuery = `SELECT race AS label, COUNT(*) AS count FROM students GROUP BY race ORDER BY count DESC`

const incomeQuery = `SELECT family_income_bracket AS label, COUNT(*) AS count FROM students GROUP BY family_income_bracket ORDER BY count DESC`

const ageBandQuery = `SELECT CASE
            WHEN EXTRACT(YEAR FROM AGE(CURRENT_DATE, birth_date)) < 6 THEN '0-5'
            WHEN EXTRACT(YEAR FROM AGE(CURRENT_DATE, birth_date)) < 11 THEN '6-10'
            WHEN EXTRACT(YEAR FROM AGE(CURRENT_DATE, birth_date)) < 15 THEN '11-14'
            WHEN EXTRACT(YEAR FROM AGE(CURRENT_DATE, birth_date)) < 18 THEN '15-17'
            ELSE '18+'
        END AS label, COUNT(*) AS count
        FROM students
        GROUP BY label
        ORDER BY label`

// Summary fans out the clients page aggregates concurrently and joins before
// returning. Each branch holds its own scoped connection.
func (r *ClientsRepository) Summary(ctx context.Context) (*ClientsSummaryData, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data := &ClientsSummaryData{}

	err := runParallel(
		func() error {
			if err := r.db.GetContext(ctx, &data.KPIs, clientsKPIQuery); err != nil {
				return fmt.Errorf("query clients kpis: %w", err)
			}
			return nil
		},
		func() error {
			if err := r.db.SelectContext(ctx, &data.Occupancy, segmentOccupancyQuery); err != nil {
				return fmt.Errorf("query segment occupancy: %w", err)
			}
			return nil
		},
		r.distribution(ctx, genderQuery, "gender distribution", &data.Gender),
		r.distribution(ctx, geoQuery, "geo distribution", &data.Geo),
		r.distribution(ctx, raceQuery, "race distribution", &data.Race),
		r.distribution(ctx, incomeQuery, "income distribution", &data.Income),
		r.distribution(ctx, ageBandQuery, "age distribution", &data.Age),
	)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (r *ClientsRepository) distribution(ctx context.Context, query, label string, dest *[]models.DistributionRow) func() error {
	return func() error {
		if err := r.db.SelectContext(ctx, dest, query); err != nil {
			return fmt.Errorf("query %s: %w", label, err)
		}
		return nil
	}
}
