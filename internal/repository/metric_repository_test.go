package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/internal/registry"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func metricColumns() []string {
	return []string{"unit_id", "unit_name", "segment_id", "segment_name", "class_id", "class_name", "year", "value"}
}

func TestMetricRepositoryRunBindsWildcardsAsNull(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMetricRepository(db, 0)

	spec, ok := registry.New(40).Lookup("total-students")
	require.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta(spec.Query)).
		WithArgs(nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(metricColumns()).
			AddRow("u1", "Unidade Centro", "medio", "Médio", "3A", "3º Ano A", 2026, 120))

	rows, err := repo.Run(context.Background(), spec, models.MetricFilter{Metric: "total-students", Unit: "Todas", Segment: "All"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "u1|medio|3A||2026", rows[0].ID)
	assert.Equal(t, 120.0, rows[0].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricRepositoryRunScholarshipsByUnit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMetricRepository(db, 0)

	spec, ok := registry.New(40).Lookup("scholarships")
	require.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta(spec.Query)).
		WithArgs("u1", "Médio", nil).
		WillReturnRows(sqlmock.NewRows(metricColumns()).
			AddRow("u1", "Unidade Centro", "medio", "Médio", "3A", "3º Ano A", 2026, 2))

	rows, err := repo.Run(context.Background(), spec, models.MetricFilter{Metric: "scholarships", Unit: "u1", Segment: "Médio"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].Value)
	assert.Equal(t, "Unidade Centro", rows[0].UnitLabel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricRepositoryRunNullAggregateIsZero(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMetricRepository(db, 0)

	spec, ok := registry.New(40).Lookup("siblings-rate")
	require.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta(spec.Query)).
		WithArgs(nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(metricColumns()).
			AddRow("u1", "Unidade Centro", "medio", "Médio", "3A", "3º Ano A", 2026, nil))

	rows, err := repo.Run(context.Background(), spec, models.MetricFilter{Metric: "siblings-rate"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricRepositoryRunEmptyResultIsEmptySlice(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMetricRepository(db, 0)

	spec, ok := registry.New(40).Lookup("total-students")
	require.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta(spec.Query)).
		WithArgs("vazio", nil, nil).
		WillReturnRows(sqlmock.NewRows(metricColumns()))

	rows, err := repo.Run(context.Background(), spec, models.MetricFilter{Metric: "total-students", Unit: "vazio"})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricRepositoryRunQueryError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMetricRepository(db, 0)

	spec, ok := registry.New(40).Lookup("total-students")
	require.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta(spec.Query)).
		WithArgs(nil, nil, nil).
		WillReturnError(errors.New("connection reset"))

	rows, err := repo.Run(context.Background(), spec, models.MetricFilter{Metric: "total-students"})
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.Contains(t, err.Error(), "query metric")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunParallelJoinsAndReportsFirstError(t *testing.T) {
	err := runParallel(
		func() error { return nil },
		func() error { return errors.New("boom") },
		func() error { return nil },
	)
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())

	assert.NoError(t, runParallel(func() error { return nil }))
}
