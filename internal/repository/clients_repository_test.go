package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientsRepositorySummary(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	mock.MatchExpectationsInOrder(false)
	repo := NewClientsRepository(db, 0)

	mock.ExpectQuery(regexp.QuoteMeta(clientsKPIQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"total_students", "active_students", "delinquent_students", "withdrawn_students", "scholarship_count", "sibling_count", "average_age"}).
			AddRow(500, 460, 25, 15, 50, 120, 11.4))
	mock.ExpectQuery(regexp.QuoteMeta(segmentOccupancyQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"segment_id", "segment_name", "students", "classes"}).
			AddRow("medio", "Médio", 160, 5))
	mock.ExpectQuery(regexp.QuoteMeta(genderQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).AddRow("Feminino", 260).AddRow("Masculino", 240))
	mock.ExpectQuery(regexp.QuoteMeta(geoQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).AddRow("São Paulo", 420))
	mock.ExpectQuery(regexp.QuoteMeta(raceQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).AddRow("Parda", 200))
	mock.ExpectQuery(regexp.QuoteMeta(incomeQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).AddRow("2-5 SM", 180))
	mock.ExpectQuery(regexp.QuoteMeta(ageBandQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).AddRow("11-14", 210))

	data, err := repo.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500, data.KPIs.TotalStudents)
	assert.Equal(t, 50, data.KPIs.ScholarshipCount)
	assert.True(t, data.KPIs.AverageAge.Valid)
	require.Len(t, data.Occupancy, 1)
	assert.Equal(t, 5, data.Occupancy[0].Classes)
	assert.Len(t, data.Gender, 2)
	assert.Len(t, data.Geo, 1)
	assert.Len(t, data.Race, 1)
	assert.Len(t, data.Income, 1)
	assert.Len(t, data.Age, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientsRepositorySummaryPropagatesFirstError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	mock.MatchExpectationsInOrder(false)
	repo := NewClientsRepository(db, 0)

	mock.ExpectQuery(regexp.QuoteMeta(clientsKPIQuery)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectQuery(regexp.QuoteMeta(segmentOccupancyQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"segment_id", "segment_name", "students", "classes"}))
	for _, query := range []string{genderQuery, geoQuery, raceQuery, incomeQuery, ageBandQuery} {
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WillReturnRows(sqlmock.NewRows([]string{"label", "count"}))
	}

	data, err := repo.Summary(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)
	assert.Contains(t, err.Error(), "deadlock detected")
}
